package hal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"v4hal-go/errcode"
	"v4hal-go/hal"
	"v4hal-go/platform/mock"
)

func TestInitFailurePropagatesAndIsRetryable(t *testing.T) {
	m := mock.New(mock.FailInit(errcode.IO))
	h := hal.New(m)

	err := h.Init()
	assert.Equal(t, errcode.IO, errcode.Of(err))
	assert.Equal(t, 0, m.Inits(), "failed init must not run to completion")

	m.ClearInitFailure()
	require.NoError(t, h.Init())
	assert.Equal(t, 1, m.Inits())

	// Ready state makes further Init calls no-ops.
	require.NoError(t, h.Init())
	assert.Equal(t, 1, m.Inits())
}

func TestResetPropagatesBackendResult(t *testing.T) {
	h, _ := newHAL(t)
	assert.NoError(t, h.Reset())

	m := mock.New(mock.FailReset(errcode.Busy))
	h2 := hal.New(m)
	require.NoError(t, h2.Init())
	assert.Equal(t, errcode.Busy, errcode.Of(h2.Reset()))
}

func TestDeinitIdempotentAndKeepsCapabilities(t *testing.T) {
	h, _ := newHAL(t)
	caps := h.Capabilities()

	h.Deinit()
	h.Deinit()

	assert.Equal(t, caps, h.Capabilities())
}

func TestDeinitWithoutInitStillRunsTeardown(t *testing.T) {
	m := mock.New()
	h := hal.New(m)
	h.Deinit() // must not panic, teardown hook runs unconditionally
}

func TestDeinitClosesOpenUARTSessions(t *testing.T) {
	h, _ := newHAL(t)
	hd, err := h.UARTOpen(0, cfg9600)
	require.NoError(t, err)

	h.Deinit()

	_, err = h.UARTWrite(hd, []byte("x"))
	assert.Equal(t, errcode.Param, errcode.Of(err))
}

func TestCriticalSectionPairs(t *testing.T) {
	h, m := newHAL(t)

	h.CriticalEnter()
	h.CriticalExit()
	h.CriticalEnter()
	h.CriticalExit()

	enters, exits := m.GuardBalance()
	assert.Equal(t, 2, enters)
	assert.Equal(t, exits, enters)
}

func TestNopBackendDefaults(t *testing.T) {
	h := hal.New(nil)
	require.NoError(t, h.Init())

	assert.Equal(t, hal.Capabilities{}, h.Capabilities())

	// Zero pin count: every pin index is out of range.
	assert.Equal(t, errcode.Param, errcode.Of(h.PinMode(0, hal.Output)))
	_, err := h.UARTOpen(0, cfg9600)
	assert.Equal(t, errcode.Param, errcode.Of(err))

	_, err = h.ConsoleWrite([]byte("x"))
	assert.Equal(t, errcode.NotSup, errcode.Of(err))

	assert.Equal(t, uint32(0), h.Millis())
	h.CriticalEnter()
	h.CriticalExit()
	h.Deinit()
}

func TestCapabilitiesDescriptorIsStable(t *testing.T) {
	want := hal.Capabilities{Pins: 16, UARTs: 2, ADC: true, PWM: true}
	m := mock.New(mock.WithCapabilities(want))
	h := hal.New(m)
	require.NoError(t, h.Init())

	assert.Equal(t, want, h.Capabilities())
	h.Deinit()
	assert.Equal(t, want, h.Capabilities(), "capability discovery survives deinit")
}
