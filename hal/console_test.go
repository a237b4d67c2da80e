package hal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"v4hal-go/errcode"
)

func TestConsoleWriteFull(t *testing.T) {
	h, m := newHAL(t)

	n, err := h.ConsoleWrite([]byte("boot ok\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []byte("boot ok\n"), m.ConsoleOut())
}

func TestConsoleReadReturnsAtLeastOneByte(t *testing.T) {
	h, m := newHAL(t)
	m.ScriptConsole([]byte("y"))

	buf := make([]byte, 16)
	n, err := h.ConsoleRead(buf)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, 1)
	assert.Equal(t, byte('y'), buf[0])
}

func TestConsoleArgValidation(t *testing.T) {
	h, _ := newHAL(t)

	_, err := h.ConsoleWrite(nil)
	assert.Equal(t, errcode.Param, errcode.Of(err))
	_, err = h.ConsoleRead(nil)
	assert.Equal(t, errcode.Param, errcode.Of(err))
	_, err = h.ConsoleRead([]byte{})
	assert.Equal(t, errcode.Param, errcode.Of(err))
}
