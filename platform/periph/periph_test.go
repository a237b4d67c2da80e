//go:build linux && !tinygo

package periph

import (
	"testing"

	"v4hal-go/errcode"
	"v4hal-go/hal"
)

func TestCapabilitiesCoverHighestBoundPort(t *testing.T) {
	p := New(WithSerialDevice(2, "/dev/ttyNOSUCH0"))
	if got := p.Capabilities().UARTs; got != 3 {
		t.Fatalf("uarts: want 3, got %d", got)
	}

	// Sparse bindings: the count spans the gap, the unbound slot stays nil.
	p = New(WithSerialDevice(0, "/dev/ttyNOSUCH0"), WithSerialDevice(2, "/dev/ttyNOSUCH1"))
	if got := p.Capabilities().UARTs; got != 3 {
		t.Fatalf("sparse uarts: want 3, got %d", got)
	}
	if p.Port(1) != nil {
		t.Fatal("unbound port 1 must resolve to nil")
	}

	if New().Capabilities().UARTs != 0 {
		t.Fatal("no bindings, no ports")
	}
	if New(WithSerialDevice(-1, "/dev/ttyNOSUCH0")).Capabilities().UARTs != 0 {
		t.Fatal("negative port numbers must be ignored")
	}
}

func TestBoundPortReachesDeviceOpen(t *testing.T) {
	p := New(WithSerialDevice(2, "/dev/ttyNOSUCH0"))
	h := hal.New(p)

	cfg := hal.UARTConfig{BaudRate: 9600, DataBits: 8, StopBits: 1}

	// The only bound port must pass validation and fail at the device,
	// not at the bounds check.
	_, err := h.UARTOpen(2, cfg)
	if errcode.Of(err) != errcode.NoDevice {
		t.Fatalf("bound port: want NoDevice, got %v", err)
	}

	// An unbound slot below the highest binding fails the same way.
	_, err = h.UARTOpen(1, cfg)
	if errcode.Of(err) != errcode.NoDevice {
		t.Fatalf("unbound port: want NoDevice, got %v", err)
	}

	// Beyond the advertised count is still a validation failure.
	_, err = h.UARTOpen(3, cfg)
	if errcode.Of(err) != errcode.Param {
		t.Fatalf("out-of-range port: want Param, got %v", err)
	}
}
