package posix

import (
	"bytes"
	"strings"
	"testing"

	"v4hal-go/errcode"
	"v4hal-go/hal"
)

func TestGPIOSimRoundTrip(t *testing.T) {
	p := New()
	bank := p.Pins()

	if err := bank.Configure(13, hal.Output); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := bank.Set(13, hal.High); err != nil {
		t.Fatalf("set: %v", err)
	}
	if lvl, _ := bank.Get(13); lvl != hal.High {
		t.Fatalf("want HIGH, got %v", lvl)
	}
	if err := bank.Set(13, hal.Low); err != nil {
		t.Fatalf("set low: %v", err)
	}
	if lvl, _ := bank.Get(13); lvl != hal.Low {
		t.Fatalf("want LOW, got %v", lvl)
	}
}

func TestGPIOSimRejectsWriteToInput(t *testing.T) {
	p := New()
	bank := p.Pins()

	if err := bank.Set(2, hal.High); errcode.Of(err) != errcode.Param {
		t.Fatalf("unconfigured pin write: want Param, got %v", err)
	}
	_ = bank.Configure(2, hal.InputPulldown)
	if err := bank.Set(2, hal.High); errcode.Of(err) != errcode.Param {
		t.Fatalf("input pin write: want Param, got %v", err)
	}
	// Demoting an output back to input revokes write permission.
	_ = bank.Configure(2, hal.Output)
	if err := bank.Set(2, hal.High); err != nil {
		t.Fatalf("output write: %v", err)
	}
	_ = bank.Configure(2, hal.Input)
	if err := bank.Set(2, hal.Low); errcode.Of(err) != errcode.Param {
		t.Fatalf("demoted pin write: want Param, got %v", err)
	}
}

func TestGPIOSimGuardsPinRange(t *testing.T) {
	p := New(WithPins(8))
	bank := p.Pins()

	for _, pin := range []int{8, 63, -1} {
		if err := bank.Configure(pin, hal.Output); errcode.Of(err) != errcode.Param {
			t.Fatalf("configure pin %d: want Param, got %v", pin, err)
		}
		if err := bank.Set(pin, hal.High); errcode.Of(err) != errcode.Param {
			t.Fatalf("set pin %d: want Param, got %v", pin, err)
		}
		if _, err := bank.Get(pin); errcode.Of(err) != errcode.Param {
			t.Fatalf("get pin %d: want Param, got %v", pin, err)
		}
	}
	if err := bank.Configure(7, hal.Output); err != nil {
		t.Fatalf("last valid pin: %v", err)
	}
}

func TestResetClearsPinState(t *testing.T) {
	p := New()
	bank := p.Pins()
	_ = bank.Configure(1, hal.Output)
	_ = bank.Set(1, hal.High)

	if err := p.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if lvl, _ := bank.Get(1); lvl != hal.Low {
		t.Fatal("reset must clear pin levels")
	}
	if err := bank.Set(1, hal.High); errcode.Of(err) != errcode.Param {
		t.Fatal("reset must clear output configuration")
	}
}

func TestPortZeroTransmitsToConsoleSink(t *testing.T) {
	var out bytes.Buffer
	p := New(WithConsole(strings.NewReader(""), &out))
	h := hal.New(p)
	if err := h.Init(); err != nil {
		t.Fatal(err)
	}

	hd, err := h.UARTOpen(0, hal.UARTConfig{BaudRate: 9600, DataBits: 8, StopBits: 1})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if n, err := h.UARTWrite(hd, []byte("Test")); err != nil || n != 4 {
		t.Fatalf("write: n=%d err=%v", n, err)
	}
	if out.String() != "Test" {
		t.Fatalf("console sink saw %q", out.String())
	}
	if err := h.UARTClose(hd); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestLoopbackPortEchoesWrites(t *testing.T) {
	p := New(WithLoopback(1))
	h := hal.New(p)
	if err := h.Init(); err != nil {
		t.Fatal(err)
	}

	hd, err := h.UARTOpen(1, hal.UARTConfig{BaudRate: 115200, DataBits: 8, StopBits: 1})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := h.UARTWrite(hd, []byte("Hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if avail, _ := h.UARTAvailable(hd); avail != 5 {
		t.Fatalf("available: want 5, got %d", avail)
	}
	buf := make([]byte, 5)
	n, err := h.UARTRead(hd, buf)
	if err != nil || n != 5 || string(buf[:n]) != "Hello" {
		t.Fatalf("read: n=%d err=%v buf=%q", n, err, buf[:n])
	}
	if avail, _ := h.UARTAvailable(hd); avail != 0 {
		t.Fatalf("available after drain: want 0, got %d", avail)
	}
}

func TestConsoleRoundTrip(t *testing.T) {
	var out bytes.Buffer
	p := New(WithConsole(strings.NewReader("input line\n"), &out))
	h := hal.New(p)
	if err := h.Init(); err != nil {
		t.Fatal(err)
	}

	if n, err := h.ConsoleWrite([]byte("hi\n")); err != nil || n != 3 {
		t.Fatalf("console write: n=%d err=%v", n, err)
	}
	if out.String() != "hi\n" {
		t.Fatalf("console out %q", out.String())
	}

	buf := make([]byte, 32)
	n, err := h.ConsoleRead(buf)
	if err != nil || n < 1 {
		t.Fatalf("console read: n=%d err=%v", n, err)
	}
	if string(buf[:n]) != "input line\n"[:n] {
		t.Fatalf("console read %q", buf[:n])
	}
}

func TestClockMonotonicAcrossDelay(t *testing.T) {
	p := New()
	c := p.Clock()

	first := c.Millis()
	c.DelayMs(5)
	second := c.Millis()
	if second-first < 5 {
		t.Fatalf("elapsed %d ms, want >= 5", second-first)
	}

	us1 := c.Micros()
	c.DelayUs(200) // sub-millisecond path busy-waits
	us2 := c.Micros()
	if us2-us1 < 200 {
		t.Fatalf("elapsed %d us, want >= 200", us2-us1)
	}
}

func TestGuardPairs(t *testing.T) {
	p := New()
	g := p.Guard()
	done := make(chan struct{})

	g.Enter()
	go func() {
		g.Enter() // blocks until the first section exits
		g.Exit()
		close(done)
	}()
	g.Exit()
	<-done
}

func TestHostI2CRecordsTraffic(t *testing.T) {
	p := New()
	bus, ok := p.I2CByID("i2c0")
	if !ok {
		t.Fatal("i2c0 missing")
	}
	if err := bus.Tx(0x38, []byte{0xAC}, make([]byte, 2)); err != nil {
		t.Fatalf("tx: %v", err)
	}
	hb := bus.(*HostI2C)
	if hb.LastTx.Addr != 0x38 || hb.LastTx.Rn != 2 {
		t.Fatalf("unexpected record: %+v", hb.LastTx)
	}
}

func TestCapabilitiesMatchReferencePort(t *testing.T) {
	caps := New().Capabilities()
	if caps.Pins != 32 || caps.UARTs != 4 {
		t.Fatalf("unexpected descriptor: %+v", caps)
	}
	if caps.ADC || caps.DAC || caps.PWM || caps.RTC || caps.DMA {
		t.Fatal("simulated port advertises no peripheral features")
	}
}
