package mock

import (
	"bytes"
	"testing"

	"v4hal-go/errcode"
	"v4hal-go/hal"
)

func TestClockHooksDriveDelays(t *testing.T) {
	p := New()
	p.SetMillis(1000)
	p.SetMicros(1_000_000)

	c := p.Clock()
	c.DelayMs(250)
	if got := c.Millis(); got != 1250 {
		t.Fatalf("millis: want 1250, got %d", got)
	}
	if got := c.Micros(); got != 1_250_000 {
		t.Fatalf("micros: want 1250000, got %d", got)
	}

	c.DelayUs(500)
	if got := c.Micros(); got != 1_250_500 {
		t.Fatalf("micros after us delay: got %d", got)
	}
}

func TestPortInjectionAndCapture(t *testing.T) {
	p := New()
	pt := p.Port(2)
	if err := pt.Configure(hal.UARTConfig{BaudRate: 9600, DataBits: 8, StopBits: 1}); err != nil {
		t.Fatal(err)
	}

	p.InjectRX(2, []byte("abc"))
	if pt.Buffered() != 3 {
		t.Fatalf("buffered: want 3, got %d", pt.Buffered())
	}
	buf := make([]byte, 8)
	n, err := pt.Read(buf)
	if err != nil || string(buf[:n]) != "abc" {
		t.Fatalf("read: n=%d err=%v", n, err)
	}

	if _, err := pt.Write([]byte("xyz")); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p.TX(2), []byte("xyz")) {
		t.Fatalf("tx capture: %q", p.TX(2))
	}
	if p.Opens(2) != 1 {
		t.Fatalf("opens: want 1, got %d", p.Opens(2))
	}
}

func TestClosedPortReportsNotInit(t *testing.T) {
	p := New()
	pt := p.Port(0)
	_ = pt.Configure(hal.UARTConfig{BaudRate: 9600, DataBits: 8, StopBits: 1})
	_ = pt.Close()

	if _, err := pt.Write([]byte("x")); errcode.Of(err) != errcode.NotInit {
		t.Fatalf("write on closed port: %v", err)
	}
	if _, err := pt.Read(make([]byte, 1)); errcode.Of(err) != errcode.NotInit {
		t.Fatalf("read on closed port: %v", err)
	}
}

func TestExternalPinDrive(t *testing.T) {
	p := New()
	bank := p.Pins()
	_ = bank.Configure(7, hal.InputPullup)

	p.SetLevel(7, true)
	if lvl, _ := bank.Get(7); lvl != hal.High {
		t.Fatal("externally driven pin must read HIGH")
	}
	if p.IsOutput(7) {
		t.Fatal("input pin flagged as output")
	}
	if err := bank.Set(7, hal.Low); errcode.Of(err) != errcode.Param {
		t.Fatalf("writing an input pin: %v", err)
	}
}

func TestConsoleScriptExhaustionTimesOut(t *testing.T) {
	p := New()
	p.ScriptConsole([]byte("ok"))

	c := p.Console()
	buf := make([]byte, 8)
	n, err := c.Read(buf)
	if err != nil || string(buf[:n]) != "ok" {
		t.Fatalf("scripted read: n=%d err=%v", n, err)
	}
	if _, err := c.Read(buf); errcode.Of(err) != errcode.Timeout {
		t.Fatalf("exhausted script: want Timeout, got %v", err)
	}
}

func TestResetRestoresPinAndPortState(t *testing.T) {
	p := New()
	bank := p.Pins()
	_ = bank.Configure(3, hal.Output)
	_ = bank.Set(3, hal.High)
	p.InjectRX(1, []byte("stale"))

	if err := p.Reset(); err != nil {
		t.Fatal(err)
	}
	if p.IsOutput(3) || p.LevelOf(3) != hal.Low {
		t.Fatal("reset must return pins to inputs at LOW")
	}
	if p.Port(1).Buffered() != 0 {
		t.Fatal("reset must drop queued receive bytes")
	}
}
