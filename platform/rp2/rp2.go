//go:build rp2040 || rp2350

// Package rp2 is the embedded backend for Raspberry Pi Pico / Pico 2
// boards. GPIO maps straight onto machine.Pin, UART ports ride on the
// interrupt-driven uartx driver, the console is the USB CDC serial, and
// the critical section masks interrupts.
package rp2

import (
	"machine"
	"runtime/interrupt"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"

	"v4hal-go/errcode"
	"v4hal-go/hal"
)

// GP0..GP28 are the user-accessible pins on the RP2 family.
const pinCount = 29

type Platform struct {
	pins  pinBank
	ports [2]*port
	clock rpClock
	guard irqGuard
	i2c   map[string]drivers.I2C
}

func New() *Platform {
	p := &Platform{}
	p.clock.boot = time.Now()
	p.ports[0] = &port{u: uartx.UART0, tx: machine.UART0_TX_PIN, rx: machine.UART0_RX_PIN}
	p.ports[1] = &port{u: uartx.UART1, tx: machine.UART1_TX_PIN, rx: machine.UART1_RX_PIN}
	return p
}

// Init brings up the board-default I2C buses at 400 kHz. GPIO and UART are
// configured lazily by the respective operations.
func (p *Platform) Init() error {
	p.i2c = make(map[string]drivers.I2C)

	b0 := machine.I2C0
	if err := b0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	}); err != nil {
		return errcode.Wrap(errcode.IO, "platform_init", err)
	}
	p.i2c["i2c0"] = b0

	b1 := machine.I2C1
	if err := b1.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C1_SDA_PIN,
		SCL:       machine.I2C1_SCL_PIN,
	}); err != nil {
		return errcode.Wrap(errcode.IO, "platform_init", err)
	}
	p.i2c["i2c1"] = b1

	return nil
}

// Reset drops the output-configured bookkeeping; hardware pin state is left
// as-is, matching a warm restart.
func (p *Platform) Reset() error {
	p.pins.outMask = 0
	return nil
}

func (p *Platform) Deinit() {
	for _, pt := range p.ports {
		_ = pt.Close()
	}
}

func (p *Platform) Capabilities() hal.Capabilities {
	return hal.Capabilities{
		Pins:  pinCount,
		UARTs: 2,
		I2Cs:  2,
		ADC:   true,
		PWM:   true,
		RTC:   true,
		DMA:   true,
	}
}

func (p *Platform) Pins() hal.PinBank    { return &p.pins }
func (p *Platform) Clock() hal.Clock     { return &p.clock }
func (p *Platform) Console() hal.Console { return serialConsole{} }
func (p *Platform) Guard() hal.Guard     { return &p.guard }

func (p *Platform) Port(n int) hal.Port {
	if n < 0 || n >= len(p.ports) {
		return nil
	}
	return p.ports[n]
}

func (p *Platform) I2CByID(id string) (drivers.I2C, bool) {
	b, ok := p.i2c[id]
	return b, ok
}

var _ hal.Backend = (*Platform)(nil)
var _ hal.I2CProvider = (*Platform)(nil)

// ---------------- GPIO ----------------

// pinBank drives machine.Pin directly. outMask tracks which pins were
// configured as outputs so writes to input pins are rejected, the same
// contract the simulated backend enforces.
type pinBank struct {
	outMask uint32
}

func (b *pinBank) Configure(pin int, mode hal.PinMode) error {
	var m machine.PinMode
	switch mode {
	case hal.Input:
		m = machine.PinInput
	case hal.InputPullup:
		m = machine.PinInputPullup
	case hal.InputPulldown:
		m = machine.PinInputPulldown
	case hal.Output:
		m = machine.PinOutput
	default:
		// No open-drain mode on the RP2 GPIO block.
		return errcode.NotSup
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: m})
	if mode.IsOutput() {
		b.outMask |= 1 << uint(pin)
	} else {
		b.outMask &^= 1 << uint(pin)
	}
	return nil
}

func (b *pinBank) Set(pin int, level hal.Level) error {
	if b.outMask&(1<<uint(pin)) == 0 {
		return errcode.Param
	}
	machine.Pin(pin).Set(level == hal.High)
	return nil
}

func (b *pinBank) Get(pin int) (hal.Level, error) {
	if machine.Pin(pin).Get() {
		return hal.High, nil
	}
	return hal.Low, nil
}

// ---------------- UART ----------------

type port struct {
	u  *uartx.UART
	tx machine.Pin
	rx machine.Pin
}

func (p *port) Configure(cfg hal.UARTConfig) error {
	if err := p.u.Configure(uartx.UARTConfig{
		BaudRate: uint32(cfg.BaudRate),
		TX:       p.tx,
		RX:       p.rx,
	}); err != nil {
		return errcode.Wrap(errcode.IO, "uart_open", err)
	}
	var parity uartx.UARTParity
	switch cfg.Parity {
	case hal.ParityOdd:
		parity = uartx.ParityOdd
	case hal.ParityEven:
		parity = uartx.ParityEven
	default:
		parity = uartx.ParityNone
	}
	if err := p.u.SetFormat(uint8(cfg.DataBits), uint8(cfg.StopBits), parity); err != nil {
		return errcode.Wrap(errcode.Param, "uart_open", err)
	}
	return nil
}

func (p *port) Close() error { return p.u.Close() }

// Write blocks until the uartx TX path accepts every byte.
func (p *port) Write(b []byte) (int, error) {
	n, err := p.u.Write(b)
	return n, errcode.Wrap(errcode.IO, "uart_write", err)
}

// Read drains whatever the receive ring holds, never waiting.
func (p *port) Read(b []byte) (int, error) {
	n, err := p.u.Read(b)
	if err != nil {
		return n, errcode.Wrap(errcode.IO, "uart_read", err)
	}
	return n, nil
}

func (p *port) Buffered() int { return p.u.Buffered() }

// ---------------- clock ----------------

type rpClock struct {
	boot time.Time
}

func (c *rpClock) Millis() uint32 {
	return uint32(time.Since(c.boot) / time.Millisecond)
}

func (c *rpClock) Micros() uint64 {
	return uint64(time.Since(c.boot) / time.Microsecond)
}

func (c *rpClock) DelayMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func (c *rpClock) DelayUs(us uint32) {
	d := time.Duration(us) * time.Microsecond
	if d >= time.Millisecond {
		time.Sleep(d)
		return
	}
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}

// ---------------- console ----------------

// serialConsole is the USB CDC serial. Read polls the receive buffer with a
// short sleep to stay cooperative with the scheduler.
type serialConsole struct{}

func (serialConsole) Write(p []byte) (int, error) {
	n, err := machine.Serial.Write(p)
	return n, errcode.Wrap(errcode.IO, "console_write", err)
}

func (serialConsole) Read(p []byte) (int, error) {
	for {
		if n := machine.Serial.Buffered(); n > 0 {
			if n > len(p) {
				n = len(p)
			}
			for i := 0; i < n; i++ {
				b, err := machine.Serial.ReadByte()
				if err != nil {
					if i > 0 {
						return i, nil
					}
					return 0, errcode.Wrap(errcode.IO, "console_read", err)
				}
				p[i] = b
			}
			return n, nil
		}
		time.Sleep(time.Millisecond)
	}
}

// ---------------- critical section ----------------

// irqGuard masks interrupts. Nested Enter calls are counted; interrupt
// state is restored when the outermost section exits. Single-core use only.
type irqGuard struct {
	state interrupt.State
	depth int
}

func (g *irqGuard) Enter() {
	s := interrupt.Disable()
	if g.depth == 0 {
		g.state = s
	}
	g.depth++
}

func (g *irqGuard) Exit() {
	if g.depth == 0 {
		return
	}
	g.depth--
	if g.depth == 0 {
		interrupt.Restore(g.state)
	}
}
