//go:build linux && !tinygo

// Package periph is the Linux single-board backend (Raspberry Pi class).
// GPIO goes through periph.io's chardev/memory-mapped pin registry, UART
// ports are real serial device nodes, and the hosted clock, stdio console
// and mutex critical section are shared with the simulated backend.
package periph

import (
	"fmt"
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"v4hal-go/errcode"
	"v4hal-go/hal"
	"v4hal-go/platform/internal/hostio"
)

// BCM GPIO0..GPIO27 on the 40-pin header.
const pinCount = 28

type Platform struct {
	devices map[int]string

	portMu sync.Mutex
	ports  map[int]hal.Port

	pins pinBank

	clock   *hostio.Clock
	console hostio.Console
	guard   mutexGuard
}

// Option adjusts the platform before Init.
type Option func(*Platform)

// WithSerialDevice binds a UART port number to a serial device node such
// as /dev/ttyAMA0. Negative port numbers are ignored.
func WithSerialDevice(port int, device string) Option {
	return func(p *Platform) {
		if port < 0 {
			return
		}
		p.devices[port] = device
	}
}

// WithConsole redirects the console streams (default stdin/stdout).
func WithConsole(c hostio.Console) Option {
	return func(p *Platform) { p.console = c }
}

func New(opts ...Option) *Platform {
	p := &Platform{
		devices: map[int]string{},
		ports:   map[int]hal.Port{},
		clock:   hostio.NewClock(),
		console: hostio.Console{R: os.Stdin, W: os.Stdout},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Init loads the periph host drivers. Safe to call again after a failure.
func (p *Platform) Init() error {
	if _, err := host.Init(); err != nil {
		return errcode.Wrap(errcode.IO, "platform_init",
			pkgerrors.Wrap(err, "periph host init"))
	}
	return nil
}

func (p *Platform) Reset() error {
	p.pins.reset()
	return nil
}

func (p *Platform) Deinit() {
	p.portMu.Lock()
	defer p.portMu.Unlock()
	for _, port := range p.ports {
		_ = port.Close()
	}
}

func (p *Platform) Capabilities() hal.Capabilities {
	// Port numbers are caller-chosen, so the count must cover the highest
	// bound port, not the number of bindings. Unbound slots below it
	// resolve to nil in Port and fail open with NoDevice.
	ports := 0
	for n := range p.devices {
		if n+1 > ports {
			ports = n + 1
		}
	}
	return hal.Capabilities{
		Pins:  pinCount,
		UARTs: uint8(ports),
		PWM:   true,
	}
}

func (p *Platform) Pins() hal.PinBank    { return &p.pins }
func (p *Platform) Clock() hal.Clock     { return p.clock }
func (p *Platform) Console() hal.Console { return p.console }
func (p *Platform) Guard() hal.Guard     { return &p.guard }

func (p *Platform) Port(n int) hal.Port {
	dev, ok := p.devices[n]
	if !ok {
		return nil
	}
	p.portMu.Lock()
	defer p.portMu.Unlock()
	if p.ports[n] == nil {
		p.ports[n] = hostio.NewSerialPort(dev)
	}
	return p.ports[n]
}

var _ hal.Backend = (*Platform)(nil)

// ---------------- GPIO ----------------

// pinBank resolves pins by BCM name on first use and remembers which ones
// are driven as outputs.
type pinBank struct {
	mu      sync.Mutex
	byPin   map[int]gpio.PinIO
	outMask uint32
}

func (b *pinBank) reset() {
	b.mu.Lock()
	b.outMask = 0
	b.mu.Unlock()
}

func (b *pinBank) lookup(pin int) (gpio.PinIO, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.byPin == nil {
		b.byPin = map[int]gpio.PinIO{}
	}
	if p, ok := b.byPin[pin]; ok {
		return p, nil
	}
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
	if p == nil {
		return nil, errcode.NoDevice
	}
	b.byPin[pin] = p
	return p, nil
}

func (b *pinBank) Configure(pin int, mode hal.PinMode) error {
	p, err := b.lookup(pin)
	if err != nil {
		return err
	}
	switch mode {
	case hal.Input:
		err = p.In(gpio.Float, gpio.NoEdge)
	case hal.InputPullup:
		err = p.In(gpio.PullUp, gpio.NoEdge)
	case hal.InputPulldown:
		err = p.In(gpio.PullDown, gpio.NoEdge)
	case hal.Output:
		err = p.Out(gpio.Low)
	default:
		// The header pins have no open-drain mode.
		return errcode.NotSup
	}
	if err != nil {
		return errcode.Wrap(errcode.IO, "gpio_mode", err)
	}
	b.mu.Lock()
	if mode.IsOutput() {
		b.outMask |= 1 << uint(pin)
	} else {
		b.outMask &^= 1 << uint(pin)
	}
	b.mu.Unlock()
	return nil
}

func (b *pinBank) Set(pin int, level hal.Level) error {
	b.mu.Lock()
	isOut := b.outMask&(1<<uint(pin)) != 0
	b.mu.Unlock()
	if !isOut {
		return errcode.Param
	}
	p, err := b.lookup(pin)
	if err != nil {
		return err
	}
	return errcode.Wrap(errcode.IO, "gpio_write", p.Out(gpio.Level(level == hal.High)))
}

func (b *pinBank) Get(pin int) (hal.Level, error) {
	p, err := b.lookup(pin)
	if err != nil {
		return hal.Low, err
	}
	if p.Read() == gpio.High {
		return hal.High, nil
	}
	return hal.Low, nil
}

// ---------------- critical section ----------------

type mutexGuard struct {
	mu sync.Mutex
}

func (g *mutexGuard) Enter() { g.mu.Lock() }
func (g *mutexGuard) Exit()  { g.mu.Unlock() }
