// Package posix is the simulated backend for hosted builds. GPIO lives in
// two bitmaps inside the backend instance, UART ports are in-memory
// simulations unless bound to a real serial device, the console is the
// process stdio, and the critical section is a plain mutex.
package posix

import (
	"io"
	"os"
	"sync"

	"tinygo.org/x/drivers"

	"v4hal-go/errcode"
	"v4hal-go/hal"
	"v4hal-go/platform/internal/hostio"
	"v4hal-go/x/mathx"
)

const maxPins = 64 // bitmap width

type Platform struct {
	caps hal.Capabilities

	pins pinSim

	portMu   sync.Mutex
	ports    []hal.Port
	devices  map[int]string
	loopback map[int]bool

	clock   *hostio.Clock
	console hostio.Console
	guard   mutexGuard
	i2c     map[string]drivers.I2C
}

// Option adjusts the simulated platform before first use.
type Option func(*Platform)

// WithPins sets the simulated pin count (clamped to the bitmap width).
func WithPins(n int) Option {
	return func(p *Platform) { p.caps.Pins = uint8(mathx.Clamp(n, 0, maxPins)) }
}

// WithUARTs sets the number of simulated UART ports.
func WithUARTs(n int) Option {
	return func(p *Platform) { p.caps.UARTs = uint8(mathx.Clamp(n, 0, 255)) }
}

// WithConsole redirects the console byte streams (default stdin/stdout).
func WithConsole(r io.Reader, w io.Writer) Option {
	return func(p *Platform) { p.console = hostio.Console{R: r, W: w} }
}

// WithSerialDevice binds a port number to a real serial device node.
func WithSerialDevice(port int, device string) Option {
	return func(p *Platform) { p.devices[port] = device }
}

// WithLoopback makes a simulated port feed its own receive ring, so written
// bytes come back on Read.
func WithLoopback(port int) Option {
	return func(p *Platform) { p.loopback[port] = true }
}

// New constructs the simulated platform. Defaults mirror the reference
// port: 32 pins, 4 UARTs, no feature flags, port 0 transmitting to the
// console sink. Two inert I2C buses are exposed for embedding code that
// wants a raw bus on the host.
func New(opts ...Option) *Platform {
	p := &Platform{
		caps:     hal.Capabilities{Pins: 32, UARTs: 4, I2Cs: 2},
		devices:  map[int]string{},
		loopback: map[int]bool{},
		clock:    hostio.NewClock(),
		console:  hostio.Console{R: os.Stdin, W: os.Stdout},
		i2c: map[string]drivers.I2C{
			"i2c0": &HostI2C{},
			"i2c1": &HostI2C{},
		},
	}
	for _, o := range opts {
		o(p)
	}
	p.pins.count = int(p.caps.Pins)
	p.ports = make([]hal.Port, int(p.caps.UARTs))
	return p
}

func (p *Platform) Init() error { return nil }
func (p *Platform) Reset() error {
	p.pins.reset()
	p.portMu.Lock()
	defer p.portMu.Unlock()
	for _, port := range p.ports {
		if sp, ok := port.(*simPort); ok {
			sp.flush()
		}
	}
	return nil
}

func (p *Platform) Deinit() {
	p.portMu.Lock()
	defer p.portMu.Unlock()
	for _, port := range p.ports {
		if port != nil {
			_ = port.Close()
		}
	}
}

func (p *Platform) Capabilities() hal.Capabilities { return p.caps }
func (p *Platform) Pins() hal.PinBank              { return &p.pins }
func (p *Platform) Clock() hal.Clock               { return p.clock }
func (p *Platform) Console() hal.Console           { return p.console }
func (p *Platform) Guard() hal.Guard               { return &p.guard }

// Port lazily builds the port for slot n: a tarm/serial device port when a
// device node was configured, an in-memory simulation otherwise.
func (p *Platform) Port(n int) hal.Port {
	if n < 0 || n >= len(p.ports) {
		return nil
	}
	p.portMu.Lock()
	defer p.portMu.Unlock()
	if p.ports[n] == nil {
		if dev, ok := p.devices[n]; ok {
			p.ports[n] = hostio.NewSerialPort(dev)
		} else {
			sink := io.Writer(io.Discard)
			if n == 0 {
				// Port 0 transmits to the console sink, as in the
				// reference simulation.
				sink = p.console.W
			}
			p.ports[n] = &simPort{sink: sink, loop: p.loopback[n]}
		}
	}
	return p.ports[n]
}

// I2CByID hands out the inert host buses.
func (p *Platform) I2CByID(id string) (drivers.I2C, bool) {
	b, ok := p.i2c[id]
	return b, ok
}

var _ hal.Backend = (*Platform)(nil)
var _ hal.I2CProvider = (*Platform)(nil)

// ---------------- GPIO simulation ----------------

// pinSim keeps pin state in two bitmaps: outMask marks pins configured as
// outputs, levels holds the logic levels.
type pinSim struct {
	mu      sync.Mutex
	count   int
	outMask uint64
	levels  uint64
}

func (b *pinSim) reset() {
	b.mu.Lock()
	b.outMask = 0
	b.levels = 0
	b.mu.Unlock()
}

func (b *pinSim) inRange(pin int) bool { return pin >= 0 && pin < b.count }

func (b *pinSim) Configure(pin int, mode hal.PinMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inRange(pin) {
		return errcode.Param
	}
	if mode.IsOutput() {
		b.outMask |= 1 << uint(pin)
	} else {
		b.outMask &^= 1 << uint(pin)
	}
	return nil
}

func (b *pinSim) Set(pin int, level hal.Level) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inRange(pin) {
		return errcode.Param
	}
	if b.outMask&(1<<uint(pin)) == 0 {
		return errcode.Param // not configured as output
	}
	if level == hal.High {
		b.levels |= 1 << uint(pin)
	} else {
		b.levels &^= 1 << uint(pin)
	}
	return nil
}

func (b *pinSim) Get(pin int) (hal.Level, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inRange(pin) {
		return hal.Low, errcode.Param
	}
	if b.levels&(1<<uint(pin)) != 0 {
		return hal.High, nil
	}
	return hal.Low, nil
}

// ---------------- critical section ----------------

// mutexGuard is the hosted critical section: a process-wide lock,
// non-reentrant by design of sync.Mutex.
type mutexGuard struct {
	mu sync.Mutex
}

func (g *mutexGuard) Enter() { g.mu.Lock() }
func (g *mutexGuard) Exit()  { g.mu.Unlock() }
