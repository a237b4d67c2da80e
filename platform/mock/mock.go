// Package mock is the fully deterministic test backend. Clock values are
// set by the test, delays advance the simulated clock, UART receive bytes
// are injected and transmitted bytes captured, and pin state is directly
// inspectable.
package mock

import (
	"sync"

	"v4hal-go/errcode"
	"v4hal-go/hal"
)

type Platform struct {
	mu sync.Mutex

	caps   hal.Capabilities
	modes  []hal.PinMode
	outSet []bool // pin was explicitly configured as output
	levels []hal.Level

	ports []*port

	millis uint32
	micros uint64

	consoleIn  []byte
	consoleOut []byte

	enters, exits int
	inits, resets int

	initErr  error
	resetErr error
}

// Option adjusts the mock before first use.
type Option func(*Platform)

// WithCapabilities overrides the advertised descriptor.
func WithCapabilities(caps hal.Capabilities) Option {
	return func(p *Platform) { p.caps = caps }
}

// FailInit makes the init hook fail with err until cleared.
func FailInit(err error) Option {
	return func(p *Platform) { p.initErr = err }
}

// FailReset makes the reset hook fail with err.
func FailReset(err error) Option {
	return func(p *Platform) { p.resetErr = err }
}

// New builds a mock with the same resource counts as the simulated
// reference platform: 32 pins and 4 UARTs.
func New(opts ...Option) *Platform {
	p := &Platform{caps: hal.Capabilities{Pins: 32, UARTs: 4}}
	for _, o := range opts {
		o(p)
	}
	p.modes = make([]hal.PinMode, int(p.caps.Pins))
	p.outSet = make([]bool, int(p.caps.Pins))
	p.levels = make([]hal.Level, int(p.caps.Pins))
	p.ports = make([]*port, int(p.caps.UARTs))
	for i := range p.ports {
		p.ports[i] = &port{}
	}
	return p
}

// ---------------- backend contract ----------------

func (p *Platform) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initErr != nil {
		return p.initErr
	}
	p.inits++
	return nil
}

func (p *Platform) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resetErr != nil {
		return p.resetErr
	}
	p.resets++
	for i := range p.modes {
		p.modes[i] = hal.Input
		p.outSet[i] = false
		p.levels[i] = hal.Low
	}
	for _, pt := range p.ports {
		pt.reset()
	}
	return nil
}

func (p *Platform) Deinit() {}

func (p *Platform) Capabilities() hal.Capabilities { return p.caps }
func (p *Platform) Pins() hal.PinBank              { return (*pinBank)(p) }
func (p *Platform) Clock() hal.Clock               { return (*clock)(p) }
func (p *Platform) Console() hal.Console           { return (*console)(p) }
func (p *Platform) Guard() hal.Guard               { return (*guard)(p) }

func (p *Platform) Port(n int) hal.Port {
	if n < 0 || n >= len(p.ports) {
		return nil
	}
	return p.ports[n]
}

var _ hal.Backend = (*Platform)(nil)

// ---------------- GPIO ----------------

type pinBank Platform

func (b *pinBank) Configure(pin int, mode hal.PinMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modes[pin] = mode
	b.outSet[pin] = mode.IsOutput()
	return nil
}

func (b *pinBank) Set(pin int, level hal.Level) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.outSet[pin] {
		return errcode.Param
	}
	b.levels[pin] = level
	return nil
}

func (b *pinBank) Get(pin int) (hal.Level, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levels[pin], nil
}

// ---------------- clock ----------------

type clock Platform

func (c *clock) Millis() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.millis
}

func (c *clock) Micros() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.micros
}

// DelayMs advances the simulated clock instead of sleeping.
func (c *clock) DelayMs(ms uint32) {
	c.mu.Lock()
	c.millis += ms
	c.micros += uint64(ms) * 1000
	c.mu.Unlock()
}

func (c *clock) DelayUs(us uint32) {
	c.mu.Lock()
	c.micros += uint64(us)
	c.millis += us / 1000
	c.mu.Unlock()
}

// ---------------- console ----------------

type console Platform

func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	c.consoleOut = append(c.consoleOut, p...)
	c.mu.Unlock()
	return len(p), nil
}

// Read consumes the scripted input. The real contract blocks until a byte
// arrives; blocking is useless in a deterministic test, so an exhausted
// script reports Timeout instead.
func (c *console) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.consoleIn) == 0 {
		return 0, errcode.Timeout
	}
	n := copy(p, c.consoleIn)
	c.consoleIn = c.consoleIn[n:]
	return n, nil
}

// ---------------- critical section ----------------

type guard Platform

func (g *guard) Enter() {
	g.mu.Lock()
	g.enters++
	g.mu.Unlock()
}

func (g *guard) Exit() {
	g.mu.Lock()
	g.exits++
	g.mu.Unlock()
}

// ---------------- UART port ----------------

type port struct {
	mu     sync.Mutex
	cfg    hal.UARTConfig
	opens  int
	rx     []byte
	tx     []byte
	closed bool
}

func (pt *port) Configure(cfg hal.UARTConfig) error {
	pt.mu.Lock()
	pt.cfg = cfg
	pt.opens++
	pt.closed = false
	pt.mu.Unlock()
	return nil
}

func (pt *port) Close() error {
	pt.mu.Lock()
	pt.closed = true
	pt.rx = nil
	pt.mu.Unlock()
	return nil
}

func (pt *port) Write(p []byte) (int, error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if pt.closed {
		return 0, errcode.NotInit
	}
	pt.tx = append(pt.tx, p...)
	return len(p), nil
}

func (pt *port) Read(p []byte) (int, error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if pt.closed {
		return 0, errcode.NotInit
	}
	n := copy(p, pt.rx)
	pt.rx = pt.rx[n:]
	return n, nil
}

func (pt *port) Buffered() int {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return len(pt.rx)
}

func (pt *port) reset() {
	pt.mu.Lock()
	pt.rx = nil
	pt.tx = nil
	pt.mu.Unlock()
}
