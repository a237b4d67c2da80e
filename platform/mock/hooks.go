package mock

import "v4hal-go/hal"

// Inspection and control hooks, mirroring the reference mock HAL: set the
// clock, inject receive bytes, read transmitted bytes, read pin state.

// SetMillis sets the simulated millisecond counter.
func (p *Platform) SetMillis(ms uint32) {
	p.mu.Lock()
	p.millis = ms
	p.mu.Unlock()
}

// SetMicros sets the simulated microsecond counter.
func (p *Platform) SetMicros(us uint64) {
	p.mu.Lock()
	p.micros = us
	p.mu.Unlock()
}

// InjectRX queues bytes on a port's receive path.
func (p *Platform) InjectRX(portN int, data []byte) {
	if portN < 0 || portN >= len(p.ports) {
		return
	}
	pt := p.ports[portN]
	pt.mu.Lock()
	pt.rx = append(pt.rx, data...)
	pt.mu.Unlock()
}

// TX returns a copy of everything transmitted on a port so far.
func (p *Platform) TX(portN int) []byte {
	if portN < 0 || portN >= len(p.ports) {
		return nil
	}
	pt := p.ports[portN]
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return append([]byte(nil), pt.tx...)
}

// Opens reports how many times a port was configured.
func (p *Platform) Opens(portN int) int {
	pt := p.ports[portN]
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.opens
}

// Config returns the line settings last applied to a port.
func (p *Platform) Config(portN int) hal.UARTConfig {
	pt := p.ports[portN]
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.cfg
}

// LevelOf returns the simulated logic level of a pin.
func (p *Platform) LevelOf(pin int) hal.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.levels[pin]
}

// SetLevel drives a pin from "outside" regardless of mode, like an
// external signal on an input pin.
func (p *Platform) SetLevel(pin int, high bool) {
	p.mu.Lock()
	if high {
		p.levels[pin] = 1
	} else {
		p.levels[pin] = 0
	}
	p.mu.Unlock()
}

// IsOutput reports whether the pin was configured as an output.
func (p *Platform) IsOutput(pin int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outSet[pin]
}

// ScriptConsole queues bytes for ConsoleRead.
func (p *Platform) ScriptConsole(data []byte) {
	p.mu.Lock()
	p.consoleIn = append(p.consoleIn, data...)
	p.mu.Unlock()
}

// ConsoleOut returns everything written to the console so far.
func (p *Platform) ConsoleOut() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.consoleOut...)
}

// GuardBalance returns enter and exit counts for pairing assertions.
func (p *Platform) GuardBalance() (enters, exits int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enters, p.exits
}

// Inits reports how many times the init hook ran successfully.
func (p *Platform) Inits() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inits
}

// ClearInitFailure removes an injected init failure so a retry succeeds.
func (p *Platform) ClearInitFailure() {
	p.mu.Lock()
	p.initErr = nil
	p.mu.Unlock()
}
