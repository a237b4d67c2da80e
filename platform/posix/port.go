package posix

import (
	"io"
	"sync"

	"v4hal-go/errcode"
	"v4hal-go/hal"
)

// simPort is the in-memory UART simulation. Transmitted bytes go to the
// sink (console writer on port 0, discard elsewhere) or, in loopback mode,
// into the port's own receive ring.
type simPort struct {
	mu     sync.Mutex
	sink   io.Writer
	loop   bool
	rx     []byte
	cfg    hal.UARTConfig
	closed bool
}

func (p *simPort) Configure(cfg hal.UARTConfig) error {
	p.mu.Lock()
	p.cfg = cfg
	p.closed = false
	p.mu.Unlock()
	return nil
}

func (p *simPort) Close() error {
	p.mu.Lock()
	p.rx = nil
	p.closed = true
	p.mu.Unlock()
	return nil
}

func (p *simPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errcode.NotInit
	}
	if p.loop {
		p.rx = append(p.rx, b...)
		return len(b), nil
	}
	n, err := p.sink.Write(b)
	if err != nil {
		return n, errcode.Wrap(errcode.IO, "uart_write", err)
	}
	return n, nil
}

func (p *simPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errcode.NotInit
	}
	n := copy(b, p.rx)
	p.rx = p.rx[n:]
	return n, nil
}

func (p *simPort) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rx)
}

func (p *simPort) flush() {
	p.mu.Lock()
	p.rx = nil
	p.mu.Unlock()
}
