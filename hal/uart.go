package hal

import "v4hal-go/errcode"

// Handle is an opaque token for an open UART session. It encodes a slot
// index and a generation counter into a bounded session table; callers must
// not rely on the encoding. The zero Handle is invalid.
type Handle struct {
	ref uint32
}

// IsZero reports whether the handle is the invalid zero value.
func (hd Handle) IsZero() bool { return hd.ref == 0 }

func makeHandle(slot int, gen uint32) Handle {
	return Handle{ref: gen<<8 | uint32(slot+1)}
}

func (hd Handle) slot() int   { return int(hd.ref&0xff) - 1 }
func (hd Handle) gen() uint32 { return hd.ref >> 8 }

// session tracks the single open configuration per port. The generation
// counter bumps on every open of a closed slot, so a handle that survived a
// close/reopen cycle is stale and rejected.
type session struct {
	port Port
	cfg  UARTConfig
	gen  uint32
	open bool
}

func (h *HAL) ensureSessions() {
	if h.uarts == nil {
		h.uarts = make([]session, int(h.backend.Capabilities().UARTs))
	}
}

// UARTOpen configures a port and returns a handle for it. Opening a port
// that is already open applies the new configuration and returns the
// existing session's handle; the old handle stays valid.
func (h *HAL) UARTOpen(port int, cfg UARTConfig) (Handle, error) {
	if port < 0 || port >= int(h.backend.Capabilities().UARTs) {
		return Handle{}, errcode.Param
	}
	if err := cfg.validate(); err != nil {
		return Handle{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.ensureSessions()

	s := &h.uarts[port]
	if s.open {
		// Re-open reconfigures rather than silently keeping the old
		// line settings.
		if err := s.port.Configure(cfg); err != nil {
			return Handle{}, err
		}
		s.cfg = cfg
		return makeHandle(port, s.gen), nil
	}

	p := h.backend.Port(port)
	if p == nil {
		return Handle{}, errcode.NoDevice
	}
	if err := p.Configure(cfg); err != nil {
		return Handle{}, err
	}
	s.port = p
	s.cfg = cfg
	s.gen++
	s.open = true
	return makeHandle(port, s.gen), nil
}

// UARTClose releases the port bound to the handle. Closing an
// already-closed handle of the current generation is a success; a stale or
// foreign handle is rejected.
func (h *HAL) UARTClose(hd Handle) error {
	if hd.IsZero() {
		return errcode.Param
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	slot := hd.slot()
	if slot < 0 || slot >= len(h.uarts) {
		return errcode.Param
	}
	s := &h.uarts[slot]
	if hd.gen() != s.gen {
		return errcode.Param
	}
	if !s.open {
		return nil // idempotent
	}
	err := s.port.Close()
	s.open = false
	return err
}

// UARTWrite blocks until all len(p) bytes are accepted by the transmit
// path and returns the count written. It never reports a short count
// without also returning an error.
func (h *HAL) UARTWrite(hd Handle, p []byte) (int, error) {
	if p == nil {
		return 0, errcode.Param
	}
	port, err := h.livePort(hd)
	if err != nil {
		return 0, err
	}
	return port.Write(p)
}

// UARTRead returns immediately with between 0 and len(p) bytes currently
// queued on the port. It never waits for more data.
func (h *HAL) UARTRead(hd Handle, p []byte) (int, error) {
	if p == nil {
		return 0, errcode.Param
	}
	port, err := h.livePort(hd)
	if err != nil {
		return 0, err
	}
	return port.Read(p)
}

// UARTAvailable reports the number of bytes queued for UARTRead.
func (h *HAL) UARTAvailable(hd Handle) (int, error) {
	port, err := h.livePort(hd)
	if err != nil {
		return 0, err
	}
	return port.Buffered(), nil
}

// livePort resolves a handle to its open port. The table lock is released
// before the caller performs any blocking I/O on the port.
func (h *HAL) livePort(hd Handle) (Port, error) {
	if hd.IsZero() {
		return nil, errcode.Param
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	slot := hd.slot()
	if slot < 0 || slot >= len(h.uarts) {
		return nil, errcode.Param
	}
	s := &h.uarts[slot]
	if !s.open || hd.gen() != s.gen {
		return nil, errcode.Param
	}
	return s.port, nil
}
