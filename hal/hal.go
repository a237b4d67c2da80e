// Package hal is the uniform front end over one platform backend. Every
// operation validates its parameters against the backend's capability
// descriptor, then forwards to the backend; validation failures are
// returned without touching the platform.
package hal

import (
	"sync"

	"v4hal-go/errcode"
)

// HAL dispatches validated operations to a single backend.
//
// GPIO pin state and UART port buffers are process-wide mutable state with
// no locking in this layer; CriticalEnter/CriticalExit is the only
// mutual-exclusion tool offered, and wrapping cross-thread access to a
// shared pin or port is the caller's job.
type HAL struct {
	backend Backend

	mu    sync.Mutex // lifecycle state and UART session table
	ready bool
	uarts []session
}

// New wires a HAL to a backend. A nil backend is replaced by Nop, which
// reports zero capabilities and rejects every operation.
func New(b Backend) *HAL {
	if b == nil {
		b = Nop{}
	}
	return &HAL{backend: b}
}

// Init transitions Uninitialized to Ready via the backend init hook. On
// failure the state is unchanged and the caller may retry. Calling Init on
// a Ready HAL is a no-op.
func (h *HAL) Init() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready {
		return nil
	}
	if err := h.backend.Init(); err != nil {
		return err
	}
	h.ready = true
	return nil
}

// Reset calls the backend reset hook and returns its result unchanged. It
// does not require a new Init.
func (h *HAL) Reset() error {
	return h.backend.Reset()
}

// Deinit tears the HAL down. Open UART sessions are closed, then the
// backend teardown hook runs unconditionally, even if Init was never
// called. Deinit is idempotent and capability discovery stays valid
// afterwards.
func (h *HAL) Deinit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.uarts {
		s := &h.uarts[i]
		if s.open {
			_ = s.port.Close()
			s.open = false
		}
	}
	h.backend.Deinit()
	h.ready = false
}

// Capabilities returns the active backend's descriptor. It always
// succeeds; without a backend the descriptor is all-zero.
func (h *HAL) Capabilities() Capabilities {
	return h.backend.Capabilities()
}

func (h *HAL) pinValid(pin int) bool {
	return pin >= 0 && pin < int(h.backend.Capabilities().Pins)
}

// ---------------- no-op backend ----------------

// Nop is the default backend: all-zero capabilities, every operation
// rejected with NotSup. It stands in wherever the embedding application
// supplies nothing.
type Nop struct{}

func (Nop) Init() error                { return nil }
func (Nop) Reset() error               { return nil }
func (Nop) Deinit()                    {}
func (Nop) Capabilities() Capabilities { return Capabilities{} }
func (Nop) Pins() PinBank              { return nopBank{} }
func (Nop) Port(int) Port              { return nil }
func (Nop) Clock() Clock               { return nopClock{} }
func (Nop) Console() Console           { return nopConsole{} }
func (Nop) Guard() Guard               { return nopGuard{} }

type nopBank struct{}

func (nopBank) Configure(int, PinMode) error { return errcode.NotSup }
func (nopBank) Set(int, Level) error         { return errcode.NotSup }
func (nopBank) Get(int) (Level, error)       { return Low, errcode.NotSup }

type nopClock struct{}

func (nopClock) Millis() uint32 { return 0 }
func (nopClock) Micros() uint64 { return 0 }
func (nopClock) DelayMs(uint32) {}
func (nopClock) DelayUs(uint32) {}

type nopConsole struct{}

func (nopConsole) Write([]byte) (int, error) { return 0, errcode.NotSup }
func (nopConsole) Read([]byte) (int, error)  { return 0, errcode.NotSup }

type nopGuard struct{}

func (nopGuard) Enter() {}
func (nopGuard) Exit()  {}
