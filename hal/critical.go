package hal

// CriticalEnter begins a mutually-exclusive region: interrupts are masked
// on single-core interrupt-driven targets, a process-wide lock is taken
// under a general-purpose OS. Calls must pair strictly with CriticalExit.
// Nesting behaviour is backend-defined; do not assume reentrancy. No
// fairness or ordering is guaranteed; keep sections short.
func (h *HAL) CriticalEnter() { h.backend.Guard().Enter() }

// CriticalExit ends the region opened by the matching CriticalEnter.
func (h *HAL) CriticalExit() { h.backend.Guard().Exit() }
