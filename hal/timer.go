package hal

// Millis returns milliseconds since the backend's epoch as a 32-bit count.
// It wraps modulo 2^32 (about 49.7 days); use ElapsedMs for differences.
func (h *HAL) Millis() uint32 { return h.backend.Clock().Millis() }

// Micros returns microseconds since the backend's epoch. The 64-bit count
// is treated as non-wrapping for practical runtimes.
func (h *HAL) Micros() uint64 { return h.backend.Clock().Micros() }

// DelayMs blocks the caller for at least ms milliseconds.
func (h *HAL) DelayMs(ms uint32) { h.backend.Clock().DelayMs(ms) }

// DelayUs blocks the caller for at least us microseconds. Backends may
// busy-wait for sub-millisecond durations; the caller never resumes early.
func (h *HAL) DelayUs(us uint32) { h.backend.Clock().DelayUs(us) }

// ElapsedMs returns now-start across the 2^32 wrap boundary. Unsigned
// subtraction is exact as long as the real elapsed time is under one wrap
// period.
func ElapsedMs(start, now uint32) uint32 {
	return now - start
}
