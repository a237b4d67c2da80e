// Package hostio holds the pieces shared by backends that run under a
// general-purpose OS: a wall-clock based monotonic clock, a stdio-style
// console, and a tarm/serial UART port.
package hostio

import "time"

// Clock counts from the moment of construction using the Go runtime's
// monotonic reading. Millis wraps modulo 2^32 by conversion.
type Clock struct {
	start time.Time
}

func NewClock() *Clock { return &Clock{start: time.Now()} }

func (c *Clock) Millis() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}

func (c *Clock) Micros() uint64 {
	return uint64(time.Since(c.start) / time.Microsecond)
}

func (c *Clock) DelayMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// DelayUs sleeps cooperatively for a millisecond or more and busy-waits
// below that, so the caller never resumes before the requested duration.
func (c *Clock) DelayUs(us uint32) {
	d := time.Duration(us) * time.Microsecond
	if d >= time.Millisecond {
		time.Sleep(d)
		return
	}
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}
