//go:build rp2040 || rp2350

package platform

import (
	"v4hal-go/hal"
	"v4hal-go/platform/rp2"
)

// Default returns the machine-backed RP2 backend.
func Default() hal.Backend { return rp2.New() }
