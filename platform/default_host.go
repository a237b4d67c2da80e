//go:build !rp2040 && !rp2350

package platform

import (
	"v4hal-go/hal"
	"v4hal-go/platform/posix"
)

// Default returns the simulated POSIX backend on hosted builds.
func Default() hal.Backend { return posix.New() }
