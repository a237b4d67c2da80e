package hal

import (
	"tinygo.org/x/drivers"

	"v4hal-go/errcode"
	"v4hal-go/x/mathx"
)

// ---------------- GPIO ----------------

// PinMode selects the electrical configuration of a pin.
type PinMode uint8

const (
	Input           PinMode = iota // high-impedance input
	InputPullup                    // input with pull-up resistor
	InputPulldown                  // input with pull-down resistor
	Output                         // push-pull output
	OutputOpenDrain                // open-drain output
)

// IsOutput reports whether the mode drives the pin.
func (m PinMode) IsOutput() bool { return m == Output || m == OutputOpenDrain }

// Level is a digital logic level.
type Level uint8

const (
	Low  Level = 0
	High Level = 1
)

// Edge selects an interrupt trigger condition.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// ---------------- UART ----------------

// Parity follows the wire convention: 0 none, 1 odd, 2 even.
type Parity uint8

const (
	ParityNone Parity = 0
	ParityOdd  Parity = 1
	ParityEven Parity = 2
)

// UARTConfig carries the line settings applied by UARTOpen.
type UARTConfig struct {
	BaudRate int
	DataBits int // 5..8
	StopBits int // 1..2
	Parity   Parity
}

func (c UARTConfig) validate() error {
	if c.BaudRate <= 0 {
		return errcode.Param
	}
	if !mathx.Between(c.DataBits, 5, 8) {
		return errcode.Param
	}
	if !mathx.Between(c.StopBits, 1, 2) {
		return errcode.Param
	}
	if c.Parity > ParityEven {
		return errcode.Param
	}
	return nil
}

// ---------------- Capabilities ----------------

// Capabilities describes a backend's resource counts and feature flags.
// One value per backend; immutable after construction. The zero value is
// the "no backend" descriptor.
type Capabilities struct {
	Pins  uint8 // number of GPIO pins (highest valid pin + 1)
	UARTs uint8 // number of UART ports
	SPIs  uint8 // number of SPI buses
	I2Cs  uint8 // number of I2C buses

	ADC bool
	DAC bool
	PWM bool
	RTC bool
	DMA bool
}

// ---------------- Backend contract ----------------

// PinBank gives indexed access to a backend's GPIO pins. Implementations
// hold all pin state; Set must reject pins not configured as output.
type PinBank interface {
	Configure(pin int, mode PinMode) error
	Set(pin int, level Level) error
	Get(pin int) (Level, error)
}

// Port is one UART port. Configure may be called again on an open port to
// apply new line settings. Write blocks until every byte is accepted by the
// transmit path; Read never blocks and returns 0..len(p) bytes.
type Port interface {
	Configure(cfg UARTConfig) error
	Close() error
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
	Buffered() int
}

// Clock supplies the monotonic counters and blocking delays. Millis wraps
// modulo 2^32; Micros is treated as non-wrapping for practical runtimes.
type Clock interface {
	Millis() uint32
	Micros() uint64
	DelayMs(ms uint32)
	DelayUs(us uint32)
}

// Console is the designated byte-stream sink/source (a fixed UART or the
// process stdio). Write blocks until all bytes are accepted; Read blocks
// until at least one byte is available.
type Console interface {
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
}

// Guard is the mutual-exclusion primitive: interrupt masking on bare metal,
// a process-wide lock under a general-purpose OS. Reentrancy is
// implementation-defined; callers must not assume it.
type Guard interface {
	Enter()
	Exit()
}

// Backend is one platform implementation behind the HAL front end. The
// embedding application constructs exactly one and hands it to New.
type Backend interface {
	Init() error
	Reset() error
	Deinit()
	Capabilities() Capabilities
	Pins() PinBank
	Port(n int) Port
	Clock() Clock
	Console() Console
	Guard() Guard
}

// I2CProvider is an optional backend extension handing out configured raw
// I2C buses by id. There is no I2C operation set in the HAL surface; the
// buses exist for embedding applications that drive devices directly.
type I2CProvider interface {
	I2CByID(id string) (drivers.I2C, bool)
}
