package hal

import "v4hal-go/errcode"

// PinMode configures a pin's electrical characteristics. The pin index is
// checked against the capability descriptor before the backend is invoked.
func (h *HAL) PinMode(pin int, mode PinMode) error {
	if !h.pinValid(pin) {
		return errcode.Param
	}
	if mode > OutputOpenDrain {
		return errcode.Param
	}
	return h.backend.Pins().Configure(pin, mode)
}

// PinWrite drives a pin to the given level. The pin must have been
// configured as an output; backends reject writes to input or unconfigured
// pins rather than silently succeeding.
func (h *HAL) PinWrite(pin int, level Level) error {
	if !h.pinValid(pin) {
		return errcode.Param
	}
	if level > High {
		return errcode.Param
	}
	return h.backend.Pins().Set(pin, level)
}

// PinRead returns the pin's current logic level regardless of its
// configured mode.
func (h *HAL) PinRead(pin int) (Level, error) {
	if !h.pinValid(pin) {
		return Low, errcode.Param
	}
	return h.backend.Pins().Get(pin)
}

// PinToggle reads the pin and writes the complement. The read and write
// are not atomic with respect to concurrent writers to the same pin.
func (h *HAL) PinToggle(pin int) error {
	cur, err := h.PinRead(pin)
	if err != nil {
		return err
	}
	next := High
	if cur == High {
		next = Low
	}
	return h.PinWrite(pin, next)
}

// ---------------- GPIO interrupts ----------------
//
// Declared but unimplemented across all current backends: each call
// deterministically reports NotSup instead of silently no-opping.

func (h *HAL) IRQAttach(pin int, edge Edge, handler func(pin int)) error {
	return errcode.NotSup
}

func (h *HAL) IRQDetach(pin int) error { return errcode.NotSup }

func (h *HAL) IRQEnable(pin int) error { return errcode.NotSup }

func (h *HAL) IRQDisable(pin int) error { return errcode.NotSup }
