package main

import (
	"v4hal-go/hal"
	"v4hal-go/platform"
)

// GP25 is the onboard LED on a Pico; on the simulated backend it is just a
// bitmap bit observable through PinRead.
const ledPin = 25

func main() {
	h := hal.New(platform.Default())
	if err := h.Init(); err != nil {
		println("hal init:", err.Error())
		return
	}
	defer h.Deinit()

	caps := h.Capabilities()
	println("pins:", caps.Pins, "uarts:", caps.UARTs)

	if err := h.PinMode(ledPin, hal.Output); err != nil {
		println("pin mode:", err.Error())
		return
	}

	for i := 0; i < 20; i++ {
		if err := h.PinToggle(ledPin); err != nil {
			println("toggle:", err.Error())
			return
		}
		lvl, _ := h.PinRead(ledPin)
		if lvl == hal.High {
			println(h.Millis(), "led: HIGH")
		} else {
			println(h.Millis(), "led: LOW")
		}
		h.DelayMs(500)
	}
}
