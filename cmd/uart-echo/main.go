package main

import (
	"v4hal-go/hal"
	"v4hal-go/platform"
	"v4hal-go/x/conv"
)

// Echoes every byte received on UART 0 back out the same port, with a
// console note per chunk. On the simulated backend, run with the port in
// loopback to watch the echo come back.
func main() {
	h := hal.New(platform.Default())
	if err := h.Init(); err != nil {
		println("hal init:", err.Error())
		return
	}
	defer h.Deinit()

	hd, err := h.UARTOpen(0, hal.UARTConfig{
		BaudRate: 115200,
		DataBits: 8,
		StopBits: 1,
		Parity:   hal.ParityNone,
	})
	if err != nil {
		println("uart open:", err.Error())
		return
	}
	defer h.UARTClose(hd)

	buf := make([]byte, 64)
	num := make([]byte, 20)
	var total uint64
	for {
		n, err := h.UARTRead(hd, buf)
		if err != nil {
			println("uart read:", err.Error())
			return
		}
		if n == 0 {
			h.DelayMs(5)
			continue
		}
		if _, err := h.UARTWrite(hd, buf[:n]); err != nil {
			println("uart write:", err.Error())
			return
		}
		total += uint64(n)
		h.ConsoleWrite([]byte("echoed "))
		h.ConsoleWrite(conv.Utoa(num, uint64(n)))
		h.ConsoleWrite([]byte(" bytes, total "))
		h.ConsoleWrite(conv.Utoa(num, total))
		h.ConsoleWrite([]byte("\n"))
	}
}
