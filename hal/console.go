package hal

import "v4hal-go/errcode"

// ConsoleWrite performs a blocking full write to the designated console
// sink and returns the number of bytes written.
func (h *HAL) ConsoleWrite(p []byte) (int, error) {
	if p == nil {
		return 0, errcode.Param
	}
	return h.backend.Console().Write(p)
}

// ConsoleRead blocks until at least one byte is available, then returns
// between 1 and len(p) bytes.
func (h *HAL) ConsoleRead(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, errcode.Param
	}
	return h.backend.Console().Read(p)
}
