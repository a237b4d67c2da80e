package hostio

import (
	"io"

	"v4hal-go/errcode"
)

// Console adapts an OS byte stream pair to the HAL console contract:
// Write pushes every byte to W, Read blocks on R until at least one byte
// arrives.
type Console struct {
	R io.Reader
	W io.Writer
}

func (c Console) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := c.W.Write(p[total:])
		total += n
		if err != nil {
			return total, errcode.Wrap(errcode.IO, "console_write", err)
		}
	}
	return total, nil
}

func (c Console) Read(p []byte) (int, error) {
	for {
		n, err := c.R.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != nil {
			return 0, errcode.Wrap(errcode.IO, "console_read", err)
		}
	}
}
