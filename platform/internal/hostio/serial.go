package hostio

import (
	"io"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/tarm/serial"

	"v4hal-go/errcode"
	"v4hal-go/hal"
)

// SerialPort binds a HAL UART port to a real serial device node
// (/dev/ttyUSB0, COM3, ...). Configure opens the device with the requested
// line settings; reconfiguring an open port closes and reopens it.
type SerialPort struct {
	device string

	mu      sync.Mutex
	port    *serial.Port
	pending []byte // bytes pulled off the device by Buffered, served first by Read
}

func NewSerialPort(device string) *SerialPort {
	return &SerialPort{device: device}
}

func (s *SerialPort) Configure(cfg hal.UARTConfig) error {
	sc := &serial.Config{
		Name: s.device,
		Baud: cfg.BaudRate,
		Size: byte(cfg.DataBits),
		// Short timeout keeps Read non-blocking for the HAL contract.
		ReadTimeout: time.Millisecond,
	}
	switch cfg.Parity {
	case hal.ParityOdd:
		sc.Parity = serial.ParityOdd
	case hal.ParityEven:
		sc.Parity = serial.ParityEven
	default:
		sc.Parity = serial.ParityNone
	}
	if cfg.StopBits == 2 {
		sc.StopBits = serial.Stop2
	} else {
		sc.StopBits = serial.Stop1
	}

	p, err := serial.OpenPort(sc)
	if err != nil {
		return errcode.Wrap(errcode.NoDevice, "uart_open",
			pkgerrors.Wrapf(err, "open %s", s.device))
	}

	s.mu.Lock()
	old := s.port
	s.port = p
	s.pending = nil
	s.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

func (s *SerialPort) Close() error {
	s.mu.Lock()
	p := s.port
	s.port = nil
	s.pending = nil
	s.mu.Unlock()
	if p == nil {
		return nil
	}
	return errcode.Wrap(errcode.IO, "uart_close", p.Close())
}

// Write blocks until the device driver accepts every byte.
func (s *SerialPort) Write(p []byte) (int, error) {
	port := s.current()
	if port == nil {
		return 0, errcode.NotInit
	}
	total := 0
	for total < len(p) {
		n, err := port.Write(p[total:])
		total += n
		if err != nil {
			return total, errcode.Wrap(errcode.IO, "uart_write", err)
		}
	}
	return total, nil
}

// Read returns whatever the driver has buffered, serving bytes already
// pulled off the device by Buffered first. The device is opened with a
// one-millisecond read timeout, which the driver reports as EOF when no
// data arrived; that is mapped to an empty read.
func (s *SerialPort) Read(p []byte) (int, error) {
	s.mu.Lock()
	if s.port == nil {
		s.mu.Unlock()
		return 0, errcode.NotInit
	}
	if len(s.pending) > 0 {
		n := copy(p, s.pending)
		s.pending = s.pending[n:]
		s.mu.Unlock()
		return n, nil
	}
	port := s.port
	s.mu.Unlock()

	n, err := port.Read(p)
	if n > 0 {
		return n, nil
	}
	if err == nil || err == io.EOF {
		return 0, nil
	}
	return 0, errcode.Wrap(errcode.IO, "uart_read", err)
}

// Buffered reports the bytes ready for Read. The portable serial API has no
// queue-depth query, so the count is approximated by draining the driver
// into a pending buffer with a bounded (one read-timeout) poll.
func (s *SerialPort) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return 0
	}
	if len(s.pending) == 0 {
		buf := make([]byte, 256)
		if n, _ := s.port.Read(buf); n > 0 {
			s.pending = append(s.pending, buf[:n]...)
		}
	}
	return len(s.pending)
}

func (s *SerialPort) current() *serial.Port {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}
