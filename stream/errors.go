package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned when the peer aborts a frame with SYN CAN
	ErrCancelled = errors.New("frame cancelled by peer")

	// ErrShortFrame is returned for raw frames without room for STX and ETX
	ErrShortFrame = errors.New("raw frame shorter than 2 bytes")

	// ErrNilFrame is returned when writing a nil frame
	ErrNilFrame = errors.New("frame cannot be nil")
)

// DecodeError reports a complete frame that the codec rejected.
type DecodeError struct {
	// Data is the de-escaped frame, STX and ETX included
	Data []byte

	// Err is the codec error
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode frame (%d bytes): %v", len(e.Data), e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
