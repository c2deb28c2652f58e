package stream

import (
	"bufio"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/moffa90/go-posnet/protocol"
)

// DiscardReason says why a reader dropped buffered bytes.
type DiscardReason int

const (
	// ReasonRestart: a new frame started before the current one ended
	ReasonRestart DiscardReason = iota

	// ReasonOverrun: the buffer grew past the reader capacity
	ReasonOverrun

	// ReasonCancel: the peer sent SYN CAN
	ReasonCancel

	// ReasonDecode: the frame was complete but the codec rejected it
	ReasonDecode
)

func (r DiscardReason) String() string {
	switch r {
	case ReasonRestart:
		return "STX detected"
	case ReasonOverrun:
		return "Buffer overrun"
	case ReasonCancel:
		return "CAN detected"
	case ReasonDecode:
		return "Decode failed"
	default:
		return fmt.Sprintf("DiscardReason(%d)", int(r))
	}
}

// Discard describes bytes a reader dropped while looking for a frame.
type Discard struct {
	Reason DiscardReason

	// Data is the de-escaped content that was dropped
	Data []byte

	// Err is the codec error for ReasonDecode
	Err error
}

// Result is the outcome of one read.
type Result struct {
	// Frame is the decoded frame, nil unless the read succeeded
	Frame *protocol.Frame

	// Raw is the de-escaped frame, STX and ETX included
	Raw []byte

	// Discards lists what was dropped before the read returned, in order
	Discards []Discard
}

// DiscardedBytes returns the total size of all discards.
func (r Result) DiscardedBytes() int {
	n := 0
	for _, d := range r.Discards {
		n += len(d.Data)
	}
	return n
}

// Reader de-frames SYN-escaped POSNET frames from a byte source.
//
// A Reader is not safe for concurrent use, except for SetMaxCapacity and MaxCapacity.
type Reader struct {
	src      io.ByteReader
	config   Config
	capacity atomic.Int64
}

// NewReader creates a Reader on src. Sources without ReadByte are buffered,
// so the Reader may read ahead of the frame it returns.
//
// Example:
//
//	conn, _ := net.Dial("tcp", "192.168.1.50:6666")
//	r := stream.NewReader(conn, stream.WithMaxCapacity(4096))
func NewReader(src io.Reader, opts ...Option) *Reader {
	if src == nil {
		panic("source cannot be nil")
	}

	br, ok := src.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(src)
	}

	r := &Reader{
		src:    br,
		config: newConfig(opts),
	}
	r.capacity.Store(int64(r.config.MaxCapacity))
	return r
}

// MaxCapacity returns the current buffer limit.
func (r *Reader) MaxCapacity() int {
	return int(r.capacity.Load())
}

// SetMaxCapacity changes the buffer limit. It takes effect on the next byte read.
func (r *Reader) SetMaxCapacity(n int) error {
	if n < protocol.MinFrameSize {
		return fmt.Errorf("max capacity must be at least %d, got %d", protocol.MinFrameSize, n)
	}
	r.capacity.Store(int64(n))
	return nil
}

// Next reads and decodes the next frame.
//
// On success Result.Frame is set. A SYN CAN from the peer yields ErrCancelled
// and a frame the codec rejects yields a *DecodeError. Errors from the source,
// io.EOF included, are returned unchanged. Result.Discards is filled in all cases.
func (r *Reader) Next() (Result, error) {
	res, err := r.ReadRaw()
	if err != nil {
		return res, err
	}

	frame, err := r.config.Codec.Parse(res.Raw)
	if err != nil {
		res.Discards = append(res.Discards, Discard{Reason: ReasonDecode, Data: res.Raw, Err: err})
		r.config.Logger.Error("frame rejected", "size", len(res.Raw), "error", err)
		return res, &DecodeError{Data: res.Raw, Err: err}
	}

	res.Frame = frame
	r.config.Logger.Debug("frame received",
		"command", frame.Command().String(),
		"token", frame.Token(),
		"size", frame.Size(),
	)
	return res, nil
}

// ReadFrame reads the next frame and drops the diagnostics.
func (r *Reader) ReadFrame() (*protocol.Frame, error) {
	res, err := r.Next()
	return res.Frame, err
}

// ReadRaw reads the next frame without decoding it. Result.Raw holds the
// de-escaped bytes from STX to ETX.
//
// Every call starts with an empty buffer. Bytes read before the first SYN STX
// are kept and reported as a ReasonRestart discard when the frame starts.
func (r *Reader) ReadRaw() (Result, error) {
	var (
		res Result
		buf []byte
		stx bool
	)

	for {
		if limit := r.MaxCapacity(); len(buf) > limit {
			res.Discards = append(res.Discards, Discard{Reason: ReasonOverrun, Data: buf})
			r.config.Logger.Error("buffer overrun", "size", len(buf), "max_capacity", limit)
			buf = nil
			stx = false
		}

		b, err := r.src.ReadByte()
		if err != nil {
			return res, err
		}
		if b != protocol.SYN {
			buf = append(buf, b)
			continue
		}

		b, err = r.src.ReadByte()
		if err != nil {
			return res, err
		}

		switch b {
		case protocol.STX:
			if len(buf) > 0 {
				res.Discards = append(res.Discards, Discard{Reason: ReasonRestart, Data: buf})
				r.config.Logger.Debug("frame restarted", "dropped", len(buf))
			}
			buf = []byte{protocol.STX}
			stx = true

		case protocol.ETX:
			buf = append(buf, protocol.ETX)
			if stx {
				res.Raw = buf
				return res, nil
			}

		case protocol.CAN:
			res.Discards = append(res.Discards, Discard{Reason: ReasonCancel, Data: buf})
			r.config.Logger.Info("frame cancelled by peer", "dropped", len(buf))
			return res, ErrCancelled

		default:
			buf = append(buf, b)
		}
	}
}
