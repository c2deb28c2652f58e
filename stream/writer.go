package stream

import (
	"io"
	"sync"

	"github.com/moffa90/go-posnet/protocol"
)

// Writer escapes frames onto a byte sink. Each frame is emitted with a single
// Write call, so frames from concurrent callers never interleave.
type Writer struct {
	dst    io.Writer
	config Config

	mu  sync.Mutex
	buf []byte
}

// NewWriter creates a Writer on dst.
func NewWriter(dst io.Writer, opts ...Option) *Writer {
	if dst == nil {
		panic("destination cannot be nil")
	}

	return &Writer{
		dst:    dst,
		config: newConfig(opts),
	}
}

// WriteFrame escapes and writes f.
func (w *Writer) WriteFrame(f *protocol.Frame) error {
	if f == nil {
		return ErrNilFrame
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.write(f.Bytes()); err != nil {
		return err
	}

	w.config.Logger.Debug("frame sent",
		"command", f.Command().String(),
		"token", f.Token(),
		"size", f.Size(),
	)
	return nil
}

// WriteRaw escapes and writes an unescaped frame. The first and last bytes of
// raw are taken as STX and ETX and replaced by their SYN-prefixed forms
// whatever their value.
func (w *Writer) WriteRaw(raw []byte) error {
	if len(raw) < 2 {
		return ErrShortFrame
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.write(raw)
}

func (w *Writer) write(raw []byte) error {
	w.buf = AppendEscaped(w.buf[:0], raw)

	n, err := w.dst.Write(w.buf)
	if err != nil {
		w.config.Logger.Error("write failed", "size", len(w.buf), "written", n, "error", err)
		return err
	}
	if n < len(w.buf) {
		return io.ErrShortWrite
	}
	return nil
}

// AppendEscaped appends the wire form of raw to dst:
//
//	SYN STX [raw[1:len-1] with every SYN doubled] SYN ETX
//
// dst is returned unchanged when raw is shorter than 2 bytes.
func AppendEscaped(dst, raw []byte) []byte {
	if len(raw) < 2 {
		return dst
	}

	dst = append(dst, protocol.SYN, protocol.STX)
	for _, b := range raw[1 : len(raw)-1] {
		if b == protocol.SYN {
			dst = append(dst, protocol.SYN)
		}
		dst = append(dst, b)
	}
	return append(dst, protocol.SYN, protocol.ETX)
}
