package stream

import (
	"io"

	"github.com/moffa90/go-posnet/protocol"
)

// Channel is one device connection: a Reader and a Writer over the same
// io.ReadWriter. It does not match responses to requests or retry.
//
// Example:
//
//	conn, _ := net.Dial("tcp", "192.168.1.50:6666")
//	ch := stream.NewChannel(conn, stream.WithLogger(myLogger))
//
//	req, _ := protocol.Encode(protocol.FlagNone, 1, protocol.CmdCashRegStatusGet)
//	res, err := ch.Exchange(req)
type Channel struct {
	reader *Reader
	writer *Writer
}

// NewChannel creates a Channel on device.
func NewChannel(device io.ReadWriter, opts ...Option) *Channel {
	if device == nil {
		panic("device cannot be nil")
	}

	return &Channel{
		reader: NewReader(device, opts...),
		writer: NewWriter(device, opts...),
	}
}

// Send writes one frame.
func (c *Channel) Send(f *protocol.Frame) error {
	return c.writer.WriteFrame(f)
}

// Next reads the next frame. See Reader.Next.
func (c *Channel) Next() (Result, error) {
	return c.reader.Next()
}

// Receive reads the next frame and drops the diagnostics.
func (c *Channel) Receive() (*protocol.Frame, error) {
	return c.reader.ReadFrame()
}

// Exchange sends f and reads the next frame from the device.
func (c *Channel) Exchange(f *protocol.Frame) (Result, error) {
	if err := c.Send(f); err != nil {
		return Result{}, err
	}
	return c.Next()
}

// Reader returns the channel reader, e.g. to adjust its capacity.
func (c *Channel) Reader() *Reader {
	return c.reader
}
