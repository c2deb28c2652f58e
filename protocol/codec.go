package protocol

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Codec holds the frame encoding settings.
type Codec struct {
	// Text is the code page of S fields
	Text encoding.Encoding
}

// DefaultCodec encodes text fields with Windows-1250, the code page of the
// POSNET registers.
var DefaultCodec = Codec{Text: charmap.Windows1250}

func (c Codec) textEncoding() encoding.Encoding {
	if c.Text == nil {
		return charmap.Windows1250
	}
	return c.Text
}

// encodeText converts s to the code page. Runes outside the code page and
// embedded NULs are rejected: the NUL terminates the field on the wire.
func (c Codec) encodeText(s string) ([]byte, error) {
	b, err := c.textEncoding().NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnencodableText, s, err)
	}
	if bytes.IndexByte(b, 0) >= 0 {
		return nil, fmt.Errorf("%w: %q contains NUL", ErrUnencodableText, s)
	}
	return b, nil
}

func (c Codec) decodeText(b []byte) (string, error) {
	s, err := c.textEncoding().NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// Encode builds a frame using DefaultCodec.
func Encode(flags Flags, token uint32, cmd Command, fields ...Field) (*Frame, error) {
	return DefaultCodec.Encode(flags, token, cmd, fields...)
}

// EncodeZeroLength builds a frame with F_LEN set to zero using DefaultCodec.
func EncodeZeroLength(flags Flags, token uint32, cmd Command, fields ...Field) (*Frame, error) {
	return DefaultCodec.EncodeZeroLength(flags, token, cmd, fields...)
}

// Parse validates and indexes a received frame using DefaultCodec.
func Parse(b []byte) (*Frame, error) {
	return DefaultCodec.Parse(b)
}
