package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Frame is one protocol message in its unescaped wire form:
//
//	[STX][FLAGS(2)][TOKEN(4)][F_LEN(2)][FLD_NUM(2)][CMD(2)][FIELDS...][CRC(2)][ETX]
//
// A Frame owns its byte buffer and is immutable. Header values are read from
// the buffer on access and data fields are decoded lazily through an offset
// index built when the frame is encoded or parsed.
//
// Frames are safe for concurrent use.
type Frame struct {
	buf     []byte
	offsets []int
	codec   Codec
}

// Encode builds a frame from header values and data fields.
// F_LEN, FLD_NUM and CRC are computed.
//
// Frame structure:
//
//	[STX][FLAGS][TOKEN][F_LEN][FLD_NUM][CMD][tag value ...][CRC][ETX]
func (c Codec) Encode(flags Flags, token uint32, cmd Command, fields ...Field) (*Frame, error) {
	f, err := c.layout(flags, token, cmd, fields)
	if err != nil {
		return nil, err
	}
	f.seal()
	return f, nil
}

// EncodeZeroLength builds a frame like Encode but states F_LEN as zero.
// Some outbound commands are sent this way; the CRC covers the zeroed header,
// so the result differs from Encode in both F_LEN and CRC.
func (c Codec) EncodeZeroLength(flags Flags, token uint32, cmd Command, fields ...Field) (*Frame, error) {
	f, err := c.layout(flags, token, cmd, fields)
	if err != nil {
		return nil, err
	}
	binary.LittleEndian.PutUint16(f.buf[FLenOffset:], 0)
	f.seal()
	return f, nil
}

// layout allocates the frame buffer and writes everything except the CRC.
func (c Codec) layout(flags Flags, token uint32, cmd Command, fields []Field) (*Frame, error) {
	if len(fields) > 0xFFFF {
		return nil, fmt.Errorf("%w: %d fields", ErrFrameTooLarge, len(fields))
	}

	// Text is encoded once, up front, to size the buffer.
	texts := make([][]byte, len(fields))
	offsets := make([]int, len(fields))
	size := FieldsOffset
	for i, fld := range fields {
		offsets[i] = size
		switch fld.kind {
		case KindText:
			b, err := c.encodeText(fld.text)
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", i, err)
			}
			texts[i] = b
			size += 1 + len(b) + 1
		default:
			n, ok := fld.kind.payloadSize()
			if !ok {
				return nil, fmt.Errorf("field %d: %w: %v", i, ErrUnsupportedFieldType, fld.kind)
			}
			size += 1 + n
		}
	}
	size += TrailerSize
	if size > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	buf := make([]byte, size)
	buf[0] = STX
	buf[size-1] = ETX
	binary.LittleEndian.PutUint16(buf[FlagsOffset:], uint16(flags))
	binary.LittleEndian.PutUint32(buf[TokenOffset:], token)
	binary.LittleEndian.PutUint16(buf[FLenOffset:], uint16(size))
	binary.LittleEndian.PutUint16(buf[FldNumOffset:], uint16(len(fields)))
	binary.LittleEndian.PutUint16(buf[CommandOffset:], uint16(cmd))

	for i, fld := range fields {
		off := offsets[i]
		buf[off] = byte(fld.kind)
		off++
		switch fld.kind {
		case KindText:
			off += copy(buf[off:], texts[i])
			buf[off] = 0
		case KindU8:
			buf[off] = uint8(fld.num)
		case KindU16:
			binary.LittleEndian.PutUint16(buf[off:], uint16(fld.num))
		case KindU32:
			binary.LittleEndian.PutUint32(buf[off:], fld.num)
		case KindBcd:
			packed := fld.bcd.Bytes()
			copy(buf[off:], packed[:])
		}
	}

	return &Frame{buf: buf, offsets: offsets, codec: c}, nil
}

// seal writes the CRC of the current header and fields.
func (f *Frame) seal() {
	crcAt := len(f.buf) - TrailerSize
	binary.LittleEndian.PutUint16(f.buf[crcAt:], Checksum16(f.buf[FlagsOffset:crcAt]))
}

// Parse validates a received frame and indexes its data fields.
// The input must be unescaped and include STX and ETX; it is copied.
//
// Checks, in order: sentinels, CRC, field layout, FLD_NUM (unless zero) and
// F_LEN (unless zero).
func (c Codec) Parse(b []byte) (*Frame, error) {
	if len(b) < MinFrameSize {
		return nil, fmt.Errorf("%w: got %d bytes, minimum is %d", ErrMalformedFrame, len(b), MinFrameSize)
	}
	if b[0] != STX {
		return nil, fmt.Errorf("%w: missing STX, got 0x%02X", ErrMalformedFrame, b[0])
	}
	if b[len(b)-1] != ETX {
		return nil, fmt.Errorf("%w: missing ETX, got 0x%02X", ErrMalformedFrame, b[len(b)-1])
	}

	f := &Frame{buf: bytes.Clone(b), codec: c}

	crcAt := len(f.buf) - TrailerSize
	if stored, computed := f.Crc(), Checksum16(f.buf[FlagsOffset:crcAt]); stored != computed {
		return nil, &ChecksumMismatchError{Stored: stored, Computed: computed}
	}

	off := FieldsOffset
	for off < crcAt {
		f.offsets = append(f.offsets, off)
		kind := FieldKind(f.buf[off])
		switch kind {
		case KindText:
			end := bytes.IndexByte(f.buf[off+1:crcAt], 0)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated text field at offset %d", ErrMalformedFrame, off)
			}
			off += 1 + end + 1
		default:
			n, ok := kind.payloadSize()
			if !ok {
				return nil, &FieldTypeError{Offset: off, Tag: f.buf[off]}
			}
			if off+1+n > crcAt {
				return nil, fmt.Errorf("%w: %v field at offset %d overruns the CRC", ErrMalformedFrame, kind, off)
			}
			off += 1 + n
		}
	}

	if declared := f.FldNum(); declared != 0 && int(declared) != len(f.offsets) {
		return nil, &FieldCountMismatchError{Declared: declared, Actual: len(f.offsets)}
	}
	if declared := f.FLen(); declared != 0 && int(declared) != len(f.buf) {
		return nil, fmt.Errorf("%w: F_LEN is %d, frame has %d bytes", ErrMalformedFrame, declared, len(f.buf))
	}

	return f, nil
}

// Flags returns the FLAGS header field.
func (f *Frame) Flags() Flags { return Flags(binary.LittleEndian.Uint16(f.buf[FlagsOffset:])) }

// Token returns the TOKEN header field.
func (f *Frame) Token() uint32 { return binary.LittleEndian.Uint32(f.buf[TokenOffset:]) }

// FLen returns the F_LEN header field. Zero means the length is not stated.
func (f *Frame) FLen() uint16 { return binary.LittleEndian.Uint16(f.buf[FLenOffset:]) }

// FldNum returns the FLD_NUM header field.
func (f *Frame) FldNum() uint16 { return binary.LittleEndian.Uint16(f.buf[FldNumOffset:]) }

// Command returns the CMD_ID header field.
func (f *Frame) Command() Command { return Command(binary.LittleEndian.Uint16(f.buf[CommandOffset:])) }

// Crc returns the CRC trailer field.
func (f *Frame) Crc() uint16 { return binary.LittleEndian.Uint16(f.buf[len(f.buf)-TrailerSize:]) }

// Size returns the frame length in bytes, STX and ETX included.
func (f *Frame) Size() int { return len(f.buf) }

// Bytes returns a copy of the unescaped frame, STX and ETX included.
func (f *Frame) Bytes() []byte { return bytes.Clone(f.buf) }

// AppendTo appends the unescaped frame to dst.
func (f *Frame) AppendTo(dst []byte) []byte { return append(dst, f.buf...) }

// Len returns the number of data fields.
func (f *Frame) Len() int { return len(f.offsets) }

// Field decodes the data field at index i.
func (f *Frame) Field(i int) (Field, error) {
	if i < 0 || i >= len(f.offsets) {
		return Field{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(f.offsets))
	}

	off := f.offsets[i]
	kind := FieldKind(f.buf[off])
	off++
	switch kind {
	case KindText:
		end := bytes.IndexByte(f.buf[off:], 0)
		s, err := f.codec.decodeText(f.buf[off : off+end])
		if err != nil {
			return Field{}, fmt.Errorf("field %d: %w", i, err)
		}
		return Text(s), nil
	case KindU8:
		return U8(f.buf[off]), nil
	case KindU16:
		return U16(binary.LittleEndian.Uint16(f.buf[off:])), nil
	case KindU32:
		return U32(binary.LittleEndian.Uint32(f.buf[off:])), nil
	case KindBcd:
		d, err := BcdFromBytes(f.buf[off : off+BcdSize])
		if err != nil {
			return Field{}, fmt.Errorf("field %d: %w", i, err)
		}
		return Number(d), nil
	default:
		return Field{}, &FieldTypeError{Offset: off - 1, Tag: byte(kind)}
	}
}

// Fields decodes all data fields in wire order.
func (f *Frame) Fields() ([]Field, error) {
	out := make([]Field, len(f.offsets))
	for i := range f.offsets {
		fld, err := f.Field(i)
		if err != nil {
			return nil, err
		}
		out[i] = fld
	}
	return out, nil
}

// Equal reports whether both frames carry the same bytes.
func (f *Frame) Equal(o *Frame) bool {
	if f == nil || o == nil {
		return f == o
	}
	return bytes.Equal(f.buf, o.buf)
}

func (f *Frame) String() string {
	return fmt.Sprintf("%v token=%d flags=%v len=%d fields=%d crc=0x%04X",
		f.Command(), f.Token(), f.Flags(), len(f.buf), len(f.offsets), f.Crc())
}
