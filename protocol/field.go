package protocol

import (
	"fmt"
	"strconv"
)

// FieldKind identifies the type of a data field. Its value is the wire type tag.
type FieldKind byte

// Data field kinds.
const (
	KindText FieldKind = 'S'
	KindU8   FieldKind = 'B'
	KindU16  FieldKind = 'V'
	KindU32  FieldKind = 'L'
	KindBcd  FieldKind = 'N'
)

// Valid reports whether k is one of the known field kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case KindText, KindU8, KindU16, KindU32, KindBcd:
		return true
	}
	return false
}

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindBcd:
		return "bcd"
	default:
		return fmt.Sprintf("kind(0x%02X)", byte(k))
	}
}

// Field is one typed data field value.
//
// Fields are comparable with ==. The zero Field has no kind and cannot be encoded.
type Field struct {
	kind FieldKind
	text string
	num  uint32
	bcd  Bcd
}

// Text returns a text field.
func Text(s string) Field { return Field{kind: KindText, text: s} }

// U8 returns an unsigned 8-bit field.
func U8(v uint8) Field { return Field{kind: KindU8, num: uint32(v)} }

// U16 returns an unsigned 16-bit field.
func U16(v uint16) Field { return Field{kind: KindU16, num: uint32(v)} }

// U32 returns an unsigned 32-bit field.
func U32(v uint32) Field { return Field{kind: KindU32, num: v} }

// Number returns a Bcd field.
func Number(v Bcd) Field { return Field{kind: KindBcd, bcd: v} }

// FieldOf converts a Go value to a Field. Accepted types are string, uint8,
// uint16, uint32, Bcd and Field.
func FieldOf(v any) (Field, error) {
	switch x := v.(type) {
	case Field:
		if !x.kind.Valid() {
			return Field{}, fmt.Errorf("%w: %v", ErrUnsupportedFieldType, x.kind)
		}
		return x, nil
	case string:
		return Text(x), nil
	case uint8:
		return U8(x), nil
	case uint16:
		return U16(x), nil
	case uint32:
		return U32(x), nil
	case Bcd:
		return Number(x), nil
	default:
		return Field{}, fmt.Errorf("%w: %T", ErrUnsupportedFieldType, v)
	}
}

// Kind returns the field kind.
func (f Field) Kind() FieldKind { return f.kind }

// Text returns the value of a text field.
func (f Field) Text() (string, bool) { return f.text, f.kind == KindText }

// U8 returns the value of an unsigned 8-bit field.
func (f Field) U8() (uint8, bool) { return uint8(f.num), f.kind == KindU8 }

// U16 returns the value of an unsigned 16-bit field.
func (f Field) U16() (uint16, bool) { return uint16(f.num), f.kind == KindU16 }

// U32 returns the value of an unsigned 32-bit field.
func (f Field) U32() (uint32, bool) { return f.num, f.kind == KindU32 }

// Bcd returns the value of a Bcd field.
func (f Field) Bcd() (Bcd, bool) { return f.bcd, f.kind == KindBcd }

// Value returns the field value as string, uint8, uint16, uint32 or Bcd,
// or nil for the zero Field.
func (f Field) Value() any {
	switch f.kind {
	case KindText:
		return f.text
	case KindU8:
		return uint8(f.num)
	case KindU16:
		return uint16(f.num)
	case KindU32:
		return f.num
	case KindBcd:
		return f.bcd
	default:
		return nil
	}
}

// String returns the tag followed by the value, e.g. "B24", "SKASJER", "N-555".
func (f Field) String() string {
	switch f.kind {
	case KindText:
		return "S" + f.text
	case KindU8, KindU16, KindU32:
		return string(rune(f.kind)) + strconv.FormatUint(uint64(f.num), 10)
	case KindBcd:
		return "N" + f.bcd.String()
	default:
		return "<invalid>"
	}
}

// payloadSize returns the fixed payload size for non-text kinds.
func (k FieldKind) payloadSize() (int, bool) {
	switch k {
	case KindU8:
		return U8Size, true
	case KindU16:
		return U16Size, true
	case KindU32:
		return U32Size, true
	case KindBcd:
		return BcdSize, true
	}
	return 0, false
}
