package document

import (
	"fmt"
	"strconv"

	"github.com/moffa90/go-posnet/protocol"
)

// FormatField returns the document form of a data field, e.g. "V2019" or "SKASJER".
func FormatField(f protocol.Field) (string, error) {
	if !f.Kind().Valid() {
		return "", fmt.Errorf("%w: %v", protocol.ErrUnsupportedFieldType, f.Kind())
	}
	return f.String(), nil
}

// ParseField parses the document form of a data field.
func ParseField(s string) (protocol.Field, error) {
	if s == "" {
		return protocol.Field{}, fmt.Errorf("empty field")
	}

	tag, value := protocol.FieldKind(s[0]), s[1:]
	switch tag {
	case protocol.KindText:
		return protocol.Text(value), nil
	case protocol.KindU8:
		n, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return protocol.Field{}, fmt.Errorf("field %q: %w", s, err)
		}
		return protocol.U8(uint8(n)), nil
	case protocol.KindU16:
		n, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return protocol.Field{}, fmt.Errorf("field %q: %w", s, err)
		}
		return protocol.U16(uint16(n)), nil
	case protocol.KindU32:
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return protocol.Field{}, fmt.Errorf("field %q: %w", s, err)
		}
		return protocol.U32(uint32(n)), nil
	case protocol.KindBcd:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return protocol.Field{}, fmt.Errorf("field %q: %w", s, err)
		}
		d, err := protocol.NewBcd(n)
		if err != nil {
			return protocol.Field{}, fmt.Errorf("field %q: %w", s, err)
		}
		return protocol.Number(d), nil
	default:
		return protocol.Field{}, fmt.Errorf("field %q: %w: tag %q", s, protocol.ErrUnknownFieldType, s[0])
	}
}
