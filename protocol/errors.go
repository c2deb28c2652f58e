package protocol

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to test for them; the structured error types
// below match their sentinel as well.
var (
	// ErrOutOfRange is returned for a Bcd value outside [BcdMin, BcdMax]
	ErrOutOfRange = errors.New("bcd value out of range")

	// ErrInvalidDigit is returned for packed bytes that are not valid decimal digits
	ErrInvalidDigit = errors.New("bcd invalid digit")

	// ErrMalformedFrame is returned for frames with missing sentinels or misaligned fields
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrChecksumMismatch is returned when the stored CRC does not match the frame content
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrFieldCountMismatch is returned when FLD_NUM disagrees with the fields present
	ErrFieldCountMismatch = errors.New("field count mismatch")

	// ErrUnknownFieldType is returned when a received field carries an unrecognized tag
	ErrUnknownFieldType = errors.New("unknown field type")

	// ErrUnsupportedFieldType is returned when a value cannot be encoded as a data field
	ErrUnsupportedFieldType = errors.New("unsupported field type")

	// ErrUnencodableText is returned for text the frame code page cannot carry
	ErrUnencodableText = errors.New("text not encodable")

	// ErrFrameTooLarge is returned when a frame would not fit the 16-bit header fields
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrIndexOutOfRange is returned for field access past the last field
	ErrIndexOutOfRange = errors.New("field index out of range")
)

// ChecksumMismatchError reports a frame whose stored CRC differs from the computed one.
type ChecksumMismatchError struct {
	Stored   uint16
	Computed uint16
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: frame has 0x%04X, computed 0x%04X", e.Stored, e.Computed)
}

// Is reports whether target is ErrChecksumMismatch.
func (e *ChecksumMismatchError) Is(target error) bool {
	return target == ErrChecksumMismatch
}

// FieldCountMismatchError reports a frame whose FLD_NUM disagrees with its fields.
type FieldCountMismatchError struct {
	Declared uint16
	Actual   int
}

func (e *FieldCountMismatchError) Error() string {
	return fmt.Sprintf("field count mismatch: header declares %d, frame has %d", e.Declared, e.Actual)
}

// Is reports whether target is ErrFieldCountMismatch.
func (e *FieldCountMismatchError) Is(target error) bool {
	return target == ErrFieldCountMismatch
}

// FieldTypeError reports a data field with an unrecognized type tag.
type FieldTypeError struct {
	// Offset is the position of the tag byte in the frame
	Offset int

	// Tag is the unrecognized tag byte
	Tag byte
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("unknown field type 0x%02X at offset %d", e.Tag, e.Offset)
}

// Is reports whether target is ErrUnknownFieldType.
func (e *FieldTypeError) Is(target error) bool {
	return target == ErrUnknownFieldType
}
