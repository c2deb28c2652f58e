package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Flags is the FLAGS header field. Flags can be combined.
type Flags uint16

const (
	// FlagNone requests normal processing
	FlagNone Flags = 0x00

	// FlagVerify asks the register to check the frame syntax only, without executing it
	FlagVerify Flags = 0x08

	// FlagRepeat asks the register to resend its response to the frame with the same
	// token and command. The protocol keeps roughly 2 kB of past responses.
	FlagRepeat Flags = 0x10
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagVerify, "VERIFY"},
	{FlagRepeat, "REPEAT"},
}

// Has reports whether all bits of flag are set in f.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// String returns "NONE", a comma separated list of flag names, or the decimal
// value when f carries bits without a name.
func (f Flags) String() string {
	if f == FlagNone {
		return "NONE"
	}

	var names []string
	rest := f
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
			rest &^= fn.flag
		}
	}
	if rest != 0 {
		return strconv.FormatUint(uint64(f), 10)
	}
	return strings.Join(names, ", ")
}

// ParseFlags parses the output of Flags.String. Names may also be joined with '|'.
func ParseFlags(s string) (Flags, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		return Flags(n), nil
	}

	var f Flags
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' }) {
		switch name := strings.ToUpper(strings.TrimSpace(part)); name {
		case "NONE":
		case "VERIFY":
			f |= FlagVerify
		case "REPEAT":
			f |= FlagRepeat
		default:
			return 0, fmt.Errorf("unknown flag %q", name)
		}
	}
	if s == "" {
		return 0, fmt.Errorf("empty flags")
	}
	return f, nil
}
