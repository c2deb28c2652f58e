package protocol

import (
	"fmt"
	"strconv"
)

// bcdModulus is 10^12, the number of values 12 packed digits can hold.
const bcdModulus = 1_000_000_000_000

// Bcd value range. The upper half of the unsigned 12-digit range encodes
// negative numbers, much like two's complement.
const (
	BcdMax = bcdModulus/2 - 1
	BcdMin = -(bcdModulus / 2)
)

// Bcd is a signed amount or quantity carried in N data fields as 6 bytes of
// packed decimal, most significant digit pair first.
//
// The zero value is 0. Bcd values are comparable with ==.
type Bcd struct {
	value int64
}

// NewBcd returns the Bcd for v, which must be within [BcdMin, BcdMax].
func NewBcd(v int64) (Bcd, error) {
	if v < BcdMin || v > BcdMax {
		return Bcd{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, v, int64(BcdMin), int64(BcdMax))
	}
	return Bcd{value: v}, nil
}

// MustBcd is like NewBcd but panics if v is out of range.
func MustBcd(v int64) Bcd {
	d, err := NewBcd(v)
	if err != nil {
		panic(err)
	}
	return d
}

// BcdFromBytes decodes BcdSize packed bytes.
//
// Every nibble must be a decimal digit. The unsigned 12-digit magnitude is
// mapped into the signed range, so 99 99 99 99 99 99 decodes to -1.
func BcdFromBytes(b []byte) (Bcd, error) {
	if len(b) != BcdSize {
		return Bcd{}, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidDigit, BcdSize, len(b))
	}

	var raw int64
	for i, x := range b {
		hi, lo := x>>4, x&0x0F
		if hi > 9 || lo > 9 {
			return Bcd{}, fmt.Errorf("%w: byte %d is 0x%02X", ErrInvalidDigit, i, x)
		}
		raw = raw*100 + int64(hi)*10 + int64(lo)
	}

	return Bcd{value: (raw-BcdMin)%bcdModulus + BcdMin}, nil
}

// Bytes returns the packed representation.
func (d Bcd) Bytes() [BcdSize]byte {
	var out [BcdSize]byte
	n := (bcdModulus + d.value) % bcdModulus
	for i := BcdSize - 1; i >= 0; i-- {
		pair := n % 100
		out[i] = byte(pair/10)<<4 | byte(pair%10)
		n /= 100
	}
	return out
}

// Int64 returns the decimal value.
func (d Bcd) Int64() int64 {
	return d.value
}

// Cmp compares d and o and returns -1, 0 or +1.
func (d Bcd) Cmp(o Bcd) int {
	switch {
	case d.value < o.value:
		return -1
	case d.value > o.value:
		return 1
	default:
		return 0
	}
}

func (d Bcd) String() string {
	return strconv.FormatInt(d.value, 10)
}
