package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcdBytes(t *testing.T) {
	tests := []struct {
		name  string
		value int64
		bytes [BcdSize]byte
	}{
		{"zero", 0, [BcdSize]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"positive", 75, [BcdSize]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x75}},
		{"amount", 300, [BcdSize]byte{0x00, 0x00, 0x00, 0x00, 0x03, 0x00}},
		{"minus one", -1, [BcdSize]byte{0x99, 0x99, 0x99, 0x99, 0x99, 0x99}},
		{"negative", -555, [BcdSize]byte{0x99, 0x99, 0x99, 0x99, 0x94, 0x45}},
		{"max", BcdMax, [BcdSize]byte{0x49, 0x99, 0x99, 0x99, 0x99, 0x99}},
		{"min", BcdMin, [BcdSize]byte{0x50, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"all digits", 123456789012, [BcdSize]byte{0x12, 0x34, 0x56, 0x78, 0x90, 0x12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewBcd(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.bytes, d.Bytes())

			back, err := BcdFromBytes(tt.bytes[:])
			require.NoError(t, err)
			assert.Equal(t, d, back)
			assert.Equal(t, tt.value, back.Int64())
		})
	}
}

func TestNewBcdOutOfRange(t *testing.T) {
	for _, v := range []int64{BcdMax + 1, BcdMin - 1, 1 << 62, -1 << 62} {
		_, err := NewBcd(v)
		assert.ErrorIs(t, err, ErrOutOfRange, "value %d", v)
	}

	assert.Panics(t, func() { MustBcd(BcdMax + 1) })
	assert.NotPanics(t, func() { MustBcd(BcdMin) })
}

func TestBcdFromBytesInvalid(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
	}{
		{"low nibble", []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x0A}},
		{"high nibble", []byte{0xA0, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"byte above 0x99", []byte{0x00, 0x00, 0xFF, 0x00, 0x00, 0x00}},
		{"nibble below 0x99", []byte{0x00, 0x1F, 0x00, 0x00, 0x00, 0x00}},
		{"too short", []byte{0x00, 0x00, 0x00, 0x00, 0x00}},
		{"too long", []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BcdFromBytes(tt.bytes)
			assert.ErrorIs(t, err, ErrInvalidDigit)
		})
	}
}

func TestBcdCmp(t *testing.T) {
	a, b := MustBcd(-555), MustBcd(75)
	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(MustBcd(-555)))
	assert.True(t, a == MustBcd(-555))
	assert.Equal(t, Bcd{}, MustBcd(0))
}

func TestBcdString(t *testing.T) {
	assert.Equal(t, "-555", MustBcd(-555).String())
	assert.Equal(t, "499999999999", MustBcd(BcdMax).String())
	assert.Equal(t, "0", Bcd{}.String())
}
