package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-posnet/protocol"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		input string
		want  protocol.Field
	}{
		{"SKASJER", protocol.Text("KASJER")},
		{"S", protocol.Text("")},
		{"S811-174-67-06", protocol.Text("811-174-67-06")},
		{"B255", protocol.U8(255)},
		{"V2019", protocol.U16(2019)},
		{"L4000000000", protocol.U32(4000000000)},
		{"N-555", protocol.Number(protocol.MustBcd(-555))},
		{"N499999999999", protocol.Number(protocol.MustBcd(protocol.BcdMax))},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseField(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			s, err := FormatField(got)
			require.NoError(t, err)
			assert.Equal(t, tt.input, s)
		})
	}
}

func TestParseFieldErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", nil},
		{"B", nil},
		{"B256", nil},
		{"B-1", nil},
		{"V65536", nil},
		{"L4294967296", nil},
		{"Nabc", nil},
		{"N500000000000", protocol.ErrOutOfRange},
		{"X12", protocol.ErrUnknownFieldType},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseField(tt.input)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestFormatFieldInvalid(t *testing.T) {
	_, err := FormatField(protocol.Field{})
	assert.ErrorIs(t, err, protocol.ErrUnsupportedFieldType)
}
