package document

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-posnet/protocol"
)

const saleRecRequestDoc = `{
  "Flags": "NONE",
  "Token": 3,
  "FLen": 18,
  "FldNum": 1,
  "Command": "SALERECGET",
  "Fields": [
    "B0"
  ],
  "Crc": 34507
}`

const saleRecResponseDoc = `{
  "Flags": "NONE",
  "Token": 4,
  "FLen": 80,
  "FldNum": 16,
  "Command": "SALERECGET",
  "Fields": [
    "B0",
    "V0",
    "V18",
    "B31",
    "B12",
    "V2020",
    "B16",
    "B8",
    "S001",
    "SKASJER",
    "V2",
    "V2",
    "N300",
    "N300",
    "L0",
    "N0"
  ],
  "Crc": 60962
}`

const statusRequestDoc = `{
  "Flags": "NONE",
  "Token": 1,
  "FLen": 16,
  "FldNum": 0,
  "Command": "CASHREGSTATUSGET",
  "Crc": 35284
}`

const statusResponseDoc = `{
  "Flags": "NONE",
  "Token": 1,
  "FLen": 112,
  "FldNum": 22,
  "Command": "CASHREGSTATUSGET",
  "Fields": [
    "B24",
    "S001",
    "V0",
    "B1",
    "B0",
    "B1",
    "B0",
    "B29",
    "B7",
    "V2019",
    "B18",
    "B14",
    "B37",
    "B31",
    "B1",
    "V2021",
    "B0",
    "B6",
    "B10",
    "S811-174-67-06",
    "SBDY 12057651",
    "SPOSNET NEO XL EJ 2.01"
  ],
  "Crc": 19176
}`

const billBufRequestDoc = `{
  "Flags": "NONE",
  "Token": 2,
  "FLen": 16,
  "FldNum": 0,
  "Command": "BILLBUFCFGGETEX",
  "Crc": 36803
}`

const billBufResponseDoc = `{
  "Flags": "NONE",
  "Token": 2,
  "FLen": 27,
  "FldNum": 5,
  "Command": "BILLBUFCFGGETEX",
  "Fields": [
    "B1",
    "B1",
    "V8500",
    "B0",
    "B0"
  ],
  "Crc": 56174
}`

const errorResponseDoc = `{
  "Flags": "NONE",
  "Token": 1608,
  "FLen": 28,
  "FldNum": 4,
  "Command": "ERROR",
  "Fields": [
    "V451",
    "V0",
    "V801",
    "V0"
  ],
  "Crc": 24841
}`

type referenceFrame struct {
	name   string
	doc    string
	token  uint32
	cmd    protocol.Command
	fields []protocol.Field
}

func referenceFrames() []referenceFrame {
	return []referenceFrame{
		{"sale record request", saleRecRequestDoc, 3, protocol.CmdSaleRecGet, []protocol.Field{protocol.U8(0)}},
		{"sale record response", saleRecResponseDoc, 4, protocol.CmdSaleRecGet, []protocol.Field{
			protocol.U8(0), protocol.U16(0), protocol.U16(18), protocol.U8(31), protocol.U8(12),
			protocol.U16(2020), protocol.U8(16), protocol.U8(8), protocol.Text("001"), protocol.Text("KASJER"),
			protocol.U16(2), protocol.U16(2), protocol.Number(protocol.MustBcd(300)),
			protocol.Number(protocol.MustBcd(300)), protocol.U32(0), protocol.Number(protocol.MustBcd(0)),
		}},
		{"status request", statusRequestDoc, 1, protocol.CmdCashRegStatusGet, nil},
		{"status response", statusResponseDoc, 1, protocol.CmdCashRegStatusGet, []protocol.Field{
			protocol.U8(24), protocol.Text("001"), protocol.U16(0), protocol.U8(1), protocol.U8(0),
			protocol.U8(1), protocol.U8(0), protocol.U8(29), protocol.U8(7), protocol.U16(2019),
			protocol.U8(18), protocol.U8(14), protocol.U8(37), protocol.U8(31), protocol.U8(1),
			protocol.U16(2021), protocol.U8(0), protocol.U8(6), protocol.U8(10),
			protocol.Text("811-174-67-06"), protocol.Text("BDY 12057651"), protocol.Text("POSNET NEO XL EJ 2.01"),
		}},
		{"bill buffer request", billBufRequestDoc, 2, protocol.CmdBillBufCfgGetEx, nil},
		{"bill buffer response", billBufResponseDoc, 2, protocol.CmdBillBufCfgGetEx, []protocol.Field{
			protocol.U8(1), protocol.U8(1), protocol.U16(8500), protocol.U8(0), protocol.U8(0),
		}},
		{"error response", errorResponseDoc, 1608, protocol.CmdError, []protocol.Field{
			protocol.U16(451), protocol.U16(0), protocol.U16(801), protocol.U16(0),
		}},
	}
}

func TestMarshalIndent(t *testing.T) {
	for _, tt := range referenceFrames() {
		t.Run(tt.name, func(t *testing.T) {
			f, err := protocol.Encode(protocol.FlagNone, tt.token, tt.cmd, tt.fields...)
			require.NoError(t, err)

			got, err := MarshalIndent(f, "", "  ")
			require.NoError(t, err)
			assert.Equal(t, tt.doc, string(got))
		})
	}
}

func TestUnmarshal(t *testing.T) {
	for _, tt := range referenceFrames() {
		t.Run(tt.name, func(t *testing.T) {
			want, err := protocol.Encode(protocol.FlagNone, tt.token, tt.cmd, tt.fields...)
			require.NoError(t, err)

			got, err := Unmarshal([]byte(tt.doc))
			require.NoError(t, err)
			assert.True(t, want.Equal(got))
		})
	}
}

func TestUnmarshalPropertyOrder(t *testing.T) {
	doc := `{
  "Command": "SALERECGET",
  "Flags": "NONE",
  "Token": 3,
  "FLen": 18,
  "Crc": 34507,
  "FldNum": 1,
  "Fields": [
    "B0"
  ]
}`
	f, err := Unmarshal([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, uint16(34507), f.Crc())

	empty := `{"Command": "CASHREGSTATUSGET", "Flags": "NONE", "Token": 1, "FLen": 16, "Crc": 35284, "FldNum": 0, "Fields": []}`
	f, err = Unmarshal([]byte(empty))
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestUnmarshalIgnoresUnknownProperties(t *testing.T) {
	doc := `{"Flags": "NONE", "Token": 1, "FLen": 16, "FldNum": 0, "Command": "CASHREGSTATUSGET", "Crc": 35284, "Note": {"a": [1, 2]}}`
	_, err := Unmarshal([]byte(doc))
	assert.NoError(t, err)
}

func TestUnmarshalZeroLength(t *testing.T) {
	doc := `{"Flags": "NONE", "Token": 1, "FLen": 0, "FldNum": 0, "Command": "CASHREGSTATUSGET", "Crc": 37712}`
	f, err := Unmarshal([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, uint16(0), f.FLen())
	assert.Equal(t, uint16(37712), f.Crc())

	// the full-length checksum does not match a zero-length frame
	doc = `{"Flags": "NONE", "Token": 1, "FLen": 0, "FldNum": 0, "Command": "CASHREGSTATUSGET", "Crc": 35284}`
	_, err = Unmarshal([]byte(doc))
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestUnmarshalMissingProperties(t *testing.T) {
	_, err := Unmarshal([]byte(`{"Flags": "NONE", "Token": 1, "Command": "CASHREGSTATUSGET", "Fields": []}`))

	var missing *MissingPropertyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"FLen", "FldNum", "Crc"}, missing.Names)
	assert.Equal(t, "missing properties: FLen, FldNum, Crc", missing.Error())

	// Fields is optional
	_, err = Unmarshal([]byte(`{"Flags": "NONE", "Token": 1, "FLen": 16, "FldNum": 0, "Command": "CASHREGSTATUSGET", "Crc": 35284}`))
	assert.NoError(t, err)
}

func TestUnmarshalIntegrity(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		property string
	}{
		{
			name:     "crc",
			doc:      `{"Flags": "NONE", "Token": 3, "FLen": 18, "FldNum": 1, "Command": "SALERECGET", "Fields": ["B1"], "Crc": 34507}`,
			property: "Crc",
		},
		{
			name:     "field count",
			doc:      `{"Flags": "NONE", "Token": 3, "FLen": 18, "FldNum": 2, "Command": "SALERECGET", "Fields": ["B0"], "Crc": 34507}`,
			property: "FldNum",
		},
		{
			name:     "length",
			doc:      `{"Flags": "NONE", "Token": 3, "FLen": 19, "FldNum": 1, "Command": "SALERECGET", "Fields": ["B0"], "Crc": 34507}`,
			property: "FLen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrIntegrity)

			var integrity *IntegrityError
			require.True(t, errors.As(err, &integrity))
			assert.Equal(t, tt.property, integrity.Property)
		})
	}
}

func TestUnmarshalFieldCountWithoutFields(t *testing.T) {
	// FldNum is not checked for frames without fields
	doc := `{"Flags": "NONE", "Token": 1, "FLen": 16, "FldNum": 7, "Command": "CASHREGSTATUSGET", "Crc": 35284}`
	_, err := Unmarshal([]byte(doc))
	assert.NoError(t, err)
}

func TestUnmarshalInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not an object", `[1, 2]`},
		{"null", `null`},
		{"bad flags", `{"Flags": "URGENT", "Token": 1, "FLen": 16, "FldNum": 0, "Command": "ERROR", "Crc": 0}`},
		{"bad command", `{"Flags": "NONE", "Token": 1, "FLen": 16, "FldNum": 0, "Command": true, "Crc": 0}`},
		{"negative token", `{"Flags": "NONE", "Token": -1, "FLen": 16, "FldNum": 0, "Command": "ERROR", "Crc": 0}`},
		{"bad field", `{"Flags": "NONE", "Token": 1, "FLen": 18, "FldNum": 1, "Command": "ERROR", "Fields": ["B256"], "Crc": 0}`},
		{"fields not strings", `{"Flags": "NONE", "Token": 1, "FLen": 18, "FldNum": 1, "Command": "ERROR", "Fields": [1], "Crc": 0}`},
		{"truncated", `{"Flags": "NONE"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestNumericLabels(t *testing.T) {
	f, err := protocol.Encode(protocol.FlagVerify|protocol.Flags(0x01), 9, protocol.Command(4112))
	require.NoError(t, err)

	b, err := Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Flags":9,`)
	assert.Contains(t, string(b), `"Command":4112,`)

	back, err := Unmarshal(b)
	require.NoError(t, err)
	assert.True(t, f.Equal(back))
}

func TestCombinedFlags(t *testing.T) {
	f, err := protocol.Encode(protocol.FlagVerify|protocol.FlagRepeat, 9, protocol.CmdBillBufCfgGetEx)
	require.NoError(t, err)

	b, err := Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Flags":"VERIFY, REPEAT"`)

	back, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, protocol.FlagVerify|protocol.FlagRepeat, back.Flags())
}

func TestMarshalText(t *testing.T) {
	f, err := protocol.Encode(protocol.FlagNone, 5, protocol.CmdCashRegStatusGet,
		protocol.Number(protocol.MustBcd(-555)), protocol.Text("Zażółć <&>"), protocol.U32(4000000000))
	require.NoError(t, err)

	b, err := Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Fields":["N-555","SZażółć <&>","L4000000000"]`)

	back, err := Unmarshal(b)
	require.NoError(t, err)
	assert.True(t, f.Equal(back))
}

func TestFromFrameCorruptField(t *testing.T) {
	f, err := protocol.Encode(protocol.FlagNone, 1, protocol.CmdSaleRecGet, protocol.Number(protocol.MustBcd(1)))
	require.NoError(t, err)

	raw := f.Bytes()
	raw[14] = 0xFF
	crcAt := len(raw) - protocol.TrailerSize
	crc := protocol.Checksum16(raw[protocol.FlagsOffset:crcAt])
	raw[crcAt], raw[crcAt+1] = byte(crc), byte(crc>>8)

	corrupt, err := protocol.Parse(raw)
	require.NoError(t, err)

	_, err = FromFrame(corrupt)
	assert.ErrorIs(t, err, protocol.ErrInvalidDigit)
	_, err = Marshal(corrupt)
	assert.ErrorIs(t, err, protocol.ErrInvalidDigit)
}

func TestDocumentMarshalInvalidField(t *testing.T) {
	doc := Document{Fields: []protocol.Field{{}}}
	_, err := doc.MarshalJSON()
	assert.ErrorIs(t, err, protocol.ErrUnsupportedFieldType)
}

func TestEncoderDecoder(t *testing.T) {
	var frames []*protocol.Frame
	for _, tt := range referenceFrames() {
		f, err := protocol.Encode(protocol.FlagNone, tt.token, tt.cmd, tt.fields...)
		require.NoError(t, err)
		frames = append(frames, f)
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, f := range frames {
		require.NoError(t, enc.Encode(f))
	}
	assert.Equal(t, len(frames), strings.Count(buf.String(), "\n"))

	dec := NewDecoder(&buf, protocol.DefaultCodec)
	for i, want := range frames {
		got, err := dec.Decode()
		require.NoError(t, err, "document %d", i)
		assert.True(t, want.Equal(got), "document %d", i)
	}
	_, err := dec.Decode()
	assert.Equal(t, io.EOF, err)
}

func TestEncoderIndent(t *testing.T) {
	f, err := protocol.Encode(protocol.FlagNone, 1, protocol.CmdCashRegStatusGet)
	require.NoError(t, err)

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.SetIndent("", "  ")
	require.NoError(t, enc.Encode(f))
	assert.Equal(t, statusRequestDoc+"\n", buf.String())
}

func TestDecoderReportsPosition(t *testing.T) {
	input := statusRequestDoc + "\n" + `{"Flags": "NONE", "Token": 1, "FLen": 16, "FldNum": 0, "Command": "CASHREGSTATUSGET", "Crc": 1}`

	dec := NewDecoder(strings.NewReader(input), protocol.DefaultCodec)
	_, err := dec.Decode()
	require.NoError(t, err)

	_, err = dec.Decode()
	assert.ErrorIs(t, err, ErrIntegrity)
	assert.Contains(t, err.Error(), "document 1")
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.json")
	content := saleRecRequestDoc + "\n" + errorResponseDoc + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	frames, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, protocol.CmdSaleRecGet, frames[0].Command())
	assert.Equal(t, protocol.CmdError, frames[1].Command())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
