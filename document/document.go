package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/moffa90/go-posnet/protocol"
)

// Property names in document order.
const (
	propFlags   = "Flags"
	propToken   = "Token"
	propFLen    = "FLen"
	propFldNum  = "FldNum"
	propCommand = "Command"
	propFields  = "Fields"
	propCrc     = "Crc"
)

var requiredProps = []string{propFlags, propToken, propFLen, propFldNum, propCommand, propCrc}

// Document is the structured form of a frame.
type Document struct {
	Flags   protocol.Flags
	Token   uint32
	FLen    uint16
	FldNum  uint16
	Command protocol.Command
	Fields  []protocol.Field
	Crc     uint16
}

// FromFrame returns the document of f. It fails if a data field cannot be decoded.
func FromFrame(f *protocol.Frame) (Document, error) {
	fields, err := f.Fields()
	if err != nil {
		return Document{}, err
	}

	return Document{
		Flags:   f.Flags(),
		Token:   f.Token(),
		FLen:    f.FLen(),
		FldNum:  f.FldNum(),
		Command: f.Command(),
		Fields:  fields,
		Crc:     f.Crc(),
	}, nil
}

// Frame rebuilds the frame described by d and checks Crc, FldNum and FLen.
// FldNum is checked only when the frame has data fields.
func (d Document) Frame(codec protocol.Codec) (*protocol.Frame, error) {
	build := codec.Encode
	if d.FLen == 0 {
		build = codec.EncodeZeroLength
	}

	f, err := build(d.Flags, d.Token, d.Command, d.Fields...)
	if err != nil {
		return nil, err
	}

	if f.Crc() != d.Crc {
		return nil, &IntegrityError{Property: propCrc, Document: d.Crc, Frame: f.Crc()}
	}
	if f.FldNum() > 0 && f.FldNum() != d.FldNum {
		return nil, &IntegrityError{Property: propFldNum, Document: d.FldNum, Frame: f.FldNum()}
	}
	if f.FLen() != d.FLen {
		return nil, &IntegrityError{Property: propFLen, Document: d.FLen, Frame: f.FLen()}
	}
	return f, nil
}

type jsonDocument struct {
	Flags   json.RawMessage `json:"Flags"`
	Token   uint32          `json:"Token"`
	FLen    uint16          `json:"FLen"`
	FldNum  uint16          `json:"FldNum"`
	Command json.RawMessage `json:"Command"`
	Fields  []string        `json:"Fields,omitempty"`
	Crc     uint16          `json:"Crc"`
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	doc := jsonDocument{
		Flags:   labelJSON(d.Flags.String()),
		Token:   d.Token,
		FLen:    d.FLen,
		FldNum:  d.FldNum,
		Command: labelJSON(d.Command.String()),
		Crc:     d.Crc,
	}
	for _, f := range d.Fields {
		s, err := FormatField(f)
		if err != nil {
			return nil, err
		}
		doc.Fields = append(doc.Fields, s)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON implements json.Unmarshaler. Unknown properties are ignored.
// It does not run the integrity checks; see Frame.
func (d *Document) UnmarshalJSON(data []byte) error {
	var props map[string]json.RawMessage
	if err := json.Unmarshal(data, &props); err != nil {
		return err
	}
	if props == nil {
		return fmt.Errorf("document must be a JSON object")
	}

	var missing []string
	for _, name := range requiredProps {
		if _, ok := props[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingPropertyError{Names: missing}
	}

	var doc Document
	var err error
	if doc.Flags, err = decodeLabel(props[propFlags], protocol.ParseFlags); err != nil {
		return fmt.Errorf("%s: %w", propFlags, err)
	}
	if doc.Command, err = decodeLabel(props[propCommand], protocol.ParseCommand); err != nil {
		return fmt.Errorf("%s: %w", propCommand, err)
	}
	if err := json.Unmarshal(props[propToken], &doc.Token); err != nil {
		return fmt.Errorf("%s: %w", propToken, err)
	}
	if err := json.Unmarshal(props[propFLen], &doc.FLen); err != nil {
		return fmt.Errorf("%s: %w", propFLen, err)
	}
	if err := json.Unmarshal(props[propFldNum], &doc.FldNum); err != nil {
		return fmt.Errorf("%s: %w", propFldNum, err)
	}
	if err := json.Unmarshal(props[propCrc], &doc.Crc); err != nil {
		return fmt.Errorf("%s: %w", propCrc, err)
	}

	if raw, ok := props[propFields]; ok {
		var fields []string
		if err := json.Unmarshal(raw, &fields); err != nil {
			return fmt.Errorf("%s: %w", propFields, err)
		}
		for i, s := range fields {
			f, err := ParseField(s)
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", propFields, i, err)
			}
			doc.Fields = append(doc.Fields, f)
		}
	}

	*d = doc
	return nil
}

// labelJSON writes numeric labels as JSON numbers and names as JSON strings.
func labelJSON(label string) json.RawMessage {
	if _, err := strconv.ParseUint(label, 10, 16); err == nil {
		return json.RawMessage(label)
	}
	b, _ := json.Marshal(label)
	return b
}

func decodeLabel[T ~uint16](raw json.RawMessage, parse func(string) (T, error)) (T, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parse(s)
	}

	var n uint16
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("want a label or a number, got %s", raw)
	}
	return T(n), nil
}

// Marshal returns the compact document of f.
func Marshal(f *protocol.Frame) ([]byte, error) {
	doc, err := FromFrame(f)
	if err != nil {
		return nil, err
	}
	return doc.MarshalJSON()
}

// MarshalIndent is like Marshal but indents the output like json.MarshalIndent.
func MarshalIndent(f *protocol.Frame, prefix, indent string) ([]byte, error) {
	b, err := Marshal(f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, b, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal reads a document and rebuilds its frame with protocol.DefaultCodec.
func Unmarshal(data []byte) (*protocol.Frame, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Frame(protocol.DefaultCodec)
}
