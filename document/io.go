package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/moffa90/go-posnet/protocol"
)

// Decoder reads a sequence of documents, such as newline-delimited JSON, and
// rebuilds their frames.
type Decoder struct {
	dec   *json.Decoder
	codec protocol.Codec
	n     int
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader, codec protocol.Codec) *Decoder {
	return &Decoder{dec: json.NewDecoder(r), codec: codec}
}

// Decode reads the next document. It returns io.EOF when the input is exhausted.
func (d *Decoder) Decode() (*protocol.Frame, error) {
	var doc Document
	if err := d.dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("document %d: %w", d.n, err)
	}

	f, err := doc.Frame(d.codec)
	if err != nil {
		return nil, fmt.Errorf("document %d: %w", d.n, err)
	}
	d.n++
	return f, nil
}

// Encoder writes one document per frame.
type Encoder struct {
	enc *json.Encoder
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Encoder{enc: enc}
}

// SetIndent sets the indentation like json.Encoder.SetIndent.
func (e *Encoder) SetIndent(prefix, indent string) {
	e.enc.SetIndent(prefix, indent)
}

// Encode writes the document of f followed by a newline.
func (e *Encoder) Encode(f *protocol.Frame) error {
	doc, err := FromFrame(f)
	if err != nil {
		return err
	}
	return e.enc.Encode(doc)
}

// ReadFile reads every document of a file.
//
// Example:
//
//	frames, err := document.ReadFile("requests.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
func ReadFile(path string) ([]*protocol.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadAll(f)
}

// ReadAll reads every document from r using protocol.DefaultCodec.
func ReadAll(r io.Reader) ([]*protocol.Frame, error) {
	dec := NewDecoder(r, protocol.DefaultCodec)

	var frames []*protocol.Frame
	for {
		f, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
}
