// Package document converts POSNET frames to and from a structured JSON document.
//
// # Document Format
//
//	{
//	  "Flags": "NONE",
//	  "Token": 3,
//	  "FLen": 18,
//	  "FldNum": 1,
//	  "Command": "SALERECGET",
//	  "Fields": [
//	    "B0"
//	  ],
//	  "Crc": 34507
//	}
//
// Flags and Command are written as labels, or as numbers when no label exists.
// Each data field is its type tag followed by the value:
//
//	S<text>  B<uint8>  V<uint16>  L<uint32>  N<int64>
//
// Fields is omitted for frames without data fields. Every other property is
// required when reading.
//
// # Integrity
//
// Reading a document rebuilds the frame from Flags, Token, Command and Fields and
// checks the result against the stated Crc, FldNum and FLen. A document with
// FLen 0 is rebuilt as a zero-length frame.
//
// # Usage
//
//	data, err := document.MarshalIndent(frame, "", "  ")
//
//	frame, err := document.Unmarshal(data)
//	if errors.Is(err, document.ErrIntegrity) {
//	    // document was edited without updating Crc
//	}
package document
