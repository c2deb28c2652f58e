// Package protocol implements the POSNET cash register frame codec.
//
// This package encodes and parses protocol frames, computes the frame checksum
// and converts the packed decimal amounts carried in frame fields.
// Stream framing (SYN escaping) lives in package stream.
//
// # Frame Overview
//
// All multi-byte integers are little-endian:
//
//	[STX][FLAGS(2)][TOKEN(4)][F_LEN(2)][FLD_NUM(2)][CMD(2)][FIELDS...][CRC(2)][ETX]
//
// Where:
//   - STX = Start of text (0x02)
//   - ETX = End of text (0x03)
//   - F_LEN = total frame length, STX and ETX included, or 0 when not stated
//   - FLD_NUM = number of data fields
//   - CRC = Checksum16 of FLAGS through the last data field
//
// Each data field is a one byte type tag followed by its payload:
//
//	S  text in Windows-1250, NUL terminated
//	B  uint8
//	V  uint16
//	L  uint32
//	N  Bcd, 6 bytes of packed decimal
//
// # Building Frames
//
//	frame, err := protocol.Encode(protocol.FlagNone, token, protocol.CmdSaleRecGet,
//	    protocol.U8(0))
//
// Some commands must be sent with F_LEN set to zero:
//
//	frame, err := protocol.EncodeZeroLength(protocol.FlagNone, token, protocol.CmdCashRegStatusGet)
//
// # Parsing Frames
//
//	frame, err := protocol.Parse(raw)
//	if errors.Is(err, protocol.ErrChecksumMismatch) {
//	    // corrupted in transit
//	}
//	for i := 0; i < frame.Len(); i++ {
//	    f, err := frame.Field(i)
//	    ...
//	}
//
// Fields are decoded on access, so a frame with a corrupt N payload parses and
// reports ErrInvalidDigit only when that field is read.
package protocol
