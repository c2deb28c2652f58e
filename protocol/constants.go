package protocol

// ProtocolVersion is the POSNET protocol revision implemented by this library.
const ProtocolVersion = "2.01"

// Control characters. Only a SYN-prefixed occurrence carries control meaning on the wire.
const (
	// STX is the frame start marker (0x02)
	STX byte = 0x02

	// ETX is the frame end marker (0x03)
	ETX byte = 0x03

	// SYN is the escape prefix (0x10)
	SYN byte = 0x10

	// CAN requests the receiver to abort the frame being analyzed (0x18)
	CAN byte = 0x18
)

// Frame layout offsets, measured from the STX byte of an unescaped frame.
//
//	[STX][FLAGS(2)][TOKEN(4)][F_LEN(2)][FLD_NUM(2)][CMD(2)][FIELDS...][CRC(2)][ETX]
const (
	FlagsOffset   = 1
	TokenOffset   = 3
	FLenOffset    = 7
	FldNumOffset  = 9
	CommandOffset = 11
	FieldsOffset  = 13

	// TrailerSize is CRC(2) + ETX(1)
	TrailerSize = 3

	// MinFrameSize is the size of a frame without data fields
	MinFrameSize = FieldsOffset + TrailerSize

	// MaxFrameSize is the largest length the F_LEN header field can state
	MaxFrameSize = 0xFFFF
)

// Data field payload sizes, excluding the type tag.
const (
	U8Size  = 1
	U16Size = 2
	U32Size = 4

	// BcdSize is the packed size of a Bcd value (12 digits)
	BcdSize = 6
)
