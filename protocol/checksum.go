package protocol

// Checksum16 computes the frame checksum.
//
// This is the POSNET CRC-16 variant, not CRC-16-CCITT: the register starts at zero
// and for every byte its halves are swapped, the byte is xored in and two
// nibble-mixing feedback steps are applied.
//
// The frame checksum covers all bytes from FLAGS through the last data field,
// excluding STX, CRC and ETX.
func Checksum16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = crc>>8 | crc<<8
		crc ^= uint16(b)
		crc ^= (crc & 0xFF) >> 4
		crc ^= crc << 12
		crc ^= (crc & 0xFF) << 5
	}
	return crc
}
