package tap

import (
	"encoding/binary"
)

// frame prefixes body with its little-endian length.
func frame(body []byte) []byte {
	buf := make([]byte, LengthPrefixSize+len(body))
	binary.LittleEndian.PutUint16(buf, uint16(len(body)))
	copy(buf[LengthPrefixSize:], body)
	return buf
}

// checksum is the XOR of all bytes, as written by the ROM saver.
func checksum(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum ^= c
	}
	return sum
}

// headerBody builds a 19-byte header block body.
func headerBody(subtype Subtype, name string, dataLength, param1, param2 uint16) []byte {
	body := make([]byte, MinHeaderSize)
	body[0] = FlagHeader
	body[1] = byte(subtype)
	padded := []byte("          ")
	copy(padded, name)
	copy(body[2:12], padded)
	binary.LittleEndian.PutUint16(body[12:], dataLength)
	binary.LittleEndian.PutUint16(body[14:], param1)
	binary.LittleEndian.PutUint16(body[16:], param2)
	body[18] = checksum(body[:18])
	return body
}

// dataBody builds a data block body around payload.
func dataBody(payload []byte) []byte {
	body := make([]byte, 0, len(payload)+2)
	body = append(body, FlagData)
	body = append(body, payload...)
	return append(body, checksum(body))
}
