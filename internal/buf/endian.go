// Package buf contains bounds-checked helpers for reading and writing
// integers inside an arena buffer.
package buf

import "encoding/binary"

// I32LE reads a little-endian int32 from b. Returns 0 when b is too short.
func I32LE(b []byte) int32 {
	if len(b) < 4 {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

// PutI32LE writes v to the first four bytes of b in little-endian order.
// Returns false without writing when b is too short.
func PutI32LE(b []byte, v int32) bool {
	if len(b) < 4 {
		return false
	}
	binary.LittleEndian.PutUint32(b, uint32(v))
	return true
}
