package binary

import stdbinary "encoding/binary"

// Endianness selects the byte order a Reader or Writer uses for
// multi-byte fields. BYML and SARC headers carry their own byte-order
// marker and may be either; AAMP is always little-endian; Yaz0's
// header fields are always big-endian.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) order() stdbinary.ByteOrder {
	if e == BigEndian {
		return stdbinary.BigEndian
	}
	return stdbinary.LittleEndian
}

// U16 reads a 2-byte field from b in the given order. Returns 0 when
// b is too short; callers that need to distinguish short reads from
// genuine zero values should check len(b) first.
func U16(b []byte, e Endianness) uint16 {
	if len(b) < 2 {
		return 0
	}
	return e.order().Uint16(b)
}

// U32 reads a 4-byte field from b in the given order.
func U32(b []byte, e Endianness) uint32 {
	if len(b) < 4 {
		return 0
	}
	return e.order().Uint32(b)
}

// U64 reads an 8-byte field from b in the given order.
func U64(b []byte, e Endianness) uint64 {
	if len(b) < 8 {
		return 0
	}
	return e.order().Uint64(b)
}

// PutU16 writes a 2-byte field into b in the given order. b must have
// length >= 2.
func PutU16(b []byte, v uint16, e Endianness) {
	e.order().PutUint16(b, v)
}

// PutU32 writes a 4-byte field into b in the given order. b must have
// length >= 4.
func PutU32(b []byte, v uint32, e Endianness) {
	e.order().PutUint32(b, v)
}

// PutU64 writes an 8-byte field into b in the given order. b must have
// length >= 8.
func PutU64(b []byte, v uint64, e Endianness) {
	e.order().PutUint64(b, v)
}
