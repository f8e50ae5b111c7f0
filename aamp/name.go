package aamp

import "hash/crc32"

// crcTable is the bit-reversed IEEE polynomial table, the same
// polynomial oead's util::crc32 uses; Go's crc32.IEEE is the identical
// bit-reversed 0xEDB88320 table, so ChecksumIEEE reproduces oead's
// hash exactly (init/final XOR 0xFFFFFFFF are baked into the stdlib
// algorithm already).
var crcTable = crc32.IEEETable

// Hash returns the CRC-32 (IEEE, bit-reversed) hash of s, the
// algorithm AAMP uses for every Name.
func Hash(s string) uint32 { return crc32.Checksum([]byte(s), crcTable) }

// Name is a parameter/object/list key: a thin wrapper around a 32-bit
// CRC-32 hash. Equality is by hash, not by any recovered
// string, since a binary archive only ever stores the hash.
type Name struct {
	Hash uint32
}

// NameFromString hashes s into a Name.
func NameFromString(s string) Name { return Name{Hash: Hash(s)} }

// NameFromHash wraps a precomputed hash, avoiding a redundant CRC-32
// pass when the caller already has one (e.g. while parsing a binary
// archive, which stores hashes directly).
func NameFromHash(hash uint32) Name { return Name{Hash: hash} }

// String reports the name as its hexadecimal hash; AAMP binary
// archives never store the original string, so this is the only
// lossless textual form available without a NameTable lookup.
func (n Name) String() string {
	const hextable = "0123456789abcdef"
	buf := [10]byte{'0', 'x'}
	for i := 0; i < 8; i++ {
		shift := uint(28 - 4*i)
		buf[2+i] = hextable[(n.Hash>>shift)&0xF]
	}
	return string(buf[:])
}
