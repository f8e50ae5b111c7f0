// Package yaz0 implements Nintendo's Yaz0 LZ-style compression codec
//: an 8-chunk group header stream of literal bytes and
// 12-bit-distance back-references, prefixed by a fixed 16-byte header.
package yaz0

import (
	"github.com/joshuapare/nxbin/errs"
	bin "github.com/joshuapare/nxbin/internal/binary"
)

const (
	headerSize      = 0x10
	chunksPerGroup  = 8
	windowSize      = 0x1000
	minMatchLength  = 3
	maxMatchLength  = 0xFF + 0x12 // 0x111
)

// Header is Yaz0's fixed 16-byte preamble. Every multi-byte field is
// big-endian, independent of the payload's own
// endianness conventions (Yaz0 wraps arbitrary bytes, including
// little-endian BYML/AAMP/SARC data).
type Header struct {
	Magic            [4]byte
	UncompressedSize uint32
	DataAlignment    uint32
	Reserved         [4]byte
}

// GetHeader parses just the header, without decompressing the body.
// ok is false if data is too short or the magic doesn't match.
func GetHeader(data []byte) (Header, bool) {
	if len(data) < headerSize {
		return Header{}, false
	}
	if string(data[0:4]) != "Yaz0" {
		return Header{}, false
	}
	r := bin.NewReader(data, bin.BigEndian)
	r.Seek(4)
	size, _ := r.ReadU32()
	align, _ := r.ReadU32()
	var h Header
	copy(h.Magic[:], data[0:4])
	h.UncompressedSize = size
	h.DataAlignment = align
	copy(h.Reserved[:], data[12:16])
	return h, true
}

// IsYaz0 reports whether data begins with a Yaz0 header.
func IsYaz0(data []byte) bool {
	return len(data) >= 4 && string(data[0:4]) == "Yaz0"
}

// Decompress parses src's header and fully decompresses its body,
// bounds-checking every input read and output copy.
func Decompress(src []byte) ([]byte, error) {
	header, ok := GetHeader(src)
	if !ok {
		return nil, errs.InvalidData("yaz0: bad magic or truncated header")
	}
	dst := make([]byte, header.UncompressedSize)
	if err := decompressInto(src, dst, true); err != nil {
		return nil, err
	}
	return dst, nil
}

// DecompressInto decompresses src's body into dst, which must be
// exactly header.UncompressedSize bytes (callers that already know
// the size can avoid GetHeader's redundant parse via this entry
// point). Only the magic is checked; the header's size field is not
// compared against len(dst).
func DecompressInto(src []byte, dst []byte) error {
	if !IsYaz0(src) {
		return errs.InvalidData("yaz0: bad magic or truncated header")
	}
	return decompressInto(src, dst, true)
}

// DecompressUnsafe decompresses src into a buffer of exactly
// uncompressedSize bytes without bounds-checking input reads or
// output copy ranges. Precondition: src is a well-formed
// Yaz0 stream whose header's UncompressedSize equals uncompressedSize
// and whose body never reads past src's end or copies past dst's end.
// Violating the precondition panics (Go has no unchecked raw memory
// access) rather than corrupting memory, but the panic may occur far
// from the actual malformed byte. Do not use on untrusted input.
func DecompressUnsafe(src []byte, uncompressedSize uint32) []byte {
	dst := make([]byte, uncompressedSize)
	_ = decompressInto(src, dst, false)
	return dst
}

// decompressInto runs the group-header chunk loop over src's body.
// When safe is true every input read and output copy range is bounds
// checked and reported as errs.InvalidData; when false the checks are
// skipped (DecompressUnsafe's documented-precondition fast path).
func decompressInto(src []byte, dst []byte, safe bool) error {
	r := bin.NewReader(src, bin.BigEndian)
	r.Seek(headerSize)

	var groupHeader byte
	remaining := 0
	pos := 0

	readU8 := func() (byte, error) {
		if safe {
			v, ok := r.ReadU8()
			if !ok {
				return 0, errs.InvalidData("yaz0: truncated input")
			}
			return v, nil
		}
		return r.ReadU8Unsafe(), nil
	}
	readU16 := func() (uint16, error) {
		if safe {
			v, ok := r.ReadU16()
			if !ok {
				return 0, errs.InvalidData("yaz0: truncated input")
			}
			return v, nil
		}
		hi := r.ReadU8Unsafe()
		lo := r.ReadU8Unsafe()
		return uint16(hi)<<8 | uint16(lo), nil
	}

	for pos < len(dst) {
		if remaining == 0 {
			gh, err := readU8()
			if err != nil {
				return err
			}
			groupHeader = gh
			remaining = chunksPerGroup
		}

		if groupHeader&0x80 != 0 {
			b, err := readU8()
			if err != nil {
				return err
			}
			dst[pos] = b
			pos++
		} else {
			pair, err := readU16()
			if err != nil {
				return err
			}
			distance := int(pair&0x0FFF) + 1
			nibble := int(pair >> 12)
			var length int
			if nibble != 0 {
				length = nibble + 2
			} else {
				b, err := readU8()
				if err != nil {
					return err
				}
				length = int(b) + 0x12
			}

			base := pos - distance
			if safe && (base < 0 || pos+length > len(dst)) {
				return errs.InvalidData("yaz0: back-reference out of bounds (pos=%d distance=%d length=%d)", pos, distance, length)
			}
			for i := 0; i < length; i++ {
				dst[pos] = dst[base+i]
				pos++
			}
		}

		groupHeader <<= 1
		remaining--
	}
	return nil
}
