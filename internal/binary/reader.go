package binary

import "math"

// Reader is a cursor over a read-only byte slice that decodes fixed
// width fields in a configured byte order, bounds-checking every read.
//
// Reader never takes ownership of the backing slice; it only borrows
// it, matching the borrow-not-own contract every reader-style API in
// this module follows.
type Reader struct {
	data   []byte
	offset int
	endian Endianness
}

// NewReader wraps data for sequential, bounds-checked reads in the
// given byte order.
func NewReader(data []byte, endian Endianness) *Reader {
	return &Reader{data: data, endian: endian}
}

// Bytes returns the full backing slice.
func (r *Reader) Bytes() []byte { return r.data }

// Len returns the length of the backing slice.
func (r *Reader) Len() int { return len(r.data) }

// Tell returns the current cursor position.
func (r *Reader) Tell() int { return r.offset }

// Seek moves the cursor to an absolute offset. It does not validate
// the offset; an out-of-range cursor simply fails the next bounds
// checked read.
func (r *Reader) Seek(offset int) { r.offset = offset }

// Endian reports the reader's configured byte order.
func (r *Reader) Endian() Endianness { return r.endian }

// has reports whether n more bytes are available at the cursor. Seek
// never validates, so the cursor itself can be anywhere, including
// negative or past the end; n is a fixed field width at every call
// site, so once the cursor is in range the subtraction cannot wrap.
func (r *Reader) has(n int) bool {
	return r.offset >= 0 && r.offset <= len(r.data) && n <= len(r.data)-r.offset
}

// View returns the sub-slice [off:off+n] of the backing data without
// moving the cursor, or ok=false if the range leaves the buffer. The
// returned slice aliases the backing data.
func (r *Reader) View(off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(r.data) || n > len(r.data)-off {
		return nil, false
	}
	return r.data[off : off+n], true
}

// ReadU8 reads one byte, advancing the cursor. ok is false if the
// cursor is out of bounds.
func (r *Reader) ReadU8() (v uint8, ok bool) {
	if !r.has(1) {
		return 0, false
	}
	v = r.data[r.offset]
	r.offset++
	return v, true
}

// ReadU16 reads a 2-byte unsigned integer, advancing the cursor.
func (r *Reader) ReadU16() (v uint16, ok bool) {
	if !r.has(2) {
		return 0, false
	}
	v = U16(r.data[r.offset:], r.endian)
	r.offset += 2
	return v, true
}

// ReadU32 reads a 4-byte unsigned integer, advancing the cursor.
func (r *Reader) ReadU32() (v uint32, ok bool) {
	if !r.has(4) {
		return 0, false
	}
	v = U32(r.data[r.offset:], r.endian)
	r.offset += 4
	return v, true
}

// ReadU64 reads an 8-byte unsigned integer, advancing the cursor.
func (r *Reader) ReadU64() (v uint64, ok bool) {
	if !r.has(8) {
		return 0, false
	}
	v = U64(r.data[r.offset:], r.endian)
	r.offset += 8
	return v, true
}

// ReadI32 reads a 4-byte signed integer, advancing the cursor.
func (r *Reader) ReadI32() (v int32, ok bool) {
	u, ok := r.ReadU32()
	return int32(u), ok
}

// ReadI64 reads an 8-byte signed integer, advancing the cursor.
func (r *Reader) ReadI64() (v int64, ok bool) {
	u, ok := r.ReadU64()
	return int64(u), ok
}

// ReadF32 reads a 4-byte IEEE-754 float, advancing the cursor.
func (r *Reader) ReadF32() (v float32, ok bool) {
	u, ok := r.ReadU32()
	if !ok {
		return 0, false
	}
	return math.Float32frombits(u), true
}

// ReadF64 reads an 8-byte IEEE-754 double, advancing the cursor.
func (r *Reader) ReadF64() (v float64, ok bool) {
	u, ok := r.ReadU64()
	if !ok {
		return 0, false
	}
	return math.Float64frombits(u), true
}

// ReadU24 reads a 3-byte unsigned integer, advancing the cursor.
func (r *Reader) ReadU24() (v uint32, ok bool) {
	if !r.has(3) {
		return 0, false
	}
	v = U24(r.data[r.offset:], r.endian)
	r.offset += 3
	return v, true
}

// ReadBytes reads n raw bytes, advancing the cursor. The returned
// slice aliases the reader's backing data.
func (r *Reader) ReadBytes(n int) ([]byte, bool) {
	if n < 0 || !r.has(n) {
		return nil, false
	}
	s := r.data[r.offset : r.offset+n]
	r.offset += n
	return s, true
}

// ReadString reads a null-terminated string starting at offset,
// bounded by maxLen bytes (clamped to the buffer's remaining length).
// A maxLen of -1 means "no explicit bound beyond the buffer's end".
// The cursor is not affected; ReadString is a random-access accessor,
// mirroring oead::util::BinaryReader::ReadString which takes an
// explicit offset rather than reading from Tell().
func (r *Reader) ReadString(offset int, maxLen int) (string, bool) {
	if offset < 0 || offset > len(r.data) {
		return "", false
	}
	remaining := len(r.data) - offset
	if maxLen < 0 || maxLen > remaining {
		maxLen = remaining
	}
	end := offset
	for end < offset+maxLen && r.data[end] != 0 {
		end++
	}
	return string(r.data[offset:end]), true
}

// ReadU8Unsafe and ReadU32Unsafe read without bounds checking. They
// exist only for hot paths operating on input already validated by a
// safe pass, such as the documented-precondition unsafe Yaz0 decoder
// entry point. Callers that violate the precondition get a panic
// (out-of-range slice), never silent memory corruption, since Go has
// no unchecked raw pointer access.

// ReadU32Unsafe reads a 4-byte unsigned integer without bounds
// checking. Precondition: Tell()+4 <= Len().
func (r *Reader) ReadU32Unsafe() uint32 {
	v := U32(r.data[r.offset:], r.endian)
	r.offset += 4
	return v
}

// ReadU8Unsafe reads one byte without bounds checking. Precondition:
// Tell()+1 <= Len().
func (r *Reader) ReadU8Unsafe() uint8 {
	v := r.data[r.offset]
	r.offset++
	return v
}
