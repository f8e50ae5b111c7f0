package binary

import "math"

// Writer is a growable byte buffer addressed by a cursor, offering
// the same save-cursor/seek/patch-and-restore idioms as oead's
// BinaryWriterBase: callers reserve space for a field whose value
// isn't known yet, keep writing, and later RunAt (or
// WriteCurrentOffsetAt) to go back and fill it in.
type Writer struct {
	data   []byte
	offset int
	endian Endianness
}

// NewWriter creates an empty Writer using the given byte order.
func NewWriter(endian Endianness) *Writer {
	return &Writer{endian: endian}
}

// Tell returns the current cursor position.
func (w *Writer) Tell() int { return w.offset }

// Seek moves the cursor to an absolute offset, without affecting the
// buffer's length. Writes past the current buffer length grow it
// lazily (see GrowBuffer); reads of unwritten gaps are implicitly
// zero since Go slices zero-initialize on grow.
func (w *Writer) Seek(offset int) { w.offset = offset }

// Endian reports the writer's configured byte order.
func (w *Writer) Endian() Endianness { return w.endian }

// Len returns the buffer's current length (not the cursor position).
func (w *Writer) Len() int { return len(w.data) }

// Bytes returns the buffer built so far. The returned slice aliases
// the writer's internal storage.
func (w *Writer) Bytes() []byte { return w.data }

// Finalize returns the buffer built so far and resets the writer to
// empty, mirroring BinaryWriterBase::Finalize.
func (w *Writer) Finalize() []byte {
	b := w.data
	w.data = nil
	w.offset = 0
	return b
}

func (w *Writer) ensure(n int) {
	end := w.offset + n
	if end > len(w.data) {
		grown := make([]byte, end)
		copy(grown, w.data)
		w.data = grown
	}
}

// WriteBytes appends raw bytes at the cursor, growing the buffer as
// needed, and advances the cursor.
func (w *Writer) WriteBytes(b []byte) {
	w.ensure(len(b))
	copy(w.data[w.offset:], b)
	w.offset += len(b)
}

// WriteU8 writes one byte at the cursor.
func (w *Writer) WriteU8(v uint8) {
	w.ensure(1)
	w.data[w.offset] = v
	w.offset++
}

// WriteU16 writes a 2-byte unsigned integer at the cursor.
func (w *Writer) WriteU16(v uint16) {
	w.ensure(2)
	PutU16(w.data[w.offset:], v, w.endian)
	w.offset += 2
}

// WriteU32 writes a 4-byte unsigned integer at the cursor.
func (w *Writer) WriteU32(v uint32) {
	w.ensure(4)
	PutU32(w.data[w.offset:], v, w.endian)
	w.offset += 4
}

// WriteU64 writes an 8-byte unsigned integer at the cursor.
func (w *Writer) WriteU64(v uint64) {
	w.ensure(8)
	PutU64(w.data[w.offset:], v, w.endian)
	w.offset += 8
}

// WriteI32 writes a 4-byte signed integer at the cursor.
func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }

// WriteI64 writes an 8-byte signed integer at the cursor.
func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

// WriteF32 writes a 4-byte IEEE-754 float at the cursor.
func (w *Writer) WriteF32(v float32) { w.WriteU32(math.Float32bits(v)) }

// WriteF64 writes an 8-byte IEEE-754 double at the cursor.
func (w *Writer) WriteF64(v float64) { w.WriteU64(math.Float64bits(v)) }

// WriteU24 writes a 3-byte unsigned integer at the cursor.
func (w *Writer) WriteU24(v uint32) {
	w.ensure(3)
	PutU24(w.data[w.offset:], v, w.endian)
	w.offset += 3
}

// WriteNul writes a single zero byte.
func (w *Writer) WriteNul() { w.WriteU8(0) }

// WriteCStr writes s followed by a terminating zero byte.
func (w *Writer) WriteCStr(s string) {
	w.WriteBytes([]byte(s))
	w.WriteNul()
}

// AlignUp advances the cursor to the next multiple of n (n must be a
// power of two), without writing any bytes; a subsequent write at the
// new cursor grows the buffer with implicit zero padding.
func (w *Writer) AlignUp(n int) {
	w.Seek(alignUp(w.Tell(), n))
}

func alignUp(v, n int) int {
	return (v + n - 1) &^ (n - 1)
}

// GrowBuffer ensures the backing buffer's length covers the current
// cursor, zero-filling the gap. Mirrors BinaryWriterBase::GrowBuffer,
// used after an AlignUp/Seek past the end of what's been written.
func (w *Writer) GrowBuffer() {
	if w.offset > len(w.data) {
		grown := make([]byte, w.offset)
		copy(grown, w.data)
		w.data = grown
	}
}

// RunAt saves the cursor, seeks to offset, invokes fn with the saved
// cursor value, and restores the cursor. This is the building block
// for back-patching a placeholder field once its final value is
// known.
func (w *Writer) RunAt(offset int, fn func(savedOffset int)) {
	saved := w.Tell()
	w.Seek(offset)
	fn(saved)
	w.Seek(saved)
}

// WriteU32At writes v at offset without disturbing the cursor.
func (w *Writer) WriteU32At(offset int, v uint32) {
	w.RunAt(offset, func(int) { w.WriteU32(v) })
}

// WriteU16At writes v at offset without disturbing the cursor.
func (w *Writer) WriteU16At(offset int, v uint16) {
	w.RunAt(offset, func(int) { w.WriteU16(v) })
}

// WriteU24At writes v at offset without disturbing the cursor.
func (w *Writer) WriteU24At(offset int, v uint32) {
	w.RunAt(offset, func(int) { w.WriteU24(v) })
}

// WriteCurrentOffsetAt writes (Tell() - base) as a 4-byte field at
// placeholderOffset, without disturbing the cursor. This is the Go
// equivalent of BinaryWriterBase::WriteCurrentOffsetAt<T>, specialized
// to the 4-byte offset fields every format here uses.
func (w *Writer) WriteCurrentOffsetAt(placeholderOffset, base int) {
	current := w.Tell()
	w.WriteU32At(placeholderOffset, uint32(current-base))
}
