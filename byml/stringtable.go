package byml

import (
	"sort"

	"github.com/joshuapare/nxbin/errs"
	bin "github.com/joshuapare/nxbin/internal/binary"
)

// stringTableParser resolves an index into a `0xc2` StringTable node
// (or a `0xc5` RelocatedStringTable that rebases one) into the string
// it names.
type stringTableParser struct {
	base int
	size uint32
}

func newStringTableParser(r *bin.Reader, offset uint32) (stringTableParser, error) {
	if offset == 0 {
		return stringTableParser{}, nil
	}
	base := int(offset)
	r.Seek(base)
	typByte, ok := r.ReadU8()
	if !ok {
		return stringTableParser{}, errs.InvalidData("string table: header out of bounds")
	}
	n := nodeType(typByte)
	if n == nodeRelocTable {
		rebase, ok := r.ReadU64()
		if !ok {
			return stringTableParser{}, errs.InvalidData("relocated string table: missing rebase offset")
		}
		base = int(rebase)
		r.Seek(base)
		typByte, ok = r.ReadU8()
		if !ok {
			return stringTableParser{}, errs.InvalidData("relocated string table: rebased header out of bounds")
		}
		n = nodeType(typByte)
	}
	if n != nodeStringTable {
		return stringTableParser{}, errs.InvalidData("expected string table node, got %#x", byte(n))
	}
	count, ok := r.ReadU24()
	if !ok || count == 0 {
		return stringTableParser{}, errs.InvalidData("string table: missing or zero entry count")
	}
	return stringTableParser{base: base, size: count}, nil
}

// GetString resolves entry idx, validating the entry's offset pair is
// monotonic non-decreasing (next >= current).
func (p stringTableParser) GetString(r *bin.Reader, idx uint32) (string, error) {
	if idx >= p.size {
		return "", errs.InvalidData("string table index %d out of range (size %d)", idx, p.size)
	}
	r.Seek(p.base + 4 + 4*int(idx))
	relOffset, ok := r.ReadU32()
	if !ok {
		return "", errs.InvalidData("string table: failed to read offset %d", idx)
	}
	nextRelOffset, ok := r.ReadU32()
	if !ok {
		return "", errs.InvalidData("string table: failed to read offset %d", idx+1)
	}
	if nextRelOffset < relOffset {
		return "", errs.InvalidData("string table: non-monotonic offsets at index %d", idx)
	}
	maxLen := int(nextRelOffset - relOffset)
	s, ok := r.ReadString(p.base+int(relOffset), maxLen)
	if !ok {
		return "", errs.InvalidData("string table: string %d out of bounds", idx)
	}
	return s, nil
}

// writeStringTable accumulates strings added during a document
// traversal and assigns each a sorted index, mirroring
// WriteContext::StringTable in byml.cpp.
type writeStringTable struct {
	indices map[string]uint32
	sorted  []string
}

func newWriteStringTable() *writeStringTable {
	return &writeStringTable{indices: make(map[string]uint32)}
}

func (t *writeStringTable) Add(s string) {
	if _, ok := t.indices[s]; !ok {
		t.indices[s] = 0
	}
}

func (t *writeStringTable) Build() {
	t.sorted = make([]string, 0, len(t.indices))
	for s := range t.indices {
		t.sorted = append(t.sorted, s)
	}
	sort.Strings(t.sorted)
	for i, s := range t.sorted {
		t.indices[s] = uint32(i)
	}
}

func (t *writeStringTable) Index(s string) uint32 { return t.indices[s] }
func (t *writeStringTable) Len() int               { return len(t.sorted) }
func (t *writeStringTable) Empty() bool            { return len(t.sorted) == 0 }

// Write emits the `0xc2` StringTable node at the writer's current
// position: a 1-byte type, 24-bit count, (count+1) offsets relative to
// the table's own base, and null-terminated strings — exactly
// WriteContext::WriteStringTable in byml.cpp.
func (t *writeStringTable) Write(w *bin.Writer) {
	base := w.Tell()
	w.WriteU8(byte(nodeStringTable))
	w.WriteU24(uint32(len(t.sorted)))

	offsetTableOffset := w.Tell()
	w.Seek(w.Tell() + 4*(len(t.sorted)+1))
	w.GrowBuffer()

	for i, s := range t.sorted {
		w.WriteCurrentOffsetAt(offsetTableOffset+4*i, base)
		w.WriteCStr(s)
	}
	w.WriteCurrentOffsetAt(offsetTableOffset+4*len(t.sorted), base)
	w.AlignUp(4)
	w.GrowBuffer()
}
