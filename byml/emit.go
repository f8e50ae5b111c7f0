package byml

import (
	"github.com/joshuapare/nxbin/errs"
	bin "github.com/joshuapare/nxbin/internal/binary"
)

// Emit serializes doc to a BYML binary buffer at the given endianness
// and version. doc must be Null,
// an Array, a Dictionary, a Hash32, or a Hash64; any other root type
// is a TypeError, matching oead's own restriction to Null/Array/Hash
// roots.
func Emit(doc Value, bigEndian bool, version int) ([]byte, error) {
	if !IsValidVersion(version) {
		return nil, errs.InvalidData("invalid BYML version %d", version)
	}
	switch doc.Type() {
	case TypeNull, TypeArray, TypeDictionary, TypeHash32, TypeHash64:
	default:
		return nil, errs.TypeError("BYML root must be Null, Array, Dictionary, Hash32 or Hash64, got %s", doc.Type())
	}
	if err := checkVersion(doc, version); err != nil {
		return nil, err
	}

	endian := bin.LittleEndian
	if bigEndian {
		endian = bin.BigEndian
	}
	ctx := newWriteContext(doc, endian)

	if bigEndian {
		ctx.w.WriteBytes([]byte("BY"))
	} else {
		ctx.w.WriteBytes([]byte("YB"))
	}
	ctx.w.WriteU16(uint16(version))
	hashKeyOffsetField := ctx.w.Tell()
	ctx.w.WriteU32(0)
	stringOffsetField := ctx.w.Tell()
	ctx.w.WriteU32(0)
	rootOffsetField := ctx.w.Tell()
	ctx.w.WriteU32(0)

	if doc.Type() == TypeNull {
		return ctx.w.Finalize(), nil
	}

	if !ctx.hashKeyTable.Empty() {
		ctx.w.WriteCurrentOffsetAt(hashKeyOffsetField, 0)
		ctx.hashKeyTable.Write(ctx.w)
	}
	if !ctx.stringTable.Empty() {
		ctx.w.WriteCurrentOffsetAt(stringOffsetField, 0)
		ctx.stringTable.Write(ctx.w)
	}

	ctx.w.WriteCurrentOffsetAt(rootOffsetField, 0)
	ctx.w.AlignUp(4)
	ctx.w.GrowBuffer()
	if err := ctx.writeContainerNode(doc); err != nil {
		return nil, err
	}
	ctx.w.AlignUp(4)
	ctx.w.GrowBuffer()
	return ctx.w.Finalize(), nil
}

// checkVersion walks doc and fails with InvalidData if any node
// requires a newer version than the caller asked for.
func checkVersion(v Value, version int) error {
	if need := minVersionFor(v.Type()); need > version {
		return errs.InvalidData("%s node requires BYML version >= %d, got %d", v.Type(), need, version)
	}
	switch v.Type() {
	case TypeArray:
		arr, _ := v.GetArray()
		for _, item := range arr {
			if err := checkVersion(item, version); err != nil {
				return err
			}
		}
	case TypeDictionary:
		dict, _ := v.GetDictionary()
		for _, item := range dict {
			if err := checkVersion(item, version); err != nil {
				return err
			}
		}
	case TypeHash32:
		h, _ := v.GetHash32()
		for _, item := range h {
			if err := checkVersion(item, version); err != nil {
				return err
			}
		}
	case TypeHash64:
		h, _ := v.GetHash64()
		for _, item := range h {
			if err := checkVersion(item, version); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeContext accumulates the two intern tables during an initial
// traversal, then re-walks the tree to emit containers depth first,
// deduplicating non-inline payloads by structural fingerprint.
// Grounded on WriteContext in byml.cpp.
type writeContext struct {
	w            *bin.Writer
	hashKeyTable *writeStringTable
	stringTable  *writeStringTable
	written      map[string]int // fingerprint -> absolute offset
}

func newWriteContext(root Value, endian bin.Endianness) *writeContext {
	ctx := &writeContext{
		w:            bin.NewWriter(endian),
		hashKeyTable: newWriteStringTable(),
		stringTable:  newWriteStringTable(),
		written:      make(map[string]int),
	}
	ctx.collect(root)
	ctx.hashKeyTable.Build()
	ctx.stringTable.Build()
	return ctx
}

func (ctx *writeContext) collect(v Value) {
	switch v.Type() {
	case TypeString:
		s, _ := v.GetString()
		ctx.stringTable.Add(s)
	case TypeArray:
		arr, _ := v.GetArray()
		for _, item := range arr {
			ctx.collect(item)
		}
	case TypeDictionary:
		dict, _ := v.GetDictionary()
		for _, key := range dict.sortedKeys() {
			ctx.hashKeyTable.Add(key)
			ctx.collect(dict[key])
		}
	case TypeHash32:
		h, _ := v.GetHash32()
		for _, key := range h.sortedKeys() {
			ctx.collect(h[key])
		}
	case TypeHash64:
		h, _ := v.GetHash64()
		for _, key := range h.sortedKeys() {
			ctx.collect(h[key])
		}
	}
}

func (ctx *writeContext) writeValueNode(v Value) error {
	switch v.Type() {
	case TypeNull:
		ctx.w.WriteU32(0)
	case TypeString:
		s, _ := v.GetString()
		ctx.w.WriteU32(ctx.stringTable.Index(s))
	case TypeBool:
		b, _ := v.GetBool()
		if b {
			ctx.w.WriteU32(1)
		} else {
			ctx.w.WriteU32(0)
		}
	case TypeInt:
		i, _ := v.GetInt()
		ctx.w.WriteI32(i)
	case TypeFloat:
		f, _ := v.GetFloat()
		ctx.w.WriteF32(f)
	case TypeUInt:
		u, _ := v.GetUInt()
		ctx.w.WriteU32(u)
	case TypeInt64:
		i, _ := v.GetInt64()
		ctx.w.WriteI64(i)
	case TypeUInt64:
		u, _ := v.GetUInt64()
		ctx.w.WriteU64(u)
	case TypeDouble:
		d, _ := v.GetDouble()
		ctx.w.WriteF64(d)
	default:
		return errs.InvalidData("unexpected inline value node type %s", v.Type())
	}
	return nil
}

type pendingNode struct {
	offsetInContainer int
	value             Value
}

func (ctx *writeContext) writeContainerItem(v Value, pending *[]pendingNode) error {
	if isNonInlineType(v.Type()) {
		*pending = append(*pending, pendingNode{offsetInContainer: ctx.w.Tell(), value: v})
		ctx.w.WriteU32(0)
		return nil
	}
	return ctx.writeValueNode(v)
}

func (ctx *writeContext) writeContainerNode(v Value) error {
	var pending []pendingNode

	switch v.Type() {
	case TypeArray:
		arr, _ := v.GetArray()
		ctx.w.WriteU8(byte(nodeArray))
		ctx.w.WriteU24(uint32(len(arr)))
		for _, item := range arr {
			n, ok := wireType(item.Type())
			if !ok {
				return errs.InvalidData("cannot emit array item of type %s", item.Type())
			}
			ctx.w.WriteU8(byte(n))
		}
		ctx.w.AlignUp(4)
		ctx.w.GrowBuffer()
		for _, item := range arr {
			if err := ctx.writeContainerItem(item, &pending); err != nil {
				return err
			}
		}
	case TypeDictionary:
		dict, _ := v.GetDictionary()
		keys := dict.sortedKeys()
		ctx.w.WriteU8(byte(nodeDictionary))
		ctx.w.WriteU24(uint32(len(keys)))
		for _, key := range keys {
			item := dict[key]
			n, ok := wireType(item.Type())
			if !ok {
				return errs.InvalidData("cannot emit dictionary value of type %s", item.Type())
			}
			ctx.w.WriteU24(ctx.hashKeyTable.Index(key))
			ctx.w.WriteU8(byte(n))
			if err := ctx.writeContainerItem(item, &pending); err != nil {
				return err
			}
		}
	case TypeHash32:
		h, _ := v.GetHash32()
		keys := h.sortedKeys()
		ctx.w.WriteU8(byte(nodeHash32))
		ctx.w.WriteU24(uint32(len(keys)))
		entryBase := ctx.w.Tell()
		for i, key := range keys {
			ctx.w.Seek(entryBase + i*8)
			ctx.w.WriteU32(key)
			ctx.w.GrowBuffer()
		}
		ctx.w.Seek(entryBase + len(keys)*8)
		ctx.w.GrowBuffer()
		typesBase := ctx.w.Tell()
		for i, key := range keys {
			item := h[key]
			n, ok := wireType(item.Type())
			if !ok {
				return errs.InvalidData("cannot emit hash32 value of type %s", item.Type())
			}
			ctx.w.Seek(typesBase + i)
			ctx.w.WriteU8(byte(n))
		}
		ctx.w.Seek(typesBase + len(keys))
		ctx.w.GrowBuffer()
		for i, key := range keys {
			ctx.w.Seek(entryBase + i*8 + 4)
			if err := ctx.writeContainerItem(h[key], &pending); err != nil {
				return err
			}
		}
		ctx.w.Seek(typesBase + len(keys))
		ctx.w.AlignUp(4)
		ctx.w.GrowBuffer()
	case TypeHash64:
		h, _ := v.GetHash64()
		keys := h.sortedKeys()
		ctx.w.WriteU8(byte(nodeHash64))
		ctx.w.WriteU24(uint32(len(keys)))
		entryBase := ctx.w.Tell()
		for i, key := range keys {
			ctx.w.Seek(entryBase + i*12)
			ctx.w.WriteU64(key)
			ctx.w.GrowBuffer()
		}
		ctx.w.Seek(entryBase + len(keys)*12)
		ctx.w.GrowBuffer()
		typesBase := ctx.w.Tell()
		for i, key := range keys {
			item := h[key]
			n, ok := wireType(item.Type())
			if !ok {
				return errs.InvalidData("cannot emit hash64 value of type %s", item.Type())
			}
			ctx.w.Seek(typesBase + i)
			ctx.w.WriteU8(byte(n))
		}
		ctx.w.Seek(typesBase + len(keys))
		ctx.w.GrowBuffer()
		for i, key := range keys {
			ctx.w.Seek(entryBase + i*12 + 8)
			if err := ctx.writeContainerItem(h[key], &pending); err != nil {
				return err
			}
		}
		ctx.w.Seek(typesBase + len(keys))
		ctx.w.AlignUp(4)
		ctx.w.GrowBuffer()
	default:
		return errs.InvalidData("invalid container node type %s", v.Type())
	}

	for _, node := range pending {
		fp := fingerprint(node.value)
		if offset, ok := ctx.written[fp]; ok {
			ctx.w.WriteU32At(node.offsetInContainer, uint32(offset))
			continue
		}
		var offset int
		var err error
		switch node.value.Type() {
		case TypeInt64, TypeUInt64, TypeDouble:
			ctx.w.Seek(ctx.w.Len())
			offset = ctx.w.Tell()
			err = ctx.writeValueNode(node.value)
		case TypeBinary:
			ctx.w.Seek(ctx.w.Len())
			offset, err = ctx.writeBinaryPayload(node.value)
		case TypeFile:
			ctx.w.Seek(ctx.w.Len())
			offset, err = ctx.writeFilePayload(node.value)
		default:
			ctx.w.Seek(ctx.w.Len())
			offset = ctx.w.Tell()
			err = ctx.writeContainerNode(node.value)
		}
		if err != nil {
			return err
		}
		ctx.w.GrowBuffer()
		ctx.w.WriteU32At(node.offsetInContainer, uint32(offset))
		ctx.written[fp] = offset
	}
	return nil
}

func (ctx *writeContext) writeBinaryPayload(v Value) (int, error) {
	data, _ := v.GetBinary()
	offset := ctx.w.Tell()
	ctx.w.WriteU32(uint32(len(data)))
	ctx.w.WriteBytes(data)
	return offset, nil
}

// writeFilePayload emits a File node such that the data region (which
// begins 8 bytes after the node's own offset, past the size and align
// fields) satisfies the File value's requested alignment.
func (ctx *writeContext) writeFilePayload(v Value) (int, error) {
	f, _ := v.GetFile()
	align := f.Align
	if align == 0 {
		align = 1
	}
	for {
		candidate := ctx.w.Tell()
		dataStart := candidate + 8
		if uint32(dataStart)%align == 0 {
			break
		}
		ctx.w.WriteU8(0)
		ctx.w.GrowBuffer()
	}
	offset := ctx.w.Tell()
	ctx.w.WriteU32(uint32(len(f.Data)))
	ctx.w.WriteU32(align)
	ctx.w.WriteBytes(f.Data)
	return offset, nil
}
