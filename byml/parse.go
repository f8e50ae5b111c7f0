package byml

import (
	"math"

	"github.com/joshuapare/nxbin/errs"
	bin "github.com/joshuapare/nxbin/internal/binary"
)

const headerSize = 0x10

// IsValidVersion reports whether version is a BYML version this
// parser understands.
func IsValidVersion(version int) bool { return version >= 1 && version <= 10 }

type parser struct {
	r             *bin.Reader
	version       int
	hashKeyTable  stringTableParser
	stringTable   stringTableParser
	rootOffset    uint32
}

// Parse decodes a BYML document from its binary representation
//. It returns Null() for a document whose root offset is zero
// (the totally-empty document).
func Parse(data []byte) (Value, error) {
	if len(data) < headerSize {
		return Value{}, errs.InvalidData("buffer too small for BYML header (%d bytes)", len(data))
	}

	var endian bin.Endianness
	switch {
	case data[0] == 'B' && data[1] == 'Y':
		endian = bin.BigEndian
	case data[0] == 'Y' && data[1] == 'B':
		endian = bin.LittleEndian
	default:
		return Value{}, errs.InvalidData("bad magic %q", data[0:2])
	}

	r := bin.NewReader(data, endian)
	r.Seek(2)
	rawVersion, ok := r.ReadU16()
	if !ok {
		return Value{}, errs.InvalidData("truncated header")
	}
	version := int(rawVersion)
	if !IsValidVersion(version) {
		return Value{}, errs.InvalidData("unsupported BYML version %d", version)
	}

	r.Seek(4)
	hashKeyOff, ok := r.ReadU32()
	if !ok {
		return Value{}, errs.InvalidData("truncated header")
	}
	strOff, ok := r.ReadU32()
	if !ok {
		return Value{}, errs.InvalidData("truncated header")
	}
	rootOff, ok := r.ReadU32()
	if !ok {
		return Value{}, errs.InvalidData("truncated header")
	}

	hashKeyTable, err := newStringTableParser(r, hashKeyOff)
	if err != nil {
		return Value{}, err
	}
	stringTable, err := newStringTableParser(r, strOff)
	if err != nil {
		return Value{}, err
	}

	p := &parser{r: r, version: version, hashKeyTable: hashKeyTable, stringTable: stringTable, rootOffset: rootOff}
	if rootOff == 0 {
		return Null(), nil
	}
	return p.parseContainerNode(rootOff)
}

func (p *parser) readNodeTypeAt(offset uint32) (nodeType, bool) {
	p.r.Seek(int(offset))
	b, ok := p.r.ReadU8()
	return nodeType(b), ok
}

func (p *parser) parseContainerNode(offset uint32) (Value, error) {
	n, ok := p.readNodeTypeAt(offset)
	if !ok {
		return Value{}, errs.InvalidData("container node header out of bounds at %#x", offset)
	}
	p.r.Seek(int(offset) + 1)
	size, ok := p.r.ReadU24()
	if !ok {
		return Value{}, errs.InvalidData("container node size out of bounds at %#x", offset)
	}
	switch n {
	case nodeArray:
		return p.parseArrayNode(offset, size)
	case nodeDictionary:
		return p.parseDictionaryNode(offset, size)
	case nodeHash32:
		return p.parseHash32Node(offset, size)
	case nodeHash64:
		return p.parseHash64Node(offset, size)
	default:
		return Value{}, errs.Unsupported("container node type %#x at %#x", byte(n), offset)
	}
}

func (p *parser) parseContainerChildNode(offset uint32, n nodeType) (Value, error) {
	if isContainerNode(n) {
		p.r.Seek(int(offset))
		childOff, ok := p.r.ReadU32()
		if !ok {
			return Value{}, errs.InvalidData("child offset out of bounds at %#x", offset)
		}
		return p.parseContainerNode(childOff)
	}
	return p.parseValueNode(offset, n)
}

func (p *parser) parseValueNode(offset uint32, n nodeType) (Value, error) {
	p.r.Seek(int(offset))
	raw, ok := p.r.ReadU32()
	if !ok {
		return Value{}, errs.InvalidData("value node out of bounds at %#x", offset)
	}

	readLong := func() (uint64, error) {
		p.r.Seek(int(raw))
		v, ok := p.r.ReadU64()
		if !ok {
			return 0, errs.InvalidData("long value out of bounds at %#x", raw)
		}
		return v, nil
	}

	switch n {
	case nodeString:
		s, err := p.stringTable.GetString(p.r, raw)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case nodeBool:
		return BoolValue(raw != 0), nil
	case nodeInt:
		return IntValue(int32(raw)), nil
	case nodeFloat:
		return FloatValue(math.Float32frombits(raw)), nil
	case nodeUInt:
		return UIntValue(raw), nil
	case nodeInt64:
		v, err := readLong()
		if err != nil {
			return Value{}, err
		}
		return Int64Value(int64(v)), nil
	case nodeUInt64:
		v, err := readLong()
		if err != nil {
			return Value{}, err
		}
		return UInt64Value(v), nil
	case nodeDouble:
		v, err := readLong()
		if err != nil {
			return Value{}, err
		}
		return DoubleValue(math.Float64frombits(v)), nil
	case nodeBinary:
		return p.parseBinaryNode(raw)
	case nodeFile:
		return p.parseFileNode(raw)
	case nodeNull:
		return Null(), nil
	default:
		return Value{}, errs.Unsupported("value node type %#x", byte(n))
	}
}

func (p *parser) parseBinaryNode(offset uint32) (Value, error) {
	p.r.Seek(int(offset))
	size, ok := p.r.ReadU32()
	if !ok {
		return Value{}, errs.InvalidData("binary node: missing size at %#x", offset)
	}
	data, ok := p.r.ReadBytes(int(size))
	if !ok {
		return Value{}, errs.InvalidData("binary node: payload out of bounds at %#x", offset)
	}
	return BinaryValue(data), nil
}

func (p *parser) parseFileNode(offset uint32) (Value, error) {
	p.r.Seek(int(offset))
	size, ok := p.r.ReadU32()
	if !ok {
		return Value{}, errs.InvalidData("file node: missing size at %#x", offset)
	}
	align, ok := p.r.ReadU32()
	if !ok {
		return Value{}, errs.InvalidData("file node: missing alignment at %#x", offset)
	}
	data, ok := p.r.ReadBytes(int(size))
	if !ok {
		return Value{}, errs.InvalidData("file node: payload out of bounds at %#x", offset)
	}
	return FileValue(File{Data: data, Align: align}), nil
}

func (p *parser) parseArrayNode(offset, size uint32) (Value, error) {
	result := make(Array, 0, size)
	typesOffset := offset + 4
	valuesOffset := offset + 4 + alignUp32(size, 4)
	for i := uint32(0); i < size; i++ {
		n, ok := p.readNodeTypeAt(typesOffset + i)
		if !ok {
			return Value{}, errs.InvalidData("array: type byte out of bounds at index %d", i)
		}
		child, err := p.parseContainerChildNode(valuesOffset+4*i, n)
		if err != nil {
			return Value{}, err
		}
		result = append(result, child)
	}
	return ArrayValue(result), nil
}

func (p *parser) parseDictionaryNode(offset, size uint32) (Value, error) {
	result := make(Dictionary, size)
	for i := uint32(0); i < size; i++ {
		entryOff := offset + 4 + 8*i
		p.r.Seek(int(entryOff))
		keyIdx, ok := p.r.ReadU24()
		if !ok {
			return Value{}, errs.InvalidData("dictionary: key index out of bounds at entry %d", i)
		}
		n, ok := p.readNodeTypeAt(entryOff + 3)
		if !ok {
			return Value{}, errs.InvalidData("dictionary: type byte out of bounds at entry %d", i)
		}
		key, err := p.hashKeyTable.GetString(p.r, keyIdx)
		if err != nil {
			return Value{}, err
		}
		child, err := p.parseContainerChildNode(entryOff+4, n)
		if err != nil {
			return Value{}, err
		}
		result[key] = child
	}
	return DictValue(result), nil
}

func (p *parser) parseHash32Node(offset, size uint32) (Value, error) {
	const entrySize = 8
	result := make(Hash32, size)
	base := offset + 4
	typesBase := base + size*entrySize
	for i := uint32(0); i < size; i++ {
		entryOff := base + i*entrySize
		p.r.Seek(int(entryOff))
		key, ok := p.r.ReadU32()
		if !ok {
			return Value{}, errs.InvalidData("hash32: key out of bounds at entry %d", i)
		}
		n, ok := p.readNodeTypeAt(typesBase + i)
		if !ok {
			return Value{}, errs.InvalidData("hash32: type byte out of bounds at entry %d", i)
		}
		child, err := p.parseContainerChildNode(entryOff+4, n)
		if err != nil {
			return Value{}, err
		}
		result[key] = child
	}
	return Hash32Value(result), nil
}

func (p *parser) parseHash64Node(offset, size uint32) (Value, error) {
	const entrySize = 12
	result := make(Hash64, size)
	base := offset + 4
	typesBase := base + size*entrySize
	for i := uint32(0); i < size; i++ {
		entryOff := base + i*entrySize
		p.r.Seek(int(entryOff))
		key, ok := p.r.ReadU64()
		if !ok {
			return Value{}, errs.InvalidData("hash64: key out of bounds at entry %d", i)
		}
		n, ok := p.readNodeTypeAt(typesBase + i)
		if !ok {
			return Value{}, errs.InvalidData("hash64: type byte out of bounds at entry %d", i)
		}
		child, err := p.parseContainerChildNode(entryOff+8, n)
		if err != nil {
			return Value{}, err
		}
		result[key] = child
	}
	return Hash64Value(result), nil
}

func alignUp32(v, n uint32) uint32 {
	return (v + n - 1) &^ (n - 1)
}
