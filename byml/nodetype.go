package byml

// nodeType is the on-wire one-byte type tag. Values for
// String/Array/StringTable/Bool/Int/Float/UInt/Int64/UInt64/Double/Null
// follow oead's NodeType enum exactly; Dictionary keeps oead's
// historical "Hash" tag 0xc1. Binary, File, Hash32, Hash64, and
// RelocatedStringTable are v4 additions.
type nodeType uint8

const (
	nodeString      nodeType = 0xa0
	nodeBinary      nodeType = 0xa1
	nodeFile        nodeType = 0xa2
	nodeArray       nodeType = 0xc0
	nodeDictionary  nodeType = 0xc1
	nodeStringTable nodeType = 0xc2
	nodeHash32      nodeType = 0xc3
	nodeHash64      nodeType = 0xc4
	nodeRelocTable  nodeType = 0xc5
	nodeBool        nodeType = 0xd0
	nodeInt         nodeType = 0xd1
	nodeFloat       nodeType = 0xd2
	nodeUInt        nodeType = 0xd3
	nodeInt64       nodeType = 0xd4
	nodeUInt64      nodeType = 0xd5
	nodeDouble      nodeType = 0xd6
	nodeNull        nodeType = 0xff
)

// wireType maps a Value.Type to its on-wire node type.
func wireType(t Type) (nodeType, bool) {
	switch t {
	case TypeNull:
		return nodeNull, true
	case TypeString:
		return nodeString, true
	case TypeArray:
		return nodeArray, true
	case TypeDictionary:
		return nodeDictionary, true
	case TypeBool:
		return nodeBool, true
	case TypeInt:
		return nodeInt, true
	case TypeFloat:
		return nodeFloat, true
	case TypeUInt:
		return nodeUInt, true
	case TypeInt64:
		return nodeInt64, true
	case TypeUInt64:
		return nodeUInt64, true
	case TypeDouble:
		return nodeDouble, true
	case TypeHash32:
		return nodeHash32, true
	case TypeHash64:
		return nodeHash64, true
	case TypeBinary:
		return nodeBinary, true
	case TypeFile:
		return nodeFile, true
	default:
		return 0, false
	}
}

func isContainerNode(n nodeType) bool {
	return n == nodeArray || n == nodeDictionary || n == nodeHash32 || n == nodeHash64
}

// isNonInlineType reports whether a value of this type stores an
// offset in its container cell rather than its value.
func isNonInlineType(t Type) bool {
	switch t {
	case TypeArray, TypeDictionary, TypeHash32, TypeHash64, TypeInt64, TypeUInt64, TypeDouble, TypeBinary, TypeFile:
		return true
	default:
		return false
	}
}

// minVersionFor reports the lowest BYML version that can
// represent a node of this type.
func minVersionFor(t Type) int {
	switch t {
	case TypeHash32, TypeHash64, TypeBinary, TypeFile:
		return 4
	default:
		return 1
	}
}
