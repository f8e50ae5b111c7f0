// Package byml implements Nintendo's binary tagged-tree document
// format (BYML): parsing, typed value access, and deterministic
// re-emission across format versions 1 through 10.
package byml

import (
	"fmt"
	"math"
	"sort"

	"github.com/joshuapare/nxbin/errs"
)

// Type identifies the kind of value a Value node holds.
type Type uint8

const (
	TypeNull Type = iota
	TypeString
	TypeArray
	TypeDictionary
	TypeBool
	TypeInt
	TypeFloat
	TypeUInt
	TypeInt64
	TypeUInt64
	TypeDouble
	TypeHash32
	TypeHash64
	TypeBinary
	TypeFile
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeString:
		return "String"
	case TypeArray:
		return "Array"
	case TypeDictionary:
		return "Dictionary"
	case TypeBool:
		return "Bool"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeUInt:
		return "UInt"
	case TypeInt64:
		return "Int64"
	case TypeUInt64:
		return "UInt64"
	case TypeDouble:
		return "Double"
	case TypeHash32:
		return "Hash32"
	case TypeHash64:
		return "Hash64"
	case TypeBinary:
		return "Binary"
	case TypeFile:
		return "File"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Array is an ordered sequence of document nodes.
type Array []Value

// Dictionary maps a string key to a document node. Keys are emitted in
// sorted byte-lexicographic order; in-memory iteration order of
// a Go map is not meaningful and is never relied upon.
type Dictionary map[string]Value

// Hash32 maps a 32-bit key to a document node (BYML v4+).
type Hash32 map[uint32]Value

// Hash64 maps a 64-bit key to a document node (BYML v4+).
type Hash64 map[uint64]Value

// File is an aligned byte blob: data plus the byte alignment its
// payload offset must satisfy when emitted.
type File struct {
	Data  []byte
	Align uint32
}

// Value is a single BYML document node. The zero Value is TypeNull.
//
// Scalar arms (Null, Bool, Int, UInt, Float, Int64, UInt64, Double)
// are stored inline in bits; heap-sized arms (String, Array,
// Dictionary, Hash32, Hash64, Binary, File) are boxed behind ptr, so
// copying a Value never copies a container; the scalar arms stay
// cache-friendly while the large arms live behind one indirection.
type Value struct {
	typ  Type
	bits uint64
	ptr  any
}

func Null() Value                  { return Value{typ: TypeNull} }
func StringValue(s string) Value   { return Value{typ: TypeString, ptr: s} }
func ArrayValue(a Array) Value     { return Value{typ: TypeArray, ptr: a} }
func DictValue(d Dictionary) Value { return Value{typ: TypeDictionary, ptr: d} }
func Hash32Value(h Hash32) Value   { return Value{typ: TypeHash32, ptr: h} }
func Hash64Value(h Hash64) Value   { return Value{typ: TypeHash64, ptr: h} }
func BinaryValue(b []byte) Value   { return Value{typ: TypeBinary, ptr: append([]byte(nil), b...)} }
func FileValue(f File) Value       { return Value{typ: TypeFile, ptr: f} }

func BoolValue(b bool) Value {
	var bits uint64
	if b {
		bits = 1
	}
	return Value{typ: TypeBool, bits: bits}
}
func IntValue(v int32) Value    { return Value{typ: TypeInt, bits: uint64(uint32(v))} }
func UIntValue(v uint32) Value  { return Value{typ: TypeUInt, bits: uint64(v)} }
func FloatValue(v float32) Value {
	return Value{typ: TypeFloat, bits: uint64(math.Float32bits(v))}
}
func Int64Value(v int64) Value   { return Value{typ: TypeInt64, bits: uint64(v)} }
func UInt64Value(v uint64) Value { return Value{typ: TypeUInt64, bits: v} }
func DoubleValue(v float64) Value {
	return Value{typ: TypeDouble, bits: math.Float64bits(v)}
}

// Type reports the node's kind.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether v is the Null node.
func (v Value) IsNull() bool { return v.typ == TypeNull }

func (v Value) wrongType(want Type) error {
	return errs.TypeError("expected %s, got %s", want, v.typ)
}

// GetArray returns v's array, or TypeError if v is not TypeArray.
func (v Value) GetArray() (Array, error) {
	if v.typ != TypeArray {
		return nil, v.wrongType(TypeArray)
	}
	return v.ptr.(Array), nil
}

// GetDictionary returns v's dictionary, or TypeError if v is not TypeDictionary.
func (v Value) GetDictionary() (Dictionary, error) {
	if v.typ != TypeDictionary {
		return nil, v.wrongType(TypeDictionary)
	}
	return v.ptr.(Dictionary), nil
}

// GetHash32 returns v's Hash32, or TypeError if v is not TypeHash32.
func (v Value) GetHash32() (Hash32, error) {
	if v.typ != TypeHash32 {
		return nil, v.wrongType(TypeHash32)
	}
	return v.ptr.(Hash32), nil
}

// GetHash64 returns v's Hash64, or TypeError if v is not TypeHash64.
func (v Value) GetHash64() (Hash64, error) {
	if v.typ != TypeHash64 {
		return nil, v.wrongType(TypeHash64)
	}
	return v.ptr.(Hash64), nil
}

// GetString returns v's string, or TypeError if v is not TypeString.
func (v Value) GetString() (string, error) {
	if v.typ != TypeString {
		return "", v.wrongType(TypeString)
	}
	return v.ptr.(string), nil
}

// GetBinary returns v's byte blob, or TypeError if v is not TypeBinary.
func (v Value) GetBinary() ([]byte, error) {
	if v.typ != TypeBinary {
		return nil, v.wrongType(TypeBinary)
	}
	return v.ptr.([]byte), nil
}

// GetFile returns v's aligned byte blob, or TypeError if v is not TypeFile.
func (v Value) GetFile() (File, error) {
	if v.typ != TypeFile {
		return File{}, v.wrongType(TypeFile)
	}
	return v.ptr.(File), nil
}

// GetBool returns v's bool, or TypeError if v is not TypeBool.
func (v Value) GetBool() (bool, error) {
	if v.typ != TypeBool {
		return false, v.wrongType(TypeBool)
	}
	return v.bits != 0, nil
}

// GetFloat returns v's float32. No implicit int-to-float conversion is
// performed: v must be exactly TypeFloat.
func (v Value) GetFloat() (float32, error) {
	if v.typ != TypeFloat {
		return 0, v.wrongType(TypeFloat)
	}
	return math.Float32frombits(uint32(v.bits)), nil
}

// GetDouble returns v's float64. No implicit int-to-float conversion
// is performed: v must be exactly TypeDouble.
func (v Value) GetDouble() (float64, error) {
	if v.typ != TypeDouble {
		return 0, v.wrongType(TypeDouble)
	}
	return math.Float64frombits(v.bits), nil
}

// GetInt coerces to int32: Int returned as-is, UInt
// reinterpreted bit-for-bit. Any other type is a TypeError.
func (v Value) GetInt() (int32, error) {
	switch v.typ {
	case TypeInt:
		return int32(uint32(v.bits)), nil
	case TypeUInt:
		return int32(uint32(v.bits)), nil
	default:
		return 0, errs.TypeError("GetInt: expected Int or UInt, got %s", v.typ)
	}
}

func checkNonNegative32(v int32) (uint32, error) {
	if v < 0 {
		return 0, errs.TypeError("expected non-negative value, got %d", v)
	}
	return uint32(v), nil
}

func checkNonNegative64(v int64) (uint64, error) {
	if v < 0 {
		return 0, errs.TypeError("expected non-negative value, got %d", v)
	}
	return uint64(v), nil
}

// GetUInt coerces to uint32: UInt as-is, Int only if
// non-negative.
func (v Value) GetUInt() (uint32, error) {
	switch v.typ {
	case TypeUInt:
		return uint32(v.bits), nil
	case TypeInt:
		return checkNonNegative32(int32(uint32(v.bits)))
	default:
		return 0, errs.TypeError("GetUInt: expected Int or UInt, got %s", v.typ)
	}
}

// GetInt64 coerces to int64: Int and UInt widened,
// Int64 as-is.
func (v Value) GetInt64() (int64, error) {
	switch v.typ {
	case TypeInt:
		return int64(int32(uint32(v.bits))), nil
	case TypeUInt:
		return int64(uint32(v.bits)), nil
	case TypeInt64:
		return int64(v.bits), nil
	default:
		return 0, errs.TypeError("GetInt64: expected Int, UInt or Int64, got %s", v.typ)
	}
}

// GetUInt64 coerces to uint64: UInt64 as-is, UInt
// widened, Int and Int64 only if non-negative.
func (v Value) GetUInt64() (uint64, error) {
	switch v.typ {
	case TypeInt:
		return checkNonNegative64(int64(int32(uint32(v.bits))))
	case TypeUInt:
		return uint64(uint32(v.bits)), nil
	case TypeUInt64:
		return v.bits, nil
	case TypeInt64:
		return checkNonNegative64(int64(v.bits))
	default:
		return 0, errs.TypeError("GetUInt64: expected UInt, UInt64, Int or Int64, got %s", v.typ)
	}
}

// sortedKeys returns d's keys in byte-lexicographic order.
func (d Dictionary) sortedKeys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedKeys returns h's keys in ascending order.
func (h Hash32) sortedKeys() []uint32 {
	keys := make([]uint32, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// sortedKeys returns h's keys in ascending order.
func (h Hash64) sortedKeys() []uint64 {
	keys := make([]uint64, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
