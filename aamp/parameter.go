package aamp

import "github.com/joshuapare/nxbin/errs"

// ParamType is the on-wire type tag for a Parameter. The
// numeric values match oead's Parameter::Type enum order exactly,
// since that order is what the one-byte ResParameter.type field
// encodes on the wire.
type ParamType uint8

const (
	Bool ParamType = iota
	F32
	Int
	Vec2Type
	Vec3Type
	Vec4Type
	ColorType
	String32
	String64
	Curve1
	Curve2
	Curve3
	Curve4
	BufferInt
	BufferF32
	String256
	QuatType
	U32
	BufferU32
	BufferBinary
	StringRef
)

func (t ParamType) String() string {
	switch t {
	case Bool:
		return "Bool"
	case F32:
		return "F32"
	case Int:
		return "Int"
	case Vec2Type:
		return "Vec2"
	case Vec3Type:
		return "Vec3"
	case Vec4Type:
		return "Vec4"
	case ColorType:
		return "Color"
	case String32:
		return "String32"
	case String64:
		return "String64"
	case Curve1:
		return "Curve1"
	case Curve2:
		return "Curve2"
	case Curve3:
		return "Curve3"
	case Curve4:
		return "Curve4"
	case BufferInt:
		return "BufferInt"
	case BufferF32:
		return "BufferF32"
	case String256:
		return "String256"
	case QuatType:
		return "Quat"
	case U32:
		return "U32"
	case BufferU32:
		return "BufferU32"
	case BufferBinary:
		return "BufferBinary"
	case StringRef:
		return "StringRef"
	default:
		return "Unknown"
	}
}

// IsStringType reports whether t is one of the four string-bearing
// parameter types, which are written to the string section rather
// than the data section.
func IsStringType(t ParamType) bool {
	return t == String32 || t == String64 || t == String256 || t == StringRef
}

// IsBufferType reports whether t carries a length-prefixed buffer
// payload.
func IsBufferType(t ParamType) bool {
	return t == BufferInt || t == BufferU32 || t == BufferF32 || t == BufferBinary
}

// Vec2 is a 2-component float vector.
type Vec2 struct{ X, Y float32 }

// Vec3 is a 3-component float vector.
type Vec3 struct{ X, Y, Z float32 }

// Vec4 is a 4-component float vector.
type Vec4 struct{ X, Y, Z, W float32 }

// Color4 is an RGBA color.
type Color4 struct{ R, G, B, A float32 }

// Quat is a quaternion.
type Quat struct{ A, B, C, D float32 }

// Curve is sead::hostio::curve: two leading u32 fields followed by 30
// packed floats (0x80 bytes total).
type Curve struct {
	A, B   uint32
	Floats [30]float32
}

// Parameter holds exactly one of the 21 typed variants. The
// zero Parameter is invalid; always construct one of the typed
// variants below.
type Parameter struct {
	typ ParamType
	v   any
}

// Type reports the parameter's on-wire type tag.
func (p Parameter) Type() ParamType { return p.typ }

func wrongParamType(want ParamType, got ParamType) error {
	return errs.TypeError("expected %s parameter, got %s", want, got)
}

// BoolParam constructs a Bool parameter.
func BoolParam(v bool) Parameter { return Parameter{typ: Bool, v: v} }

// GetBool returns p's bool value.
func (p Parameter) GetBool() (bool, error) {
	if p.typ != Bool {
		return false, wrongParamType(Bool, p.typ)
	}
	return p.v.(bool), nil
}

// F32Param constructs an F32 parameter.
func F32Param(v float32) Parameter { return Parameter{typ: F32, v: v} }

// GetF32 returns p's float32 value.
func (p Parameter) GetF32() (float32, error) {
	if p.typ != F32 {
		return 0, wrongParamType(F32, p.typ)
	}
	return p.v.(float32), nil
}

// IntParam constructs an Int parameter.
func IntParam(v int32) Parameter { return Parameter{typ: Int, v: v} }

// GetInt returns p's int32 value.
func (p Parameter) GetInt() (int32, error) {
	if p.typ != Int {
		return 0, wrongParamType(Int, p.typ)
	}
	return p.v.(int32), nil
}

// Vec2Param constructs a Vec2 parameter.
func Vec2Param(v Vec2) Parameter { return Parameter{typ: Vec2Type, v: v} }

// GetVec2 returns p's Vec2 value.
func (p Parameter) GetVec2() (Vec2, error) {
	if p.typ != Vec2Type {
		return Vec2{}, wrongParamType(Vec2Type, p.typ)
	}
	return p.v.(Vec2), nil
}

// Vec3Param constructs a Vec3 parameter.
func Vec3Param(v Vec3) Parameter { return Parameter{typ: Vec3Type, v: v} }

// GetVec3 returns p's Vec3 value.
func (p Parameter) GetVec3() (Vec3, error) {
	if p.typ != Vec3Type {
		return Vec3{}, wrongParamType(Vec3Type, p.typ)
	}
	return p.v.(Vec3), nil
}

// Vec4Param constructs a Vec4 parameter.
func Vec4Param(v Vec4) Parameter { return Parameter{typ: Vec4Type, v: v} }

// GetVec4 returns p's Vec4 value.
func (p Parameter) GetVec4() (Vec4, error) {
	if p.typ != Vec4Type {
		return Vec4{}, wrongParamType(Vec4Type, p.typ)
	}
	return p.v.(Vec4), nil
}

// ColorParam constructs a Color parameter.
func ColorParam(v Color4) Parameter { return Parameter{typ: ColorType, v: v} }

// GetColor returns p's Color4 value.
func (p Parameter) GetColor() (Color4, error) {
	if p.typ != ColorType {
		return Color4{}, wrongParamType(ColorType, p.typ)
	}
	return p.v.(Color4), nil
}

// QuatParam constructs a Quat parameter.
func QuatParam(v Quat) Parameter { return Parameter{typ: QuatType, v: v} }

// GetQuat returns p's Quat value.
func (p Parameter) GetQuat() (Quat, error) {
	if p.typ != QuatType {
		return Quat{}, wrongParamType(QuatType, p.typ)
	}
	return p.v.(Quat), nil
}

// U32Param constructs a U32 parameter.
func U32Param(v uint32) Parameter { return Parameter{typ: U32, v: v} }

// GetU32 returns p's uint32 value.
func (p Parameter) GetU32() (uint32, error) {
	if p.typ != U32 {
		return 0, wrongParamType(U32, p.typ)
	}
	return p.v.(uint32), nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// String32Param constructs a String32 parameter, truncating s to 32
// bytes if needed, matching FixedSafeString<32>'s assignment operator.
func String32Param(s string) Parameter { return Parameter{typ: String32, v: truncate(s, 32)} }

// GetString32 returns p's string value.
func (p Parameter) GetString32() (string, error) {
	if p.typ != String32 {
		return "", wrongParamType(String32, p.typ)
	}
	return p.v.(string), nil
}

// String64Param constructs a String64 parameter, truncating s to 64 bytes.
func String64Param(s string) Parameter { return Parameter{typ: String64, v: truncate(s, 64)} }

// GetString64 returns p's string value.
func (p Parameter) GetString64() (string, error) {
	if p.typ != String64 {
		return "", wrongParamType(String64, p.typ)
	}
	return p.v.(string), nil
}

// String256Param constructs a String256 parameter, truncating s to 256 bytes.
func String256Param(s string) Parameter { return Parameter{typ: String256, v: truncate(s, 256)} }

// GetString256 returns p's string value.
func (p Parameter) GetString256() (string, error) {
	if p.typ != String256 {
		return "", wrongParamType(String256, p.typ)
	}
	return p.v.(string), nil
}

// StringRefParam constructs a StringRef parameter (an unbounded
// null-terminated string, unlike the FixedSafeString variants).
func StringRefParam(s string) Parameter { return Parameter{typ: StringRef, v: s} }

// GetStringRef returns p's string value.
func (p Parameter) GetStringRef() (string, error) {
	if p.typ != StringRef {
		return "", wrongParamType(StringRef, p.typ)
	}
	return p.v.(string), nil
}

// GetStringView returns p's string payload regardless of which of the
// four string variants it is, or a TypeError if p is not a string
// parameter.
func (p Parameter) GetStringView() (string, error) {
	if !IsStringType(p.typ) {
		return "", errs.TypeError("GetStringView called with non-string parameter %s", p.typ)
	}
	return p.v.(string), nil
}

func curveParam(typ ParamType, v []Curve) Parameter { return Parameter{typ: typ, v: v} }

func (p Parameter) getCurve(typ ParamType) ([]Curve, error) {
	if p.typ != typ {
		return nil, wrongParamType(typ, p.typ)
	}
	return p.v.([]Curve), nil
}

// Curve1Param constructs a Curve1 parameter from exactly 1 curve.
func Curve1Param(v [1]Curve) Parameter { return curveParam(Curve1, v[:]) }

// GetCurve1 returns p's 1-element curve slice.
func (p Parameter) GetCurve1() ([]Curve, error) { return p.getCurve(Curve1) }

// Curve2Param constructs a Curve2 parameter from exactly 2 curves.
func Curve2Param(v [2]Curve) Parameter { return curveParam(Curve2, v[:]) }

// GetCurve2 returns p's 2-element curve slice.
func (p Parameter) GetCurve2() ([]Curve, error) { return p.getCurve(Curve2) }

// Curve3Param constructs a Curve3 parameter from exactly 3 curves.
func Curve3Param(v [3]Curve) Parameter { return curveParam(Curve3, v[:]) }

// GetCurve3 returns p's 3-element curve slice.
func (p Parameter) GetCurve3() ([]Curve, error) { return p.getCurve(Curve3) }

// Curve4Param constructs a Curve4 parameter from exactly 4 curves.
func Curve4Param(v [4]Curve) Parameter { return curveParam(Curve4, v[:]) }

// GetCurve4 returns p's 4-element curve slice.
func (p Parameter) GetCurve4() ([]Curve, error) { return p.getCurve(Curve4) }

// BufferIntParam constructs a BufferInt parameter.
func BufferIntParam(v []int32) Parameter { return Parameter{typ: BufferInt, v: v} }

// GetBufferInt returns p's int32 buffer.
func (p Parameter) GetBufferInt() ([]int32, error) {
	if p.typ != BufferInt {
		return nil, wrongParamType(BufferInt, p.typ)
	}
	return p.v.([]int32), nil
}

// BufferF32Param constructs a BufferF32 parameter.
func BufferF32Param(v []float32) Parameter { return Parameter{typ: BufferF32, v: v} }

// GetBufferF32 returns p's float32 buffer.
func (p Parameter) GetBufferF32() ([]float32, error) {
	if p.typ != BufferF32 {
		return nil, wrongParamType(BufferF32, p.typ)
	}
	return p.v.([]float32), nil
}

// BufferU32Param constructs a BufferU32 parameter.
func BufferU32Param(v []uint32) Parameter { return Parameter{typ: BufferU32, v: v} }

// GetBufferU32 returns p's uint32 buffer.
func (p Parameter) GetBufferU32() ([]uint32, error) {
	if p.typ != BufferU32 {
		return nil, wrongParamType(BufferU32, p.typ)
	}
	return p.v.([]uint32), nil
}

// BufferBinaryParam constructs a BufferBinary parameter.
func BufferBinaryParam(v []byte) Parameter { return Parameter{typ: BufferBinary, v: v} }

// GetBufferBinary returns p's raw byte buffer.
func (p Parameter) GetBufferBinary() ([]byte, error) {
	if p.typ != BufferBinary {
		return nil, wrongParamType(BufferBinary, p.typ)
	}
	return p.v.([]byte), nil
}
