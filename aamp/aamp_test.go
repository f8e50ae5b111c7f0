package aamp

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePio() *ParameterIO {
	pio := NewParameterIO("xml")
	pio.Version = 0

	obj := NewParameterObject()
	obj.SetByString("Int", IntParam(42))
	obj.SetByString("Bool", BoolParam(true))
	obj.SetByString("Str", String32Param("hello"))
	pio.SetObject(NameFromString("TestObj"), obj)

	child := NewParameterList()
	childObj := NewParameterObject()
	childObj.SetByString("Vec", Vec3Param(Vec3{X: 1, Y: 2, Z: 3}))
	child.SetObject(NameFromString("ChildObj"), childObj)
	pio.SetList(NameFromString("ChildList"), child)

	return pio
}

func TestRoundTripParseEmit(t *testing.T) {
	pio := samplePio()

	data, err := ToBinary(pio)
	require.NoError(t, err)
	assert.Equal(t, "AAMP", string(data[0:4]))

	parsed, err := FromBinary(data)
	require.NoError(t, err)
	assert.Equal(t, "xml", parsed.Type)
	assert.Equal(t, uint32(0), parsed.Version)

	obj, ok := parsed.Objects.Get(NameFromString("TestObj"))
	require.True(t, ok)
	v, ok := obj.Get(NameFromString("Int"))
	require.True(t, ok)
	i, err := v.GetInt()
	require.NoError(t, err)
	assert.Equal(t, int32(42), i)

	sp, ok := obj.Get(NameFromString("Str"))
	require.True(t, ok)
	str, err := sp.GetString32()
	require.NoError(t, err)
	assert.Equal(t, "hello", str)

	childList, ok := parsed.Lists.Get(NameFromString("ChildList"))
	require.True(t, ok)
	childObj, ok := childList.Objects.Get(NameFromString("ChildObj"))
	require.True(t, ok)
	vecParam, ok := childObj.Get(NameFromString("Vec"))
	require.True(t, ok)
	vec, err := vecParam.GetVec3()
	require.NoError(t, err)
	assert.Equal(t, Vec3{X: 1, Y: 2, Z: 3}, vec)
}

func TestReparseReemitIsStable(t *testing.T) {
	pio := samplePio()

	data, err := ToBinary(pio)
	require.NoError(t, err)

	parsed, err := FromBinary(data)
	require.NoError(t, err)

	reEmitted, err := ToBinary(parsed)
	require.NoError(t, err)

	assert.Equal(t, data, reEmitted)
}

func TestInsertionOrderPreserved(t *testing.T) {
	obj := NewParameterObject()
	obj.SetByString("z", IntParam(1))
	obj.SetByString("a", IntParam(2))
	obj.SetByString("m", IntParam(3))

	keys := obj.Params.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, NameFromString("z"), keys[0])
	assert.Equal(t, NameFromString("a"), keys[1])
	assert.Equal(t, NameFromString("m"), keys[2])

	pio := NewParameterIO("xml")
	pio.SetObject(NameFromString("Obj"), obj)

	data, err := ToBinary(pio)
	require.NoError(t, err)
	parsed, err := FromBinary(data)
	require.NoError(t, err)

	parsedObj, ok := parsed.Objects.Get(NameFromString("Obj"))
	require.True(t, ok)
	parsedKeys := parsedObj.Params.Keys()
	require.Len(t, parsedKeys, 3)
	assert.Equal(t, keys, parsedKeys)
}

func TestDuplicateBufferDataIsDeduplicated(t *testing.T) {
	objA := NewParameterObject()
	objA.SetByString("BufA", BufferIntParam([]int32{1, 2, 3, 4}))
	objB := NewParameterObject()
	objB.SetByString("BufB", BufferIntParam([]int32{1, 2, 3, 4}))

	pio := NewParameterIO("xml")
	pio.SetObject(NameFromString("ObjA"), objA)
	pio.SetObject(NameFromString("ObjB"), objB)

	data, err := ToBinary(pio)
	require.NoError(t, err)
	// Both buffers share one 20-byte run (count prefix + four ints); the
	// header stores the data section size at 0x24.
	assert.Equal(t, uint32(20), binary.LittleEndian.Uint32(data[0x24:]))

	parsed, err := FromBinary(data)
	require.NoError(t, err)

	pa, ok := parsed.Objects.Get(NameFromString("ObjA"))
	require.True(t, ok)
	pb, ok := parsed.Objects.Get(NameFromString("ObjB"))
	require.True(t, ok)

	va, ok := pa.Get(NameFromString("BufA"))
	require.True(t, ok)
	bufA, err := va.GetBufferInt()
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 4}, bufA)

	vb, ok := pb.Get(NameFromString("BufB"))
	require.True(t, ok)
	bufB, err := vb.GetBufferInt()
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 4}, bufB)
}

func TestDuplicateStringsAreDeduplicated(t *testing.T) {
	objA := NewParameterObject()
	objA.SetByString("NameA", StringRefParam("shared_value"))
	objB := NewParameterObject()
	objB.SetByString("NameB", StringRefParam("shared_value"))

	pio := NewParameterIO("xml")
	pio.SetObject(NameFromString("ObjA"), objA)
	pio.SetObject(NameFromString("ObjB"), objB)

	data, err := ToBinary(pio)
	require.NoError(t, err)
	// Both parameters share one "shared_value\0" run padded to 16 bytes;
	// the header stores the string section size at 0x28.
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(data[0x28:]))

	parsed, err := FromBinary(data)
	require.NoError(t, err)

	pa, _ := parsed.Objects.Get(NameFromString("ObjA"))
	pb, _ := parsed.Objects.Get(NameFromString("ObjB"))
	va, ok := pa.Get(NameFromString("NameA"))
	require.True(t, ok)
	sa, err := va.GetStringRef()
	require.NoError(t, err)
	assert.Equal(t, "shared_value", sa)

	vb, ok := pb.Get(NameFromString("NameB"))
	require.True(t, ok)
	sb, err := vb.GetStringRef()
	require.NoError(t, err)
	assert.Equal(t, "shared_value", sb)
}

func TestFromBinaryRejectsBadMagic(t *testing.T) {
	data := make([]byte, headerSize)
	copy(data, "XXXX")
	_, err := FromBinary(data)
	assert.Error(t, err)
}

func TestFromBinaryRejectsWrongVersion(t *testing.T) {
	pio := samplePio()
	data, err := ToBinary(pio)
	require.NoError(t, err)

	bad := append([]byte(nil), data...)
	bad[4] = 3
	_, err = FromBinary(bad)
	assert.Error(t, err)
}

func TestFromBinaryTooShort(t *testing.T) {
	_, err := FromBinary([]byte{'A', 'A', 'M', 'P'})
	assert.Error(t, err)
}

func TestNameHashMatchesKnownValue(t *testing.T) {
	assert.Equal(t, Hash("param_root"), ParamRootKey.Hash)
}

func TestRemainingScalarAndCurveParamsRoundTrip(t *testing.T) {
	obj := NewParameterObject()
	obj.SetByString("U32", U32Param(0xCAFEBABE))
	obj.SetByString("Color", ColorParam(Color4{R: 1, G: 0.5, B: 0.25, A: 1}))
	obj.SetByString("Quat", QuatParam(Quat{A: 0, B: 0, C: 0, D: 1}))
	curve := Curve{A: 1, B: 2, Floats: [30]float32{1: 2, 2: 3}}
	obj.SetByString("Curve1", Curve1Param([1]Curve{curve}))
	obj.SetByString("Curve2", Curve2Param([2]Curve{curve, curve}))
	obj.SetByString("Curve3", Curve3Param([3]Curve{curve, curve, curve}))
	obj.SetByString("Curve4", Curve4Param([4]Curve{curve, curve, curve, curve}))

	pio := NewParameterIO("xml")
	pio.SetObject(NameFromString("Obj"), obj)

	data, err := ToBinary(pio)
	require.NoError(t, err)
	parsed, err := FromBinary(data)
	require.NoError(t, err)

	parsedObj, ok := parsed.Objects.Get(NameFromString("Obj"))
	require.True(t, ok)

	u, ok := parsedObj.Get(NameFromString("U32"))
	require.True(t, ok)
	uv, err := u.GetU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEBABE), uv)

	c, ok := parsedObj.Get(NameFromString("Color"))
	require.True(t, ok)
	cv, err := c.GetColor()
	require.NoError(t, err)
	assert.Equal(t, Color4{R: 1, G: 0.5, B: 0.25, A: 1}, cv)

	q, ok := parsedObj.Get(NameFromString("Quat"))
	require.True(t, ok)
	qv, err := q.GetQuat()
	require.NoError(t, err)
	assert.Equal(t, Quat{A: 0, B: 0, C: 0, D: 1}, qv)

	c4, ok := parsedObj.Get(NameFromString("Curve4"))
	require.True(t, ok)
	c4v, err := c4.GetCurve4()
	require.NoError(t, err)
	require.Len(t, c4v, 4)
	assert.Equal(t, curve, c4v[0])
}
