package byml

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimalHashRoundTrip(t *testing.T) {
	doc := DictValue(Dictionary{
		"a": IntValue(1),
		"b": StringValue("x"),
	})

	data, err := Emit(doc, false, 2)
	require.NoError(t, err)
	assert.Equal(t, "YB", string(data[0:2]))
	assert.Equal(t, byte(2), data[2])

	parsed, err := Parse(data)
	require.NoError(t, err)
	dict, err := parsed.GetDictionary()
	require.NoError(t, err)
	a, err := dict["a"].GetInt()
	require.NoError(t, err)
	assert.Equal(t, int32(1), a)
	b, err := dict["b"].GetString()
	require.NoError(t, err)
	assert.Equal(t, "x", b)
}

func TestRoundTripParseEmitParse(t *testing.T) {
	doc := ArrayValue(Array{
		IntValue(1),
		UIntValue(2),
		StringValue("hello"),
		BoolValue(true),
		DictValue(Dictionary{"nested": FloatValue(1.5)}),
	})
	data, err := Emit(doc, false, 2)
	require.NoError(t, err)

	parsedOnce, err := Parse(data)
	require.NoError(t, err)

	reEmitted, err := Emit(parsedOnce, false, 2)
	require.NoError(t, err)

	parsedTwice, err := Parse(reEmitted)
	require.NoError(t, err)

	assertValuesEqual(t, parsedOnce, parsedTwice)
}

func TestFileAlignment(t *testing.T) {
	data := make([]byte, 8)
	for i := range data {
		data[i] = byte(i)
	}
	doc := ArrayValue(Array{FileValue(File{Data: data, Align: 0x1000})})
	emitted, err := Emit(doc, false, 4)
	require.NoError(t, err)
	// The root array's only cell (after the 4-byte node header and the
	// type byte padded to 4) holds the File payload's offset.
	rootOff := binary.LittleEndian.Uint32(emitted[12:16])
	fileOff := binary.LittleEndian.Uint32(emitted[rootOff+8:])
	assert.Equal(t, uint32(0), (fileOff+8)%0x1000)

	parsed, err := Parse(emitted)
	require.NoError(t, err)
	arr, err := parsed.GetArray()
	require.NoError(t, err)
	f, err := arr[0].GetFile()
	require.NoError(t, err)
	assert.Equal(t, data, f.Data)
	assert.Equal(t, uint32(0x1000), f.Align)
}

func TestHash32RequiresV4(t *testing.T) {
	doc := Hash32Value(Hash32{1: IntValue(5)})
	_, err := Emit(doc, false, 2)
	assert.Error(t, err)

	data, err := Emit(doc, false, 4)
	require.NoError(t, err)
	parsed, err := Parse(data)
	require.NoError(t, err)
	h, err := parsed.GetHash32()
	require.NoError(t, err)
	v, err := h[1].GetInt()
	require.NoError(t, err)
	assert.Equal(t, int32(5), v)
}

func TestStringTableSortedAndDeduplicatedByIndex(t *testing.T) {
	doc := ArrayValue(Array{
		StringValue("zebra"),
		StringValue("apple"),
		StringValue("zebra"),
	})
	data, err := Emit(doc, false, 2)
	require.NoError(t, err)
	// Two distinct strings: the table holds 2 entries, "apple" first.
	strOff := binary.LittleEndian.Uint32(data[8:12])
	assert.Equal(t, byte(0xc2), data[strOff])
	assert.Equal(t, []byte{2, 0, 0}, data[strOff+1:strOff+4])
	assert.Equal(t, "apple\x00zebra\x00", string(data[strOff+16:strOff+28]))
	parsed, err := Parse(data)
	require.NoError(t, err)
	arr, err := parsed.GetArray()
	require.NoError(t, err)
	s0, _ := arr[0].GetString()
	s1, _ := arr[1].GetString()
	s2, _ := arr[2].GetString()
	assert.Equal(t, "zebra", s0)
	assert.Equal(t, "apple", s1)
	assert.Equal(t, "zebra", s2)
}

func TestTypedGetterCoercions(t *testing.T) {
	i := IntValue(-5)
	_, err := i.GetUInt()
	assert.Error(t, err)

	u := UIntValue(7)
	iv, err := u.GetInt()
	require.NoError(t, err)
	assert.Equal(t, int32(7), iv)

	i64, err := IntValue(3).GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(3), i64)

	_, err = FloatValue(1).GetDouble()
	assert.Error(t, err)
}

func TestBadMagicRejected(t *testing.T) {
	_, err := Parse([]byte("XXxx000000000000"))
	assert.Error(t, err)
}

func TestNullDocumentRoundTrip(t *testing.T) {
	data, err := Emit(Null(), false, 2)
	require.NoError(t, err)
	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, parsed.IsNull())
}

func assertValuesEqual(t *testing.T, a, b Value) {
	t.Helper()
	require.Equal(t, a.Type(), b.Type())
	switch a.Type() {
	case TypeArray:
		aa, _ := a.GetArray()
		bb, _ := b.GetArray()
		require.Len(t, bb, len(aa))
		for i := range aa {
			assertValuesEqual(t, aa[i], bb[i])
		}
	case TypeDictionary:
		ad, _ := a.GetDictionary()
		bd, _ := b.GetDictionary()
		require.Len(t, bd, len(ad))
		for k, v := range ad {
			assertValuesEqual(t, v, bd[k])
		}
	case TypeString:
		as, _ := a.GetString()
		bs, _ := b.GetString()
		assert.Equal(t, as, bs)
	case TypeInt:
		av, _ := a.GetInt()
		bv, _ := b.GetInt()
		assert.Equal(t, av, bv)
	case TypeUInt:
		av, _ := a.GetUInt()
		bv, _ := b.GetUInt()
		assert.Equal(t, av, bv)
	case TypeBool:
		av, _ := a.GetBool()
		bv, _ := b.GetBool()
		assert.Equal(t, av, bv)
	case TypeFloat:
		av, _ := a.GetFloat()
		bv, _ := b.GetFloat()
		assert.Equal(t, av, bv)
	}
}
