package yaz0

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Empty and small round-trips.
func TestCompressEmpty(t *testing.T) {
	data := Compress(nil, CompressOptions{})
	require.Len(t, data, headerSize)
	assert.Equal(t, "Yaz0", string(data[0:4]))

	header, ok := GetHeader(data)
	require.True(t, ok)
	assert.Equal(t, uint32(0), header.UncompressedSize)

	out, err := Decompress(data)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCompressSmallRunRoundTrips(t *testing.T) {
	src := bytes.Repeat([]byte{0xAA}, 32)
	for level := 6; level <= 9; level++ {
		compressed := Compress(src, CompressOptions{Level: level})
		out, err := Decompress(compressed)
		require.NoError(t, err)
		assert.Equal(t, src, out, "level %d", level)
	}
}

// A literal-only group header 0xFF decodes byte for byte.
func TestDecompressLiteralGroup(t *testing.T) {
	src := []byte{
		'Y', 'a', 'z', '0',
		0x00, 0x00, 0x00, 0x05, // uncompressed size
		0x00, 0x00, 0x00, 0x00, // data alignment
		0x00, 0x00, 0x00, 0x00, // reserved
		0xFF, // group header: all 8 chunks literal
		'H', 'e', 'l', 'l', 'o',
	}
	out, err := Decompress(src)
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(out))
}

func TestRoundTripRepetitiveData(t *testing.T) {
	src := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 64)
	for level := 6; level <= 9; level++ {
		compressed := Compress(src, CompressOptions{Level: level, DataAlignment: 0x2000})
		header, ok := GetHeader(compressed)
		require.True(t, ok)
		assert.Equal(t, uint32(len(src)), header.UncompressedSize)
		assert.Equal(t, uint32(0x2000), header.DataAlignment)

		out, err := Decompress(compressed)
		require.NoError(t, err)
		assert.Equal(t, src, out, "level %d", level)
	}
}

func TestRoundTripRandomish(t *testing.T) {
	src := make([]byte, 4096)
	seed := uint32(12345)
	for i := range src {
		seed = seed*1664525 + 1013904223
		src[i] = byte(seed >> 24)
	}
	// Seed some repeats so the matcher has real back-references to find.
	copy(src[2000:2500], src[0:500])
	copy(src[3000:3200], src[100:300])

	compressed := Compress(src, CompressOptions{Level: 9})
	out, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestDecompressRejectsTruncatedHeader(t *testing.T) {
	_, err := Decompress([]byte("Yaz0\x00\x00"))
	assert.Error(t, err)
}

func TestDecompressRejectsBadMagic(t *testing.T) {
	_, err := Decompress([]byte("NOPE0000000000000"))
	assert.Error(t, err)
}

func TestDecompressRejectsOutOfBoundsReference(t *testing.T) {
	// Group header 0x00 marks the first chunk as a back-reference; the
	// 16-bit pair 0x0FFF plus length byte 0x00 encodes distance 0x1000,
	// length 0x12 at output position 0, so its source precedes the
	// output start and the safe decoder must reject it.
	src := []byte{
		'Y', 'a', 'z', '0',
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x0F, 0xFF, 0x00,
	}
	_, err := Decompress(src)
	assert.Error(t, err)
}

func TestIsYaz0(t *testing.T) {
	assert.True(t, IsYaz0([]byte("Yaz0\x00\x00\x00\x00")))
	assert.False(t, IsYaz0([]byte("SARC")))
	assert.False(t, IsYaz0(nil))
}

func TestDecompressIntoRequiresExactSize(t *testing.T) {
	src := bytes.Repeat([]byte{0x01, 0x02, 0x03}, 20)
	compressed := Compress(src, CompressOptions{Level: 6})
	dst := make([]byte, len(src))
	require.NoError(t, DecompressInto(compressed, dst))
	assert.Equal(t, src, dst)
}

func TestDecompressUnsafeOnWellFormedStream(t *testing.T) {
	src := bytes.Repeat([]byte("abcabcabc"), 40)
	compressed := Compress(src, CompressOptions{Level: 8})
	header, ok := GetHeader(compressed)
	require.True(t, ok)

	out := DecompressUnsafe(compressed, header.UncompressedSize)
	assert.Equal(t, src, out)
}
