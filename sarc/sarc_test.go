package sarc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bin "github.com/joshuapare/nxbin/internal/binary"
	"github.com/joshuapare/nxbin/yaz0"
)

// Writing sorts files by name hash; retrieval by name binary-searches
// the SFAT table.
func TestWriteSortsByHashAndGetByName(t *testing.T) {
	w := NewWriter()
	w.SetFile("a.bin", []byte{0})
	w.SetFile("b.bin", []byte{1})

	_, data, err := w.Write()
	require.NoError(t, err)

	archive, err := New(data)
	require.NoError(t, err)
	require.Equal(t, uint16(2), archive.NumFiles())

	hashA := HashName(0x65, "a.bin")
	hashB := HashName(0x65, "b.bin")

	first, err := archive.GetByIndex(0)
	require.NoError(t, err)
	second, err := archive.GetByIndex(1)
	require.NoError(t, err)
	if hashA < hashB {
		assert.Equal(t, "a.bin", first.Name)
		assert.Equal(t, "b.bin", second.Name)
	} else {
		assert.Equal(t, "b.bin", first.Name)
		assert.Equal(t, "a.bin", second.Name)
	}

	f, ok, err := archive.GetByName("b.bin")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{1}, f.Data)

	_, ok, err = archive.GetByName("missing.bin")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIterFilesAscendingHashOrder(t *testing.T) {
	w := NewWriter()
	names := []string{"zzz.bin", "aaa.bin", "mmm.bin", "b.bin"}
	for i, n := range names {
		w.SetFile(n, []byte{byte(i)})
	}
	_, data, err := w.Write()
	require.NoError(t, err)

	archive, err := New(data)
	require.NoError(t, err)

	var lastHash uint32
	first := true
	err = archive.IterFiles(func(f File) error {
		h := archive.HashName(f.Name)
		if !first {
			assert.LessOrEqual(t, lastHash, h)
		}
		lastHash = h
		first = false
		return nil
	})
	require.NoError(t, err)
}

// FromSarc(New(s)).Write() round-trips the same file map.
func TestFromSarcRoundTrips(t *testing.T) {
	w := NewWriter()
	w.SetFile("a.txt", []byte("hello"))
	w.SetFile("b.txt", []byte("world, a bit longer so alignment matters"))
	w.SetFile("c.bin", []byte{0, 1, 2, 3, 4, 5, 6, 7})
	_, data, err := w.Write()
	require.NoError(t, err)

	archive, err := New(data)
	require.NoError(t, err)

	w2, err := FromSarc(archive)
	require.NoError(t, err)
	_, data2, err := w2.Write()
	require.NoError(t, err)

	archive2, err := New(data2)
	require.NoError(t, err)

	equal, err := archive.AreFilesEqual(archive2)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestWriterBigEndianBOM(t *testing.T) {
	w := NewWriter()
	w.Endian = bin.BigEndian
	w.SetFile("a.bin", []byte{1, 2, 3})
	_, data, err := w.Write()
	require.NoError(t, err)

	assert.Equal(t, byte(0xFE), data[6])
	assert.Equal(t, byte(0xFF), data[7])

	archive, err := New(data)
	require.NoError(t, err)
	assert.Equal(t, bin.BigEndian, archive.Endian())
}

func TestGuessMinAlignment(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.SetMinAlignment(0x20))
	w.SetFile("a.bin", []byte{1, 2, 3, 4})
	w.SetFile("b.bin", []byte{5, 6, 7, 8})
	_, data, err := w.Write()
	require.NoError(t, err)

	archive, err := New(data)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, archive.GuessMinAlignment(), uint32(4))
}

func TestInvalidMagicRejected(t *testing.T) {
	_, err := New([]byte("not a sarc archive at all!!"))
	assert.Error(t, err)
}

func TestIsSarcDirectAndYaz0Wrapped(t *testing.T) {
	w := NewWriter()
	w.SetFile("a.bin", []byte{1, 2, 3})
	_, data, err := w.Write()
	require.NoError(t, err)

	assert.True(t, IsSarc(data))

	compressed := yaz0.Compress(data, yaz0.CompressOptions{Level: 6})
	assert.True(t, IsSarc(compressed))

	assert.False(t, IsSarc([]byte("definitely not an archive")))
}

func TestLegacyModeAlignsNestedSarc(t *testing.T) {
	inner := NewWriter()
	inner.SetFile("leaf.bin", []byte{1, 2, 3, 4})
	_, innerData, err := inner.Write()
	require.NoError(t, err)

	outer := NewWriter()
	outer.Mode = ModeLegacy
	outer.SetFile("nested.sarc", innerData)
	alignment, data, err := outer.Write()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x2000), alignment)

	archive, err := New(data)
	require.NoError(t, err)
	f, ok, err := archive.GetByName("nested.sarc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, innerData, f.Data)
}
