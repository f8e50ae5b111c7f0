package sarc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bin "github.com/joshuapare/nxbin/internal/binary"
)

func TestAddAlignmentRequirementByExtension(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.AddAlignmentRequirement("bin", 0x40))
	w.SetFile("a.bin", []byte{1, 2, 3})
	w.SetFile("b.txt", []byte{4, 5, 6})

	alignment := w.getAlignmentForFile("a.bin", []byte{1, 2, 3})
	assert.Equal(t, uint32(0x40), alignment)

	other := w.getAlignmentForFile("b.txt", []byte{4, 5, 6})
	assert.Equal(t, uint32(4), other)
}

func TestSetMinAlignmentRejectsNonPowerOfTwo(t *testing.T) {
	w := NewWriter()
	assert.Error(t, w.SetMinAlignment(3))
	assert.NoError(t, w.SetMinAlignment(0x10))
}

// A synthetic nn::util::BinaryFileHeader-shaped payload: BOM at 0xC,
// file size at 0x1C, declared alignment shift at 0xE.
func makeBinaryFileHeader(totalSize int, alignShift byte) []byte {
	data := make([]byte, totalSize)
	bin.PutU16(data[0xC:], 0xFEFF, bin.BigEndian)
	data[0xE] = alignShift
	bin.PutU32(data[0x1C:], uint32(totalSize), bin.BigEndian)
	return data
}

func TestContentDetectedAlignmentBinaryFileHeader(t *testing.T) {
	w := NewWriter()
	data := makeBinaryFileHeader(0x40, 5) // 1<<5 == 0x20
	alignment := w.getAlignmentForFile("res.bflan", data)
	assert.Equal(t, uint32(0x20), alignment)
}

func TestContentDetectedAlignmentIgnoresMismatchedFileSize(t *testing.T) {
	w := NewWriter()
	data := makeBinaryFileHeader(0x40, 5)
	bin.PutU32(data[0x1C:], 0xDEAD, bin.BigEndian) // size field no longer matches
	alignment := w.getAlignmentForFile("res.bflan", data)
	assert.Equal(t, w.minAlignment, alignment)
}

func TestContentDetectedAlignmentBflimBigEndianOnly(t *testing.T) {
	data := make([]byte, 0x30)
	copy(data[len(data)-0x28:], []byte("FLIM"))
	bin.PutU16(data[len(data)-0x8:], 0x80, bin.BigEndian)

	be := NewWriter()
	be.Endian = bin.BigEndian
	assert.Equal(t, uint32(0x80), be.getAlignmentForFile("tex.bflim", data))

	le := NewWriter()
	assert.Equal(t, le.minAlignment, le.getAlignmentForFile("tex.bflim", data))
}

func TestFileExtensionHelper(t *testing.T) {
	assert.Equal(t, "bin", fileExtension("a.bin"))
	assert.Equal(t, "", fileExtension("noext"))
	assert.Equal(t, "", fileExtension("trailing."))
	assert.Equal(t, "gz", fileExtension("archive.tar.gz"))
}
