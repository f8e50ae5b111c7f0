package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterBasic(t *testing.T) {
	w := NewWriter(LittleEndian)
	w.WriteU8(1)
	w.WriteU16(2)
	w.WriteU32(3)
	assert.Equal(t, 7, w.Len())
}

func TestWriterWriteCurrentOffsetAt(t *testing.T) {
	w := NewWriter(LittleEndian)
	placeholder := w.Tell()
	w.WriteU32(0) // reserved
	payloadOffset := 4
	w.WriteCurrentOffsetAt(placeholder, 0)
	w.WriteBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})

	r := NewReader(w.Bytes(), LittleEndian)
	v, ok := r.ReadU32()
	require.True(t, ok)
	assert.Equal(t, uint32(payloadOffset), v)
}

func TestWriterAlignUpAndGrowBuffer(t *testing.T) {
	w := NewWriter(LittleEndian)
	w.WriteU8(1)
	w.AlignUp(4)
	w.GrowBuffer()
	assert.Equal(t, 4, w.Len())
	assert.Equal(t, []byte{1, 0, 0, 0}, w.Bytes())
}

func TestWriterRunAtRestoresCursor(t *testing.T) {
	w := NewWriter(LittleEndian)
	w.WriteBytes([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	w.RunAt(0, func(int) { w.WriteU32(0xCAFEBABE) })
	assert.Equal(t, 8, w.Tell())
}

func TestWriterWriteCStr(t *testing.T) {
	w := NewWriter(LittleEndian)
	w.WriteCStr("hi")
	assert.Equal(t, []byte{'h', 'i', 0}, w.Bytes())
}

func TestWriterFinalizeResets(t *testing.T) {
	w := NewWriter(LittleEndian)
	w.WriteU32(1)
	b := w.Finalize()
	assert.Len(t, b, 4)
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 0, w.Tell())
}
