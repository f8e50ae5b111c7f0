package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSarcCreateListExtractRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.txt")
	fileB := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(fileA, []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(fileB, []byte("bravo"), 0o644))

	archive := filepath.Join(dir, "out.sarc")
	quiet, verbose, jsonOut = true, false, false
	sarcMinAlignment, sarcBigEndian = 4, false

	_, err := captureOutput(t, func() error {
		return runSarcCreate([]string{archive, fileA, fileB})
	})
	require.NoError(t, err)

	jsonOut = true
	listOutput, err := captureOutput(t, func() error {
		return runSarcList([]string{archive})
	})
	require.NoError(t, err)
	assertJSON(t, listOutput)
	assertContains(t, listOutput, []string{"a.txt", "b.txt"})

	jsonOut = false
	extractDir := filepath.Join(dir, "extracted")
	require.NoError(t, os.MkdirAll(extractDir, 0o755))
	sarcOutDir = extractDir
	_, err = captureOutput(t, func() error {
		return runSarcExtract([]string{archive})
	})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(extractDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(got))
}

func TestSarcListOnYaz0WrappedArchive(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "only.txt")
	require.NoError(t, os.WriteFile(fileA, []byte("only"), 0o644))

	archive := filepath.Join(dir, "out.sarc")
	quiet, verbose, jsonOut = true, false, false
	sarcMinAlignment, sarcBigEndian = 4, false
	_, err := captureOutput(t, func() error {
		return runSarcCreate([]string{archive, fileA})
	})
	require.NoError(t, err)

	packed, err := os.ReadFile(archive)
	require.NoError(t, err)

	compressed := filepath.Join(dir, "out.ssarc")
	srcForCompress := filepath.Join(dir, "rawarchive.bin")
	require.NoError(t, os.WriteFile(srcForCompress, packed, 0o644))
	yaz0CompressLevel, yaz0DataAlignment = 6, 0
	_, err = captureOutput(t, func() error {
		return runYaz0Compress([]string{srcForCompress, compressed})
	})
	require.NoError(t, err)

	quiet = false
	output, err := captureOutput(t, func() error {
		return runSarcList([]string{compressed})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"only.txt"})
}
