package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nxbin/yaz0"
)

func TestYaz0CompressDecompressRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.bin")
	compressed := filepath.Join(dir, "plain.szs")
	roundTripped := filepath.Join(dir, "plain.out")

	want := []byte("the quick brown fox jumps over the lazy dog, repeatedly: " +
		"the quick brown fox jumps over the lazy dog")
	require.NoError(t, os.WriteFile(src, want, 0o644))

	quiet, verbose, jsonOut = true, false, false
	yaz0CompressLevel, yaz0DataAlignment = 7, 0

	_, err := captureOutput(t, func() error {
		return runYaz0Compress([]string{src, compressed})
	})
	require.NoError(t, err)

	compressedData, err := os.ReadFile(compressed)
	require.NoError(t, err)
	assert.True(t, yaz0.IsYaz0(compressedData))

	_, err = captureOutput(t, func() error {
		return runYaz0Decompress([]string{compressed, roundTripped})
	})
	require.NoError(t, err)

	got, err := os.ReadFile(roundTripped)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestYaz0InfoReportsHeader(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.bin")
	compressed := filepath.Join(dir, "a.szs")
	require.NoError(t, os.WriteFile(src, []byte("hello world"), 0o644))

	quiet, jsonOut = false, false
	yaz0CompressLevel, yaz0DataAlignment = 6, 0
	_, err := captureOutput(t, func() error {
		return runYaz0Compress([]string{src, compressed})
	})
	require.NoError(t, err)

	output, err := captureOutput(t, func() error {
		return runYaz0Info([]string{compressed})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Uncompressed size: 11"})
}

func TestYaz0InfoRejectsNonYaz0(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notyaz0.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a yaz0 stream"), 0o644))

	_, err := captureOutput(t, func() error {
		return runYaz0Info([]string{path})
	})
	assert.Error(t, err)
}
