package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nxbin/byml"
)

func TestBymlDumpTextAndJSON(t *testing.T) {
	dict := byml.Dictionary{
		"Name":  byml.StringValue("Link"),
		"Level": byml.IntValue(7),
		"Tags":  byml.ArrayValue(byml.Array{byml.StringValue("hero"), byml.BoolValue(true)}),
	}
	data, err := byml.Emit(byml.DictValue(dict), false, 2)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.byml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	quiet, jsonOut = false, false
	output, err := captureOutput(t, func() error {
		return runBymlDump([]string{path})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"Name", "Link", "Level", "Tags", "hero"})

	jsonOut = true
	jsonOutput, err := captureOutput(t, func() error {
		return runBymlDump([]string{path})
	})
	require.NoError(t, err)
	assertJSON(t, jsonOutput)
	assertContains(t, jsonOutput, []string{"Link", "hero"})
}

func TestBymlDumpRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.byml")
	require.NoError(t, os.WriteFile(path, []byte("not a byml file"), 0o644))

	jsonOut = false
	_, err := captureOutput(t, func() error {
		return runBymlDump([]string{path})
	})
	require.Error(t, err)
}
