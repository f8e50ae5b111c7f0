package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nxbin/aamp"
)

func TestAampDumpTextAndJSON(t *testing.T) {
	pio := aamp.NewParameterIO("xml")
	obj := aamp.NewParameterObject()
	obj.SetByString("HP", aamp.IntParam(100))
	pio.SetObject(aamp.NameFromString("GeneralParamObj"), obj)

	data, err := aamp.ToBinary(pio)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.aamp")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	quiet, jsonOut, aampUseNames = false, false, false
	output, err := captureOutput(t, func() error {
		return runAampDump([]string{path})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"ParameterIO type=\"xml\"", "0x"})

	jsonOut = true
	jsonOutput, err := captureOutput(t, func() error {
		return runAampDump([]string{path})
	})
	require.NoError(t, err)
	assertJSON(t, jsonOutput)
}

func TestAampDumpResolvesKnownNames(t *testing.T) {
	pio := aamp.NewParameterIO("xml")
	obj := aamp.NewParameterObject()
	obj.SetByString("LinkTag", aamp.IntParam(1))
	pio.SetObject(aamp.NameFromString("TestObj"), obj)

	data, err := aamp.ToBinary(pio)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.aamp")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	quiet, jsonOut, aampUseNames = false, false, true
	output, err := captureOutput(t, func() error {
		return runAampDump([]string{path})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"LinkTag"})
}
