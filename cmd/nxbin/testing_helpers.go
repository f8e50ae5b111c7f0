package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// captureOutput swaps the command helpers' output writer for a buffer
// while fn runs and returns everything it printed. Color is disabled
// for the duration so assertions can match plain substrings.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	prevOut, prevNoColor := out, noColor
	out, noColor = &buf, true
	defer func() { out, noColor = prevOut, prevNoColor }()

	err := fn()
	return buf.String(), err
}

// assertJSON checks that output is one valid JSON document.
func assertJSON(t *testing.T, output string) {
	t.Helper()
	if !json.Valid([]byte(output)) {
		t.Errorf("output is not valid JSON:\n%s", output)
	}
}

// assertContains checks that output contains all expected strings.
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
