package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nxbin/aamp"
)

// Every embedded canonical name's hash matches aamp.Hash.
func TestSeedNamesHashConsistently(t *testing.T) {
	table := New(true)
	require.NotEmpty(t, table.names)
	for hash, name := range table.names {
		assert.Equal(t, hash, aamp.Hash(name), "name %q", name)
	}
}

func TestGetNameKnownHash(t *testing.T) {
	table := New(true)
	name, ok := table.GetName(aamp.Hash("LinkTag"), 0, 0)
	require.True(t, ok)
	assert.Equal(t, "LinkTag", name)
}

func TestGetNameUnknownHash(t *testing.T) {
	table := New(false)
	_, ok := table.GetName(0xDEADBEEF, 0, 0)
	assert.False(t, ok)
}

func TestGetNameGuessesIndexedChildFromParent(t *testing.T) {
	table := New(false)
	table.AddNameReference("Rail")

	want := "Rail0"
	name, ok := table.GetName(aamp.Hash(want), 0, aamp.Hash("Rail"))
	require.True(t, ok)
	assert.Equal(t, want, name)

	// The guess is memoized: a second lookup hits the owned-name path
	// without needing the parent hash at all.
	name, ok = table.GetName(aamp.Hash(want), 0, 0)
	require.True(t, ok)
	assert.Equal(t, want, name)
}

func TestGetNameGuessesDepluralizedParent(t *testing.T) {
	table := New(false)
	table.AddNameReference("Rails")

	want := "Rail_01"
	name, ok := table.GetName(aamp.Hash(want), 1, aamp.Hash("Rails"))
	require.True(t, ok)
	assert.Equal(t, want, name)
}

func TestGetNameFallsBackToNumberedTemplate(t *testing.T) {
	table := New(false)
	table.numbered = []string{"Slot%d"}

	want := "Slot2"
	name, ok := table.GetName(aamp.Hash(want), 1, 0)
	require.True(t, ok)
	assert.Equal(t, want, name)
}

func TestDefaultTableIsSharedAndSeeded(t *testing.T) {
	d1 := Default()
	d2 := Default()
	assert.Same(t, d1, d2)

	_, ok := d1.GetName(aamp.Hash("param_root"), 0, 0)
	assert.True(t, ok)
}

func TestAddNameWithHashAvoidsRecompute(t *testing.T) {
	table := New(false)
	hash := aamp.Hash("CustomName")
	got := table.AddNameWithHash(hash, "CustomName")
	assert.Equal(t, "CustomName", got)

	name, ok := table.GetName(hash, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "CustomName", name)
}
