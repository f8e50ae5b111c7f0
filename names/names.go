// Package names implements AAMP's NameTable: a best-effort
// hash-to-string recovery table for binary parameter archives, which
// store only CRC-32 hashes of their list/object/parameter keys.
//
// This is auxiliary tooling for debuggers and text-format emitters,
// not part of the binary codec itself. GetName never fails the codec; it only ever
// returns a best-effort guess.
package names

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/joshuapare/nxbin/aamp"
)

//go:embed data/botw_hashed_names.txt data/botw_numbered_names.txt
var seedFS embed.FS

// nameFormats are the printf-style patterns tried when guessing a
// child name from its parent's recovered name and an index.
var nameFormats = []string{"%s%d", "%s_%d", "%s%02d", "%s_%02d", "%s%03d", "%s_%03d"}

// pluralSuffixes are stripped from a parent name before retrying the
// nameFormats guesses, since BOTW's list names are often pluralized
// relative to their children's singular names.
var pluralSuffixes = []string{"s", "es", "List"}

// Table is a process-shareable hash-to-name recovery table. Construct
// one with New, which can optionally seed it with the embedded BOTW
// name corpus; the zero Table has no maps allocated and panics on the
// first name it records.
//
// Table is safe for concurrent use: GetName's monotonic insert of
// newly guessed names is guarded by an RWMutex, so GetName observes
// at least the set of names present at first use and stays safe to
// call concurrently.
type Table struct {
	mu       sync.RWMutex
	names    map[uint32]string // known names, keyed by hash (seed + AddName)
	owned    map[uint32]string // names recovered by guessing, memoized
	numbered []string          // printf-style "%d" templates
}

// New returns an empty Table, optionally seeded with a small
// representative corpus of Breath of the Wild structure/parameter
// names.
func New(withBotwStrings bool) *Table {
	t := &Table{
		names: make(map[uint32]string),
		owned: make(map[uint32]string),
	}
	if !withBotwStrings {
		return t
	}

	if data, err := seedFS.ReadFile("data/botw_hashed_names.txt"); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			t.names[aamp.Hash(line)] = line
		}
	}
	if data, err := seedFS.ReadFile("data/botw_numbered_names.txt"); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			t.numbered = append(t.numbered, line)
		}
	}
	return t
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide name table, lazily initialized on
// first call with the embedded BOTW corpus. Every caller
// observes at least the names present at first use; subsequent
// guesses accumulate into the same shared table.
func Default() *Table {
	defaultOnce.Do(func() { defaultTable = New(true) })
	return defaultTable
}

// AddName records a known name, hashing it on the fly, and returns
// the stored string.
func (t *Table) AddName(name string) string {
	return t.AddNameWithHash(aamp.Hash(name), name)
}

// AddNameWithHash records a known name under a precomputed hash,
// avoiding a redundant CRC-32 pass.
func (t *Table) AddNameWithHash(hash uint32, name string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.owned[hash] = name
	return name
}

// AddNameReference records name as a known (not merely guessed) name,
// making it eligible as a parent anchor for GetName's indexed-child
// guessing the same way the embedded seed corpus is. Plain
// AddName/AddNameWithHash results are not used as guess anchors, which
// keeps a wrong guess from seeding further wrong guesses.
func (t *Table) AddNameReference(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names[aamp.Hash(name)] = name
}

// GetName tries to recover the string behind hash, using index and
// parentHash as context for a child of a recovered parent name
//:
//
//  1. a known-hash lookup,
//  2. an owned (previously guessed) name lookup,
//  3. if parentHash is known, concatenating the parent name (and its
//     "Children"/de-pluralized forms) with index and index+1 under
//     nameFormats, admitting the first candidate whose CRC-32 equals
//     hash,
//  4. every numbered-name template evaluated at 0..index+2.
//
// A successful guess (paths 3 and 4) is memoized into the table.
func (t *Table) GetName(hash uint32, index int, parentHash uint32) (string, bool) {
	t.mu.RLock()
	if name, ok := t.names[hash]; ok {
		t.mu.RUnlock()
		return name, true
	}
	if name, ok := t.owned[hash]; ok {
		t.mu.RUnlock()
		return name, true
	}
	parentName, haveParent := t.names[parentHash]
	numbered := append([]string(nil), t.numbered...)
	t.mu.RUnlock()

	if haveParent {
		if name, ok := testFormats(parentName, index, hash); ok {
			return t.AddNameWithHash(hash, name), true
		}
		if name, ok := testFormats("Children", index, hash); ok {
			return t.AddNameWithHash(hash, name), true
		}
		for _, suffix := range pluralSuffixes {
			if !strings.HasSuffix(parentName, suffix) {
				continue
			}
			singular := parentName[:len(parentName)-len(suffix)]
			if name, ok := testFormats(singular, index, hash); ok {
				return t.AddNameWithHash(hash, name), true
			}
		}
	}

	for _, template := range numbered {
		for i := 0; i < index+2; i++ {
			candidate := fmt.Sprintf(template, i)
			if aamp.Hash(candidate) == hash {
				return t.AddNameWithHash(hash, candidate), true
			}
		}
	}

	return "", false
}

// testFormats tries prefix against every nameFormats entry for both
// index and index+1, returning the first candidate whose hash matches
// want.
func testFormats(prefix string, index int, want uint32) (string, bool) {
	for _, i := range [2]int{index, index + 1} {
		for _, format := range nameFormats {
			candidate := fmt.Sprintf(format, prefix, i)
			if aamp.Hash(candidate) == want {
				return candidate, true
			}
		}
	}
	return "", false
}
