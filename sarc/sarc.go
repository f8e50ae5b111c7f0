// Package sarc implements the SEAD archive (SARC) container format: a
// flat, name-hashed collection of files with a binary-searchable entry
// table.
package sarc

import (
	"bytes"

	"github.com/joshuapare/nxbin/errs"
	bin "github.com/joshuapare/nxbin/internal/binary"
	"github.com/joshuapare/nxbin/yaz0"
)

const (
	headerSize    = 0x14
	fatHeaderSize = 0xC
	fatEntrySize  = 0x10
	fntHeaderSize = 0x8

	maxFiles = 1 << 0xE
)

// File is one entry read from a Sarc archive. Data aliases the
// archive's backing buffer; callers that need an independent copy
// must clone it.
type File struct {
	Name string
	Data []byte
}

// Sarc is a read-only view over a parsed SARC archive. It borrows its
// backing buffer rather than copying file contents out of it.
type Sarc struct {
	data            []byte
	endian          bin.Endianness
	numFiles        uint16
	entriesOffset   int
	namesOffset     int
	hashMultiplier  uint32
	dataOffset      uint32
}

// New parses a SARC archive from data, auto-detecting its endianness
// from the byte-order mark in the header.
func New(data []byte) (*Sarc, error) {
	if len(data) < headerSize {
		return nil, errs.InvalidData("buffer too small for SARC header (%d bytes)", len(data))
	}

	bomBE := bin.U16(data[6:], bin.BigEndian)
	var endian bin.Endianness
	switch bomBE {
	case 0xFEFF:
		endian = bin.BigEndian
	case 0xFFFE:
		endian = bin.LittleEndian
	default:
		return nil, errs.InvalidData("invalid SARC byte order mark %#x", bomBE)
	}

	r := bin.NewReader(data, endian)
	if string(data[0:4]) != "SARC" {
		return nil, errs.InvalidData("invalid SARC magic %q", data[0:4])
	}
	r.Seek(4)
	headerSz, _ := r.ReadU16()
	if headerSz != headerSize {
		return nil, errs.InvalidData("invalid SARC header size %d", headerSz)
	}
	r.Seek(8)
	_, _ = r.ReadU32() // file_size, recomputed on write
	dataOffset, _ := r.ReadU32()
	version, _ := r.ReadU16()
	if version != 0x0100 {
		return nil, errs.InvalidData("unknown SARC version %#x", version)
	}

	r.Seek(headerSize)
	fatMagic, ok := r.ReadBytes(4)
	if !ok || string(fatMagic) != "SFAT" {
		return nil, errs.InvalidData("invalid SFAT magic")
	}
	fatHeaderSz, _ := r.ReadU16()
	if fatHeaderSz != fatHeaderSize {
		return nil, errs.InvalidData("invalid SFAT header size %d", fatHeaderSz)
	}
	numFiles, _ := r.ReadU16()
	if numFiles >= maxFiles {
		return nil, errs.InvalidData("too many files (%d)", numFiles)
	}
	hashMultiplier, ok := r.ReadU32()
	if !ok {
		return nil, errs.InvalidData("truncated SFAT header")
	}

	entriesOffset := r.Tell()
	fntHeaderOffset := entriesOffset + fatEntrySize*int(numFiles)
	r.Seek(fntHeaderOffset)
	fntMagic, ok := r.ReadBytes(4)
	if !ok || string(fntMagic) != "SFNT" {
		return nil, errs.InvalidData("invalid SFNT magic")
	}
	fntHeaderSz, _ := r.ReadU16()
	if fntHeaderSz != fntHeaderSize {
		return nil, errs.InvalidData("invalid SFNT header size %d", fntHeaderSz)
	}
	r.ReadU16() // reserved

	namesOffset := r.Tell()
	if int(dataOffset) < namesOffset {
		return nil, errs.InvalidData("file data stored before the name table")
	}

	return &Sarc{
		data:           data,
		endian:         endian,
		numFiles:       numFiles,
		entriesOffset:  entriesOffset,
		namesOffset:    namesOffset,
		hashMultiplier: hashMultiplier,
		dataOffset:     dataOffset,
	}, nil
}

// NumFiles reports how many files the archive contains.
func (s *Sarc) NumFiles() uint16 { return s.numFiles }

// DataOffset reports the absolute offset of the start of file data.
func (s *Sarc) DataOffset() uint32 { return s.dataOffset }

// Endian reports the archive's detected byte order.
func (s *Sarc) Endian() bin.Endianness { return s.endian }

// HashName computes the polynomial name hash used by this archive's
// configured multiplier.
func (s *Sarc) HashName(name string) uint32 { return HashName(s.hashMultiplier, name) }

// HashName computes SARC's polynomial name hash: h = h*multiplier + c
// for each byte c of name, starting from h = 0.
func HashName(multiplier uint32, name string) uint32 {
	var hash uint32
	for i := 0; i < len(name); i++ {
		hash = hash*multiplier + uint32(name[i])
	}
	return hash
}

func (s *Sarc) entryOffset(index uint16) int {
	return s.entriesOffset + fatEntrySize*int(index)
}

// GetByIndex returns the file stored at the given SFAT slot.
func (s *Sarc) GetByIndex(index uint16) (File, error) {
	if index >= s.numFiles {
		return File{}, errs.InvalidData("sarc: index %d out of range (%d files)", index, s.numFiles)
	}
	r := bin.NewReader(s.data, s.endian)
	r.Seek(s.entryOffset(index))
	nameHashOrOffset, _ := r.ReadU32()
	_ = nameHashOrOffset
	relNameOffset, _ := r.ReadU32()
	dataBegin, _ := r.ReadU32()
	dataEnd, ok := r.ReadU32()
	if !ok {
		return File{}, errs.InvalidData("sarc: truncated SFAT entry %d", index)
	}

	var name string
	if relNameOffset != 0 {
		nameOffset := s.namesOffset + int(relNameOffset&0xFFFFFF)*4
		n, ok := r.ReadString(nameOffset, -1)
		if !ok {
			return File{}, errs.InvalidData("sarc: name offset out of bounds for entry %d", index)
		}
		name = n
	}

	start := int(s.dataOffset) + int(dataBegin)
	end := int(s.dataOffset) + int(dataEnd)
	payload, ok := r.View(start, end-start)
	if !ok {
		return File{}, errs.InvalidData("sarc: file data out of bounds for entry %d", index)
	}
	return File{Name: name, Data: payload}, nil
}

// GetByName performs a binary search over the sorted SFAT table and
// returns the matching file, or ok=false if no file has that name
//.
func (s *Sarc) GetByName(name string) (File, bool, error) {
	if s.numFiles == 0 {
		return File{}, false, nil
	}
	wanted := s.HashName(name)

	r := bin.NewReader(s.data, s.endian)
	a, b := 0, int(s.numFiles)-1
	for a <= b {
		m := (a + b) / 2
		r.Seek(s.entryOffset(uint16(m)))
		hash, ok := r.ReadU32()
		if !ok {
			return File{}, false, errs.InvalidData("sarc: truncated SFAT entry %d", m)
		}
		switch {
		case wanted < hash:
			b = m - 1
		case wanted > hash:
			a = m + 1
		default:
			f, err := s.GetByIndex(uint16(m))
			return f, true, err
		}
	}
	return File{}, false, nil
}

// IterFiles calls fn for every file in the archive, in ascending
// name-hash (SFAT) order, stopping at the first error fn returns
//.
func (s *Sarc) IterFiles(fn func(File) error) error {
	for i := uint16(0); i < s.numFiles; i++ {
		f, err := s.GetByIndex(i)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// Files returns every file in the archive, in ascending name-hash
// order.
func (s *Sarc) Files() ([]File, error) {
	files := make([]File, 0, s.numFiles)
	err := s.IterFiles(func(f File) error {
		files = append(files, f)
		return nil
	})
	return files, err
}

// GuessMinAlignment estimates the minimum data alignment this archive
// was built with, by taking the GCD of every entry's absolute data
// offset.
func (s *Sarc) GuessMinAlignment() uint32 {
	const minAlignment = 4
	var gcd uint32

	r := bin.NewReader(s.data, s.endian)
	for i := uint16(0); i < s.numFiles; i++ {
		r.Seek(s.entryOffset(i) + 8) // data_begin field
		dataBegin, _ := r.ReadU32()
		gcd = gcdU32(gcd, s.dataOffset+dataBegin)
	}

	if !isValidAlignment(gcd) {
		return minAlignment
	}
	return gcd
}

func gcdU32(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func isValidAlignment(alignment uint32) bool {
	return alignment != 0 && alignment&(alignment-1) == 0
}

// Equal reports whether two parsed archives have byte-identical
// backing data.
func (s *Sarc) Equal(other *Sarc) bool {
	return bytes.Equal(s.data, other.data)
}

// AreFilesEqual reports whether two archives contain the same set of
// files with identical content, ignoring any other structural
// differences (e.g. SFAT ordering, padding).
func (s *Sarc) AreFilesEqual(other *Sarc) (bool, error) {
	if s.numFiles != other.numFiles {
		return false, nil
	}
	for i := uint16(0); i < s.numFiles; i++ {
		f1, err := s.GetByIndex(i)
		if err != nil {
			return false, err
		}
		f2, err := other.GetByIndex(i)
		if err != nil {
			return false, err
		}
		if f1.Name != f2.Name || !bytes.Equal(f1.Data, f2.Data) {
			return false, nil
		}
	}
	return true, nil
}

// IsSarc reports whether data looks like a SARC archive, either
// directly or wrapped in Yaz0 compression.
func IsSarc(data []byte) bool {
	if len(data) < 0x20 {
		return false
	}
	if string(data[0:4]) == "SARC" {
		return true
	}
	return yaz0.IsYaz0(data) && len(data) >= 0x15 && string(data[0x11:0x15]) == "SARC"
}
