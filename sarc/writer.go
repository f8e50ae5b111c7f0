package sarc

import (
	"sort"

	"github.com/joshuapare/nxbin/errs"
	bin "github.com/joshuapare/nxbin/internal/binary"
)

// Mode controls SarcWriter's legacy alignment behaviors.
type Mode int

const (
	// ModeNew is for games whose resource system automatically takes
	// care of data alignment; nested SARCs are not specially aligned.
	ModeNew Mode = iota
	// ModeLegacy aligns nested SARCs (and Yaz0-wrapped SARCs) to
	// 0x2000 bytes, matching older titles' resource systems.
	ModeLegacy
)

// Writer builds a SARC archive from a set of named file payloads
//.
type Writer struct {
	Endian bin.Endianness
	Mode   Mode

	hashMultiplier uint32
	minAlignment   uint32
	alignmentMap   map[string]uint32

	files map[string][]byte
}

// NewWriter returns an empty little-endian, ModeNew writer.
func NewWriter() *Writer {
	return &Writer{
		Endian:         bin.LittleEndian,
		Mode:           ModeNew,
		hashMultiplier: 0x65,
		minAlignment:   4,
		alignmentMap:   make(map[string]uint32),
		files:          make(map[string][]byte),
	}
}

// FromSarc builds a Writer seeded with every file in archive, copying
// its endianness, minimum alignment (via GuessMinAlignment) and
// content, so that `Writer.FromSarc(parse(s)).Write()` round-trips the
// contained files.
func FromSarc(archive *Sarc) (*Writer, error) {
	w := NewWriter()
	w.Endian = archive.Endian()
	w.SetMinAlignment(archive.GuessMinAlignment())

	files, err := archive.Files()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		data := make([]byte, len(f.Data))
		copy(data, f.Data)
		w.files[f.Name] = data
	}
	return w, nil
}

// SetFile adds or replaces a file's content.
func (w *Writer) SetFile(name string, data []byte) { w.files[name] = data }

// DeleteFile removes a file, if present.
func (w *Writer) DeleteFile(name string) { delete(w.files, name) }

// NumFiles reports how many files are queued for writing.
func (w *Writer) NumFiles() int { return len(w.files) }

// SetMinAlignment sets the floor alignment applied to every file's
// data, regardless of extension (must be a power of two).
func (w *Writer) SetMinAlignment(alignment uint32) error {
	if !isValidAlignment(alignment) {
		return errs.TypeError("sarc: invalid alignment %d (must be a nonzero power of two)", alignment)
	}
	w.minAlignment = alignment
	return nil
}

// AddAlignmentRequirement sets (or clears, with alignment 1) the
// required alignment for files whose name ends in the given
// extension, without the leading dot.
func (w *Writer) AddAlignmentRequirement(extension string, alignment uint32) error {
	if !isValidAlignment(alignment) {
		return errs.TypeError("sarc: invalid alignment %d (must be a nonzero power of two)", alignment)
	}
	w.alignmentMap[extension] = alignment
	return nil
}

// SetHashMultiplier overrides the default 0x65 polynomial multiplier
// used to hash file names.
func (w *Writer) SetHashMultiplier(multiplier uint32) { w.hashMultiplier = multiplier }

func fileExtension(name string) string {
	dot := -1
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 || dot+1 >= len(name) {
		return ""
	}
	return name[dot+1:]
}

// getAlignmentForFile computes a single file's required data
// alignment as the LCM of the writer's minimum alignment, any
// extension-specific override, the mode-specific nested-SARC rule, and
// content-detected alignment.
func (w *Writer) getAlignmentForFile(name string, data []byte) uint32 {
	alignment := w.minAlignment

	if a, ok := w.alignmentMap[fileExtension(name)]; ok {
		alignment = lcmU32(alignment, a)
	}

	if w.Mode == ModeLegacy && IsSarc(data) {
		alignment = lcmU32(alignment, 0x2000)
	}

	alignment = lcmU32(alignment, getAlignmentForNewBinaryFile(data))
	if w.Endian == bin.BigEndian {
		alignment = lcmU32(alignment, getAlignmentForCafeBflim(data))
	}

	return alignment
}

func lcmU32(a, b uint32) uint32 {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcdU32(a, b) * b
}

// getAlignmentForNewBinaryFile detects the alignment nn::util::BinaryFileHeader-based
// resources declare in their own header.
func getAlignmentForNewBinaryFile(data []byte) uint32 {
	if len(data) <= 0x20 {
		return 1
	}
	bom := bin.U16(data[0xC:], bin.BigEndian)
	if bom != 0xFEFF && bom != 0xFFFE {
		return 1
	}
	endian := bin.BigEndian
	if bom == 0xFFFE {
		endian = bin.LittleEndian
	}
	fileSize := bin.U32(data[0x1C:], endian)
	if int(fileSize) != len(data) {
		return 1
	}
	return 1 << data[0xE]
}

// getAlignmentForCafeBflim detects the trailing alignment field found
// in Cafe (Wii U) BFLIM textures.
func getAlignmentForCafeBflim(data []byte) uint32 {
	if len(data) <= 0x28 {
		return 1
	}
	tail := data[len(data)-0x28:]
	if string(tail[0:4]) != "FLIM" {
		return 1
	}
	return uint32(bin.U16(data[len(data)-0x8:], bin.BigEndian))
}

type sortedFile struct {
	name string
	data []byte
	hash uint32
}

// Write serializes the writer's files into a SARC archive, sorted by
// name hash for binary search, returning the resulting required
// alignment alongside the bytes.
func (w *Writer) Write() (uint32, []byte, error) {
	writer := bin.NewWriter(w.Endian)
	writer.Seek(headerSize)

	files := make([]sortedFile, 0, len(w.files))
	for name, data := range w.files {
		files = append(files, sortedFile{name: name, data: data, hash: HashName(w.hashMultiplier, name)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].hash < files[j].hash })

	// SFAT
	writer.WriteBytes([]byte("SFAT"))
	writer.WriteU16(fatHeaderSize)
	writer.WriteU16(uint16(len(files)))
	writer.WriteU32(w.hashMultiplier)

	alignments := make([]uint32, len(files))
	relStringOffset := uint32(0)
	relDataOffset := uint32(0)
	for i, f := range files {
		alignment := w.getAlignmentForFile(f.name, f.data)
		alignments[i] = alignment

		dataBegin := alignUp32(relDataOffset, alignment)
		dataEnd := dataBegin + uint32(len(f.data))

		writer.WriteU32(f.hash)
		writer.WriteU32(1<<24 | (relStringOffset / 4))
		writer.WriteU32(dataBegin)
		writer.WriteU32(dataEnd)

		relDataOffset = dataEnd
		relStringOffset += alignUp32(uint32(len(f.name)+1), 4)
	}

	// SFNT
	writer.WriteBytes([]byte("SFNT"))
	writer.WriteU16(fntHeaderSize)
	writer.WriteU16(0)
	for _, f := range files {
		writer.WriteCStr(f.name)
		writer.AlignUp(4)
	}

	requiredAlignment := uint32(1)
	for _, a := range alignments {
		requiredAlignment = lcmU32(requiredAlignment, a)
	}
	if requiredAlignment == 0 {
		requiredAlignment = 1
	}
	writer.AlignUp(int(requiredAlignment))
	dataOffsetBegin := writer.Tell()

	for i, f := range files {
		writer.AlignUp(int(alignments[i]))
		writer.WriteBytes(f.data)
	}

	fileSize := writer.Len()

	writer.Seek(0)
	writer.WriteBytes([]byte("SARC"))
	writer.WriteU16(headerSize)
	writer.WriteU16(0xFEFF)
	writer.WriteU32(uint32(fileSize))
	writer.WriteU32(uint32(dataOffsetBegin))
	writer.WriteU16(0x0100)
	writer.WriteU16(0)

	return requiredAlignment, writer.Finalize(), nil
}

func alignUp32(v, n uint32) uint32 {
	if n == 0 {
		return v
	}
	return (v + n - 1) &^ (n - 1)
}
