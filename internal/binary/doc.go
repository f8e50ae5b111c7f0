// Package binary provides the endian-aware, bounds-checked byte
// primitives shared by the byml, aamp, sarc, and yaz0 codecs: fixed
// width field accessors, a 24-bit integer codec, and a pair of
// cursor-based Reader/Writer types modeled on oead's BinaryReader and
// BinaryWriterBase.
package binary
