package byml

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

// fingerprint renders v into a canonical byte string used purely as a
// dedup key for non-inline payloads.
// It is never written to the wire; it exists so a Go map can stand in
// for oead's hash map keyed by Byml value equality.
func fingerprint(v Value) string {
	var b strings.Builder
	writeFingerprint(&b, v)
	return b.String()
}

func writeFingerprint(b *strings.Builder, v Value) {
	var tmp [8]byte
	b.WriteByte(byte(v.Type()))
	switch v.Type() {
	case TypeNull:
	case TypeBool:
		bv, _ := v.GetBool()
		if bv {
			b.WriteByte(1)
		} else {
			b.WriteByte(0)
		}
	case TypeInt:
		i, _ := v.GetInt()
		binary.LittleEndian.PutUint32(tmp[:4], uint32(i))
		b.Write(tmp[:4])
	case TypeUInt:
		u, _ := v.GetUInt()
		binary.LittleEndian.PutUint32(tmp[:4], u)
		b.Write(tmp[:4])
	case TypeInt64:
		i, _ := v.GetInt64()
		binary.LittleEndian.PutUint64(tmp[:], uint64(i))
		b.Write(tmp[:])
	case TypeUInt64:
		u, _ := v.GetUInt64()
		binary.LittleEndian.PutUint64(tmp[:], u)
		b.Write(tmp[:])
	case TypeDouble:
		d, _ := v.GetDouble()
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(d))
		b.Write(tmp[:])
	case TypeString:
		s, _ := v.GetString()
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	case TypeBinary:
		data, _ := v.GetBinary()
		b.WriteString(strconv.Itoa(len(data)))
		b.WriteByte(':')
		b.Write(data)
	case TypeFile:
		f, _ := v.GetFile()
		b.WriteString(strconv.Itoa(int(f.Align)))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(len(f.Data)))
		b.WriteByte(':')
		b.Write(f.Data)
	case TypeArray:
		arr, _ := v.GetArray()
		b.WriteString(strconv.Itoa(len(arr)))
		for _, item := range arr {
			writeFingerprint(b, item)
		}
	case TypeDictionary:
		dict, _ := v.GetDictionary()
		keys := dict.sortedKeys()
		b.WriteString(strconv.Itoa(len(keys)))
		for _, k := range keys {
			b.WriteString(k)
			b.WriteByte(0)
			writeFingerprint(b, dict[k])
		}
	case TypeHash32:
		h, _ := v.GetHash32()
		keys := h.sortedKeys()
		b.WriteString(strconv.Itoa(len(keys)))
		for _, k := range keys {
			binary.LittleEndian.PutUint32(tmp[:4], k)
			b.Write(tmp[:4])
			writeFingerprint(b, h[k])
		}
	case TypeHash64:
		h, _ := v.GetHash64()
		keys := h.sortedKeys()
		b.WriteString(strconv.Itoa(len(keys)))
		for _, k := range keys {
			binary.LittleEndian.PutUint64(tmp[:], k)
			b.Write(tmp[:])
			writeFingerprint(b, h[k])
		}
	}
}
