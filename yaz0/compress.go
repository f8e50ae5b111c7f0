package yaz0

import bin "github.com/joshuapare/nxbin/internal/binary"

// CompressOptions configures Compress.
type CompressOptions struct {
	// Level trades ratio for speed; valid values are 6 (fastest) to 9
	// (slowest). Out-of-range values are clamped.
	Level int
	// DataAlignment is stored in the header as an advisory hint and
	// round-tripped without interpretation.
	DataAlignment uint32
}

// Compress encodes src as a Yaz0 stream. Match-vs-literal
// choices come from a hash-chain LZ77 search bounded to Yaz0's window
// (0x1000) and max match length (0x111); Compress itself only
// translates the resulting token stream into the 8-chunk group
// format. This is a reference encoder: correctness and decoder
// round-trip are the guarantees, not a specific ratio.
func Compress(src []byte, opts CompressOptions) []byte {
	level := opts.Level
	switch {
	case level < 6:
		level = 6
	case level > 9:
		level = 9
	}

	w := bin.NewWriter(bin.BigEndian)
	w.WriteBytes([]byte("Yaz0"))
	w.WriteU32(uint32(len(src)))
	w.WriteU32(opts.DataAlignment)
	w.WriteBytes(make([]byte, 4))

	gw := newGroupWriter(w)
	for _, tok := range findMatches(src, level) {
		if tok.length == 0 {
			gw.literal(tok.lit)
		} else {
			gw.match(tok.distance, tok.length)
		}
	}
	gw.finalize()
	return w.Bytes()
}

// groupWriter accumulates literal/reference chunks into Yaz0's 8-chunk
// groups. The group-header placeholder byte is written when a group's
// first chunk arrives and back-patched once all 8 chunks (or the final
// partial group) are known, mirroring oead::yaz0::GroupWriter; an
// empty input therefore produces no body bytes at all, just the
// header.
type groupWriter struct {
	w            *bin.Writer
	headerOffset int
	headerBits   byte
	pending      int
}

func newGroupWriter(w *bin.Writer) *groupWriter {
	return &groupWriter{w: w}
}

func (g *groupWriter) beginChunk() {
	if g.pending == 0 {
		g.headerBits = 0
		g.headerOffset = g.w.Tell()
		g.w.WriteU8(0xFF) // placeholder, back-patched by flush
	}
}

func (g *groupWriter) literal(b byte) {
	g.beginChunk()
	g.headerBits |= 1 << (7 - g.pending)
	g.w.WriteU8(b)
	g.advance()
}

func (g *groupWriter) match(distance, length uint32) {
	g.beginChunk()
	d := distance - 1
	if length < 18 {
		g.w.WriteU8(byte((length-2)<<4) | byte(d>>8))
		g.w.WriteU8(byte(d))
	} else {
		actual := length
		if actual > maxMatchLength {
			actual = maxMatchLength
		}
		g.w.WriteU8(byte(d >> 8))
		g.w.WriteU8(byte(d))
		g.w.WriteU8(byte(actual - 0x12))
	}
	g.advance()
}

func (g *groupWriter) advance() {
	g.pending++
	if g.pending == chunksPerGroup {
		g.flush()
		g.pending = 0
	}
}

func (g *groupWriter) flush() {
	g.w.RunAt(g.headerOffset, func(int) { g.w.WriteU8(g.headerBits) })
}

// finalize back-patches the trailing partial group's header, if any
// chunk was written to it since the last flush.
func (g *groupWriter) finalize() {
	if g.pending != 0 {
		g.flush()
	}
}

// token is one step of the literal/reference stream findMatches
// produces: length == 0 means a literal byte, otherwise a
// (distance, length) back-reference.
type token struct {
	lit      byte
	distance uint32
	length   uint32
}

const (
	hashBits      = 15
	hashTableSize = 1 << hashBits
)

func hash3(src []byte, i int) uint32 {
	v := uint32(src[i])<<16 | uint32(src[i+1])<<8 | uint32(src[i+2])
	return (v * 2654435761) >> (32 - hashBits)
}

// maxChainForLevel bounds how many candidate positions the hash-chain
// search walks before giving up, trading ratio for speed across the
// documented level range.
func maxChainForLevel(level int) int {
	switch level {
	case 6:
		return 8
	case 7:
		return 16
	case 8:
		return 32
	default:
		return 64
	}
}

// findMatches runs a lazy-matching hash-chain LZ77 search over src,
// bounded to Yaz0's window and max match length, and returns the
// resulting literal/reference token stream in emission order.
func findMatches(src []byte, level int) []token {
	n := len(src)
	tokens := make([]token, 0, n)
	if n == 0 {
		return tokens
	}

	head := make([]int32, hashTableSize)
	for i := range head {
		head[i] = -1
	}
	prev := make([]int32, n)
	maxChain := maxChainForLevel(level)

	insert := func(i int) {
		if i+3 > n {
			return
		}
		h := hash3(src, i)
		prev[i] = head[h]
		head[h] = int32(i)
	}

	bestMatch := func(i int) (distance, length uint32) {
		if i+minMatchLength > n {
			return 0, 0
		}
		h := hash3(src, i)
		cand := head[h]
		chain := maxChain
		limit := n
		if i+maxMatchLength < limit {
			limit = i + maxMatchLength
		}
		var bestLen, bestDist uint32
		for cand >= 0 && chain > 0 {
			c := int(cand)
			if i-c > windowSize {
				break
			}
			l := 0
			for i+l < limit && src[c+l] == src[i+l] {
				l++
			}
			if uint32(l) > bestLen && l >= minMatchLength {
				bestLen = uint32(l)
				bestDist = uint32(i - c)
				if l >= maxMatchLength {
					break
				}
			}
			cand = prev[c]
			chain--
		}
		return bestDist, bestLen
	}

	for i := 0; i < n; {
		dist, length := bestMatch(i)

		if length >= minMatchLength && i+1 < n {
			_, length2 := bestMatch(i + 1)
			if length2 > length {
				insert(i)
				tokens = append(tokens, token{lit: src[i]})
				i++
				continue
			}
		}

		insert(i)
		if length >= minMatchLength {
			tokens = append(tokens, token{distance: dist, length: length})
			for k := 1; k < int(length); k++ {
				insert(i + k)
			}
			i += int(length)
		} else {
			tokens = append(tokens, token{lit: src[i]})
			i++
		}
	}
	return tokens
}
