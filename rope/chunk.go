package rope

// Chunk size bounds. Leaves never hold chunks larger than maxChunkBytes;
// edits that would grow a chunk past the bound re-split it.
const (
	minChunkBytes    = 64
	maxChunkBytes    = 256
	targetChunkBytes = (minChunkBytes + maxChunkBytes) / 2
)

// chunk is a bounded, immutable run of text with precomputed metrics.
type chunk struct {
	text string
	sum  summary
}

func newChunk(s string) chunk {
	return chunk{text: s, sum: summarize(s)}
}

func (c chunk) len() int { return len(c.text) }

func (c chunk) empty() bool { return len(c.text) == 0 }

// split divides the chunk at a byte offset. The offset must lie on a
// UTF-8 boundary; callers are responsible for that.
func (c chunk) split(at int) (chunk, chunk) {
	switch {
	case at <= 0:
		return chunk{}, c
	case at >= len(c.text):
		return c, chunk{}
	}
	return newChunk(c.text[:at]), newChunk(c.text[at:])
}

// chunkify slices a string into chunks of roughly targetChunkBytes,
// preferring to break after newlines and never breaking inside a UTF-8
// sequence.
func chunkify(s string) []chunk {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= maxChunkBytes {
		return []chunk{newChunk(s)}
	}

	chunks := make([]chunk, 0, len(s)/targetChunkBytes+1)
	for len(s) > maxChunkBytes {
		cut := chunkCut(s, targetChunkBytes)
		chunks = append(chunks, newChunk(s[:cut]))
		s = s[cut:]
	}
	if len(s) > 0 {
		chunks = append(chunks, newChunk(s))
	}
	return chunks
}

// chunkCut picks a split position near target: after a nearby newline
// if one exists, otherwise at the closest UTF-8 boundary.
func chunkCut(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}

	lo := target - minChunkBytes/2
	if lo < 1 {
		lo = 1
	}
	hi := target + minChunkBytes/2
	if hi > len(s) {
		hi = len(s)
	}
	for i := target; i < hi; i++ {
		if s[i-1] == '\n' {
			return i
		}
	}
	for i := target - 1; i >= lo; i-- {
		if s[i-1] == '\n' {
			return i
		}
	}

	// No newline nearby. Back up to a UTF-8 start byte.
	cut := target
	for cut > 0 && !utf8Start(s[cut]) {
		cut--
	}
	if cut == 0 {
		cut = target
		for cut < len(s) && !utf8Start(s[cut]) {
			cut++
		}
	}
	return cut
}

// utf8Start reports whether b begins a UTF-8 sequence (continuation
// bytes are 10xxxxxx).
func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
