package rope

import "unicode/utf8"

// ChunkIterator walks the rope's chunks in order without materializing
// the text. Call Next before the first access.
type ChunkIterator struct {
	stack   []chunkFrame
	leaf    *node
	idx     int   // next chunk index within leaf
	nextOff int64 // absolute offset of that chunk
	clip    int64 // bytes to trim from the front of the first chunk
	text    string
	offset  int64
}

type chunkFrame struct {
	n   *node
	idx int
}

// Chunks returns an iterator over every chunk.
func (r Rope) Chunks() *ChunkIterator {
	return r.ChunksFrom(0)
}

// ChunksFrom returns an iterator whose first chunk begins exactly at
// start (the leading partial chunk is trimmed).
func (r Rope) ChunksFrom(start int64) *ChunkIterator {
	it := &ChunkIterator{}
	if start < 0 {
		start = 0
	}
	if r.root == nil || start >= r.root.sum.bytes {
		return it
	}

	// Descend to the leaf containing start.
	n := r.root
	var base int64
	for !n.isLeaf() {
		for i, c := range n.children {
			if start < base+c.sum.bytes {
				it.stack = append(it.stack, chunkFrame{n: n, idx: i})
				n = c
				break
			}
			base += c.sum.bytes
		}
	}
	it.leaf = n
	for i, c := range n.chunks {
		if start < base+c.sum.bytes {
			it.idx = i
			it.nextOff = base
			it.clip = start - base
			break
		}
		base += c.sum.bytes
	}
	return it
}

// Next advances to the next chunk. Returns false when exhausted.
func (it *ChunkIterator) Next() bool {
	if it.leaf == nil {
		return false
	}
	for it.idx >= len(it.leaf.chunks) {
		if !it.nextLeaf() {
			it.leaf = nil
			it.text = ""
			return false
		}
	}
	c := it.leaf.chunks[it.idx]
	it.text = c.text[it.clip:]
	it.offset = it.nextOff + it.clip
	it.nextOff += c.sum.bytes
	it.clip = 0
	it.idx++
	return true
}

// nextLeaf pops up the stack until an unvisited sibling subtree exists,
// then descends to its leftmost leaf.
func (it *ChunkIterator) nextLeaf() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		top.idx++
		if top.idx < len(top.n.children) {
			n := top.n.children[top.idx]
			for !n.isLeaf() {
				it.stack = append(it.stack, chunkFrame{n: n, idx: 0})
				n = n.children[0]
			}
			it.leaf = n
			it.idx = 0
			return true
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

// Text returns the current chunk's text.
func (it *ChunkIterator) Text() string { return it.text }

// Offset returns the absolute byte offset of the current chunk.
func (it *ChunkIterator) Offset() int64 { return it.offset }

// RuneIterator walks runes in order. Chunk boundaries always fall on
// rune boundaries, so decoding never straddles chunks.
type RuneIterator struct {
	chunks *ChunkIterator
	text   string
	pos    int
	base   int64
	r      rune
	size   int
}

// Runes returns an iterator over every rune.
func (r Rope) Runes() *RuneIterator {
	return r.RunesFrom(0)
}

// RunesFrom returns a rune iterator starting at the given byte offset.
func (r Rope) RunesFrom(start int64) *RuneIterator {
	return &RuneIterator{chunks: r.ChunksFrom(start)}
}

// Next advances to the next rune. Returns false at the end.
func (it *RuneIterator) Next() bool {
	it.pos += it.size
	for it.pos >= len(it.text) {
		if !it.chunks.Next() {
			it.size = 0
			return false
		}
		it.text = it.chunks.Text()
		it.base = it.chunks.Offset()
		it.pos = 0
		it.size = 0
	}
	it.r, it.size = utf8.DecodeRuneInString(it.text[it.pos:])
	return true
}

// Rune returns the current rune.
func (it *RuneIterator) Rune() rune { return it.r }

// Size returns the byte width of the current rune.
func (it *RuneIterator) Size() int { return it.size }

// Offset returns the absolute byte offset of the current rune.
func (it *RuneIterator) Offset() int64 { return it.base + int64(it.pos) }

// LineIterator yields one line per step, without trailing newlines.
type LineIterator struct {
	r     Rope
	line  int64
	count int64
	start int64
	end   int64
}

// Lines returns an iterator over every line, including the final line
// even when empty.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{r: r, line: -1, count: r.LineCount()}
}

// Next advances to the next line.
func (it *LineIterator) Next() bool {
	it.line++
	if it.line >= it.count {
		return false
	}
	it.start = it.r.LineStart(it.line)
	it.end = it.r.LineEnd(it.line)
	return true
}

// Line returns the current 0-indexed line number.
func (it *LineIterator) Line() int64 { return it.line }

// Start returns the line's starting byte offset.
func (it *LineIterator) Start() int64 { return it.start }

// End returns the offset just past the line's content.
func (it *LineIterator) End() int64 { return it.end }

// Text returns the line's text.
func (it *LineIterator) Text() string { return it.r.Slice(it.start, it.end) }
