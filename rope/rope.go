package rope

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Rope is a persistent text buffer. The zero value is an empty rope.
//
// Ropes are values: assignment is an O(1) clone, and a mutation on one
// copy is never visible through another. All offsets are byte offsets.
// Out-of-range offsets are clamped; callers wanting hard validation
// should do it before calling (the document package does).
type Rope struct {
	root *node
}

// New returns an empty rope.
func New() Rope {
	return Rope{root: emptyLeaf()}
}

// FromString builds a rope holding s.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return fromChunks(chunkify(s))
}

// FromReader builds a rope from the full contents of r.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	if _, err := b.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

func fromChunks(chunks []chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}
	var leaves []*node
	for i := 0; i < len(chunks); i += maxLeafChunks {
		end := i + maxLeafChunks
		if end > len(chunks) {
			end = len(chunks)
		}
		group := make([]chunk, end-i)
		copy(group, chunks[i:end])
		leaves = append(leaves, newLeaf(group))
	}
	return Rope{root: buildLevel(leaves)}
}

// Len returns the total byte length.
func (r Rope) Len() int64 {
	if r.root == nil {
		return 0
	}
	return r.root.sum.bytes
}

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool { return r.Len() == 0 }

// String materializes the full text. Use sparingly on large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.Len()))
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in [start, end), clamped to the rope.
func (r Rope) Slice(start, end int64) string {
	if r.root == nil {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(end - start))
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// ByteAt returns the byte at offset, or false if out of range.
func (r Rope) ByteAt(offset int64) (byte, bool) {
	if r.root == nil || offset < 0 || offset >= r.Len() {
		return 0, false
	}
	return r.root.byteAt(offset), true
}

// RuneAt decodes the rune starting at offset. Returns utf8.RuneError
// with size 0 if offset is out of range.
func (r Rope) RuneAt(offset int64) (rune, int) {
	if offset < 0 || offset >= r.Len() {
		return utf8.RuneError, 0
	}
	end := offset + utf8.UTFMax
	if end > r.Len() {
		end = r.Len()
	}
	return utf8.DecodeRuneInString(r.Slice(offset, end))
}

// Insert returns a rope with text inserted at offset. The original is
// unchanged.
func (r Rope) Insert(offset int64, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil || r.Len() == 0 {
		return FromString(text)
	}
	if offset <= 0 {
		return FromString(text).Concat(r)
	}
	if offset >= r.Len() {
		return r.Concat(FromString(text))
	}
	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete returns a rope with [start, end) removed.
func (r Rope) Delete(start, end int64) Rope {
	if r.root == nil || start >= end {
		return r
	}
	n := r.Len()
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= n || start >= end {
		return r
	}
	if start == 0 && end == n {
		return New()
	}
	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Replace returns a rope with [start, end) replaced by text.
func (r Rope) Replace(start, end int64, text string) Rope {
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Delete(start, end)
	}
	return r.Delete(start, end).Insert(start, text)
}

// Split divides the rope at offset: left holds [0, offset), right
// holds [offset, Len).
func (r Rope) Split(offset int64) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}
	l, rt := r.root.split(offset)
	return Rope{root: l}, Rope{root: rt}
}

// Concat joins two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concatNodes(r.root, other.root)}
}

// Line metrics. Lines are 0-indexed at this layer; the document layer
// exposes the 1-based view.

// NewlineCount returns the number of '\n' bytes in the rope.
func (r Rope) NewlineCount() int64 {
	if r.root == nil {
		return 0
	}
	return r.root.sum.newlines
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int64 {
	return r.NewlineCount() + 1
}

// LineStart returns the byte offset where the given 0-indexed line
// begins. Lines past the end resolve to Len.
func (r Rope) LineStart(line int64) int64 {
	if r.root == nil || line <= 0 {
		return 0
	}
	return r.root.lineStart(line)
}

// LineEnd returns the offset just past the last content byte of the
// line, excluding its '\n' (but not a preceding '\r'; terminator
// classification lives in the document layer).
func (r Rope) LineEnd(line int64) int64 {
	if r.root == nil {
		return 0
	}
	if line >= r.LineCount()-1 {
		return r.Len()
	}
	return r.LineStart(line+1) - 1
}

// LineText returns the line's text without its trailing newline.
func (r Rope) LineText(line int64) string {
	return r.Slice(r.LineStart(line), r.LineEnd(line))
}

// LineForOffset returns the 0-indexed line containing offset.
func (r Rope) LineForOffset(offset int64) int64 {
	if r.root == nil || offset <= 0 {
		return 0
	}
	if offset > r.Len() {
		offset = r.Len()
	}
	return r.root.newlinesBefore(offset)
}

// OffsetToPoint converts a byte offset to a line/column position.
func (r Rope) OffsetToPoint(offset int64) Point {
	if offset <= 0 {
		return Point{}
	}
	if offset > r.Len() {
		offset = r.Len()
	}
	line := r.LineForOffset(offset)
	return Point{
		Line:   int(line),
		Column: int(offset - r.LineStart(line)),
	}
}

// PointToOffset converts a line/column position to a byte offset,
// clamping the column to the line.
func (r Rope) PointToOffset(p Point) int64 {
	start := r.LineStart(int64(p.Line))
	end := r.LineEnd(int64(p.Line))
	if int64(p.Column) >= end-start {
		return end
	}
	return start + int64(p.Column)
}

// Equals reports whether two ropes hold the same text. Compares
// content chunk by chunk, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	a := r.Chunks()
	b := other.Chunks()
	var sa, sb string
	for {
		if sa == "" {
			if !a.Next() {
				return sb == "" && !b.Next()
			}
			sa = a.Text()
		}
		if sb == "" {
			if !b.Next() {
				return false
			}
			sb = b.Text()
		}
		n := len(sa)
		if len(sb) < n {
			n = len(sb)
		}
		if sa[:n] != sb[:n] {
			return false
		}
		sa, sb = sa[n:], sb[n:]
	}
}

// Height returns the tree height. Exposed for balance tests.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return r.root.height + 1
}
