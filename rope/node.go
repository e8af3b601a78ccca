package rope

import "strings"

// Tree fanout bounds.
const (
	maxFanout     = 8 // children per internal node
	maxLeafChunks = 4 // chunks per leaf
)

// node is one tree node. Leaves (height 0) hold chunks; internal nodes
// hold children. Nodes are immutable once linked into a rope: edits
// build fresh nodes along the changed path and share the rest.
type node struct {
	height   int
	sum      summary
	children []*node // internal nodes only
	chunks   []chunk // leaves only
}

func emptyLeaf() *node {
	return &node{}
}

func newLeaf(chunks []chunk) *node {
	n := &node{chunks: chunks}
	for _, c := range chunks {
		n.sum = n.sum.add(c.sum)
	}
	return n
}

func newInternal(children []*node) *node {
	if len(children) == 0 {
		return emptyLeaf()
	}
	n := &node{
		height:   children[0].height + 1,
		children: children,
	}
	for _, c := range children {
		n.sum = n.sum.add(c.sum)
	}
	return n
}

func (n *node) isLeaf() bool { return n.height == 0 }

// appendTo writes the subtree's full text to sb.
func (n *node) appendTo(sb *strings.Builder) {
	if n.isLeaf() {
		for _, c := range n.chunks {
			sb.WriteString(c.text)
		}
		return
	}
	for _, c := range n.children {
		c.appendTo(sb)
	}
}

// appendRange writes the text in [start, end) to sb. Bounds are
// assumed pre-clamped to the subtree.
func (n *node) appendRange(sb *strings.Builder, start, end int64) {
	if start >= end {
		return
	}
	if n.isLeaf() {
		var off int64
		for _, c := range n.chunks {
			clen := c.sum.bytes
			if off+clen > start && off < end {
				lo, hi := int64(0), clen
				if start > off {
					lo = start - off
				}
				if end < off+clen {
					hi = end - off
				}
				sb.WriteString(c.text[lo:hi])
			}
			off += clen
			if off >= end {
				break
			}
		}
		return
	}
	var off int64
	for _, c := range n.children {
		clen := c.sum.bytes
		if off+clen > start && off < end {
			lo, hi := int64(0), clen
			if start > off {
				lo = start - off
			}
			if end < off+clen {
				hi = end - off
			}
			c.appendRange(sb, lo, hi)
		}
		off += clen
		if off >= end {
			break
		}
	}
}

// byteAt returns the byte at offset. The offset is assumed in range.
func (n *node) byteAt(off int64) byte {
	for !n.isLeaf() {
		for _, c := range n.children {
			if off < c.sum.bytes {
				n = c
				break
			}
			off -= c.sum.bytes
		}
	}
	for _, c := range n.chunks {
		if off < c.sum.bytes {
			return c.text[off]
		}
		off -= c.sum.bytes
	}
	return 0
}

// lineStart returns the offset just past the line-th newline in the
// subtree (the start of 0-indexed line `line`). Lines past the last
// newline resolve to the subtree end.
func (n *node) lineStart(line int64) int64 {
	if line <= 0 {
		return 0
	}
	var off int64
	if n.isLeaf() {
		for _, c := range n.chunks {
			if line <= c.sum.newlines {
				return off + int64(nthNewline(c.text, line)) + 1
			}
			line -= c.sum.newlines
			off += c.sum.bytes
		}
		return off
	}
	for _, c := range n.children {
		if line <= c.sum.newlines {
			return off + c.lineStart(line)
		}
		line -= c.sum.newlines
		off += c.sum.bytes
	}
	return off
}

// newlinesBefore counts '\n' bytes in [0, off).
func (n *node) newlinesBefore(off int64) int64 {
	if off <= 0 {
		return 0
	}
	if off >= n.sum.bytes {
		return n.sum.newlines
	}
	var count int64
	if n.isLeaf() {
		for _, c := range n.chunks {
			if off >= c.sum.bytes {
				count += c.sum.newlines
				off -= c.sum.bytes
				continue
			}
			count += int64(strings.Count(c.text[:off], "\n"))
			break
		}
		return count
	}
	for _, c := range n.children {
		if off >= c.sum.bytes {
			count += c.sum.newlines
			off -= c.sum.bytes
			continue
		}
		count += c.newlinesBefore(off)
		break
	}
	return count
}

// split divides the subtree at a byte offset into two independent
// trees. Neither input node is modified.
func (n *node) split(at int64) (*node, *node) {
	if at <= 0 {
		return emptyLeaf(), n
	}
	if at >= n.sum.bytes {
		return n, emptyLeaf()
	}
	if n.isLeaf() {
		return n.splitLeaf(at)
	}

	var off int64
	for i, c := range n.children {
		if at < off+c.sum.bytes {
			cl, cr := c.split(at - off)
			left := concatNodes(packChildren(n.children[:i]), cl)
			right := concatNodes(cr, packChildren(n.children[i+1:]))
			return left, right
		}
		off += c.sum.bytes
		if at == off {
			// Clean break between children.
			left := packChildren(n.children[:i+1])
			right := packChildren(n.children[i+1:])
			return left, right
		}
	}
	return n, emptyLeaf()
}

func (n *node) splitLeaf(at int64) (*node, *node) {
	var left, right []chunk
	var off int64
	for _, c := range n.chunks {
		clen := c.sum.bytes
		switch {
		case off+clen <= at:
			left = append(left, c)
		case off >= at:
			right = append(right, c)
		default:
			a, b := c.split(int(at - off))
			if !a.empty() {
				left = append(left, a)
			}
			if !b.empty() {
				right = append(right, b)
			}
		}
		off += clen
	}
	return newLeaf(left), newLeaf(right)
}

// packChildren builds a tree from a run of same-height children taken
// from an existing internal node. The slice is copied, never aliased.
func packChildren(children []*node) *node {
	switch len(children) {
	case 0:
		return emptyLeaf()
	case 1:
		return children[0]
	}
	owned := make([]*node, len(children))
	copy(owned, children)
	return buildLevel(owned)
}

// buildLevel groups same-height nodes into internal nodes, recursing
// until one root remains.
func buildLevel(nodes []*node) *node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	if len(nodes) <= maxFanout {
		return newInternal(nodes)
	}
	var parents []*node
	for i := 0; i < len(nodes); i += maxFanout {
		end := i + maxFanout
		if end > len(nodes) {
			end = len(nodes)
		}
		group := make([]*node, end-i)
		copy(group, nodes[i:end])
		parents = append(parents, newInternal(group))
	}
	return buildLevel(parents)
}

// concatNodes joins two trees of any heights, keeping the result
// balanced. Neither input is modified.
func concatNodes(a, b *node) *node {
	if a == nil || a.sum.bytes == 0 {
		if b == nil {
			return emptyLeaf()
		}
		return b
	}
	if b == nil || b.sum.bytes == 0 {
		return a
	}

	switch {
	case a.height == b.height:
		return mergeSameHeight(a, b)

	case a.height > b.height:
		// Graft b onto a's right edge.
		last := a.children[len(a.children)-1]
		merged := concatNodes(last, b)
		if merged.height < a.height {
			children := make([]*node, len(a.children))
			copy(children, a.children)
			children[len(children)-1] = merged
			return newInternal(children)
		}
		// The graft grew to a's height: splice its children in.
		children := make([]*node, 0, len(a.children)-1+len(merged.children))
		children = append(children, a.children[:len(a.children)-1]...)
		children = append(children, merged.children...)
		return buildLevel(children)

	default:
		first := b.children[0]
		merged := concatNodes(a, first)
		if merged.height < b.height {
			children := make([]*node, len(b.children))
			copy(children, b.children)
			children[0] = merged
			return newInternal(children)
		}
		children := make([]*node, 0, len(merged.children)+len(b.children)-1)
		children = append(children, merged.children...)
		children = append(children, b.children[1:]...)
		return buildLevel(children)
	}
}

func mergeSameHeight(a, b *node) *node {
	if a.isLeaf() {
		chunks := combineChunks(a.chunks, b.chunks)
		if len(chunks) <= maxLeafChunks {
			return newLeaf(chunks)
		}
		mid := len(chunks) / 2
		return newInternal([]*node{newLeaf(chunks[:mid]), newLeaf(chunks[mid:])})
	}
	children := make([]*node, 0, len(a.children)+len(b.children))
	children = append(children, a.children...)
	children = append(children, b.children...)
	return buildLevel(children)
}

// combineChunks joins two chunk runs, coalescing the boundary pair when
// the result still fits in one chunk. Keeps edit churn from fragmenting
// leaves into slivers.
func combineChunks(x, y []chunk) []chunk {
	if len(x) == 0 {
		return y
	}
	if len(y) == 0 {
		return x
	}
	out := make([]chunk, 0, len(x)+len(y))
	if x[len(x)-1].len()+y[0].len() <= maxChunkBytes {
		out = append(out, x[:len(x)-1]...)
		out = append(out, newChunk(x[len(x)-1].text+y[0].text))
		out = append(out, y[1:]...)
		return out
	}
	out = append(out, x...)
	out = append(out, y...)
	return out
}
