package document

import "math/rand/v2"

const nilNode = int32(-1)

// anchorNode is one arena slot. A slot doubles as the tree node for a
// live anchor; handles address slots by index plus generation, so a
// recycled slot invalidates stale handles instead of resurrecting
// them.
//
// Offsets are delta-encoded: rel is relative to the parent node (the
// root is relative to zero). Shifting every anchor past an edit point
// therefore touches only one root-to-leaf path.
type anchorNode struct {
	left, right, parent int32
	rel                 int64
	prio                uint64
	gen                 uint32
	live                bool
	survive             bool
	moveAfter           bool
}

// anchorTree is a treap ordered by absolute anchor offset. Priorities
// are random, so expected depth is O(log n) regardless of edit
// patterns.
type anchorTree struct {
	nodes []anchorNode
	free  []int32
	root  int32
	count int
}

func newAnchorTree() anchorTree {
	return anchorTree{root: nilNode}
}

// anchorHit pairs a node index with its absolute offset at collection
// time.
type anchorHit struct {
	idx int32
	off int64
}

func (t *anchorTree) alloc() int32 {
	if n := len(t.free); n > 0 {
		i := t.free[n-1]
		t.free = t.free[:n-1]
		return i
	}
	t.nodes = append(t.nodes, anchorNode{})
	return int32(len(t.nodes) - 1)
}

// insert allocates a slot and attaches it at the given offset.
func (t *anchorTree) insert(offset int64, survive, moveAfter bool) int32 {
	i := t.alloc()
	n := &t.nodes[i]
	n.prio = rand.Uint64()
	n.survive = survive
	n.moveAfter = moveAfter
	n.live = true
	t.attach(i, offset)
	return i
}

// attach links a detached slot into the tree at an absolute offset.
// Equal offsets insert to the right, so attachment order is preserved
// in in-order traversal.
func (t *anchorTree) attach(i int32, offset int64) {
	n := &t.nodes[i]
	n.left, n.right = nilNode, nilNode
	t.count++

	if t.root == nilNode {
		n.parent = nilNode
		n.rel = offset
		t.root = i
		return
	}

	j := t.root
	var parentAbs int64
	for {
		abs := parentAbs + t.nodes[j].rel
		if offset < abs {
			if t.nodes[j].left == nilNode {
				t.nodes[j].left = i
				break
			}
			j = t.nodes[j].left
		} else {
			if t.nodes[j].right == nilNode {
				t.nodes[j].right = i
				break
			}
			j = t.nodes[j].right
		}
		parentAbs = abs
	}

	n.parent = j
	n.rel = offset - (parentAbs + t.nodes[j].rel)
	for n.parent != nilNode && t.nodes[n.parent].prio < n.prio {
		t.rotateUp(i)
	}
}

// rotateUp rotates x above its parent, preserving in-order order and
// every node's absolute offset.
func (t *anchorTree) rotateUp(x int32) {
	p := t.nodes[x].parent
	g := t.nodes[p].parent
	xRel := t.nodes[x].rel
	pRel := t.nodes[p].rel

	if t.nodes[p].left == x {
		b := t.nodes[x].right
		t.nodes[p].left = b
		if b != nilNode {
			t.nodes[b].parent = p
			t.nodes[b].rel += xRel
		}
		t.nodes[x].right = p
	} else {
		b := t.nodes[x].left
		t.nodes[p].right = b
		if b != nilNode {
			t.nodes[b].parent = p
			t.nodes[b].rel += xRel
		}
		t.nodes[x].left = p
	}
	t.nodes[p].parent = x
	t.nodes[x].rel = xRel + pRel
	t.nodes[p].rel = -xRel

	t.nodes[x].parent = g
	switch {
	case g == nilNode:
		t.root = x
	case t.nodes[g].left == p:
		t.nodes[g].left = x
	default:
		t.nodes[g].right = x
	}
}

// detach unlinks a live node from the tree without freeing its slot.
func (t *anchorTree) detach(i int32) {
	for {
		l, r := t.nodes[i].left, t.nodes[i].right
		var child int32
		switch {
		case l == nilNode && r == nilNode:
			child = nilNode
		case l == nilNode:
			child = r
		case r == nilNode:
			child = l
		case t.nodes[l].prio >= t.nodes[r].prio:
			child = l
		default:
			child = r
		}
		if child == nilNode {
			break
		}
		t.rotateUp(child)
	}
	p := t.nodes[i].parent
	switch {
	case p == nilNode:
		t.root = nilNode
	case t.nodes[p].left == i:
		t.nodes[p].left = nilNode
	default:
		t.nodes[p].right = nilNode
	}
	t.nodes[i].parent = nilNode
	t.count--
}

// kill frees a slot, bumping its generation so stale handles read as
// invalidated.
func (t *anchorTree) kill(i int32) {
	t.nodes[i].gen++
	t.nodes[i].live = false
	t.free = append(t.free, i)
}

// abs computes a node's absolute offset by summing deltas up to the
// root.
func (t *anchorTree) abs(i int32) int64 {
	var off int64
	for j := i; j != nilNode; j = t.nodes[j].parent {
		off += t.nodes[j].rel
	}
	return off
}

// collectRange returns, in offset order, every node with absolute
// offset in [lo, hi].
func (t *anchorTree) collectRange(lo, hi int64) []anchorHit {
	var out []anchorHit
	t.collect(t.root, 0, lo, hi, &out)
	return out
}

func (t *anchorTree) collect(i int32, parentAbs, lo, hi int64, out *[]anchorHit) {
	if i == nilNode {
		return
	}
	abs := parentAbs + t.nodes[i].rel
	if abs >= lo {
		t.collect(t.nodes[i].left, abs, lo, hi, out)
	}
	if abs >= lo && abs <= hi {
		*out = append(*out, anchorHit{idx: i, off: abs})
	}
	if abs <= hi {
		t.collect(t.nodes[i].right, abs, lo, hi, out)
	}
}

// shiftFrom adds delta to every node with absolute offset >= pos.
// Touches one root-to-leaf path: a node past pos shifts its whole
// subtree through its own delta, and the left subtree is compensated
// before descending into it.
func (t *anchorTree) shiftFrom(pos, delta int64) {
	i := t.root
	var parentAbs int64
	for i != nilNode {
		n := &t.nodes[i]
		abs := parentAbs + n.rel
		if abs >= pos {
			n.rel += delta
			abs += delta
			if n.left != nilNode {
				t.nodes[n.left].rel -= delta
			}
			parentAbs = abs
			i = n.left
		} else {
			parentAbs = abs
			i = n.right
		}
	}
}

// applyEdit rebases every anchor for a replacement of removedLen bytes
// at off by insertedLen bytes.
//
// Anchors strictly inside the removed span die unless they survive
// deletion. Survivors and anchors at either span boundary land at the
// edit offset, then follow their movement policy for the insertion:
// move-after anchors end up past the new text, the rest stay put.
// Everything beyond the span shifts by the length delta. O(log n + k)
// for k affected anchors.
func (t *anchorTree) applyEdit(off, removedLen, insertedLen int64) {
	affected := t.collectRange(off, off+removedLen)
	for _, a := range affected {
		t.detach(a.idx)
	}
	t.shiftFrom(off+1, insertedLen-removedLen)

	for _, a := range affected {
		n := &t.nodes[a.idx]
		inside := a.off > off && a.off < off+removedLen
		if inside && !n.survive {
			t.kill(a.idx)
			continue
		}
		pos := off
		if n.moveAfter {
			pos = off + insertedLen
		}
		t.attach(a.idx, pos)
	}
}

// valid reports whether a handle's (index, generation) pair still
// addresses a live anchor.
func (t *anchorTree) valid(i int32, gen uint32) bool {
	return i >= 0 && int(i) < len(t.nodes) && t.nodes[i].gen == gen && t.nodes[i].live
}
