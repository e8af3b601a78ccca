package segment

import "math/rand/v2"

const nilNode = int32(-1)

// segNode is one arena slot of the interval treap. Payloads live in a
// parallel slice on the Index so the tree code stays monomorphic.
//
// rel is the node's start offset relative to its parent's start (the
// root is relative to zero). maxEnd is the largest segment end in the
// node's subtree, relative to the node's own start; it is what lets
// overlap queries prune whole subtrees.
type segNode struct {
	left, right, parent int32
	rel                 int64
	length              int64
	maxEnd              int64
	prio                uint64
	gen                 uint32
	live                bool
}

// segTree is a treap ordered by absolute start offset.
type segTree struct {
	nodes []segNode
	free  []int32
	root  int32
	count int
}

func newSegTree() segTree {
	return segTree{root: nilNode}
}

// segHit pairs a node index with its absolute start and length at
// collection time.
type segHit struct {
	idx    int32
	start  int64
	length int64
}

func (h segHit) end() int64 { return h.start + h.length }

func (t *segTree) alloc() int32 {
	if n := len(t.free); n > 0 {
		i := t.free[n-1]
		t.free = t.free[:n-1]
		return i
	}
	t.nodes = append(t.nodes, segNode{})
	return int32(len(t.nodes) - 1)
}

func (t *segTree) insert(start, length int64) int32 {
	i := t.alloc()
	n := &t.nodes[i]
	n.prio = rand.Uint64()
	n.length = length
	n.live = true
	t.attach(i, start)
	return i
}

// recompute refreshes a node's maxEnd from its own length and its
// children.
func (t *segTree) recompute(i int32) {
	n := &t.nodes[i]
	m := n.length
	if n.left != nilNode {
		l := &t.nodes[n.left]
		if v := l.rel + l.maxEnd; v > m {
			m = v
		}
	}
	if n.right != nilNode {
		r := &t.nodes[n.right]
		if v := r.rel + r.maxEnd; v > m {
			m = v
		}
	}
	n.maxEnd = m
}

// updateUp recomputes maxEnd from i to the root.
func (t *segTree) updateUp(i int32) {
	for j := i; j != nilNode; j = t.nodes[j].parent {
		t.recompute(j)
	}
}

// attach links a detached slot into the tree at an absolute start
// offset. Equal starts insert to the right.
func (t *segTree) attach(i int32, start int64) {
	n := &t.nodes[i]
	n.left, n.right = nilNode, nilNode
	n.maxEnd = n.length
	t.count++

	if t.root == nilNode {
		n.parent = nilNode
		n.rel = start
		t.root = i
		return
	}

	j := t.root
	var parentAbs int64
	for {
		abs := parentAbs + t.nodes[j].rel
		if start < abs {
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
	n.rel = start - (parentAbs + t.nodes[j].rel)
	for n.parent != nilNode && t.nodes[n.parent].prio < n.prio {
		t.rotateUp(i)
	}
	t.updateUp(i)
}

// rotateUp rotates x above its parent, preserving order, absolute
// offsets, and local maxEnd values.
func (t *segTree) rotateUp(x int32) {
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
	t.recompute(p)
	t.recompute(x)
}

// detach unlinks a live node without freeing its slot.
func (t *segTree) detach(i int32) {
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
	if p != nilNode {
		t.updateUp(p)
	}
}

func (t *segTree) kill(i int32) {
	t.nodes[i].gen++
	t.nodes[i].live = false
	t.free = append(t.free, i)
}

// absStart computes a node's absolute start offset.
func (t *segTree) absStart(i int32) int64 {
	var off int64
	for j := i; j != nilNode; j = t.nodes[j].parent {
		off += t.nodes[j].rel
	}
	return off
}

// collectOverlap returns, in start order, every segment whose closed
// range [start, end] intersects [lo, hi]. Policy filtering happens in
// the caller.
func (t *segTree) collectOverlap(lo, hi int64) []segHit {
	var out []segHit
	t.overlap(t.root, 0, lo, hi, &out)
	return out
}

func (t *segTree) overlap(i int32, parentAbs, lo, hi int64, out *[]segHit) {
	if i == nilNode {
		return
	}
	n := &t.nodes[i]
	abs := parentAbs + n.rel
	if abs+n.maxEnd < lo {
		// every segment in this subtree ends before lo
		return
	}
	t.overlap(n.left, abs, lo, hi, out)
	if abs <= hi && abs+n.length >= lo {
		*out = append(*out, segHit{idx: i, start: abs, length: n.length})
	}
	if abs <= hi {
		t.overlap(n.right, abs, lo, hi, out)
	}
}

// all returns every segment in start order.
func (t *segTree) all() []segHit {
	var out []segHit
	t.walk(t.root, 0, &out)
	return out
}

func (t *segTree) walk(i int32, parentAbs int64, out *[]segHit) {
	if i == nilNode {
		return
	}
	abs := parentAbs + t.nodes[i].rel
	t.walk(t.nodes[i].left, abs, out)
	*out = append(*out, segHit{idx: i, start: abs, length: t.nodes[i].length})
	t.walk(t.nodes[i].right, abs, out)
}

// shiftFrom adds delta to the start of every segment with absolute
// start >= pos, touching one root-to-leaf path. maxEnd is recomputed
// along the path because compensating a left subtree changes its
// offset relative to the shifted parent.
func (t *segTree) shiftFrom(pos, delta int64) {
	var path []int32
	i := t.root
	var parentAbs int64
	for i != nilNode {
		path = append(path, i)
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
	for j := len(path) - 1; j >= 0; j-- {
		t.recompute(path[j])
	}
}

// valid reports whether a handle's (index, generation) pair still
// addresses a live segment.
func (t *segTree) valid(i int32, gen uint32) bool {
	return i >= 0 && int(i) < len(t.nodes) && t.nodes[i].gen == gen && t.nodes[i].live
}
