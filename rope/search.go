package rope

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Search primitives. All operate on the byte window [start, start+count)
// clamped to the rope; count < 0 means "to the end". A match must lie
// entirely inside the window. They walk chunk boundaries and never
// materialize the whole buffer.

// window clamps a start/count pair to the rope, returning the effective
// [start, limit) bounds.
func (r Rope) window(start, count int64) (int64, int64) {
	n := r.Len()
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	limit := n
	if count >= 0 && start+count < n {
		limit = start + count
	}
	return start, limit
}

// IndexByte returns the offset of the first occurrence of b in the
// window, or -1.
func (r Rope) IndexByte(b byte, start, count int64) int64 {
	start, limit := r.window(start, count)
	it := r.ChunksFrom(start)
	for it.Next() {
		off := it.Offset()
		if off >= limit {
			break
		}
		text := it.Text()
		if off+int64(len(text)) > limit {
			text = text[:limit-off]
		}
		if i := strings.IndexByte(text, b); i >= 0 {
			return off + int64(i)
		}
	}
	return -1
}

// IndexRune returns the offset of the first occurrence of c in the
// window, or -1.
func (r Rope) IndexRune(c rune, start, count int64) int64 {
	if c < utf8.RuneSelf {
		return r.IndexByte(byte(c), start, count)
	}
	return r.Index(string(c), start, count)
}

// Index returns the offset of the first occurrence of needle in the
// window, or -1. The empty needle matches at start.
func (r Rope) Index(needle string, start, count int64) int64 {
	start, limit := r.window(start, count)
	if needle == "" {
		return start
	}
	if int64(len(needle)) > limit-start {
		return -1
	}

	// Carry a tail of len(needle)-1 bytes across chunk boundaries so
	// matches straddling chunks are seen.
	var tail string
	it := r.ChunksFrom(start)
	for it.Next() {
		off := it.Offset()
		if off >= limit {
			break
		}
		text := it.Text()
		if off+int64(len(text)) > limit {
			text = text[:limit-off]
		}
		win := tail + text
		if i := strings.Index(win, needle); i >= 0 {
			return off - int64(len(tail)) + int64(i)
		}
		keep := len(needle) - 1
		if keep > len(win) {
			keep = len(win)
		}
		tail = win[len(win)-keep:]
	}
	return -1
}

// IndexFold is Index under Unicode simple case folding. Matching is
// rune-wise, so the match always spans exactly len(needle-in-runes)
// runes of the buffer.
func (r Rope) IndexFold(needle string, start, count int64) int64 {
	start, limit := r.window(start, count)
	if needle == "" {
		return start
	}
	pat := []rune(needle)
	m := len(pat)

	// Sliding ring of the last m runes with their offsets.
	ring := make([]rune, m)
	offs := make([]int64, m)
	filled := 0
	w := 0 // next write slot; when filled == m this is also the oldest

	it := r.RunesFrom(start)
	for it.Next() {
		off := it.Offset()
		end := off + int64(it.Size())
		if end > limit {
			break
		}
		ring[w] = it.Rune()
		offs[w] = off
		w = (w + 1) % m
		if filled < m {
			filled++
		}
		if filled < m {
			continue
		}
		match := true
		for k := 0; k < m; k++ {
			if !foldEqual(ring[(w+k)%m], pat[k]) {
				match = false
				break
			}
		}
		if match {
			return offs[w]
		}
	}
	return -1
}

// Contains reports whether needle occurs anywhere in the rope.
func (r Rope) Contains(needle string) bool {
	return r.Index(needle, 0, -1) >= 0
}

// foldEqual reports whether two runes are equal under Unicode simple
// case folding.
func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for c := unicode.SimpleFold(a); c != a; c = unicode.SimpleFold(c) {
		if c == b {
			return true
		}
	}
	return false
}
