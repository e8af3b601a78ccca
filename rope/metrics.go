package rope

import "strings"

// Point is a 0-indexed line/column position. Column is measured in
// bytes from the start of the line.
type Point struct {
	Line   int
	Column int
}

// summary aggregates the metrics every tree node caches for its
// subtree. Summaries form a monoid under add; the zero value is the
// identity.
type summary struct {
	bytes    int64 // UTF-8 byte count
	newlines int64 // number of '\n' bytes
}

func (s summary) add(other summary) summary {
	return summary{
		bytes:    s.bytes + other.bytes,
		newlines: s.newlines + other.newlines,
	}
}

// summarize computes the metrics for a raw string.
func summarize(s string) summary {
	return summary{
		bytes:    int64(len(s)),
		newlines: int64(strings.Count(s, "\n")),
	}
}

// nthNewline returns the byte index of the nth newline in s (1-based),
// or -1 if s contains fewer than n newlines.
func nthNewline(s string, n int64) int {
	if n <= 0 {
		return -1
	}
	var seen int64
	off := 0
	for {
		i := strings.IndexByte(s[off:], '\n')
		if i < 0 {
			return -1
		}
		seen++
		if seen == n {
			return off + i
		}
		off += i + 1
	}
}
