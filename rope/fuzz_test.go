package rope

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func FuzzFromString(f *testing.F) {
	f.Add("")
	f.Add("hello")
	f.Add("hello\nworld")
	f.Add("hello\r\nworld")
	f.Add("日本語")
	f.Add("emoji 🎉 test")
	f.Add(strings.Repeat("chunky ", 200))

	f.Fuzz(func(t *testing.T, s string) {
		r := FromString(s)
		if int(r.Len()) != len(s) {
			t.Errorf("length mismatch: got %d, want %d", r.Len(), len(s))
		}
		if r.String() != s {
			t.Error("content mismatch")
		}
		if r.NewlineCount() != int64(strings.Count(s, "\n")) {
			t.Error("newline count mismatch")
		}
	})
}

func FuzzReplace(f *testing.F) {
	f.Add("hello world", 0, 5, "hi")
	f.Add("hello", 2, 2, "xyz")
	f.Add("", 0, 0, "seed")
	f.Add(strings.Repeat("abc\n", 100), 10, 200, "patch")

	f.Fuzz(func(t *testing.T, initial string, start, end int, text string) {
		if start < 0 {
			start = 0
		}
		if start > len(initial) {
			start = len(initial)
		}
		if end < start {
			end = start
		}
		if end > len(initial) {
			end = len(initial)
		}
		// keep cuts on rune boundaries, matching real callers
		if !utf8.ValidString(initial[start:end]) ||
			!utf8.ValidString(initial[:start]) ||
			!utf8.ValidString(text) {
			return
		}

		r := FromString(initial).Replace(int64(start), int64(end), text)
		want := initial[:start] + text + initial[end:]
		if r.String() != want {
			t.Errorf("Replace(%d, %d, %q) diverged from string model", start, end, text)
		}
		if r.Len() != int64(len(want)) {
			t.Error("length mismatch")
		}
	})
}

func FuzzIndex(f *testing.F) {
	f.Add("hello world", "lo w")
	f.Add("aaaa", "aa")
	f.Add("", "x")
	f.Add(strings.Repeat("ab", 500), "ba")

	f.Fuzz(func(t *testing.T, haystack, needle string) {
		r := FromString(haystack)
		got := r.Index(needle, 0, -1)
		want := int64(strings.Index(haystack, needle))
		if got != want {
			t.Errorf("Index(%q) = %d, strings.Index = %d", needle, got, want)
		}
	})
}
