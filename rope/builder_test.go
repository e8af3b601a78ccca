package rope

import (
	"strings"
	"testing"
)

func TestBuilder(t *testing.T) {
	var b Builder
	var want strings.Builder
	for i := 0; i < 1000; i++ {
		b.WriteString("hello ")
		want.WriteString("hello ")
		if i%10 == 0 {
			b.WriteByte('\n')
			want.WriteByte('\n')
		}
		if i%7 == 0 {
			b.WriteRune('世')
			want.WriteRune('世')
		}
	}
	if b.Len() != int64(want.Len()) {
		t.Fatalf("Len = %d, want %d", b.Len(), want.Len())
	}
	r := b.Build()
	if r.String() != want.String() {
		t.Error("built rope does not match written text")
	}
	if b.Len() != 0 {
		t.Error("Build should reset the builder")
	}
}

func TestBuilderReadFrom(t *testing.T) {
	s := strings.Repeat("line of text\n", 2000)
	var b Builder
	n, err := b.ReadFrom(strings.NewReader(s))
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if n != int64(len(s)) {
		t.Fatalf("ReadFrom returned %d, want %d", n, len(s))
	}
	if got := b.Build().String(); got != s {
		t.Error("ReadFrom content mismatch")
	}
}

func TestBuilderReset(t *testing.T) {
	var b Builder
	b.WriteString(strings.Repeat("x", 5000))
	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len after Reset = %d", b.Len())
	}
	b.WriteString("fresh")
	if got := b.Build().String(); got != "fresh" {
		t.Errorf("got %q after Reset", got)
	}
}

func TestJoin(t *testing.T) {
	parts := []Rope{FromString("a"), FromString("b"), FromString("c")}
	if got := Join(parts, ", ").String(); got != "a, b, c" {
		t.Errorf("Join = %q", got)
	}
	if got := Join(nil, ", ").String(); got != "" {
		t.Errorf("Join(nil) = %q", got)
	}
	if got := Join(parts[:1], "-").String(); got != "a" {
		t.Errorf("Join single = %q", got)
	}
}

func TestBuilderChunkBounds(t *testing.T) {
	var b Builder
	b.WriteString(strings.Repeat("abcdefgh", 4096))
	r := b.Build()
	it := r.Chunks()
	for it.Next() {
		n := len(it.Text())
		if n > maxChunkBytes {
			t.Fatalf("chunk of %d bytes exceeds max %d", n, maxChunkBytes)
		}
	}
}
