package rope

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func benchRope(size int) Rope {
	return FromString(strings.Repeat("0123456789abcdef\n", size/17+1))
}

func BenchmarkInsertSequential(b *testing.B) {
	r := New()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r = r.Insert(r.Len(), "x")
	}
}

func BenchmarkInsertRandom(b *testing.B) {
	r := benchRope(1 << 20)
	rng := rand.New(rand.NewPCG(1, 1))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r = r.Insert(int64(rng.IntN(int(r.Len()))), "word ")
	}
}

func BenchmarkDeleteRandom(b *testing.B) {
	r := benchRope(1 << 22)
	rng := rand.New(rand.NewPCG(2, 2))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if r.Len() < 100 {
			r = benchRope(1 << 22)
		}
		start := int64(rng.IntN(int(r.Len()) - 10))
		r = r.Delete(start, start+10)
	}
}

func BenchmarkSlice(b *testing.B) {
	r := benchRope(1 << 22)
	rng := rand.New(rand.NewPCG(3, 3))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		start := int64(rng.IntN(int(r.Len()) - 256))
		_ = r.Slice(start, start+256)
	}
}

func BenchmarkLineStart(b *testing.B) {
	r := benchRope(1 << 22)
	lines := r.LineCount()
	rng := rand.New(rand.NewPCG(4, 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.LineStart(int64(rng.IntN(int(lines))))
	}
}

func BenchmarkIndex(b *testing.B) {
	r := benchRope(1 << 20).Insert(900000, "needle")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if r.Index("needle", 0, -1) < 0 {
			b.Fatal("needle missing")
		}
	}
}
