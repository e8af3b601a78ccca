package rope

import (
	"io"
	"strings"
)

// Builder assembles a rope incrementally without repeated tree splicing.
// The zero value is ready to use. It implements io.Writer and
// io.ReaderFrom.
type Builder struct {
	chunks []chunk
	buf    strings.Builder
}

// WriteString appends s to the rope under construction.
func (b *Builder) WriteString(s string) {
	b.buf.WriteString(s)
	if b.buf.Len() >= 4*maxChunkBytes {
		b.flush(false)
	}
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.WriteString(string(p))
	return len(p), nil
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	b.buf.WriteByte(c)
	if b.buf.Len() >= 4*maxChunkBytes {
		b.flush(false)
	}
	return nil
}

// WriteRune appends a single rune.
func (b *Builder) WriteRune(r rune) (int, error) {
	n, _ := b.buf.WriteRune(r)
	if b.buf.Len() >= 4*maxChunkBytes {
		b.flush(false)
	}
	return n, nil
}

// ReadFrom implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			b.WriteString(string(buf[:n]))
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// flush converts buffered text into chunks. Unless final, a short tail
// is kept buffered so chunks stay near target size.
func (b *Builder) flush(final bool) {
	s := b.buf.String()
	b.buf.Reset()
	if !final && len(s) > maxChunkBytes {
		// Hold back an unchunked tail to coalesce with future writes.
		keep := len(s) % targetChunkBytes
		cut := len(s) - keep
		for cut < len(s) && !utf8Start(s[cut]) {
			cut++
		}
		if cut < len(s) {
			b.buf.WriteString(s[cut:])
			s = s[:cut]
		}
	}
	b.chunks = append(b.chunks, chunkify(s)...)
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int64 {
	var n int64
	for _, c := range b.chunks {
		n += c.sum.bytes
	}
	return n + int64(b.buf.Len())
}

// Build returns the finished rope and resets the builder.
func (b *Builder) Build() Rope {
	b.flush(true)
	r := fromChunks(b.chunks)
	b.chunks = nil
	return r
}

// Reset discards all written text.
func (b *Builder) Reset() {
	b.chunks = nil
	b.buf.Reset()
}

// Join concatenates ropes with a separator between each pair.
func Join(ropes []Rope, sep string) Rope {
	var out Rope
	for i, r := range ropes {
		if i > 0 && sep != "" {
			out = out.Concat(FromString(sep))
		}
		out = out.Concat(r)
	}
	return out
}
