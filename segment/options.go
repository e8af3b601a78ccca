package segment

// Boundary selects the interval convention at segment edges.
type Boundary uint8

const (
	// Exclusive treats segments as [start, end): insertion exactly at
	// either edge falls outside the segment.
	Exclusive Boundary = iota

	// Inclusive treats segments as [start, end]: insertion exactly at
	// either edge becomes part of the segment.
	Inclusive
)

func (b Boundary) String() string {
	if b == Inclusive {
		return "inclusive"
	}
	return "exclusive"
}

type config[T any] struct {
	boundary  Boundary
	onRemoved func(T)
}

// Option configures an Index at construction.
type Option[T any] func(*config[T])

// WithBoundary sets the index's boundary convention. The default is
// Exclusive.
func WithBoundary[T any](b Boundary) Option[T] {
	return func(c *config[T]) { c.boundary = b }
}

// WithRemovedFunc registers a callback invoked with the payload of
// every segment an edit removes from the index. Explicit Remove calls
// do not trigger it.
func WithRemovedFunc[T any](fn func(T)) Option[T] {
	return func(c *config[T]) { c.onRemoved = fn }
}
