package segment

import "errors"

// ErrSegmentInvalidated indicates use of a segment handle that was
// removed, either explicitly or by an edit that engulfed it.
var ErrSegmentInvalidated = errors.New("segment invalidated")
