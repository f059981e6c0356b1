package format

import "errors"

var (
	// ErrTruncated indicates a tag or block extends past the end of the buffer.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrZeroTag indicates a tag of magnitude zero, which no valid block carries.
	ErrZeroTag = errors.New("format: zero tag")
	// ErrTagMismatch indicates a block whose header and footer disagree.
	ErrTagMismatch = errors.New("format: header/footer mismatch")
	// ErrMagnitude indicates a magnitude that cannot be encoded in a tag.
	ErrMagnitude = errors.New("format: magnitude out of range")
)
