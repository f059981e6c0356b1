package format

import (
	"fmt"

	"github.com/joshuapare/blockarena/internal/buf"
)

// Tag is a decoded boundary tag. The sign carries the block state and the
// absolute value carries the payload length.
type Tag int32

// FreeTag returns the tag of a free block with the given payload length.
func FreeTag(magnitude int) Tag { return Tag(magnitude) }

// UsedTag returns the tag of an in-use block with the given payload length.
func UsedTag(magnitude int) Tag { return Tag(-magnitude) }

// Magnitude returns the payload length described by the tag.
func (t Tag) Magnitude() int {
	if t < 0 {
		return int(-t)
	}
	return int(t)
}

// Free reports whether the tag marks a free block.
func (t Tag) Free() bool { return t > 0 }

// InUse reports whether the tag marks an allocated block.
func (t Tag) InUse() bool { return t < 0 }

// ReadTag decodes the little-endian tag stored at off.
func ReadTag(b []byte, off int) (Tag, error) {
	s, ok := buf.Slice(b, off, TagWidth)
	if !ok {
		return 0, fmt.Errorf("tag at %d: %w", off, ErrTruncated)
	}
	return Tag(buf.I32LE(s)), nil
}

// WriteTag encodes t at off in little-endian order.
func WriteTag(b []byte, off int, t Tag) error {
	s, ok := buf.Slice(b, off, TagWidth)
	if !ok {
		return fmt.Errorf("tag at %d: %w", off, ErrTruncated)
	}
	buf.PutI32LE(s, int32(t))
	return nil
}

// WriteBlock writes t as both the header at off and the matching footer.
// The whole block must fit inside b; nothing is written otherwise.
func WriteBlock(b []byte, off int, t Tag) error {
	m := t.Magnitude()
	if m > MaxMagnitude {
		return fmt.Errorf("block at %d: %w", off, ErrMagnitude)
	}
	if _, err := buf.CheckSpan(len(b), off, BlockOverhead+m); err != nil {
		return fmt.Errorf("block at %d: %w: %v", off, ErrTruncated, err)
	}
	if err := WriteTag(b, off, t); err != nil {
		return err
	}
	return WriteTag(b, off+TagWidth+m, t)
}
