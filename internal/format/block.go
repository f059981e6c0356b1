package format

import (
	"fmt"

	"github.com/joshuapare/blockarena/internal/buf"
)

// Block describes one header/payload/footer region of an arena buffer.
type Block struct {
	Offset int  // Offset of the header tag
	Size   int  // Payload length (tag magnitude)
	Free   bool // True when the block is available for allocation
}

// Payload returns the offset of the first payload byte.
func (b Block) Payload() int { return b.Offset + TagWidth }

// Footer returns the offset of the footer tag.
func (b Block) Footer() int { return b.Offset + TagWidth + b.Size }

// End returns the offset one past the footer, where the next header starts.
func (b Block) End() int { return b.Offset + BlockOverhead + b.Size }

// Tag returns the tag value stored in both ends of the block.
func (b Block) Tag() Tag {
	if b.Free {
		return FreeTag(b.Size)
	}
	return UsedTag(b.Size)
}

// NextBlock decodes the block whose header starts at off and returns it with
// the offset of the following header. Every jump is checked against len(b)
// before the footer is read.
func NextBlock(b []byte, off int) (Block, int, error) {
	head, err := ReadTag(b, off)
	if err != nil {
		return Block{}, 0, err
	}
	if head == 0 {
		return Block{}, 0, fmt.Errorf("block at %d: %w", off, ErrZeroTag)
	}
	m := head.Magnitude()
	next, err := buf.CheckSpan(len(b), off, BlockOverhead+m)
	if err != nil {
		return Block{}, 0, fmt.Errorf("block at %d (size %d): %w", off, m, ErrTruncated)
	}
	foot, err := ReadTag(b, off+TagWidth+m)
	if err != nil {
		return Block{}, 0, err
	}
	if foot != head {
		return Block{}, 0, fmt.Errorf("block at %d: header %d, footer %d: %w", off, head, foot, ErrTagMismatch)
	}
	return Block{Offset: off, Size: m, Free: head.Free()}, next, nil
}

// PrevBlock decodes the block that ends exactly at end, locating it through
// its footer at end-TagWidth.
func PrevBlock(b []byte, end int) (Block, error) {
	foot, err := ReadTag(b, end-TagWidth)
	if err != nil {
		return Block{}, err
	}
	if foot == 0 {
		return Block{}, fmt.Errorf("footer at %d: %w", end-TagWidth, ErrZeroTag)
	}
	m := foot.Magnitude()
	off := end - BlockOverhead - m
	if off < 0 {
		return Block{}, fmt.Errorf("footer at %d (size %d): %w", end-TagWidth, m, ErrTruncated)
	}
	head, err := ReadTag(b, off)
	if err != nil {
		return Block{}, err
	}
	if head != foot {
		return Block{}, fmt.Errorf("block at %d: header %d, footer %d: %w", off, head, foot, ErrTagMismatch)
	}
	return Block{Offset: off, Size: m, Free: foot.Free()}, nil
}

// Walk decodes every block from offset 0 to the end of b and calls fn for each.
// It stops at the first decode error or when fn returns false.
func Walk(b []byte, fn func(Block) bool) error {
	off := 0
	for off < len(b) {
		blk, next, err := NextBlock(b, off)
		if err != nil {
			return err
		}
		if !fn(blk) {
			return nil
		}
		off = next
	}
	return nil
}
