package arena

import (
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/blockarena/internal/format"
)

// Deallocate returns the block at ref to the free pool and immediately
// merges it with a free left and/or right neighbour.
//
// Deallocate(Nil) is a no-op. A ref outside the buffer, one that does not sit
// on a consistent in-use block, or one whose block is already free yields an
// *InvariantError (ErrForeignRef / ErrDoubleFree) and leaves the buffer
// untouched. A stale ref that happens to land on bytes forming a consistent
// in-use tag pair cannot be told apart without a ledger; StrictRefs narrows
// this to refs that are real block boundaries.
func (a *Arena) Deallocate(ref Ref) error {
	if ref == Nil {
		return nil
	}
	if err := a.usable(); err != nil {
		return err
	}
	a.stats.FreeCalls++

	blk, err := a.owned("deallocate", ref)
	if err != nil {
		return err
	}

	// Read both neighbours before writing anything.
	var (
		left, right       format.Block
		hasLeft, hasRight bool
	)
	start, end, merged := blk.Offset, blk.End(), blk.Size
	if end < len(a.buf) {
		r, _, err := format.NextBlock(a.buf, end)
		if err != nil {
			return a.fail("deallocate", end, ErrCorrupt, err)
		}
		right, hasRight = r, r.Free
	}
	if start > 0 {
		l, err := format.PrevBlock(a.buf, start)
		if err != nil {
			return a.fail("deallocate", start, ErrCorrupt, err)
		}
		left, hasLeft = l, l.Free
	}

	if err := format.WriteBlock(a.buf, blk.Offset, format.FreeTag(blk.Size)); err != nil {
		return a.fail("deallocate", blk.Offset, ErrCorrupt, err)
	}

	if hasRight {
		merged += right.Size + format.BlockOverhead
	}
	if hasLeft {
		merged += left.Size + format.BlockOverhead
		start = left.Offset
	}

	switch {
	case hasLeft && hasRight:
		a.stats.CoalesceBoth++
	case hasLeft:
		a.stats.CoalesceLeft++
	case hasRight:
		a.stats.CoalesceRight++
	}

	if hasLeft || hasRight {
		// Only the leftmost header and rightmost footer carry the merged size.
		if err := format.WriteBlock(a.buf, start, format.FreeTag(merged)); err != nil {
			return a.fail("deallocate", start, ErrCorrupt, err)
		}
	}

	a.log.WithFields(logrus.Fields{
		"offset": blk.Offset,
		"size":   blk.Size,
		"left":   hasLeft,
		"right":  hasRight,
		"merged": merged,
	}).Debug("freed block")

	return a.postCheck("deallocate")
}

// owned resolves ref to its in-use block, rejecting anything that is not a
// payload start handed out by this arena. The buffer is never modified.
func (a *Arena) owned(op string, ref Ref) (format.Block, error) {
	off := int(ref) - format.TagWidth
	if off < 0 || int(ref) > len(a.buf)-format.TagWidth {
		return format.Block{}, a.reject(op, off, ErrForeignRef, nil)
	}

	// A positive header is a block already returned, possibly one since
	// absorbed into a neighbour whose footer replaced its own.
	head, err := format.ReadTag(a.buf, off)
	if err != nil {
		return format.Block{}, a.reject(op, off, ErrForeignRef, err)
	}
	if head.Free() {
		return format.Block{}, a.reject(op, off, ErrDoubleFree, nil)
	}

	blk, _, err := format.NextBlock(a.buf, off)
	if err != nil {
		return format.Block{}, a.reject(op, off, ErrForeignRef, err)
	}

	if a.opts.StrictRefs {
		found := false
		walkErr := format.Walk(a.buf, func(b format.Block) bool {
			if b.Offset >= off {
				found = b.Offset == off
				return false
			}
			return true
		})
		if walkErr != nil {
			return format.Block{}, a.fail(op, off, ErrCorrupt, walkErr)
		}
		if !found {
			return format.Block{}, a.reject(op, off, ErrForeignRef, nil)
		}
	}
	return blk, nil
}
