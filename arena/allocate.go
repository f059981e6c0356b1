package arena

import (
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/blockarena/internal/buf"
	"github.com/joshuapare/blockarena/internal/format"
)

// Allocate reserves space for count contiguous elements using first fit.
//
// A request that cannot be met (count <= 0, a byte size that overflows or
// exceeds the arena, or no free block large enough) is a capacity miss and
// returns (Nil, nil) without touching the buffer. A non-nil error is always
// an *InvariantError or ErrClosed.
func (a *Arena) Allocate(count int) (Ref, error) {
	if err := a.usable(); err != nil {
		return Nil, err
	}
	a.stats.AllocCalls++

	need, ok := buf.MulOverflowSafe(count, a.opts.ElemSize)
	if count <= 0 || !ok || need > len(a.buf)-format.BlockOverhead {
		a.miss(count)
		return Nil, nil
	}

	off := 0
	for off < len(a.buf) {
		blk, next, err := format.NextBlock(a.buf, off)
		if err != nil {
			return Nil, a.fail("allocate", off, ErrCorrupt, err)
		}
		if blk.Free && blk.Size >= need {
			if err := a.carve(blk, need); err != nil {
				return Nil, err
			}
			if err := a.postCheck("allocate"); err != nil {
				return Nil, err
			}
			return Ref(blk.Payload()), nil
		}
		off = next
	}

	a.miss(count)
	return Nil, nil
}

// carve marks need bytes at the front of the free block blk as in use. The
// remainder becomes a new free block when it can hold a tag pair plus
// MinPayload; otherwise the whole block is handed out to avoid slivers.
func (a *Arena) carve(blk format.Block, need int) error {
	left := blk.Size - need
	if left >= format.BlockOverhead+a.opts.MinPayload {
		tail := blk.Offset + format.BlockOverhead + need
		if err := format.WriteBlock(a.buf, blk.Offset, format.UsedTag(need)); err != nil {
			return a.fail("allocate", blk.Offset, ErrCorrupt, err)
		}
		if err := format.WriteBlock(a.buf, tail, format.FreeTag(left-format.BlockOverhead)); err != nil {
			return a.fail("allocate", tail, ErrCorrupt, err)
		}
		a.stats.SplitCount++
		a.log.WithFields(logrus.Fields{
			"offset": blk.Offset,
			"need":   need,
			"tail":   left - format.BlockOverhead,
		}).Debug("split free block")
		return nil
	}

	if err := format.WriteBlock(a.buf, blk.Offset, format.UsedTag(blk.Size)); err != nil {
		return a.fail("allocate", blk.Offset, ErrCorrupt, err)
	}
	a.stats.WholeCount++
	a.log.WithFields(logrus.Fields{
		"offset": blk.Offset,
		"need":   need,
		"size":   blk.Size,
	}).Debug("allocated whole free block")
	return nil
}

func (a *Arena) miss(count int) {
	a.stats.AllocMisses++
	a.log.WithFields(logrus.Fields{
		"count": count,
		"elem":  a.opts.ElemSize,
	}).Debug("allocation miss")
}
