package arena

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/blockarena/internal/format"
)

// Arena is a fixed-capacity boundary-tag allocator over one byte buffer.
// All bookkeeping lives in the buffer itself as header/footer tag pairs.
//
// Arena is not goroutine-safe.
type Arena struct {
	buf     []byte
	opts    Options
	log     logrus.FieldLogger
	release func() error

	stats Stats

	// fault is the first corruption found; once set, mutations return it.
	fault  error
	closed bool
}

// New creates an arena of capacity bytes using DefaultOptions.
func New(capacity int) (*Arena, error) {
	return NewWithOptions(capacity, DefaultOptions())
}

// NewWithOptions creates an arena of capacity bytes. The whole buffer starts
// as a single free block of capacity-2*TagWidth payload bytes.
//
// Returns *CapacityError when capacity is below MinCapacity or above MaxCapacity.
func NewWithOptions(capacity int, opts Options) (*Arena, error) {
	if capacity < MinCapacity || capacity > MaxCapacity {
		return nil, &CapacityError{Capacity: capacity, Min: MinCapacity, Max: MaxCapacity}
	}
	opts = opts.normalize()

	data, release, err := newBuffer(opts.Backing, capacity)
	if err != nil {
		return nil, err
	}

	a := &Arena{
		buf:     data,
		opts:    opts,
		log:     opts.Logger,
		release: release,
	}
	if err := a.initBlock(); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.Validate(); err != nil {
		_ = a.Close()
		return nil, err
	}

	a.log.WithFields(logrus.Fields{
		"capacity": capacity,
		"elem":     opts.ElemSize,
		"backing":  opts.Backing,
	}).Debug("arena created")
	return a, nil
}

func newBuffer(b Backing, n int) ([]byte, func() error, error) {
	switch b {
	case BackingHeap:
		return make([]byte, n), nil, nil
	case BackingMmap:
		return mapBuffer(n)
	default:
		return nil, nil, errors.Wrapf(ErrUnsupportedBacking, "backing %d", b)
	}
}

// initBlock writes the single free block spanning the buffer.
func (a *Arena) initBlock() error {
	return errors.Wrap(
		format.WriteBlock(a.buf, 0, format.FreeTag(len(a.buf)-format.BlockOverhead)),
		"arena: write initial block",
	)
}

// Close releases the buffer. Later calls on the arena return ErrClosed.
// Close is idempotent.
func (a *Arena) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.buf = nil
	if a.release != nil {
		release := a.release
		a.release = nil
		return release()
	}
	return nil
}

// Reset turns the buffer back into one free block, invalidating every
// outstanding Ref. It also clears a recorded corruption, since no byte of
// the old chain survives.
func (a *Arena) Reset() error {
	if a.closed {
		return ErrClosed
	}
	if err := a.initBlock(); err != nil {
		return err
	}
	a.fault = nil
	a.log.Debug("arena reset")
	return a.postCheck("reset")
}

// Capacity returns the buffer size in bytes.
func (a *Arena) Capacity() int { return len(a.buf) }

// ElemSize returns the byte size of one element as configured in Options.
func (a *Arena) ElemSize() int { return a.opts.ElemSize }

// Bytes exposes the raw buffer, tags included. Callers must not write to it.
func (a *Arena) Bytes() []byte { return a.buf }

// Stats returns a copy of the operation counters.
func (a *Arena) Stats() Stats { return a.stats }

// Equal reports whether two arenas are interchangeable allocators: same
// capacity and element size. Identity and contents are not compared.
func (a *Arena) Equal(other *Arena) bool {
	if a == nil || other == nil {
		return a == other
	}
	return len(a.buf) == len(other.buf) && a.opts.ElemSize == other.opts.ElemSize
}

// Payload returns the payload bytes of the allocated block at ref. The
// slice is capped at the block's payload, so appends never reach the footer.
func (a *Arena) Payload(ref Ref) ([]byte, error) {
	if err := a.usable(); err != nil {
		return nil, err
	}
	blk, err := a.owned("payload", ref)
	if err != nil {
		return nil, err
	}
	start, end := blk.Payload(), blk.Footer()
	return a.buf[start:end:end], nil
}

// Blocks decodes the whole chain in buffer order.
func (a *Arena) Blocks() ([]Block, error) {
	if a.closed {
		return nil, ErrClosed
	}
	var out []Block
	off := 0
	for off < len(a.buf) {
		blk, next, err := format.NextBlock(a.buf, off)
		if err != nil {
			return nil, a.fail("blocks", off, ErrCorrupt, err)
		}
		out = append(out, blk)
		off = next
	}
	return out, nil
}

// usable gates every operation on a closed or corrupted arena.
func (a *Arena) usable() error {
	if a.closed {
		return ErrClosed
	}
	return a.fault
}
