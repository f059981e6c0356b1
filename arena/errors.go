package arena

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrCorrupt indicates the block chain no longer satisfies the boundary-tag
	// invariant. The arena refuses further mutation once this is reported.
	ErrCorrupt = errors.New("arena: corrupt block chain")

	// ErrForeignRef indicates a reference that does not name an allocated block of this arena.
	ErrForeignRef = errors.New("arena: reference not owned by this arena")

	// ErrDoubleFree indicates a reference whose block is already free.
	ErrDoubleFree = errors.New("arena: block already free")

	// ErrClosed indicates use of an arena after Close.
	ErrClosed = errors.New("arena: closed")

	// ErrElemRange indicates an element index outside the allocated block.
	ErrElemRange = errors.New("arena: element index out of range")

	// ErrUnsupportedBacking indicates an unknown Backing value in Options.
	ErrUnsupportedBacking = errors.New("arena: unsupported backing")
)

// CapacityError is returned by New when the requested capacity cannot hold a
// single block, or does not fit in a 32-bit tag.
type CapacityError struct {
	Capacity int
	Min      int
	Max      int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("arena: capacity %d outside [%d, %d]", e.Capacity, e.Min, e.Max)
}

// InvariantError reports a bookkeeping defect: a corrupt block chain, or a
// reference passed to Deallocate that this arena never handed out.
//
// Kind is one of ErrCorrupt, ErrForeignRef or ErrDoubleFree; Err carries the
// decode failure behind it when there is one. Both are reachable through
// errors.Is.
type InvariantError struct {
	Op     string
	Offset int
	Kind   error
	Err    error
}

func (e *InvariantError) Error() string {
	msg := fmt.Sprintf("arena: %s: invariant violated at offset %d: %v", e.Op, e.Offset, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvariantError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsFatal reports whether err is an invariant violation rather than an
// ordinary capacity miss or caller error.
func IsFatal(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
