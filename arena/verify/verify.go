package verify

import (
	"errors"
	"fmt"

	"github.com/joshuapare/blockarena/internal/format"
)

// ValidationError reports the first invariant violation found in a buffer.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
	Err     error // underlying decode error, if any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// AllInvariants validates all arena invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(data []byte) error {
	if err := Capacity(data); err != nil {
		return err
	}
	if err := Blocks(data); err != nil {
		return err
	}
	if err := Coalesced(data); err != nil {
		return err
	}
	return nil
}

// Capacity checks that the buffer can hold at least one block.
func Capacity(data []byte) error {
	if len(data) < format.MinCapacity {
		return &ValidationError{
			Type:    "Capacity",
			Message: fmt.Sprintf("buffer too small: %d bytes (need %d)", len(data), format.MinCapacity),
			Offset:  -1,
		}
	}
	return nil
}

// Blocks walks the chain from offset 0 and checks that every header matches
// its footer and that the last block ends exactly at len(data).
func Blocks(data []byte) error {
	if err := Capacity(data); err != nil {
		return err
	}
	off := 0
	count := 0
	for off < len(data) {
		_, next, err := format.NextBlock(data, off)
		if err != nil {
			return &ValidationError{
				Type:    "BlockChain",
				Message: describe(err),
				Offset:  off,
				Details: map[string]interface{}{"block": count},
				Err:     err,
			}
		}
		off = next
		count++
	}
	return nil
}

// Coalesced checks that no two physically adjacent blocks are both free.
// Immediate coalescing on every free keeps this true for any arena that is
// only mutated through Allocate and Deallocate.
func Coalesced(data []byte) error {
	var (
		prev    format.Block
		hasPrev bool
		verr    error
	)
	err := format.Walk(data, func(b format.Block) bool {
		if hasPrev && prev.Free && b.Free {
			verr = &ValidationError{
				Type:    "Coalesced",
				Message: fmt.Sprintf("adjacent free blocks (%d and %d bytes)", prev.Size, b.Size),
				Offset:  prev.Offset,
				Details: map[string]interface{}{"left": prev.Offset, "right": b.Offset},
			}
			return false
		}
		prev, hasPrev = b, true
		return true
	})
	if err != nil {
		return Blocks(data)
	}
	return verr
}

func describe(err error) string {
	switch {
	case errors.Is(err, format.ErrTagMismatch):
		return "header and footer tags differ"
	case errors.Is(err, format.ErrZeroTag):
		return "zero-sized tag"
	case errors.Is(err, format.ErrTruncated):
		return "block overruns the buffer"
	default:
		return err.Error()
	}
}
