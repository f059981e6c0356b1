// Package arena implements a fixed-capacity boundary-tag allocator.
//
// # Overview
//
// An Arena owns one byte buffer, sized once at construction, and carves it
// into variable-sized blocks on demand. Nothing is tracked outside the
// buffer: every block carries its own size and state in a pair of tags.
//
// # Block Layout
//
// Each block is a 4-byte header tag, the payload, and a 4-byte footer tag:
//
//	+--------+----------------------+--------+
//	| header |  payload (|tag| B)   | footer |
//	+--------+----------------------+--------+
//
// Tags are little-endian int32. The magnitude is the payload length; a
// positive tag marks a free block and a negative tag an allocated one.
// Header and footer always hold the same value. Walking from offset 0 by
// 8+|tag| bytes visits every block and lands exactly on the buffer end.
//
// A fresh 100-byte arena is a single free block:
//
//	[92 | ... 92 bytes ... | 92]
//
// # Allocation
//
// Allocate(count) needs count*ElemSize bytes and takes the first free block
// that is large enough:
//
//   - Split: if the leftover can hold a tag pair plus MinPayload, the block
//     becomes an allocated head and a new free tail.
//   - Whole: otherwise the block is handed out unchanged in size.
//
// A request that cannot be met returns (Nil, nil). That is a normal outcome,
// not an error.
//
// # Deallocation
//
// Deallocate flips the block back to free and merges it at once with a free
// left neighbour (found through its footer just before the header) and a free
// right neighbour (found through its header just after the footer). Two
// adjacent free blocks therefore never exist.
//
// # Usage Example
//
//	a, err := arena.New(100)
//	if err != nil {
//	    return err
//	}
//
//	ref, err := a.Allocate(16)
//	if err != nil {
//	    return err // corruption, never a plain miss
//	}
//	if ref == arena.Nil {
//	    // out of space
//	}
//
//	p, _ := a.Payload(ref)
//	copy(p, "hello")
//
//	err = a.Deallocate(ref)
//
// For element-typed storage see Typed.
//
// # Error Handling
//
// Defects in the block chain (a zero tag, a tag pointing past the buffer, a
// header that disagrees with its footer) are returned as *InvariantError
// wrapping ErrCorrupt. The first one poisons the arena: later Allocate and
// Deallocate calls return it without touching the buffer. Reset clears it.
//
// Deallocate also returns *InvariantError for refs it did not hand out
// (ErrForeignRef) or blocks already free (ErrDoubleFree). Those leave the
// arena usable.
//
// # Debug Builds
//
// Building with -tags arenadebug turns on CheckInvariants and StrictRefs by
// default, so every mutation is followed by a full chain validation.
//
// # Thread Safety
//
// Arena and Typed are not thread-safe. Callers must synchronize access
// externally.
//
// # Related Packages
//
//   - github.com/joshuapare/blockarena/arena/verify: standalone chain diagnostics
//   - github.com/joshuapare/blockarena/arena/printer: layout rendering
//   - github.com/joshuapare/blockarena/internal/format: tag codec and block decoding
package arena
