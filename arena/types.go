package arena

import "github.com/joshuapare/blockarena/internal/format"

// Ref is the buffer offset of the first payload byte of an allocated block.
// It plays the role of a pointer: it is only meaningful for the arena that
// returned it, and only until the block is deallocated or the arena is reset.
type Ref uint32

// Nil is the null Ref returned when an allocation cannot be satisfied.
// Payloads always start after a header tag, so offset 0 is never a payload.
const Nil Ref = 0

// TagWidth is the width in bytes of each header and footer tag.
const TagWidth = format.TagWidth

// MinCapacity is the smallest capacity accepted by New.
const MinCapacity = format.MinCapacity

// MaxCapacity is the largest capacity accepted by New.
const MaxCapacity = format.MaxMagnitude

// Block describes one block of the arena: header offset, payload size and state.
type Block = format.Block

// Stats holds operation counters for an arena.
type Stats struct {
	AllocCalls    int // Total Allocate calls
	AllocMisses   int // Allocate calls that returned Nil
	FreeCalls     int // Total Deallocate calls with a non-Nil ref
	SplitCount    int // Allocations that split a free block
	WholeCount    int // Allocations that took a free block whole
	CoalesceLeft  int // Frees merged with the left neighbour only
	CoalesceRight int // Frees merged with the right neighbour only
	CoalesceBoth  int // Frees merged with both neighbours
}
