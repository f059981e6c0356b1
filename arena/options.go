package arena

import (
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/blockarena/internal/logger"
)

// Backing selects where the arena buffer lives.
type Backing uint8

const (
	// BackingHeap allocates the buffer with make.
	BackingHeap Backing = iota

	// BackingMmap maps an anonymous private region outside the Go heap on
	// linux and darwin, and falls back to BackingHeap elsewhere.
	BackingMmap
)

func (b Backing) String() string {
	switch b {
	case BackingHeap:
		return "heap"
	case BackingMmap:
		return "mmap"
	default:
		return "unknown"
	}
}

// Options configures an Arena.
type Options struct {
	// ElemSize is the size in bytes of one element. Allocate counts are
	// multiplied by it. Default: 1
	ElemSize int

	// MinPayload is the smallest payload a split-off free tail may carry.
	// Leftovers smaller than this plus a tag pair stay in the allocated block.
	// Default: ElemSize
	MinPayload int

	// CheckInvariants runs the block-chain validator after every Allocate and
	// Deallocate. Default: on in builds tagged arenadebug, off otherwise.
	CheckInvariants bool

	// StrictRefs makes Deallocate walk the chain to confirm a reference is a
	// real block boundary. Default: on in builds tagged arenadebug.
	StrictRefs bool

	// Backing selects heap or mmap memory. Default: BackingHeap
	Backing Backing

	// Logger receives debug traces and invariant reports. Default: logger.L
	Logger logrus.FieldLogger
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{
		ElemSize:        1,
		MinPayload:      1,
		CheckInvariants: debugChecks,
		StrictRefs:      debugChecks,
		Backing:         BackingHeap,
	}
}

func (o Options) normalize() Options {
	if o.ElemSize <= 0 {
		o.ElemSize = 1
	}
	if o.MinPayload <= 0 {
		o.MinPayload = o.ElemSize
	}
	if o.Logger == nil {
		o.Logger = logger.L
	}
	return o
}
