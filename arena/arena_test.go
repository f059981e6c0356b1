package arena

import (
	"bytes"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SingleFreeBlock(t *testing.T) {
	a := newTestArena(t, 100, 4)

	assert.Equal(t, 100, a.Capacity())
	assert.Equal(t, 4, a.ElemSize())
	assert.Equal(t, []int32{92}, tags(t, a))
	assert.Equal(t, int32(92), rawTag(a, 0))
	assert.Equal(t, int32(92), rawTag(a, 96))
	requireInvariants(t, a)
}

func TestNew_Defaults(t *testing.T) {
	a, err := New(64)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 1, a.ElemSize())
	assert.Equal(t, []int32{56}, tags(t, a))
}

func TestNew_CapacityErrors(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		wantErr  bool
	}{
		{"negative", -1, true},
		{"zero", 0, true},
		{"one tag pair, no payload", 8, true},
		{"smallest", 9, false},
		{"largest int32", math.MaxInt32 + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewWithOptions(tt.capacity, testOptions(1))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, []int32{1}, tags(t, a))
				return
			}
			require.Error(t, err)
			assert.Nil(t, a)

			var ce *CapacityError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.capacity, ce.Capacity)
			assert.Equal(t, MinCapacity, ce.Min)
			assert.False(t, IsFatal(err), "capacity errors are recoverable")
		})
	}
}

func TestNew_UnsupportedBacking(t *testing.T) {
	opts := testOptions(1)
	opts.Backing = Backing(42)
	_, err := NewWithOptions(100, opts)
	require.ErrorIs(t, err, ErrUnsupportedBacking)
	assert.Equal(t, "unknown", opts.Backing.String())
}

// TestScenario_SplitAndRestore walks the canonical 100-byte, 4-byte-element case.
func TestScenario_SplitAndRestore(t *testing.T) {
	a := newTestArena(t, 100, 4)

	ref := mustAlloc(t, a, 1)
	assert.Equal(t, Ref(4), ref)

	// Head: -4 at 0 and 8. Tail: 80 at 12 and 96.
	assert.Equal(t, int32(-4), rawTag(a, 0))
	assert.Equal(t, int32(-4), rawTag(a, 8))
	assert.Equal(t, int32(80), rawTag(a, 12))
	assert.Equal(t, int32(80), rawTag(a, 96))
	assert.Equal(t, []int32{-4, 80}, tags(t, a))

	require.NoError(t, a.Deallocate(ref))
	assert.Equal(t, []int32{92}, tags(t, a))
	assert.Equal(t, int32(92), rawTag(a, 0))
	assert.Equal(t, int32(92), rawTag(a, 96))
}

func TestAllocate_RoundTripReusesRef(t *testing.T) {
	a := newTestArena(t, 100, 1)

	first := mustAlloc(t, a, 10)
	require.NoError(t, a.Deallocate(first))
	assert.Equal(t, []int32{92}, tags(t, a))

	again := mustAlloc(t, a, 30)
	assert.Equal(t, first, again, "first fit should land on the same block")
}

func TestAllocate_FirstFit(t *testing.T) {
	a := newTestArena(t, 100, 1)

	r1 := mustAlloc(t, a, 10)
	r2 := mustAlloc(t, a, 10)
	_ = mustAlloc(t, a, 10)
	require.NoError(t, a.Deallocate(r1))

	// The hole at the front is the first fit even though the tail is larger.
	r4 := mustAlloc(t, a, 5)
	assert.Equal(t, r1, r4)

	// Too large for the hole: skips it and takes the tail.
	require.NoError(t, a.Deallocate(r2))
	r5 := mustAlloc(t, a, 30)
	assert.Greater(t, int(r5), int(r2))
}

func TestAllocate_WholeBlockWhenTailTooSmall(t *testing.T) {
	a := newTestArena(t, 100, 1)

	// 92 - 84 = 8 bytes left: room for tags but not for MinPayload.
	ref := mustAlloc(t, a, 84)
	assert.Equal(t, []int32{-92}, tags(t, a))

	p, err := a.Payload(ref)
	require.NoError(t, err)
	assert.Len(t, p, 92)
	assert.Equal(t, 1, a.Stats().WholeCount)
	assert.Equal(t, 0, a.Stats().SplitCount)
}

func TestAllocate_SplitAtThreshold(t *testing.T) {
	a := newTestArena(t, 100, 1)

	// 92 - 83 = 9 bytes left: exactly one tag pair plus one payload byte.
	mustAlloc(t, a, 83)
	assert.Equal(t, []int32{-83, 1}, tags(t, a))
	assert.Equal(t, 1, a.Stats().SplitCount)
}

func TestAllocate_Exhaustion(t *testing.T) {
	a := newTestArena(t, 100, 4)

	var refs []Ref
	for {
		ref, err := a.Allocate(1)
		require.NoError(t, err)
		if ref == Nil {
			break
		}
		refs = append(refs, ref)
		requireInvariants(t, a)
	}

	require.Len(t, refs, 8)
	assert.Equal(t, []int32{-4, -4, -4, -4, -4, -4, -4, -8}, tags(t, a))
	assert.Equal(t, 1, a.Stats().AllocMisses)

	for i := len(refs) - 1; i >= 0; i-- {
		require.NoError(t, a.Deallocate(refs[i]))
		requireInvariants(t, a)
	}
	assert.Equal(t, []int32{92}, tags(t, a))
}

func TestAllocate_ExhaustionFreeForward(t *testing.T) {
	a := newTestArena(t, 100, 4)

	var refs []Ref
	for ref := mustAlloc(t, a, 1); ref != Nil; {
		refs = append(refs, ref)
		var err error
		ref, err = a.Allocate(1)
		require.NoError(t, err)
	}
	require.Len(t, refs, 8)

	for _, ref := range refs {
		require.NoError(t, a.Deallocate(ref))
	}
	assert.Equal(t, []int32{92}, tags(t, a))
}

func TestAllocate_BoundaryCounts(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"zero", 0},
		{"negative", -3},
		{"one past capacity", 24},
		{"far past capacity", 1 << 20},
		{"overflowing byte size", math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestArena(t, 100, 4)
			mustAlloc(t, a, 2)
			before := bytes.Clone(a.Bytes())

			ref, err := a.Allocate(tt.count)
			require.NoError(t, err)
			assert.Equal(t, Nil, ref)
			assert.Equal(t, before, a.Bytes(), "a miss must not touch the buffer")
			assert.Equal(t, 1, a.Stats().AllocMisses)
		})
	}
}

func TestAllocate_ExactFit(t *testing.T) {
	a := newTestArena(t, 100, 4)

	ref := mustAlloc(t, a, 23) // 92 bytes
	assert.Equal(t, []int32{-92}, tags(t, a))

	miss, err := a.Allocate(1)
	require.NoError(t, err)
	assert.Equal(t, Nil, miss)

	require.NoError(t, a.Deallocate(ref))
	assert.Equal(t, []int32{92}, tags(t, a))
}

func TestPayload(t *testing.T) {
	a := newTestArena(t, 64, 1)
	ref := mustAlloc(t, a, 5)

	p, err := a.Payload(ref)
	require.NoError(t, err)
	require.Len(t, p, 5)
	assert.Equal(t, 5, cap(p), "payload must be capped before the footer")

	copy(p, "hello")
	assert.Equal(t, []byte("hello"), a.Bytes()[ref:int(ref)+5])
	assert.True(t, a.IsValid(), "writing the payload leaves the tags intact")

	_, err = a.Payload(Ref(2))
	require.ErrorIs(t, err, ErrForeignRef)
}

func TestReset(t *testing.T) {
	a := newTestArena(t, 100, 1)
	mustAlloc(t, a, 10)
	mustAlloc(t, a, 20)

	require.NoError(t, a.Reset())
	assert.Equal(t, []int32{92}, tags(t, a))

	// Corruption is cleared by Reset.
	putRawTag(a, 0, 0)
	assert.False(t, a.IsValid())
	_, err := a.Allocate(1)
	require.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, a.Reset())
	mustAlloc(t, a, 1)
}

func TestClose(t *testing.T) {
	a, err := NewWithOptions(100, testOptions(1))
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "Close is idempotent")

	_, err = a.Allocate(1)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, a.Deallocate(Ref(4)), ErrClosed)
	assert.ErrorIs(t, a.Validate(), ErrClosed)
	assert.ErrorIs(t, a.Reset(), ErrClosed)
	assert.False(t, a.IsValid())
	_, err = a.Blocks()
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, IsFatal(err))
}

func TestEqual(t *testing.T) {
	a := newTestArena(t, 100, 4)
	b := newTestArena(t, 100, 4)
	c := newTestArena(t, 100, 8)
	d := newTestArena(t, 99, 4)

	mustAlloc(t, b, 3)

	assert.True(t, a.Equal(a))
	assert.True(t, a.Equal(b), "contents do not affect equality")
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))

	var nilArena *Arena
	assert.True(t, nilArena.Equal(nil))
}

func TestStats(t *testing.T) {
	a := newTestArena(t, 100, 1)

	r1 := mustAlloc(t, a, 10)
	r2 := mustAlloc(t, a, 10)
	_, err := a.Allocate(500)
	require.NoError(t, err)
	require.NoError(t, a.Deallocate(r1))
	require.NoError(t, a.Deallocate(r2))
	require.NoError(t, a.Deallocate(Nil))

	s := a.Stats()
	assert.Equal(t, 3, s.AllocCalls)
	assert.Equal(t, 1, s.AllocMisses)
	assert.Equal(t, 2, s.FreeCalls)
	assert.Equal(t, 2, s.SplitCount)
	assert.Equal(t, 1, s.CoalesceBoth)
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(ErrClosed))
	assert.True(t, IsFatal(&InvariantError{Op: "x", Kind: ErrCorrupt}))
	assert.True(t, IsFatal(errors.Wrap(&InvariantError{Op: "x", Kind: ErrCorrupt}, "wrapped")))
}
