package arena

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blockarena/arena/verify"
	"github.com/joshuapare/blockarena/internal/logger"
)

// testOptions returns options with every runtime check enabled and logging silenced.
func testOptions(elem int) Options {
	opts := DefaultOptions()
	opts.ElemSize = elem
	opts.MinPayload = elem
	opts.CheckInvariants = true
	opts.StrictRefs = true
	opts.Logger = logger.Discard()
	return opts
}

func newTestArena(t testing.TB, capacity, elem int) *Arena {
	t.Helper()
	a, err := NewWithOptions(capacity, testOptions(elem))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// tags returns the signed tag of every block, in buffer order.
func tags(t testing.TB, a *Arena) []int32 {
	t.Helper()
	blocks, err := a.Blocks()
	require.NoError(t, err)
	out := make([]int32, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, int32(b.Tag()))
	}
	return out
}

// rawTag reads the tag stored at off, bypassing the decoder.
func rawTag(a *Arena, off int) int32 {
	return int32(binary.LittleEndian.Uint32(a.Bytes()[off:]))
}

// putRawTag overwrites the tag stored at off, bypassing the encoder.
func putRawTag(a *Arena, off int, v int32) {
	binary.LittleEndian.PutUint32(a.Bytes()[off:], uint32(v))
}

func mustAlloc(t testing.TB, a *Arena, count int) Ref {
	t.Helper()
	ref, err := a.Allocate(count)
	require.NoError(t, err)
	require.NotEqual(t, Nil, ref, "allocate(%d) should fit", count)
	return ref
}

func requireInvariants(t testing.TB, a *Arena) {
	t.Helper()
	require.NoError(t, verify.AllInvariants(a.Bytes()))
	require.True(t, a.IsValid())
}
