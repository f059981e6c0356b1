package arena

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Element is the set of element types a Typed arena can store.
type Element interface {
	constraints.Integer | constraints.Float
}

// Typed adapts an Arena to the allocate/deallocate/construct/destroy
// contract that generic container code expects, counting in elements of T
// instead of bytes.
//
// Elements are stored little-endian in the block payload. Values are copied
// in and out; no Go pointer ever aliases the buffer.
type Typed[T Element] struct {
	a    *Arena
	size int
	kind reflect.Kind
}

// NewTyped creates a typed arena of capacity bytes with DefaultOptions.
func NewTyped[T Element](capacity int) (*Typed[T], error) {
	return NewTypedWithOptions[T](capacity, DefaultOptions())
}

// NewTypedWithOptions creates a typed arena of capacity bytes. ElemSize is
// forced to the size of T, and MinPayload is raised to at least one element.
func NewTypedWithOptions[T Element](capacity int, opts Options) (*Typed[T], error) {
	typ := reflect.TypeFor[T]()
	size := int(typ.Size())

	opts.ElemSize = size
	if opts.MinPayload < size {
		opts.MinPayload = size
	}
	a, err := NewWithOptions(capacity, opts)
	if err != nil {
		return nil, err
	}
	return &Typed[T]{a: a, size: size, kind: typ.Kind()}, nil
}

// Arena returns the underlying byte arena.
func (t *Typed[T]) Arena() *Arena { return t.a }

// Allocate reserves room for count elements of T. See Arena.Allocate.
func (t *Typed[T]) Allocate(count int) (Ref, error) {
	return t.a.Allocate(count)
}

// Deallocate releases the block at ref. count is accepted for parity with
// the allocator contract; the block size comes from its tags.
func (t *Typed[T]) Deallocate(ref Ref, count int) error {
	return t.a.Deallocate(ref)
}

// Len returns how many elements fit in the block at ref. A whole-block
// allocation can hold more than was requested.
func (t *Typed[T]) Len(ref Ref) (int, error) {
	p, err := t.a.Payload(ref)
	if err != nil {
		return 0, err
	}
	return len(p) / t.size, nil
}

// Construct stores v as element i of the block at ref.
func (t *Typed[T]) Construct(ref Ref, i int, v T) error {
	s, err := t.slot(ref, i)
	if err != nil {
		return err
	}
	t.encode(s, v)
	return nil
}

// Destroy zeroes element i of the block at ref.
func (t *Typed[T]) Destroy(ref Ref, i int) error {
	s, err := t.slot(ref, i)
	if err != nil {
		return err
	}
	clear(s)
	return nil
}

// Load returns element i of the block at ref.
func (t *Typed[T]) Load(ref Ref, i int) (T, error) {
	s, err := t.slot(ref, i)
	if err != nil {
		return 0, err
	}
	return t.decode(s), nil
}

// Equal reports whether both typed arenas have the same capacity and
// element size. Two typed arenas compare as allocators, not by identity.
func (t *Typed[T]) Equal(other *Typed[T]) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.a.Equal(other.a)
}

// Close releases the underlying arena.
func (t *Typed[T]) Close() error { return t.a.Close() }

func (t *Typed[T]) slot(ref Ref, i int) ([]byte, error) {
	p, err := t.a.Payload(ref)
	if err != nil {
		return nil, err
	}
	n := len(p) / t.size
	if i < 0 || i >= n {
		return nil, errors.Wrapf(ErrElemRange, "index %d, block holds %d", i, n)
	}
	return p[i*t.size : (i+1)*t.size], nil
}

func (t *Typed[T]) encode(b []byte, v T) {
	switch t.kind {
	case reflect.Float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case reflect.Float64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(float64(v)))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		putUint(b, uint64(int64(v)))
	default:
		putUint(b, uint64(v))
	}
}

func (t *Typed[T]) decode(b []byte) T {
	switch t.kind {
	case reflect.Float32:
		return T(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case reflect.Float64:
		return T(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		shift := 64 - 8*uint(len(b))
		return T(int64(getUint(b)<<shift) >> shift)
	default:
		return T(getUint(b))
	}
}

// putUint writes the low len(b) bytes of v in little-endian order.
func putUint(b []byte, v uint64) {
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
