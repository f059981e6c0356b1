package arena_test

import (
	"fmt"

	"github.com/joshuapare/blockarena/arena"
)

// Example shows the allocate / write / deallocate cycle on a raw byte arena.
func Example() {
	a, err := arena.New(100)
	if err != nil {
		fmt.Printf("New failed: %v\n", err)
		return
	}
	defer a.Close()

	ref, err := a.Allocate(12)
	if err != nil || ref == arena.Nil {
		fmt.Println("no space")
		return
	}

	p, _ := a.Payload(ref)
	copy(p, "hello, arena")
	fmt.Println(ref, string(p))

	_ = a.Deallocate(ref)
	fmt.Println(a.IsValid())
	// Output:
	// 4 hello, arena
	// true
}

// ExampleTyped stores int32 elements in place.
func ExampleTyped() {
	x, err := arena.NewTyped[int32](100)
	if err != nil {
		fmt.Printf("NewTyped failed: %v\n", err)
		return
	}
	defer x.Close()

	ref, _ := x.Allocate(3)
	for i := range 3 {
		_ = x.Construct(ref, i, int32(i*10))
	}
	for i := range 3 {
		v, _ := x.Load(ref, i)
		fmt.Print(v, " ")
	}
	fmt.Println()

	_ = x.Deallocate(ref, 3)
	// Output:
	// 0 10 20
}

// ExampleArena_Metrics reports how the buffer is partitioned.
func ExampleArena_Metrics() {
	a, _ := arena.New(100)
	defer a.Close()

	_, _ = a.Allocate(10)
	m, _ := a.Metrics()
	fmt.Printf("used=%d free=%d overhead=%d blocks=%d\n", m.UsedBytes, m.FreeBytes, m.OverheadBytes, m.Blocks)
	// Output:
	// used=10 free=74 overhead=16 blocks=2
}

// ExampleArena_Allocate_miss shows that running out of space is not an error.
func ExampleArena_Allocate_miss() {
	a, _ := arena.New(32)
	defer a.Close()

	ref, err := a.Allocate(100)
	fmt.Println(ref == arena.Nil, err)
	// Output:
	// true <nil>
}
