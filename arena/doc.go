// Package arena implements a growable linear (bump) allocator backed by
// virtual-memory reserve and commit.
//
// # Overview
//
// An Arena serves workloads that allocate many short-lived objects sharing
// one lifetime: each allocation is a pointer bump, and reclamation happens in
// bulk by rewinding to a saved position or tearing the arena down. Individual
// frees do not exist.
//
// Each block of the arena is a single contiguous address-space reservation.
// Physical pages are committed lazily in CommitSize steps as the cursor
// advances, so reserving 64 MiB up front costs address space, not memory.
// When a block cannot fit a request, a fresh block is reserved and linked to
// the chain; existing allocations are never moved or invalidated.
//
// # Allocation
//
//	a, err := arena.New(arena.Config{})
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	p, err := arena.Push[Node](a, arena.PushOptions{Zero: true})
//	buf, err := a.PushBytes(4096, arena.PushOptions{})
//	vals, err := arena.PushSlice[float64](a, 1024, arena.PushOptions{})
//
// # Positions and unwinding
//
// Position returns a monotonic token covering the whole chain. PopTo rewinds
// to a previously captured token, releasing spill blocks that were created
// after it. Pop rewinds by a byte amount and Clear empties the arena while
// keeping the root block's committed pages warm. Scope packages the capture
// and rewind pair for defer:
//
//	s := a.Begin()
//	defer s.End()
//
// # Pointers and the garbage collector
//
// Arena memory is invisible to the GC. Values placed in it must not hold the
// only reference to a Go heap object; store indices, offsets or plain data
// instead.
//
// # Thread safety
//
// An Arena has no internal synchronization. Use one arena per goroutine or
// serialize access externally.
package arena
