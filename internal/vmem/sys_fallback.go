//go:build !unix && !windows

package vmem

import (
	"os"
	"sync"
	"unsafe"
)

var system Memory = &heapMemory{slabs: make(map[unsafe.Pointer][]byte)}

// heapMemory backs reservations with ordinary Go allocations on targets
// without virtual-memory syscalls. The whole reservation is materialized up
// front, so Commit is a no-op. Slabs are retained in a map to keep them
// reachable until Release.
type heapMemory struct {
	mu    sync.Mutex
	slabs map[unsafe.Pointer][]byte
}

func (*heapMemory) PageSize() uintptr {
	return uintptr(os.Getpagesize())
}

func (*heapMemory) LargePageSize() uintptr {
	return 2 << 20
}

func (m *heapMemory) Reserve(size uintptr) (unsafe.Pointer, error) {
	page := m.PageSize()
	slab := make([]byte, size+page)
	base := unsafe.Pointer(&slab[0])
	if rem := uintptr(base) % page; rem != 0 {
		base = unsafe.Add(base, page-rem)
	}
	m.mu.Lock()
	m.slabs[base] = slab
	m.mu.Unlock()
	return base, nil
}

func (m *heapMemory) ReserveLarge(size uintptr) (unsafe.Pointer, error) {
	return m.Reserve(size)
}

func (*heapMemory) Commit(ptr unsafe.Pointer, size uintptr) error {
	return nil
}

func (*heapMemory) CommitLarge(ptr unsafe.Pointer, size uintptr) error {
	return nil
}

func (m *heapMemory) Release(ptr unsafe.Pointer, size uintptr) {
	m.mu.Lock()
	delete(m.slabs, ptr)
	m.mu.Unlock()
}
