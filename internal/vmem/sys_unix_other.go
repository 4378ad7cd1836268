//go:build unix && !linux

package vmem

import "unsafe"

// Non-linux unix targets have no portable huge-page mmap flag, so the large
// variants degrade to regular mappings rounded to a 2 MiB granularity.

func (sysMemory) LargePageSize() uintptr {
	return 2 << 20
}

func (m sysMemory) ReserveLarge(size uintptr) (unsafe.Pointer, error) {
	return m.Reserve(size)
}

func (m sysMemory) CommitLarge(ptr unsafe.Pointer, size uintptr) error {
	return m.Commit(ptr, size)
}
