//go:build unix

package vmem

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

var system Memory = sysMemory{}

// sysMemory reserves with PROT_NONE anonymous mappings and commits by
// flipping page protection to read/write. The kernel supplies zeroed pages on
// first touch, so commit is idempotent and freshly committed memory reads as
// zero.
type sysMemory struct{}

func (sysMemory) PageSize() uintptr {
	return uintptr(os.Getpagesize())
}

func (sysMemory) Reserve(size uintptr) (unsafe.Pointer, error) {
	return unix.MmapPtr(-1, 0, nil, size, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

func (sysMemory) Commit(ptr unsafe.Pointer, size uintptr) error {
	return unix.Mprotect(unsafe.Slice((*byte)(ptr), size), unix.PROT_READ|unix.PROT_WRITE)
}

func (sysMemory) Release(ptr unsafe.Pointer, size uintptr) {
	// Treat failures as no-ops; a bad unmap leaves the mapping in place,
	// which is harmless to the caller.
	_ = unix.MunmapPtr(ptr, size)
}
