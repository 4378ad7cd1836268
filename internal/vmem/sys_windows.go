//go:build windows

package vmem

import (
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var system Memory = &winMemory{}

// winMemory maps Reserve/Commit onto VirtualAlloc's MEM_RESERVE and
// MEM_COMMIT stages and Release onto VirtualFree(MEM_RELEASE).
type winMemory struct {
	largeOnce sync.Once
	largeSize uintptr
}

var procGetLargePageMinimum = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetLargePageMinimum")

func (*winMemory) PageSize() uintptr {
	return uintptr(os.Getpagesize())
}

func (m *winMemory) LargePageSize() uintptr {
	m.largeOnce.Do(func() {
		r, _, _ := procGetLargePageMinimum.Call()
		m.largeSize = r
		if m.largeSize == 0 {
			// Large pages unsupported or the privilege is absent; keep a sane
			// rounding granularity.
			m.largeSize = 2 << 20
		}
	})
	return m.largeSize
}

func (*winMemory) Reserve(size uintptr) (unsafe.Pointer, error) {
	base, err := windows.VirtualAlloc(0, size, windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(base), nil
}

// ReserveLarge reserves and commits in a single call: Windows requires
// MEM_RESERVE|MEM_COMMIT for MEM_LARGE_PAGES, there is no two-stage path.
// Falls back to a regular reservation when the SeLockMemoryPrivilege is not
// held, which is why CommitLarge still issues a MEM_COMMIT.
func (m *winMemory) ReserveLarge(size uintptr) (unsafe.Pointer, error) {
	base, err := windows.VirtualAlloc(0, size,
		windows.MEM_RESERVE|windows.MEM_COMMIT|windows.MEM_LARGE_PAGES, windows.PAGE_READWRITE)
	if err == nil {
		return unsafe.Pointer(base), nil
	}
	return m.Reserve(size)
}

func (*winMemory) Commit(ptr unsafe.Pointer, size uintptr) error {
	_, err := windows.VirtualAlloc(uintptr(ptr), size, windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err
}

func (*winMemory) CommitLarge(ptr unsafe.Pointer, size uintptr) error {
	// Large-page reservations are committed up front; committing again is a
	// harmless MEM_COMMIT on already-committed pages.
	_, err := windows.VirtualAlloc(uintptr(ptr), size, windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err
}

func (*winMemory) Release(ptr unsafe.Pointer, size uintptr) {
	_ = windows.VirtualFree(uintptr(ptr), 0, windows.MEM_RELEASE)
}
