//go:build linux

package vmem

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

const defaultHugePageSize = 2 << 20

var (
	hugePageOnce sync.Once
	hugePageSize uintptr
)

// LargePageSize returns the kernel's configured huge page size, read once
// from /proc/meminfo. Falls back to 2 MiB when the field is missing.
func (sysMemory) LargePageSize() uintptr {
	hugePageOnce.Do(func() {
		hugePageSize = defaultHugePageSize
		f, err := os.Open("/proc/meminfo")
		if err != nil {
			return
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := sc.Text()
			if !strings.HasPrefix(line, "Hugepagesize:") {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return
			}
			kb, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil || kb == 0 {
				return
			}
			hugePageSize = uintptr(kb) << 10
			return
		}
	})
	return hugePageSize
}

// ReserveLarge reserves with MAP_HUGETLB. The kernel rejects this unless huge
// pages have been preallocated (vm.nr_hugepages), so a failed attempt falls
// back to a regular mapping; the caller still rounds sizes to the large-page
// granularity.
func (m sysMemory) ReserveLarge(size uintptr) (unsafe.Pointer, error) {
	p, err := unix.MmapPtr(-1, 0, nil, size, unix.PROT_NONE,
		unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_HUGETLB)
	if err == nil {
		return p, nil
	}
	return m.Reserve(size)
}

func (m sysMemory) CommitLarge(ptr unsafe.Pointer, size uintptr) error {
	return m.Commit(ptr, size)
}
