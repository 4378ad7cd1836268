package arena

import (
	"unsafe"

	"github.com/joshuapare/arenakit/internal/align"
	"github.com/joshuapare/arenakit/internal/vmem"
)

// headerSize is the fixed metadata prefix at the base of every reservation.
// User allocations never touch the first headerSize bytes of a block, so a
// fresh block's localOff starts here and the position of an empty arena is
// exactly headerSize.
const headerSize = 128

type blockFlags uint32

const (
	flagLargePages blockFlags = 1 << iota
	flagNoChain
	flagExternal // root lives in caller-supplied memory
)

// block is the header written in place at the base of its own reservation.
// It holds only plain integers and a pointer to the previous header, which
// lives in an arena reservation or, for an external root, in the caller's
// Backing buffer: block memory is invisible to the GC.
type block struct {
	prev        *block
	reserved    uint64 // address space reserved for this block
	committed   uint64 // prefix currently backed by physical pages
	localOff    uint64 // first free byte, measured from the block base
	globalOff   uint64 // sum of reserved of all strictly earlier blocks
	reserveSize uint64 // growth parameters inherited by spill blocks
	commitSize  uint64
	flags       blockFlags
}

// The header must fit its fixed prefix; position arithmetic depends on it.
const _ uintptr = headerSize - unsafe.Sizeof(block{})

func (b *block) base() unsafe.Pointer {
	return unsafe.Pointer(b)
}

func (b *block) ptr(off uint64) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(b), uintptr(off))
}

func (b *block) large() bool {
	return b.flags&flagLargePages != 0
}

// newBlock reserves a fresh region, commits its initial prefix and writes the
// header. reserveSize and commitSize are rounded up to the applicable page
// size; a partial failure releases the reservation.
func newBlock(mem vmem.Memory, flags blockFlags, reserveSize, commitSize, globalOff uint64, prev *block) (*block, error) {
	page := uint64(mem.PageSize())
	if flags&flagLargePages != 0 {
		page = uint64(mem.LargePageSize())
	}

	reserveSize, ok := align.Up(reserveSize, page)
	if !ok {
		return nil, ErrCapacityExceeded
	}
	commitSize, ok = align.Up(commitSize, page)
	if !ok {
		return nil, ErrCapacityExceeded
	}
	if commitSize > reserveSize {
		commitSize = reserveSize
	}

	var (
		base unsafe.Pointer
		err  error
	)
	if flags&flagLargePages != 0 {
		base, err = mem.ReserveLarge(uintptr(reserveSize))
	} else {
		base, err = mem.Reserve(uintptr(reserveSize))
	}
	if err != nil {
		return nil, ErrOutOfMemory
	}

	if flags&flagLargePages != 0 {
		err = mem.CommitLarge(base, uintptr(commitSize))
	} else {
		err = mem.Commit(base, uintptr(commitSize))
	}
	if err != nil {
		mem.Release(base, uintptr(reserveSize))
		return nil, ErrOutOfMemory
	}

	b := (*block)(base)
	*b = block{
		prev:        prev,
		reserved:    reserveSize,
		committed:   commitSize,
		localOff:    headerSize,
		globalOff:   globalOff,
		reserveSize: reserveSize,
		commitSize:  commitSize,
		flags:       flags,
	}
	return b, nil
}

// newExternalBlock lays the root header over a caller-supplied buffer. The
// whole buffer counts as committed; reserved is not rounded to the page size
// since the arena did not map it.
func newExternalBlock(buf []byte, flags blockFlags, reserveSize, commitSize uint64) (*block, error) {
	if uint64(len(buf)) <= headerSize {
		return nil, ErrCapacityExceeded
	}
	base := unsafe.Pointer(&buf[0])
	if uintptr(base)%unsafe.Alignof(block{}) != 0 {
		return nil, ErrInvalidAlignment
	}

	size := uint64(len(buf))
	b := (*block)(base)
	*b = block{
		reserved:    size,
		committed:   size,
		localOff:    headerSize,
		reserveSize: reserveSize,
		commitSize:  commitSize,
		flags:       flags | flagExternal,
	}
	return b, nil
}
