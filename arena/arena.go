package arena

import (
	"log/slog"
	"unsafe"

	"github.com/joshuapare/arenakit/internal/vmem"
)

// Arena is a growable bump allocator backed by virtual-memory reserve and
// commit. Allocation is a pointer bump; release happens in bulk via Pop,
// PopTo, Clear or Close. Blocks form a singly linked chain growing from the
// root; only the tail accepts new allocations.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	mem  vmem.Memory
	log  *slog.Logger
	root *block
	tail *block
	peak uint64

	releaseBacking bool
}

// New creates an arena per cfg. Unless cfg.Backing is supplied, the root
// block reserves cfg.ReserveSize bytes of address space and commits the first
// cfg.CommitSize bytes.
func New(cfg Config) (*Arena, error) {
	cfg.setDefaults()

	a := &Arena{
		mem:            cfg.mem,
		log:            cfg.Logger,
		releaseBacking: cfg.ReleaseBacking,
	}

	var (
		root *block
		err  error
	)
	if cfg.Backing != nil {
		root, err = newExternalBlock(cfg.Backing, cfg.blockFlags(), cfg.ReserveSize, cfg.CommitSize)
	} else {
		root, err = newBlock(a.mem, cfg.blockFlags(), cfg.ReserveSize, cfg.CommitSize, 0, nil)
	}
	if err != nil {
		a.log.Warn("arena init failed", "err", err)
		return nil, err
	}

	a.root = root
	a.tail = root
	a.peak = headerSize
	a.log.Debug("arena initialized",
		"reserved", root.reserved, "committed", root.committed, "external", root.flags&flagExternal != 0)
	return a, nil
}

// Close releases every block in the chain, tail to root. Closing an arena
// that never initialized or was already closed is a no-op beyond a warning.
// The handle must not be reused afterwards.
func (a *Arena) Close() error {
	if a == nil || a.tail == nil {
		if a != nil && a.log != nil {
			a.log.Warn("Close on uninitialized arena")
		}
		return ErrNotInitialized
	}
	for b := a.tail; b != nil; {
		prev := b.prev
		a.releaseBlock(b)
		b = prev
	}
	a.root = nil
	a.tail = nil
	return nil
}

// ready gates operations on a live handle.
func (a *Arena) ready() error {
	if a == nil || a.tail == nil {
		return ErrNotInitialized
	}
	return nil
}

// releaseBlock unmaps one block. b must not be touched afterwards. An
// external root is left in place unless the arena owns the backing buffer.
func (a *Arena) releaseBlock(b *block) {
	reserved := b.reserved
	external := b.flags&flagExternal != 0
	a.log.Debug("releasing block", "reserved", reserved, "globalOffset", b.globalOff, "external", external)
	if external && !a.releaseBacking {
		return
	}
	a.mem.Release(unsafe.Pointer(b), uintptr(reserved))
}

// Stats is a point-in-time summary of the chain.
type Stats struct {
	Blocks    int    // blocks in the chain, root included
	Reserved  uint64 // total address space reserved
	Committed uint64 // total bytes backed by physical pages
	Used      uint64 // user bytes allocated across all blocks
	Position  uint64 // current unwind token, see Position
	Peak      uint64 // high-water mark of Position; survives Pop and Clear
}

// Stats walks the chain and returns aggregate usage. A closed arena reports
// the zero Stats.
func (a *Arena) Stats() Stats {
	var s Stats
	if a.ready() != nil {
		return s
	}
	for b := a.tail; b != nil; b = b.prev {
		s.Blocks++
		s.Reserved += b.reserved
		s.Committed += b.committed
		s.Used += b.localOff - headerSize
	}
	s.Position = a.Position()
	s.Peak = a.peak
	return s
}
