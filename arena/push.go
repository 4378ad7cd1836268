package arena

import (
	"math"
	"unsafe"

	"github.com/joshuapare/arenakit/internal/align"
)

// PushOptions tunes a single push.
type PushOptions struct {
	// Alignment overrides the natural alignment of the pushed type. Zero
	// means natural (or 8 for raw byte pushes). Must be a power of two.
	Alignment uint64

	// Zero clears the returned range before handing it out.
	Zero bool
}

// PushRaw allocates size bytes aligned to alignment and advances the tail
// cursor. The returned range lies entirely within one block's committed
// memory; committed pages grow in CommitSize steps as needed. When the tail
// cannot fit the request, a spill block is reserved and linked, unless the
// arena was created with NoChain.
//
// A failed push leaves the arena at its pre-call position.
func (a *Arena) PushRaw(size, alignment uint64, zero bool) (unsafe.Pointer, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	if !align.IsPow2(alignment) {
		a.log.Warn("push rejected: bad alignment", "alignment", alignment)
		return nil, ErrInvalidAlignment
	}

	c := a.tail
	orig := c
	start, end, ok := placeIn(c, size, alignment)
	if !ok {
		a.log.Warn("push rejected: size overflows the address space", "size", size)
		return nil, ErrCapacityExceeded
	}

	if end > c.reserved {
		if c.flags&flagNoChain != 0 {
			a.log.Warn("push rejected: chaining disabled",
				"size", size, "reserved", c.reserved, "used", c.localOff)
			return nil, ErrCapacityExceeded
		}
		n, err := a.spill(size, alignment)
		if err != nil {
			a.log.Warn("push failed: cannot grow chain", "size", size, "err", err)
			return nil, err
		}
		c = n
		start, end, ok = placeIn(c, size, alignment)
		if !ok || end > c.reserved {
			// Spill sizing guarantees the request fits a fresh block.
			return nil, ErrInternal
		}
	}

	committedBefore := c.committed
	if end > c.committed {
		target, ok := align.Up(end, c.commitSize)
		if !ok || target > c.reserved {
			target = c.reserved
		}
		if err := a.commit(c, target); err != nil {
			if c != orig {
				// Unwind the spill so the failed push leaves no trace.
				a.tail = orig
				a.releaseBlock(c)
			}
			a.log.Warn("push failed: commit", "size", size, "err", err)
			return nil, ErrOutOfMemory
		}
		c.committed = target
	}

	if zero {
		// Pages committed by this call are fresh from the platform and
		// already zero; only the previously committed prefix can be dirty.
		if z := min(committedBefore, end); z > start {
			clear(unsafe.Slice((*byte)(c.ptr(start)), z-start))
		}
	}

	c.localOff = end
	if pos := c.globalOff + c.localOff; pos > a.peak {
		a.peak = pos
	}
	return c.ptr(start), nil
}

// placeIn computes the aligned [start, end) span a request would occupy in b.
// Alignment is applied to the absolute address; block bases are page-aligned,
// so for alignments up to the page size this matches aligning the offset.
func placeIn(b *block, size, alignment uint64) (start, end uint64, ok bool) {
	addr := uint64(uintptr(b.base()))
	aligned, ok := align.Up(addr+b.localOff, alignment)
	if !ok {
		return 0, 0, false
	}
	start = aligned - addr
	end, ok = align.Add(start, size)
	return start, end, ok
}

// spill reserves a follow-up block and links it as the new tail. Growth
// parameters are inherited from the current tail; an oversized request
// enlarges both to align_up(size+header, max(alignment, page size)), with
// alignment bytes of extra headroom when alignment exceeds the header size.
func (a *Arena) spill(size, alignment uint64) (*block, error) {
	c := a.tail
	page := uint64(a.mem.PageSize())
	if c.large() {
		page = uint64(a.mem.LargePageSize())
	}

	need, ok := align.Add(size, headerSize)
	if !ok {
		return nil, ErrCapacityExceeded
	}
	if alignment > headerSize {
		// Room to align the first allocation inside the fresh block.
		need, ok = align.Add(need, alignment)
		if !ok {
			return nil, ErrCapacityExceeded
		}
	}

	reserveSize, commitSize := c.reserveSize, c.commitSize
	if need > reserveSize {
		reserveSize, ok = align.Up(need, max(alignment, page))
		if !ok {
			return nil, ErrCapacityExceeded
		}
		commitSize = reserveSize
	}

	globalOff, ok := align.Add(c.globalOff, c.reserved)
	if !ok {
		return nil, ErrCapacityExceeded
	}

	// Spill blocks are always platform-owned, even under an external root.
	n, err := newBlock(a.mem, c.flags&^flagExternal, reserveSize, commitSize, globalOff, c)
	if err != nil {
		return nil, err
	}
	a.tail = n
	a.log.Debug("arena spilled", "reserved", n.reserved, "globalOffset", n.globalOff)
	return n, nil
}

// commit extends b's committed prefix to target bytes.
func (a *Arena) commit(b *block, target uint64) error {
	ptr := b.ptr(b.committed)
	size := uintptr(target - b.committed)
	if b.large() {
		return a.mem.CommitLarge(ptr, size)
	}
	return a.mem.Commit(ptr, size)
}

// Push allocates one T. Alignment defaults to the type's natural alignment.
func Push[T any](a *Arena, opts PushOptions) (*T, error) {
	var zero T
	alignment := opts.Alignment
	if alignment == 0 {
		alignment = uint64(unsafe.Alignof(zero))
	}
	p, err := a.PushRaw(uint64(unsafe.Sizeof(zero)), alignment, opts.Zero)
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// PushSlice allocates a contiguous run of count values of T and returns it as
// a slice. The total size is overflow-checked.
func PushSlice[T any](a *Arena, count uint64, opts PushOptions) ([]T, error) {
	var zero T
	size, ok := align.Mul(uint64(unsafe.Sizeof(zero)), count)
	if !ok || count > math.MaxInt {
		return nil, ErrCapacityExceeded
	}
	alignment := opts.Alignment
	if alignment == 0 {
		alignment = uint64(unsafe.Alignof(zero))
	}
	p, err := a.PushRaw(size, alignment, opts.Zero)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(p), int(count)), nil
}

// PushBytes allocates n raw bytes. Alignment defaults to 8.
func (a *Arena) PushBytes(n uint64, opts PushOptions) ([]byte, error) {
	alignment := opts.Alignment
	if alignment == 0 {
		alignment = 8
	}
	p, err := a.PushRaw(n, alignment, opts.Zero)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(p), int(n)), nil
}
