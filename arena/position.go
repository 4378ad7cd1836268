package arena

import "fmt"

// Position returns the arena's current unwind token: the tail block's global
// offset plus its local cursor. An empty arena reports headerSize; the value
// strictly increases across successful pushes of non-zero size, never
// decreases across pushes, and is unchanged by failed ones. A closed arena
// reports zero.
func (a *Arena) Position() uint64 {
	if a.ready() != nil {
		return 0
	}
	return a.tail.globalOff + a.tail.localOff
}

// PopTo rewinds the arena to a position previously obtained from Position,
// releasing every spill block whose base lies at or beyond the target. The
// target is clamped to the base position (headerSize), so PopTo(0) empties
// the arena without touching the root reservation.
//
// Rewinding to a position greater than the current one is a caller contract
// violation and panics.
func (a *Arena) PopTo(target uint64) {
	if a.ready() != nil {
		if a != nil && a.log != nil {
			a.log.Warn("PopTo on uninitialized arena", "target", target)
		}
		return
	}
	if target < headerSize {
		target = headerSize
	}

	c := a.tail
	for c.globalOff >= target {
		prev := c.prev
		if prev == nil {
			// The root's global offset is zero and the target is clamped
			// above it; a nil prev here means the chain is corrupt.
			panic("arena: PopTo walked past the base block")
		}
		a.releaseBlock(c)
		c = prev
	}
	a.tail = c

	local := target - c.globalOff
	if local > c.localOff {
		panic(fmt.Sprintf("arena: PopTo(%d) would advance the cursor past position %d",
			target, c.globalOff+c.localOff))
	}
	c.localOff = local
}

// Pop rewinds the arena by n bytes of position. Popping more than is in use
// clamps at the base position.
func (a *Arena) Pop(n uint64) {
	pos := a.Position()
	if n >= pos {
		a.PopTo(0)
		return
	}
	a.PopTo(pos - n)
}

// Clear releases all spill blocks and resets the root cursor. The root
// block's committed pages are retained for reuse.
func (a *Arena) Clear() {
	a.PopTo(0)
}
