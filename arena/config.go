package arena

import (
	"io"
	"log/slog"

	"github.com/joshuapare/arenakit/internal/vmem"
)

const (
	// DefaultReserveSize is the address-space reservation per block.
	DefaultReserveSize = 64 << 20

	// DefaultCommitSize is the commit granularity within a block.
	DefaultCommitSize = 64 << 10
)

// discard drops all log output. Callers opt in to diagnostics by supplying
// Config.Logger.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Config configures a new arena. The zero value is usable: 64 MiB reserved,
// 64 KiB commit steps, chaining enabled, logging discarded.
type Config struct {
	// LargePages reserves and commits using the platform's large-page
	// granularity where available.
	LargePages bool

	// NoChain forbids spill blocks: a request that does not fit the single
	// reservation fails with ErrCapacityExceeded.
	NoChain bool

	// ReserveSize is the address space reserved per block, rounded up to the
	// applicable page size.
	ReserveSize uint64

	// CommitSize is the granularity by which committed memory grows, rounded
	// up to the applicable page size.
	CommitSize uint64

	// Backing supplies pre-existing memory for the root block instead of a
	// fresh reservation. The buffer must outlive the arena and be at least
	// 129 bytes; the arena treats all of it as committed.
	Backing []byte

	// ReleaseBacking controls whether Close unmaps the Backing buffer along
	// with arena-owned blocks; Clear and Pop never release the root. Leave false unless the buffer is
	// a page mapping whose ownership transfers to the arena.
	ReleaseBacking bool

	// Logger receives diagnostics (block creation, release, failed pushes).
	// Nil discards.
	Logger *slog.Logger

	// mem overrides the platform layer in tests.
	mem vmem.Memory
}

func (c *Config) setDefaults() {
	if c.ReserveSize == 0 {
		c.ReserveSize = DefaultReserveSize
	}
	if c.CommitSize == 0 {
		c.CommitSize = DefaultCommitSize
	}
	if c.Logger == nil {
		c.Logger = discard
	}
	if c.mem == nil {
		c.mem = vmem.System()
	}
}

func (c *Config) blockFlags() blockFlags {
	var f blockFlags
	if c.LargePages {
		f |= flagLargePages
	}
	if c.NoChain {
		f |= flagNoChain
	}
	return f
}
