package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against the real platform layer: reservations come from the
// OS and uncommitted pages are genuinely inaccessible on unix and windows.

func TestSystem_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping virtual-memory test in short mode")
	}

	a, err := New(Config{ReserveSize: 8 * mib, CommitSize: 64 * kib})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, uint64(headerSize), a.Position())

	// Touch every byte of a few commit steps' worth of memory.
	buf, err := a.PushBytes(200*kib, PushOptions{})
	require.NoError(t, err)
	for i := range buf {
		buf[i] = byte(i)
	}
	for i := range buf {
		require.Equal(t, byte(i), buf[i], "byte %d", i)
	}

	s := a.Stats()
	assert.GreaterOrEqual(t, s.Committed, uint64(200*kib)+headerSize)
	assert.LessOrEqual(t, s.Committed, s.Reserved)
}

func TestSystem_SpillAndUnwind(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping virtual-memory test in short mode")
	}

	a, err := New(Config{ReserveSize: 256 * kib, CommitSize: 64 * kib})
	require.NoError(t, err)
	defer a.Close()

	mark := a.Position()
	for range 8 {
		buf, err := a.PushBytes(200*kib, PushOptions{})
		require.NoError(t, err)
		buf[0] = 0xFF
		buf[len(buf)-1] = 0xFF
	}
	require.Greater(t, a.Stats().Blocks, 1, "pushes must have spilled")

	a.PopTo(mark)
	assert.Equal(t, mark, a.Position())
	assert.Equal(t, 1, a.Stats().Blocks)

	// The arena is fully reusable after the unwind.
	buf, err := a.PushBytes(4096, PushOptions{Zero: true})
	require.NoError(t, err)
	for i, b := range buf {
		require.Zero(t, b, "byte %d after zeroed reuse", i)
	}
}

func TestSystem_FreshCommitReadsZero(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping virtual-memory test in short mode")
	}

	a, err := New(Config{ReserveSize: 1 * mib, CommitSize: 64 * kib})
	require.NoError(t, err)
	defer a.Close()

	// Crosses the initial commit boundary: the platform must hand out zeroed
	// pages without the arena clearing anything.
	buf, err := a.PushBytes(128*kib, PushOptions{})
	require.NoError(t, err)
	for i, b := range buf {
		require.Zero(t, b, "fresh byte %d", i)
	}
}
