package filebuf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/arena"
)

func TestCreateAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backing.bin")

	b, err := Create(path, 64<<10)
	require.NoError(t, err)
	require.Len(t, b.Bytes(), 64<<10)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(64<<10), info.Size())

	require.NoError(t, b.Close())
}

func TestCreate_BadSize(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "x.bin"), 0)
	assert.Error(t, err)
}

func TestOpen_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := Open(path)
	assert.Error(t, err)
}

func TestArenaOverFileBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.bin")

	b, err := Create(path, 64<<10)
	require.NoError(t, err)

	a, err := arena.New(arena.Config{Backing: b.Bytes()})
	require.NoError(t, err)

	payload, err := a.PushBytes(1024, arena.PushOptions{})
	require.NoError(t, err)
	for i := range payload {
		payload[i] = byte('a' + i%26)
	}

	require.NoError(t, a.Close())
	require.NoError(t, b.Flush())
	require.NoError(t, b.Close())

	// The arena skipped its 128-byte header prefix; the payload starts right
	// after it in the file.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 128+1024)
	for i := range 1024 {
		require.Equal(t, byte('a'+i%26), data[128+i], "file byte %d", i)
	}
}

func TestReopenPreservesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.bin")

	b, err := Create(path, 16<<10)
	require.NoError(t, err)
	copy(b.Bytes()[8<<10:], []byte("durable"))
	require.NoError(t, b.Flush())
	require.NoError(t, b.Close())

	b2, err := Open(path)
	require.NoError(t, err)
	defer b2.Close()
	off := 8 << 10
	assert.Equal(t, []byte("durable"), b2.Bytes()[off:off+7])
}
