// Package filebuf provides file-backed buffers suitable for an arena's
// Backing configuration. The file is mapped read-write, so arena contents
// survive in the file after a Flush.
//
// A Buffer owns its mapping: configure the arena with ReleaseBacking left
// false and Close the buffer after closing the arena.
package filebuf

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// Buffer is a memory-mapped file usable as arena backing memory.
type Buffer struct {
	f *os.File
	m mmap.MMap
}

// Create creates (or truncates) the file at path, sizes it to size bytes and
// maps it read-write. The mapping is page-aligned, which satisfies the
// arena's alignment check on Backing memory.
func Create(path string, size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("filebuf: non-positive size %d", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Buffer{f: f, m: m}, nil
}

// Open maps an existing file read-write at its current size.
func Open(path string) (*Buffer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("filebuf: %s is empty", path)
	}
	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Buffer{f: f, m: m}, nil
}

// Bytes returns the mapped contents. Pass this to arena Config.Backing.
func (b *Buffer) Bytes() []byte {
	return b.m
}

// Flush writes dirty pages back to the file.
func (b *Buffer) Flush() error {
	return b.m.Flush()
}

// Close unmaps the buffer and closes the file. Any arena using the buffer
// must be closed first.
func (b *Buffer) Close() error {
	if b.m != nil {
		if err := b.m.Unmap(); err != nil {
			b.f.Close()
			return err
		}
		b.m = nil
	}
	return b.f.Close()
}
