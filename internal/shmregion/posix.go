//go:build !windows

// Package shmregion obtains a named shared-memory mapping for the ring to
// live in. It is deliberately thin: it knows how to turn a name into a
// file under /dev/shm and a byte slice, and nothing about the ring
// protocol itself.
package shmregion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Options configures acquisition of a named region.
type Options struct {
	// Name identifies the region. It is combined with a shared-memory
	// directory to form a filesystem path; it must not contain path
	// separators.
	Name string

	// Size is the total region size in bytes, header included. Required
	// when Create is true; ignored (the existing file's size wins)
	// otherwise.
	Size uint32

	// Create truncates (or creates) the backing file to Size before
	// mapping. Pass true for whichever side is responsible for bringing
	// the region into existence; false for the other side.
	Create bool
}

// Mapping is an open shared-memory region. Close unmaps and releases the
// backing file descriptor; it does not delete the backing file, so a
// later process can still attach to the same name.
type Mapping struct {
	path string
	file *os.File
	data []byte
}

// DefaultDir returns the directory new regions are placed under:
// /dev/shm when present (Linux), the OS temp directory otherwise.
func DefaultDir() string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

// Open acquires the named region, creating and sizing its backing file
// first when opts.Create is set.
func Open(opts Options) (*Mapping, error) {
	if opts.Name == "" {
		return nil, errors.New("shmregion: name is required")
	}
	if filepath.Base(opts.Name) != opts.Name {
		return nil, fmt.Errorf("shmregion: name %q must not contain path separators", opts.Name)
	}

	path := filepath.Join(DefaultDir(), opts.Name)
	flags := os.O_RDWR
	if opts.Create {
		flags |= os.O_CREATE
	}

	file, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shmregion: open %s: %w", path, err)
	}

	if opts.Create {
		if opts.Size == 0 {
			_ = file.Close()
			return nil, errors.New("shmregion: size is required when creating")
		}
		if err := file.Truncate(int64(opts.Size)); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("shmregion: truncate %s: %w", path, err)
		}
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("shmregion: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		_ = file.Close()
		return nil, fmt.Errorf("shmregion: %s has zero size", path)
	}

	data, err := syscall.Mmap(int(file.Fd()), 0, int(info.Size()), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("shmregion: mmap %s: %w", path, err)
	}

	return &Mapping{path: path, file: file, data: data}, nil
}

// Bytes exposes the mapped region. The slice is valid until Close.
func (m *Mapping) Bytes() []byte { return m.data }

// Path returns the backing file path.
func (m *Mapping) Path() string { return m.path }

// Close unmaps the region and closes the backing file descriptor.
func (m *Mapping) Close() error {
	var err error
	if m.data != nil {
		if unmapErr := syscall.Munmap(m.data); unmapErr != nil {
			err = unmapErr
		}
		m.data = nil
	}
	if m.file != nil {
		if closeErr := m.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		m.file = nil
	}
	return err
}
