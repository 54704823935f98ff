// Package billy adapts any go-billy filesystem to the cfile backend
// contract, giving the same handle surface over the native filesystem,
// a chrooted directory, or an in-memory filesystem for tests.
package billy

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/input-output-hk/catalyst-forge-libs/cfile"
)

// FS implements the cfile.Backend interface using go-billy.
type FS struct {
	fs billy.Filesystem
}

var _ cfile.Backend = (*FS)(nil)

// New wraps an existing billy.Filesystem.
func New(fs billy.Filesystem) *FS {
	return &FS{fs: fs}
}

// NewMemory returns a backend over a fresh in-memory filesystem.
func NewMemory() *FS {
	return New(memfs.New())
}

// NewOS returns a backend over the OS filesystem rooted at root.
func NewOS(root string) *FS {
	return New(osfs.New(root))
}

// OpenFile implements cfile.Backend.OpenFile.
//
//nolint:ireturn // API returns the cfile.Stream interface by design for flexibility.
func (b *FS) OpenFile(name string, flag int, perm os.FileMode) (cfile.Stream, error) {
	f, err := b.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, fmt.Errorf("billy: openfile %q: %w", name, err)
	}
	return f, nil
}

// Remove implements cfile.Backend.Remove.
func (b *FS) Remove(name string) error {
	if err := b.fs.Remove(name); err != nil {
		return fmt.Errorf("billy: remove %q: %w", name, err)
	}
	return nil
}

// Stat implements cfile.Backend.Stat.
func (b *FS) Stat(name string) (os.FileInfo, error) {
	info, err := b.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Chmod implements cfile.Backend.Chmod. It requires the wrapped
// filesystem to support billy.Change; in-memory filesystems do not and
// report billy.ErrNotSupported.
func (b *FS) Chmod(name string, mode os.FileMode) error {
	ch, ok := b.fs.(billy.Change)
	if !ok {
		return fmt.Errorf("billy: chmod %q: %w", name, billy.ErrNotSupported)
	}
	if err := ch.Chmod(name, mode); err != nil {
		return fmt.Errorf("billy: chmod %q: %w", name, err)
	}
	return nil
}
