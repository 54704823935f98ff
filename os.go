package cfile

import (
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// baseOSFS is a billy.Filesystem that acts like the native filesystem.
type baseOSFS struct {
	osfs.ChrootOS
}

// Chroot returns a new filesystem rooted at the provided path.
//
//nolint:ireturn // billy.Filesystem is an interface; signature is dictated by upstream.
func (b *baseOSFS) Chroot(path string) (billy.Filesystem, error) {
	return osfs.New(path), nil
}

// Root returns the root path for this filesystem.
func (b *baseOSFS) Root() string {
	return "/"
}

// osBackend is the Backend behind the package-level functions. Streams
// come from go-billy's OS filesystem, which hands out flock-capable
// wrappers over native descriptors.
type osBackend struct {
	fs billy.Filesystem
}

// NewOSBackend returns a Backend over the native filesystem. Paths are
// interpreted the way the os package interprets them.
//
//nolint:ireturn // constructor intentionally returns the Backend contract.
func NewOSBackend() Backend {
	return &osBackend{fs: &baseOSFS{}}
}

// OpenFile implements Backend.OpenFile.
//
//nolint:ireturn // API returns the Stream interface by design for flexibility.
func (b *osBackend) OpenFile(name string, flag int, perm os.FileMode) (Stream, error) {
	f, err := b.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Remove implements Backend.Remove.
func (b *osBackend) Remove(name string) error {
	return b.fs.Remove(name)
}

// Stat implements Backend.Stat.
func (b *osBackend) Stat(name string) (os.FileInfo, error) {
	return b.fs.Stat(name)
}

// Chmod implements Backend.Chmod. The billy OS filesystem does not
// implement permission changes, so this goes to the os package directly.
func (b *osBackend) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}
