// Package cfile wraps the buffered-file surface of the C standard
// library in an owned handle with explicit errors. Every operation is a
// direct pass-through to the corresponding native call; the package adds
// nothing beyond marshaling between the handle and one underlying stream
// plus translation of native failures into error values.
//
// The open vocabulary keeps the stdio spellings: "r", "w", "a", "a+",
// "rb+" (update, file must exist) and "wb+" (truncate, creates).
// Package-level functions operate on the native filesystem; an FS bound
// to another Backend (for example an in-memory one from the billy
// subpackage) exposes the same surface.
//
// Example usage:
//
//	f, err := cfile.Open("data.txt", cfile.TruncateRandomAccess)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	if err := f.WriteAll([]byte("Howdy folks!")); err != nil {
//	    return err
//	}
package cfile

import (
	"fmt"
	"os"
	"strings"
	"syscall"
)

// Mode selects the read/write/append/truncate/create semantics of an
// open call, using the C stdio token as the canonical spelling.
type Mode string

const (
	// ReadOnly opens for reading; the file must exist.
	ReadOnly Mode = "r"
	// WriteOnly opens for writing, creating or truncating the file.
	WriteOnly Mode = "w"
	// AppendOnly opens for writing at the end, creating if needed.
	AppendOnly Mode = "a"
	// AppendRead opens for reading and end-of-file writing, creating
	// if needed.
	AppendRead Mode = "a+"
	// RandomAccess opens for reading and writing anywhere in the file
	// without truncating it. The file must exist; OpenRandomAccess
	// creates it first.
	RandomAccess Mode = "rb+"
	// TruncateRandomAccess opens for reading and writing, creating or
	// truncating the file.
	TruncateRandomAccess Mode = "wb+"
)

// DefaultPerm is the permission bits applied when an open creates a file.
const DefaultPerm os.FileMode = 0o644

// flag translates the mode token into open flags. Unknown tokens are
// rejected the way fopen rejects them, by the caller reporting EINVAL.
func (m Mode) flag() (int, bool) {
	switch m {
	case ReadOnly:
		return os.O_RDONLY, true
	case WriteOnly:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, true
	case AppendOnly:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, true
	case AppendRead:
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, true
	case RandomAccess:
		return os.O_RDWR, true
	case TruncateRandomAccess:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, true
	}
	return 0, false
}

// FS exposes the open/create/remove/chmod surface over one Backend.
type FS struct {
	backend Backend
}

// New returns an FS bound to the given backend.
func New(backend Backend) *FS {
	return &FS{backend: backend}
}

// Open opens path with the given mode and returns an owned handle.
// A path or mode containing a NUL byte fails with ErrBadPath; an unknown
// mode token fails with an OS error wrapping syscall.EINVAL; a native
// open failure is wrapped so Errno can recover the code.
func (fsys *FS) Open(path string, mode Mode) (*File, error) {
	if strings.IndexByte(path, 0) >= 0 || strings.IndexByte(string(mode), 0) >= 0 {
		return nil, fmt.Errorf("cfile: open %q: %w", path, ErrBadPath)
	}
	flag, ok := mode.flag()
	if !ok {
		return nil, fmt.Errorf("cfile: open %q: mode %q: %w", path, mode, syscall.EINVAL)
	}
	stream, err := fsys.backend.OpenFile(path, flag, DefaultPerm)
	if err != nil {
		return nil, fmt.Errorf("cfile: open %q: %w", path, err)
	}
	return newFile(fsys.backend, stream, path), nil
}

// OpenRandomAccess opens path in update mode, first ensuring the file
// exists. A failure of the creation step is propagated: appending opens
// succeed on existing files, so the step only fails for real reasons
// such as permissions or the path naming a directory.
func (fsys *FS) OpenRandomAccess(path string) (*File, error) {
	if err := fsys.CreateFile(path); err != nil {
		return nil, err
	}
	return fsys.Open(path, RandomAccess)
}

// CreateFile opens path in append+read mode and immediately closes it:
// a no-op on an existing file, otherwise it leaves an empty file behind.
func (fsys *FS) CreateFile(path string) error {
	f, err := fsys.Open(path, AppendRead)
	if err != nil {
		return err
	}
	return f.Close()
}

// Remove deletes the file at path from the filesystem.
func (fsys *FS) Remove(path string) error {
	if err := fsys.backend.Remove(path); err != nil {
		return fmt.Errorf("cfile: remove %q: %w", path, err)
	}
	return nil
}

// Chmod changes the permission bits of the file at path.
func (fsys *FS) Chmod(path string, mode os.FileMode) error {
	if err := fsys.backend.Chmod(path, mode); err != nil {
		return fmt.Errorf("cfile: chmod %q: %w", path, err)
	}
	return nil
}

// Exists reports whether path names an existing file or directory.
func (fsys *FS) Exists(path string) (bool, error) {
	_, err := fsys.backend.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("cfile: stat %q: %w", path, err)
	}
}

// osFS is the FS behind the package-level functions.
var osFS = New(NewOSBackend())

// Open opens path on the native filesystem. See FS.Open.
func Open(path string, mode Mode) (*File, error) {
	return osFS.Open(path, mode)
}

// OpenRandomAccess opens path on the native filesystem in update mode,
// creating it first. See FS.OpenRandomAccess.
func OpenRandomAccess(path string) (*File, error) {
	return osFS.OpenRandomAccess(path)
}

// CreateFile ensures an empty file exists at path on the native
// filesystem. See FS.CreateFile.
func CreateFile(path string) error {
	return osFS.CreateFile(path)
}

// Remove deletes the file at path from the native filesystem.
func Remove(path string) error {
	return osFS.Remove(path)
}

// Chmod changes the permission bits of path on the native filesystem.
func Chmod(path string, mode os.FileMode) error {
	return osFS.Chmod(path, mode)
}
