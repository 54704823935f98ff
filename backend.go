package cfile

import (
	"io"
	"os"
)

// Stream is the native buffered stream underlying a File. It is the
// subset of go-billy's File surface the handle needs, so any billy-backed
// provider satisfies it directly.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	Name() string
	Truncate(size int64) error
	Lock() error
	Unlock() error
}

// Backend opens streams and performs the path-level filesystem effects a
// handle depends on. Implementations should behave consistently with the
// standard library.
type Backend interface {
	OpenFile(name string, flag int, perm os.FileMode) (Stream, error)
	Remove(name string) error
	Stat(name string) (os.FileInfo, error)
	Chmod(name string, mode os.FileMode) error
}
