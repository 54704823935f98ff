package cfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"runtime"
)

// File owns exactly one open Stream together with a copy of the path
// used to open it. A handle is either open or closed; once closed it
// stays closed, and every operation other than Close reports an error
// wrapping fs.ErrClosed. An abandoned handle releases its stream through
// a finalizer, so the release happens exactly once on every exit path.
//
// A File is not safe for concurrent use: the underlying stream is not
// reentrant, so callers sharing a handle must synchronize externally.
type File struct {
	backend Backend
	stream  Stream // nil once closed
	path    string
}

func newFile(backend Backend, stream Stream, path string) *File {
	f := &File{backend: backend, stream: stream, path: path}
	runtime.SetFinalizer(f, (*File).finalize)
	return f
}

// finalize is the scope-end teardown path. The close result is
// discarded; there is nobody left to report it to.
func (f *File) finalize() {
	if f.stream != nil {
		_ = f.stream.Close()
		f.stream = nil
	}
}

// Path returns the stored copy of the path the handle was opened with.
func (f *File) Path() string {
	return f.path
}

// Close releases the underlying stream. Closing an already-closed
// handle succeeds trivially. On native failure the handle stays open so
// the caller may retry; on success it is invalidated permanently.
func (f *File) Close() error {
	if f.stream == nil {
		return nil
	}
	if err := f.stream.Close(); err != nil {
		return fmt.Errorf("cfile: close %q: %w", f.path, err)
	}
	runtime.SetFinalizer(f, nil)
	f.stream = nil
	return nil
}

// Delete closes the handle and removes the file from the filesystem by
// its stored path. The close is best-effort: its failure is discarded
// and the handle ends closed either way. A native removal failure is
// reported with the OS error.
func (f *File) Delete() error {
	if f.stream != nil {
		runtime.SetFinalizer(f, nil)
		_ = f.stream.Close()
		f.stream = nil
	}
	if err := f.backend.Remove(f.path); err != nil {
		return fmt.Errorf("cfile: remove %q: %w", f.path, err)
	}
	return nil
}

// Read fills p with up to len(p) bytes from the current position and
// returns the count actually read. A short read at the end of the file
// follows the io.Reader contract and surfaces io.EOF, not a taxonomy
// error.
func (f *File) Read(p []byte) (int, error) {
	if f.stream == nil {
		return 0, f.closedErr("read")
	}
	n, err := f.stream.Read(p)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, io.EOF
		}
		return n, fmt.Errorf("cfile: read %q: %w", f.path, err)
	}
	return n, nil
}

// ReadExact fills all of p or fails. Reaching the end of the file first
// reports *EOFError carrying the number of bytes that were still read
// and placed at the front of p; any other shortfall is the native error.
func (f *File) ReadExact(p []byte) error {
	if f.stream == nil {
		return f.closedErr("read")
	}
	n, err := io.ReadFull(f.stream, p)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &EOFError{BytesRead: n}
	}
	return fmt.Errorf("cfile: read %q: %w", f.path, err)
}

// ReadToEnd reads from the current position through the end of the
// file, growing *buf only as much as needed, and returns the number of
// bytes read. The tail of the file occupies (*buf)[:n]. When the
// current position is already the end it returns 0 without further I/O.
func (f *File) ReadToEnd(buf *[]byte) (int, error) {
	if f.stream == nil {
		return 0, f.closedErr("read")
	}
	cur, err := f.CurrentPos()
	if err != nil {
		return 0, err
	}
	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if end == cur {
		return 0, nil
	}
	if _, err := f.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	n := int(end - cur)
	growBuffer(buf, n)
	if err := f.ReadExact((*buf)[:n]); err != nil {
		var eofErr *EOFError
		if errors.As(err, &eofErr) {
			// The file shrank between the size query and the read.
			return eofErr.BytesRead, nil
		}
		return 0, err
	}
	return n, nil
}

// growBuffer extends *buf to at least n bytes without reserving more
// capacity than the shortfall requires.
func growBuffer(buf *[]byte, n int) {
	if len(*buf) >= n {
		return
	}
	if cap(*buf) >= n {
		*buf = (*buf)[:n]
		return
	}
	next := make([]byte, n)
	copy(next, *buf)
	*buf = next
}

// Write writes p at the current position and returns the count actually
// written.
func (f *File) Write(p []byte) (int, error) {
	if f.stream == nil {
		return 0, f.closedErr("write")
	}
	n, err := f.stream.Write(p)
	if err != nil {
		return n, fmt.Errorf("cfile: write %q: %w", f.path, err)
	}
	return n, nil
}

// WriteAll writes all of p or fails with *WriteError carrying the
// partial count and the native error behind the shortfall.
func (f *File) WriteAll(p []byte) error {
	if f.stream == nil {
		return f.closedErr("write")
	}
	n, err := f.stream.Write(p)
	if err == nil && n == len(p) {
		return nil
	}
	if err == nil {
		err = io.ErrShortWrite
	}
	return &WriteError{BytesWritten: n, Err: err}
}

// Flush forces buffered output to the filesystem. Backends without a
// durability boundary, such as in-memory ones, have nothing to flush
// and succeed trivially.
func (f *File) Flush() error {
	if f.stream == nil {
		return f.closedErr("flush")
	}
	s, ok := f.stream.(interface{ Sync() error })
	if !ok {
		return nil
	}
	if err := s.Sync(); err != nil {
		return fmt.Errorf("cfile: flush %q: %w", f.path, err)
	}
	return nil
}

// CurrentPos returns the stream's current byte offset.
func (f *File) CurrentPos() (int64, error) {
	if f.stream == nil {
		return 0, f.closedErr("tell")
	}
	pos, err := f.stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("cfile: tell %q: %w", f.path, err)
	}
	return pos, nil
}

// Seek moves the current position by offset relative to whence, one of
// io.SeekStart, io.SeekCurrent or io.SeekEnd, and returns the resulting
// absolute offset.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.stream == nil {
		return 0, f.closedErr("seek")
	}
	pos, err := f.stream.Seek(offset, whence)
	if err != nil {
		return pos, fmt.Errorf("cfile: seek %q off=%d whence=%d: %w", f.path, offset, whence, err)
	}
	return pos, nil
}

// Truncate changes the size of the file to size.
func (f *File) Truncate(size int64) error {
	if f.stream == nil {
		return f.closedErr("truncate")
	}
	if err := f.stream.Truncate(size); err != nil {
		return fmt.Errorf("cfile: truncate %q: %w", f.path, err)
	}
	return nil
}

// Lock takes an advisory exclusive lock on the file. The lock is
// released by Unlock or when the stream is closed.
func (f *File) Lock() error {
	if f.stream == nil {
		return f.closedErr("lock")
	}
	if err := f.stream.Lock(); err != nil {
		return fmt.Errorf("cfile: lock %q: %w", f.path, err)
	}
	return nil
}

// Unlock releases the advisory lock taken by Lock.
func (f *File) Unlock() error {
	if f.stream == nil {
		return f.closedErr("unlock")
	}
	if err := f.stream.Unlock(); err != nil {
		return fmt.Errorf("cfile: unlock %q: %w", f.path, err)
	}
	return nil
}

// Raw hands the underlying stream to fn for operations this package
// does not surface. The stream must not be retained beyond the call; on
// a closed handle Raw fails instead of exposing a dangling stream.
func (f *File) Raw(fn func(Stream) error) error {
	if f.stream == nil {
		return f.closedErr("raw")
	}
	return fn(f.stream)
}

func (f *File) closedErr(op string) error {
	return fmt.Errorf("cfile: %s %q: %w", op, f.path, fs.ErrClosed)
}
