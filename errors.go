package cfile

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

// ErrBadPath reports a path or mode string that cannot be represented by
// the native layer, such as one containing an embedded NUL byte.
var ErrBadPath = errors.New("invalid path or mode")

// EOFError reports that a fixed-size read reached the end of the file
// before the buffer was filled. BytesRead bytes were still placed at the
// front of the buffer.
//
// EOFError matches io.ErrUnexpectedEOF under errors.Is.
type EOFError struct {
	BytesRead int
}

func (e *EOFError) Error() string {
	return fmt.Sprintf("end of file after %d bytes", e.BytesRead)
}

func (e *EOFError) Is(target error) bool {
	return target == io.ErrUnexpectedEOF
}

// WriteError reports a write that did not consume the whole input.
// BytesWritten bytes were written before the underlying error occurred;
// Err carries the native failure when the backend reported one.
//
// WriteError matches io.ErrShortWrite under errors.Is.
type WriteError struct {
	BytesWritten int
	Err          error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("short write after %d bytes: %v", e.BytesWritten, e.Err)
	}
	return fmt.Sprintf("short write after %d bytes", e.BytesWritten)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool {
	return target == io.ErrShortWrite
}

// Errno recovers the OS error code from an error chain produced by this
// package. It returns 0 when the chain carries no native code, which is
// the case for purely in-memory backends and for the non-OS taxonomy
// values (ErrBadPath, EOFError). The code renders to its strerror text
// via syscall.Errno.Error.
func Errno(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return 0
}
