package cfile_test

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/cfile"
	"github.com/input-output-hk/catalyst-forge-libs/cfile/billy"
)

func TestOpenRejectsEmbeddedNUL(t *testing.T) {
	fsys := cfile.New(billy.NewMemory())

	_, err := fsys.Open("bad\x00path", cfile.ReadOnly)
	require.Error(t, err)
	assert.ErrorIs(t, err, cfile.ErrBadPath)

	_, err = fsys.Open("file.txt", cfile.Mode("r\x00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, cfile.ErrBadPath)
}

func TestOpenRejectsUnknownMode(t *testing.T) {
	fsys := cfile.New(billy.NewMemory())

	_, err := fsys.Open("file.txt", cfile.Mode("rw"))
	require.Error(t, err)
	assert.Equal(t, syscall.EINVAL, cfile.Errno(err))
}

func TestErrnoFromNativeOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	_, err := cfile.Open(path, cfile.RandomAccess)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, syscall.ENOENT, cfile.Errno(err))
}

func TestErrnoZeroWithoutNativeCode(t *testing.T) {
	assert.Equal(t, syscall.Errno(0), cfile.Errno(cfile.ErrBadPath))
	assert.Equal(t, syscall.Errno(0), cfile.Errno(&cfile.EOFError{BytesRead: 3}))

	// In-memory backends report plain errors with no errno behind them.
	fsys := cfile.New(billy.NewMemory())
	_, err := fsys.Open("absent.txt", cfile.RandomAccess)
	require.Error(t, err)
	assert.Equal(t, syscall.Errno(0), cfile.Errno(err))
}

func TestEOFErrorMatchesUnexpectedEOF(t *testing.T) {
	err := error(&cfile.EOFError{BytesRead: 12})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.NotErrorIs(t, err, io.EOF)
	assert.Equal(t, "end of file after 12 bytes", err.Error())
}

func TestWriteErrorMatchesShortWrite(t *testing.T) {
	err := error(&cfile.WriteError{BytesWritten: 5, Err: syscall.ENOSPC})
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Equal(t, syscall.ENOSPC, cfile.Errno(err))

	var writeErr *cfile.WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, 5, writeErr.BytesWritten)
}

func TestNativeRoundTripAndChmod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")

	f, err := cfile.Open(path, cfile.TruncateRandomAccess)
	require.NoError(t, err)
	require.NoError(t, f.WriteAll([]byte("Howdy folks!")))
	require.NoError(t, f.Flush())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	buf := make([]byte, 20)
	err = f.ReadExact(buf)
	var eofErr *cfile.EOFError
	require.ErrorAs(t, err, &eofErr)
	assert.Equal(t, 12, eofErr.BytesRead)
	assert.Equal(t, "Howdy folks!", string(buf[:eofErr.BytesRead]))

	require.NoError(t, f.Close())

	require.NoError(t, cfile.Chmod(path, 0o600))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, cfile.Remove(path))
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNativeCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "created.txt")

	require.NoError(t, cfile.CreateFile(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestOpenRandomAccessPropagatesCreateFailure(t *testing.T) {
	// The path names a directory, so the creation step fails for a
	// reason other than "already exists" and must be surfaced.
	path := t.TempDir()

	_, err := cfile.OpenRandomAccess(path)
	require.Error(t, err)
	assert.Equal(t, syscall.EISDIR, cfile.Errno(err))
}

func TestReadToEndGrowsOnlyAsNeeded(t *testing.T) {
	fsys := cfile.New(billy.NewMemory())
	payload := []byte("0123456789abcdef0123456789abcdef")

	f, err := fsys.Open("grow.txt", cfile.TruncateRandomAccess)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	require.NoError(t, f.WriteAll(payload))
	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	small := make([]byte, 0, 8)
	n, err := f.ReadToEnd(&small)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, small[:n])

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	big := make([]byte, 64)
	n, err = f.ReadToEnd(&big)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Len(t, big, 64)
	assert.Equal(t, payload, big[:n])
}

func TestLockUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.txt")

	f, err := cfile.Open(path, cfile.TruncateRandomAccess)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	require.NoError(t, f.Lock())
	require.NoError(t, f.Unlock())
}

func TestRawScopedAccess(t *testing.T) {
	fsys := cfile.New(billy.NewMemory())

	f, err := fsys.Open("raw.txt", cfile.TruncateRandomAccess)
	require.NoError(t, err)

	var name string
	require.NoError(t, f.Raw(func(s cfile.Stream) error {
		name = s.Name()
		return nil
	}))
	assert.Equal(t, "raw.txt", filepath.Base(name))

	require.NoError(t, f.Close())
	err = f.Raw(func(cfile.Stream) error { return nil })
	assert.ErrorIs(t, err, fs.ErrClosed)
}

func TestPathIsStored(t *testing.T) {
	fsys := cfile.New(billy.NewMemory())

	f, err := fsys.Open("stored.txt", cfile.TruncateRandomAccess)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, "stored.txt", f.Path())
}

func TestExists(t *testing.T) {
	fsys := cfile.New(billy.NewMemory())

	ok, err := fsys.Exists("nothing.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, fsys.CreateFile("something.txt"))
	ok, err = fsys.Exists("something.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}
