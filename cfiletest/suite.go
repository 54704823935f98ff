// Package cfiletest provides a conformance test suite for validating
// backend implementations against the cfile handle contracts.
//
// This package contains test functions that can be imported and executed
// by backend packages to verify they correctly implement the
// cfile.Backend interface. The suite validates the handle contract, not
// backend-specific behavior: permission bits and OS error codes are left
// to backend-specific tests.
//
// Example usage:
//
//	func TestMyBackend(t *testing.T) {
//	    cfiletest.TestSuite(t, func(t *testing.T) cfile.Backend {
//	        return mybackend.New()
//	    })
//	}
package cfiletest

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/cfile"
)

// TestSuite runs all handle conformance tests against a backend. The
// newBackend function should return a fresh, empty backend for each
// test; tests create and remove files, so each invocation should start
// clean.
func TestSuite(t *testing.T, newBackend func(t *testing.T) cfile.Backend) {
	run := func(name string, fn func(t *testing.T, fsys *cfile.FS)) {
		t.Run(name, func(t *testing.T) {
			fn(t, cfile.New(newBackend(t)))
		})
	}

	run("RoundTrip", testRoundTrip)
	run("ReadExactPartial", testReadExactPartial)
	run("ReadAtEndOfFile", testReadAtEndOfFile)
	run("ReadToEndTail", testReadToEndTail)
	run("ReadToEndAtEnd", testReadToEndAtEnd)
	run("SeekOrigins", testSeekOrigins)
	run("DoubleClose", testDoubleClose)
	run("ClosedHandleOps", testClosedHandleOps)
	run("Delete", testDelete)
	run("CreateFile", testCreateFile)
	run("OpenRandomAccess", testOpenRandomAccess)
	run("UpdateRequiresExisting", testUpdateRequiresExisting)
	run("WriteOnlyTruncates", testWriteOnlyTruncates)
	run("Truncate", testTruncate)
}

// testRoundTrip writes N bytes in truncate mode, seeks back to the
// start and reads the same N bytes.
func testRoundTrip(t *testing.T, fsys *cfile.FS) {
	payload := []byte("some bytes worth keeping")

	f, err := fsys.Open("round.txt", cfile.TruncateRandomAccess)
	if err != nil {
		t.Fatalf("Open(round.txt): got error %v, want nil", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			t.Errorf("Close(): got error %v", closeErr)
		}
	}()

	if err := f.WriteAll(payload); err != nil {
		t.Fatalf("WriteAll(): got error %v, want nil", err)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush(): got error %v, want nil", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek(0, start): got error %v, want nil", err)
	}

	got := make([]byte, len(payload))
	if err := f.ReadExact(got); err != nil {
		t.Fatalf("ReadExact(): got error %v, want nil", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("ReadExact(): got %q, want %q", got, payload)
	}
}

// testReadExactPartial reads into a buffer larger than the file and
// expects an end-of-file report carrying the partial count, with the
// prefix bytes populated.
func testReadExactPartial(t *testing.T, fsys *cfile.FS) {
	payload := []byte("Howdy folks!")

	f, err := fsys.Open("data.txt", cfile.TruncateRandomAccess)
	if err != nil {
		t.Fatalf("Open(data.txt): got error %v, want nil", err)
	}
	defer func() { _ = f.Close() }()

	if err := f.WriteAll(payload); err != nil {
		t.Fatalf("WriteAll(): got error %v, want nil", err)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush(): got error %v, want nil", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek(0, start): got error %v, want nil", err)
	}

	buf := make([]byte, 20)
	err = f.ReadExact(buf)
	var eofErr *cfile.EOFError
	if !errors.As(err, &eofErr) {
		t.Fatalf("ReadExact(): got error %v, want *cfile.EOFError", err)
	}
	if eofErr.BytesRead != len(payload) {
		t.Errorf("ReadExact(): BytesRead = %d, want %d", eofErr.BytesRead, len(payload))
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadExact(): error does not match io.ErrUnexpectedEOF")
	}
	if !bytes.Equal(buf[:len(payload)], payload) {
		t.Errorf("ReadExact(): prefix = %q, want %q", buf[:len(payload)], payload)
	}
}

// testReadAtEndOfFile checks the plain Read contract: a short read at
// the end of the file is not a taxonomy error, and the next read
// reports io.EOF.
func testReadAtEndOfFile(t *testing.T, fsys *cfile.FS) {
	payload := []byte("tail data")

	f, err := fsys.Open("read.txt", cfile.TruncateRandomAccess)
	if err != nil {
		t.Fatalf("Open(read.txt): got error %v, want nil", err)
	}
	defer func() { _ = f.Close() }()

	if err := f.WriteAll(payload); err != nil {
		t.Fatalf("WriteAll(): got error %v, want nil", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek(0, start): got error %v, want nil", err)
	}

	buf := make([]byte, len(payload)+8)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("Read(): got error %v, want nil or EOF", err)
	}
	if n != len(payload) {
		t.Errorf("Read(): read %d bytes, want %d", n, len(payload))
	}
	if !bytes.Equal(buf[:n], payload) {
		t.Errorf("Read(): got %q, want %q", buf[:n], payload)
	}

	n, err = f.Read(buf)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("Read() at end: got (%d, %v), want (0, io.EOF)", n, err)
	}
}

// testReadToEndTail reads from position P of an L-byte file and expects
// exactly L-P bytes equal to the file's tail.
func testReadToEndTail(t *testing.T, fsys *cfile.FS) {
	payload := []byte("abcdefghij")
	const pos = 4

	f, err := fsys.Open("tail.txt", cfile.TruncateRandomAccess)
	if err != nil {
		t.Fatalf("Open(tail.txt): got error %v, want nil", err)
	}
	defer func() { _ = f.Close() }()

	if err := f.WriteAll(payload); err != nil {
		t.Fatalf("WriteAll(): got error %v, want nil", err)
	}
	if _, err := f.Seek(pos, io.SeekStart); err != nil {
		t.Fatalf("Seek(%d, start): got error %v, want nil", pos, err)
	}

	var buf []byte
	n, err := f.ReadToEnd(&buf)
	if err != nil {
		t.Fatalf("ReadToEnd(): got error %v, want nil", err)
	}
	if n != len(payload)-pos {
		t.Errorf("ReadToEnd(): got %d bytes, want %d", n, len(payload)-pos)
	}
	if !bytes.Equal(buf[:n], payload[pos:]) {
		t.Errorf("ReadToEnd(): got %q, want %q", buf[:n], payload[pos:])
	}
}

// testReadToEndAtEnd checks that ReadToEnd at the end of the file
// returns 0 and leaves the caller's buffer alone.
func testReadToEndAtEnd(t *testing.T, fsys *cfile.FS) {
	f, err := fsys.Open("end.txt", cfile.TruncateRandomAccess)
	if err != nil {
		t.Fatalf("Open(end.txt): got error %v, want nil", err)
	}
	defer func() { _ = f.Close() }()

	if err := f.WriteAll([]byte("payload")); err != nil {
		t.Fatalf("WriteAll(): got error %v, want nil", err)
	}

	// The write left the position at the end of the file.
	buf := make([]byte, 3)
	n, err := f.ReadToEnd(&buf)
	if err != nil {
		t.Fatalf("ReadToEnd(): got error %v, want nil", err)
	}
	if n != 0 {
		t.Errorf("ReadToEnd() at end: got %d bytes, want 0", n)
	}
	if len(buf) != 3 {
		t.Errorf("ReadToEnd() at end: buffer length = %d, want 3", len(buf))
	}
}

// testSeekOrigins checks all three origins against CurrentPos.
func testSeekOrigins(t *testing.T, fsys *cfile.FS) {
	f, err := fsys.Open("seek.txt", cfile.TruncateRandomAccess)
	if err != nil {
		t.Fatalf("Open(seek.txt): got error %v, want nil", err)
	}
	defer func() { _ = f.Close() }()

	if err := f.WriteAll([]byte("0123456789")); err != nil {
		t.Fatalf("WriteAll(): got error %v, want nil", err)
	}

	checks := []struct {
		name   string
		offset int64
		whence int
		want   int64
	}{
		{"Start", 2, io.SeekStart, 2},
		{"End", -3, io.SeekEnd, 7},
		{"Current", 1, io.SeekCurrent, 8},
	}
	for _, c := range checks {
		pos, err := f.Seek(c.offset, c.whence)
		if err != nil {
			t.Fatalf("Seek(%d, %s): got error %v, want nil", c.offset, c.name, err)
		}
		if pos != c.want {
			t.Errorf("Seek(%d, %s): got %d, want %d", c.offset, c.name, pos, c.want)
		}
		cur, err := f.CurrentPos()
		if err != nil {
			t.Fatalf("CurrentPos(): got error %v, want nil", err)
		}
		if cur != c.want {
			t.Errorf("CurrentPos() after Seek(%d, %s): got %d, want %d", c.offset, c.name, cur, c.want)
		}
	}
}

// testDoubleClose closes a handle twice and expects no error either
// time.
func testDoubleClose(t *testing.T, fsys *cfile.FS) {
	f, err := fsys.Open("close.txt", cfile.TruncateRandomAccess)
	if err != nil {
		t.Fatalf("Open(close.txt): got error %v, want nil", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second Close(): got error %v, want nil", err)
	}
}

// testClosedHandleOps checks that every operation on a closed handle
// reports fs.ErrClosed instead of touching a dangling stream.
func testClosedHandleOps(t *testing.T, fsys *cfile.FS) {
	f, err := fsys.Open("closed.txt", cfile.TruncateRandomAccess)
	if err != nil {
		t.Fatalf("Open(closed.txt): got error %v, want nil", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}

	buf := make([]byte, 4)
	ops := []struct {
		name string
		call func() error
	}{
		{"Read", func() error { _, err := f.Read(buf); return err }},
		{"ReadExact", func() error { return f.ReadExact(buf) }},
		{"Write", func() error { _, err := f.Write(buf); return err }},
		{"WriteAll", func() error { return f.WriteAll(buf) }},
		{"Seek", func() error { _, err := f.Seek(0, io.SeekStart); return err }},
		{"CurrentPos", func() error { _, err := f.CurrentPos(); return err }},
		{"Flush", func() error { return f.Flush() }},
		{"Truncate", func() error { return f.Truncate(0) }},
		{"Raw", func() error { return f.Raw(func(cfile.Stream) error { return nil }) }},
	}
	for _, op := range ops {
		if err := op.call(); !errors.Is(err, fs.ErrClosed) {
			t.Errorf("%s on closed handle: got %v, want fs.ErrClosed", op.name, err)
		}
	}
}

// testDelete removes an open file by its stored path.
func testDelete(t *testing.T, fsys *cfile.FS) {
	f, err := fsys.Open("doomed.txt", cfile.TruncateRandomAccess)
	if err != nil {
		t.Fatalf("Open(doomed.txt): got error %v, want nil", err)
	}
	if err := f.WriteAll([]byte("short lived")); err != nil {
		t.Fatalf("WriteAll(): got error %v, want nil", err)
	}
	if err := f.Delete(); err != nil {
		t.Fatalf("Delete(): got error %v, want nil", err)
	}

	ok, err := fsys.Exists("doomed.txt")
	if err != nil {
		t.Fatalf("Exists(doomed.txt): got error %v, want nil", err)
	}
	if ok {
		t.Errorf("Exists(doomed.txt) after Delete: got true, want false")
	}
	if _, err := fsys.Open("doomed.txt", cfile.ReadOnly); err == nil {
		t.Errorf("Open(doomed.txt) after Delete: got nil error, want failure")
	}
}

// testCreateFile creates an empty file and leaves an existing one
// untouched.
func testCreateFile(t *testing.T, fsys *cfile.FS) {
	if err := fsys.CreateFile("created.txt"); err != nil {
		t.Fatalf("CreateFile(created.txt): got error %v, want nil", err)
	}
	ok, err := fsys.Exists("created.txt")
	if err != nil {
		t.Fatalf("Exists(created.txt): got error %v, want nil", err)
	}
	if !ok {
		t.Fatalf("Exists(created.txt): got false, want true")
	}

	// Seed a file with content, then ensure CreateFile is a no-op on it.
	f, err := fsys.Open("kept.txt", cfile.TruncateRandomAccess)
	if err != nil {
		t.Fatalf("Open(kept.txt): got error %v, want nil", err)
	}
	if err := f.WriteAll([]byte("keep")); err != nil {
		t.Fatalf("WriteAll(): got error %v, want nil", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}
	if err := fsys.CreateFile("kept.txt"); err != nil {
		t.Fatalf("CreateFile(kept.txt): got error %v, want nil", err)
	}

	f, err = fsys.Open("kept.txt", cfile.ReadOnly)
	if err != nil {
		t.Fatalf("Open(kept.txt, r): got error %v, want nil", err)
	}
	defer func() { _ = f.Close() }()
	var buf []byte
	n, err := f.ReadToEnd(&buf)
	if err != nil {
		t.Fatalf("ReadToEnd(): got error %v, want nil", err)
	}
	if string(buf[:n]) != "keep" {
		t.Errorf("content after CreateFile on existing file: got %q, want %q", buf[:n], "keep")
	}
}

// testOpenRandomAccess creates a missing file and preserves the content
// of an existing one.
func testOpenRandomAccess(t *testing.T, fsys *cfile.FS) {
	f, err := fsys.OpenRandomAccess("fresh.txt")
	if err != nil {
		t.Fatalf("OpenRandomAccess(fresh.txt): got error %v, want nil", err)
	}
	if err := f.WriteAll([]byte("content")); err != nil {
		t.Fatalf("WriteAll(): got error %v, want nil", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}

	f, err = fsys.OpenRandomAccess("fresh.txt")
	if err != nil {
		t.Fatalf("OpenRandomAccess(fresh.txt) again: got error %v, want nil", err)
	}
	defer func() { _ = f.Close() }()
	var buf []byte
	n, err := f.ReadToEnd(&buf)
	if err != nil {
		t.Fatalf("ReadToEnd(): got error %v, want nil", err)
	}
	if string(buf[:n]) != "content" {
		t.Errorf("OpenRandomAccess on existing file: content = %q, want %q", buf[:n], "content")
	}
}

// testUpdateRequiresExisting checks that plain update mode does not
// create the file.
func testUpdateRequiresExisting(t *testing.T, fsys *cfile.FS) {
	_, err := fsys.Open("absent.txt", cfile.RandomAccess)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(absent.txt, rb+): got %v, want fs.ErrNotExist", err)
	}
}

// testWriteOnlyTruncates checks that write-only mode truncates existing
// content.
func testWriteOnlyTruncates(t *testing.T, fsys *cfile.FS) {
	f, err := fsys.Open("trunc.txt", cfile.WriteOnly)
	if err != nil {
		t.Fatalf("Open(trunc.txt, w): got error %v, want nil", err)
	}
	if err := f.WriteAll([]byte("old content")); err != nil {
		t.Fatalf("WriteAll(): got error %v, want nil", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}

	f, err = fsys.Open("trunc.txt", cfile.WriteOnly)
	if err != nil {
		t.Fatalf("reopen Open(trunc.txt, w): got error %v, want nil", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}

	f, err = fsys.Open("trunc.txt", cfile.ReadOnly)
	if err != nil {
		t.Fatalf("Open(trunc.txt, r): got error %v, want nil", err)
	}
	defer func() { _ = f.Close() }()
	var buf []byte
	n, err := f.ReadToEnd(&buf)
	if err != nil {
		t.Fatalf("ReadToEnd(): got error %v, want nil", err)
	}
	if n != 0 {
		t.Errorf("content after truncating reopen: got %d bytes, want 0", n)
	}
}

// testTruncate shrinks a file in place.
func testTruncate(t *testing.T, fsys *cfile.FS) {
	f, err := fsys.Open("shrink.txt", cfile.TruncateRandomAccess)
	if err != nil {
		t.Fatalf("Open(shrink.txt): got error %v, want nil", err)
	}
	defer func() { _ = f.Close() }()

	if err := f.WriteAll([]byte("0123456789")); err != nil {
		t.Fatalf("WriteAll(): got error %v, want nil", err)
	}
	if err := f.Truncate(4); err != nil {
		t.Fatalf("Truncate(4): got error %v, want nil", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek(0, start): got error %v, want nil", err)
	}

	var buf []byte
	n, err := f.ReadToEnd(&buf)
	if err != nil {
		t.Fatalf("ReadToEnd(): got error %v, want nil", err)
	}
	if string(buf[:n]) != "0123" {
		t.Errorf("content after Truncate(4): got %q, want %q", buf[:n], "0123")
	}
}
