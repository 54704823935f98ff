package billy_test

import (
	"errors"
	"testing"

	gobilly "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/input-output-hk/catalyst-forge-libs/cfile"
	"github.com/input-output-hk/catalyst-forge-libs/cfile/billy"
	"github.com/input-output-hk/catalyst-forge-libs/cfile/cfiletest"
)

func TestMemoryBackend(t *testing.T) {
	cfiletest.TestSuite(t, func(t *testing.T) cfile.Backend {
		return billy.NewMemory()
	})
}

func TestOSBackend(t *testing.T) {
	cfiletest.TestSuite(t, func(t *testing.T) cfile.Backend {
		return billy.NewOS(t.TempDir())
	})
}

func TestWrappedFilesystem(t *testing.T) {
	cfiletest.TestSuite(t, func(t *testing.T) cfile.Backend {
		return billy.New(memfs.New())
	})
}

func TestChmodNotSupported(t *testing.T) {
	fsys := cfile.New(billy.NewMemory())
	if err := fsys.CreateFile("file.txt"); err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	err := fsys.Chmod("file.txt", 0o600)
	if !errors.Is(err, gobilly.ErrNotSupported) {
		t.Errorf("Chmod on memfs: got %v, want billy.ErrNotSupported", err)
	}
}
