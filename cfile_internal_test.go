package cfile

import (
	"os"
	"testing"
)

func TestModeFlag(t *testing.T) {
	cases := []struct {
		mode Mode
		want int
		ok   bool
	}{
		{ReadOnly, os.O_RDONLY, true},
		{WriteOnly, os.O_WRONLY | os.O_CREATE | os.O_TRUNC, true},
		{AppendOnly, os.O_WRONLY | os.O_CREATE | os.O_APPEND, true},
		{AppendRead, os.O_RDWR | os.O_CREATE | os.O_APPEND, true},
		{RandomAccess, os.O_RDWR, true},
		{TruncateRandomAccess, os.O_RDWR | os.O_CREATE | os.O_TRUNC, true},
		{Mode("rw"), 0, false},
		{Mode(""), 0, false},
	}
	for _, c := range cases {
		got, ok := c.mode.flag()
		if ok != c.ok || got != c.want {
			t.Errorf("Mode(%q).flag() = (%#x, %v), want (%#x, %v)", c.mode, got, ok, c.want, c.ok)
		}
	}
}

func TestGrowBuffer(t *testing.T) {
	t.Run("extends short buffer", func(t *testing.T) {
		buf := make([]byte, 2)
		growBuffer(&buf, 8)
		if len(buf) != 8 {
			t.Errorf("len = %d, want 8", len(buf))
		}
	})

	t.Run("keeps prefix on reallocation", func(t *testing.T) {
		buf := []byte{1, 2, 3}
		growBuffer(&buf, 6)
		if len(buf) != 6 {
			t.Fatalf("len = %d, want 6", len(buf))
		}
		if buf[0] != 1 || buf[1] != 2 || buf[2] != 3 {
			t.Errorf("prefix = %v, want [1 2 3]", buf[:3])
		}
	})

	t.Run("reuses spare capacity", func(t *testing.T) {
		buf := make([]byte, 2, 16)
		growBuffer(&buf, 10)
		if len(buf) != 10 || cap(buf) != 16 {
			t.Errorf("len, cap = %d, %d, want 10, 16", len(buf), cap(buf))
		}
	})

	t.Run("leaves longer buffer alone", func(t *testing.T) {
		buf := make([]byte, 12)
		growBuffer(&buf, 4)
		if len(buf) != 12 {
			t.Errorf("len = %d, want 12", len(buf))
		}
	})
}
