package env

import (
	"path/filepath"
	"testing"
)

func TestNewResolvesAbsolute(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New(%q) returned error: %v", dir, err)
	}
	if !filepath.IsAbs(c.WorkDir()) {
		t.Fatalf("WorkDir() = %q, want absolute path", c.WorkDir())
	}
	if got, want := c.Path("deps/src"), filepath.Join(dir, "deps", "src"); got != want {
		t.Errorf("Path(deps/src) = %q, want %q", got, want)
	}
	if got := c.Path("/opt/x/../y"); got != "/opt/y" {
		t.Errorf("Path(/opt/x/../y) = %q, want %q", got, "/opt/y")
	}
}

func TestSetFlagsWriteOnce(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if c.Probed() {
		t.Fatal("fresh context reports probed flags")
	}
	if !c.SetFlags([]string{"-I/a"}, []string{"-L/b"}) {
		t.Fatal("first SetFlags was not stored")
	}
	if c.SetFlags([]string{"-I/other"}, nil) {
		t.Fatal("second SetFlags was stored")
	}
	if got := c.CFlags(); len(got) != 1 || got[0] != "-I/a" {
		t.Errorf("CFlags() = %v, want [-I/a]", got)
	}
	if got := c.LDFlags(); len(got) != 1 || got[0] != "-L/b" {
		t.Errorf("LDFlags() = %v, want [-L/b]", got)
	}

	// callers must not be able to mutate the cached flags
	c.CFlags()[0] = "mutated"
	if got := c.CFlags()[0]; got != "-I/a" {
		t.Errorf("CFlags()[0] = %q after caller mutation", got)
	}
}

func TestClaimEntryFileOnce(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !c.ClaimEntryFile() {
		t.Fatal("first ClaimEntryFile() = false")
	}
	for i := 0; i < 3; i++ {
		if c.ClaimEntryFile() {
			t.Fatalf("ClaimEntryFile() call %d = true", i+2)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"yes", true},
		{"Y", true},
		{"TRUE", true},
		{" on ", true},
		{"1", true},
		{"", false},
		{"false", false},
		{"0", false},
		{"enable", false},
		{"yes please", false},
	}
	for _, tt := range tests {
		if got := Truthy(tt.in); got != tt.want {
			t.Errorf("Truthy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
