package safety

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestCheckTargetBlocksRoot(t *testing.T) {
	g := NewGuard(nil)
	if err := g.CheckTarget("/"); !errors.Is(err, ErrProtectedPath) {
		t.Errorf("CheckTarget(/) = %v, want ErrProtectedPath", err)
	}
}

func TestCheckTargetBlocksProtectedSystemPaths(t *testing.T) {
	g := NewGuard(nil)
	for _, p := range []string{"/etc", "/etc/passwd", "/usr/bin", "/boot"} {
		if err := g.CheckTarget(p); !errors.Is(err, ErrProtectedPath) {
			t.Errorf("CheckTarget(%q) = %v, want ErrProtectedPath", p, err)
		}
	}
}

func TestCheckTargetBlocksExtraProtected(t *testing.T) {
	g := NewGuard([]string{"/srv/keep"})
	if err := g.CheckTarget("/srv/keep/sub"); !errors.Is(err, ErrProtectedPath) {
		t.Errorf("extra protected path not enforced: %v", err)
	}
	if err := g.CheckTarget("/srv/other"); err != nil {
		t.Errorf("sibling of protected path blocked: %v", err)
	}
}

func TestCheckTargetBlocksTraversal(t *testing.T) {
	g := NewGuard(nil)
	if err := g.CheckTarget("/tmp/a/../../etc"); !errors.Is(err, ErrTraversal) {
		t.Errorf("traversal not detected: %v", err)
	}
}

func TestCheckTargetRejectsEmpty(t *testing.T) {
	g := NewGuard(nil)
	if err := g.CheckTarget("  "); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("CheckTarget(blank) = %v, want ErrInvalidPath", err)
	}
}

func TestCheckTargetAllowsOrdinaryPaths(t *testing.T) {
	g := NewGuard(nil)
	tmp := t.TempDir()
	for _, p := range []string{filepath.Join(tmp, "x"), "/tmp/build-artifacts", "/var/tmp/cache"} {
		if err := g.CheckTarget(p); err != nil {
			t.Errorf("CheckTarget(%q) = %v, want nil", p, err)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	got, err := NormalizePath("/tmp//x/./y")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/x/y" {
		t.Errorf("NormalizePath = %q", got)
	}
}
