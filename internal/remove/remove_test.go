package remove

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"saferm/internal/fserr"
)

// buildTree creates the canonical fixture: two levels, three files, one
// empty subdirectory — five entries under root
func buildTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "tree")
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"a.txt", "b.txt", filepath.Join("sub", "c.txt")} {
		if err := os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestRemoveMissingTarget(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	opts := Strict()
	opts.Force = true
	if err := New(opts).Remove(missing); err != nil {
		t.Errorf("force=true on missing target: unexpected error %v", err)
	}

	err := New(Strict()).Remove(missing)
	if err == nil {
		t.Fatal("force=false on missing target: expected error")
	}
	if fserr.Classify(err) != fserr.NotFound {
		t.Errorf("classification = %v, want NotFound", fserr.Classify(err))
	}
}

func TestRemoveMissingTargetRecursive(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	opts := Safe()
	if err := New(opts).Remove(missing); err != nil {
		t.Errorf("safe profile on missing target: unexpected error %v", err)
	}
}

func TestRemoveSingleFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := New(Strict())
	if err := r.Remove(file); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Lstat(file); !os.IsNotExist(err) {
		t.Error("file still present")
	}
	if s := r.Stats(); s.Files != 1 || s.Dirs != 0 {
		t.Errorf("stats = %+v, want one file", s)
	}
}

// TestDirectoryWithoutRecursive proves the opt-in rule: EISDIR, filesystem
// untouched, and the same failure on repetition
func TestDirectoryWithoutRecursive(t *testing.T) {
	root := buildTree(t)
	opts := Strict()
	opts.Force = true // force must not override the recursion rule
	r := New(opts)

	for i := 0; i < 2; i++ {
		err := r.Remove(root)
		if err == nil {
			t.Fatalf("call %d: expected EISDIR", i)
		}
		if fserr.Classify(err) != fserr.IllegalOnDirectory {
			t.Fatalf("call %d: classification = %v, want IllegalOnDirectory", i, fserr.Classify(err))
		}
	}

	// Original contents are still there
	if _, err := os.Stat(filepath.Join(root, "sub", "c.txt")); err != nil {
		t.Errorf("tree was touched: %v", err)
	}
}

func TestRemoveTree(t *testing.T) {
	for _, sequential := range []bool{false, true} {
		name := "parallel"
		if sequential {
			name = "sequential"
		}
		t.Run(name, func(t *testing.T) {
			root := buildTree(t)
			opts := Safe()
			opts.Sequential = sequential
			r := New(opts)

			if err := r.Remove(root); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if _, err := os.Lstat(root); !os.IsNotExist(err) {
				t.Fatal("root still present")
			}
			s := r.Stats()
			if s.Files != 3 {
				t.Errorf("files removed = %d, want 3", s.Files)
			}
			if s.Dirs != 3 { // sub, empty, root
				t.Errorf("dirs removed = %d, want 3", s.Dirs)
			}

			// Idempotent under force: the now-absent path succeeds again
			if err := r.Remove(root); err != nil {
				t.Errorf("second removal: %v", err)
			}
		})
	}
}

func TestRemoveBrokenSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "gone"), link); err != nil {
		t.Fatal(err)
	}
	if err := New(Strict()).Remove(link); err != nil {
		t.Fatalf("Remove broken symlink: %v", err)
	}
	if _, err := os.Lstat(link); !os.IsNotExist(err) {
		t.Error("link still present")
	}
}

// TestDirectorySymlinkChildNotWalked pins the nested-link decision: a live
// symlink to a directory inside a tree is unlinked, its target untouched
func TestDirectorySymlinkChildNotWalked(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	root := filepath.Join(base, "root")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(root, "link")); err != nil {
		t.Fatal(err)
	}

	if err := New(Safe()).Remove(root); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Lstat(root); !os.IsNotExist(err) {
		t.Error("root still present")
	}
	if _, err := os.Stat(filepath.Join(target, "keep.txt")); err != nil {
		t.Errorf("symlink target was walked into: %v", err)
	}
}

func TestRefusesRootPath(t *testing.T) {
	for _, p := range []string{"/", "", "///"} {
		if err := New(Safe()).Remove(p); !errors.Is(err, ErrRootPath) {
			t.Errorf("Remove(%q) = %v, want ErrRootPath", p, err)
		}
	}
}

func TestSafeProfileDefaults(t *testing.T) {
	win := safeFor("windows")
	if !win.Windows || win.MaxRetries != safeWindowsRetries {
		t.Errorf("windows defaults = %+v", win)
	}
	lin := safeFor("linux")
	if lin.Windows || lin.MaxRetries != 0 {
		t.Errorf("linux defaults = %+v", lin)
	}
	if !lin.Recursive || !lin.Force {
		t.Errorf("safe profile must be recursive and forced: %+v", lin)
	}
	strict := Strict()
	if strict.Recursive || strict.Force || strict.MaxRetries != 0 {
		t.Errorf("strict profile defaults = %+v", strict)
	}
}
