package remove

import (
	"io/fs"
	"path/filepath"
	"sync"

	"saferm/internal/fserr"
)

// removeTree removes the contents of a directory and then the directory
// itself, one child at a time on the calling goroutine
func (r *Remover) removeTree(path string) error {
	entries, err := r.fs.ReadDir(path)
	if err != nil {
		// The directory may vanish between validation and enumeration;
		// same force semantics as a leaf
		if fserr.Classify(err) == fserr.NotFound && r.opts.Force {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := r.removeChild(path, entry); err != nil {
			return err
		}
	}
	return r.removeEntry(path, true)
}

// removeTreeParallel fans out over the immediate children of a directory,
// waits for every child to settle, and removes the directory only when no
// error was latched. Exactly one terminal outcome is produced per level;
// later-arriving sibling failures are observed but discarded.
func (r *Remover) removeTreeParallel(path string) error {
	entries, err := r.fs.ReadDir(path)
	if err != nil {
		if fserr.Classify(err) == fserr.NotFound && r.opts.Force {
			return nil
		}
		return err
	}

	var (
		wg    sync.WaitGroup
		latch errorLatch
	)
	for _, entry := range entries {
		wg.Add(1)
		go func(entry fs.DirEntry) {
			defer wg.Done()
			if err := r.removeChildParallel(path, entry); err != nil {
				latch.set(err)
			}
		}(entry)
	}
	wg.Wait()

	if err := latch.get(); err != nil {
		return err
	}
	return r.removeEntry(path, true)
}

func (r *Remover) removeChild(parent string, entry fs.DirEntry) error {
	child := filepath.Join(parent, entry.Name())
	// Directory entry types come from the enumeration itself, so a symlink
	// child is seen as a link and unlinked, never walked into
	if entry.IsDir() {
		return r.removeTree(child)
	}
	return r.removeEntry(child, false)
}

func (r *Remover) removeChildParallel(parent string, entry fs.DirEntry) error {
	child := filepath.Join(parent, entry.Name())
	if entry.IsDir() {
		return r.removeTreeParallel(child)
	}
	return r.removeEntry(child, false)
}

// errorLatch keeps the first error set and ignores the rest. Guards the
// single terminal signal of a directory-level walk.
type errorLatch struct {
	mu  sync.Mutex
	err error
}

func (l *errorLatch) set(err error) {
	l.mu.Lock()
	if l.err == nil {
		l.err = err
	}
	l.mu.Unlock()
}

func (l *errorLatch) get() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
