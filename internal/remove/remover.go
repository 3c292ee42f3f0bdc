// Package remove implements the resilient removal engine: a directory-tree
// walker and single-entry remover that classify filesystem errors, retry the
// transient ones under a backoff policy, and apply a one-shot Windows
// permission repair before giving up on EPERM.
package remove

import (
	"errors"
	"path/filepath"
	"sync/atomic"
	"time"

	"saferm/internal/backoff"
	"saferm/internal/fserr"
	"saferm/internal/fsops"
)

// ErrRootPath is returned for an attempt to remove the filesystem root
var ErrRootPath = errors.New("refusing to remove filesystem root")

// Remover drives removals for one configuration. Safe for concurrent use;
// each Remove call owns its own walk state.
type Remover struct {
	opts   Options
	fs     fsops.FS
	policy backoff.Policy
	sleep  func(time.Duration)

	files   atomic.Int64
	dirs    atomic.Int64
	retries atomic.Int64
	repairs atomic.Int64
}

// Stats is a snapshot of a Remover's lifetime counters
type Stats struct {
	Files   int64
	Dirs    int64
	Retries int64
	Repairs int64
}

// New builds a Remover, filling unset Options fields with the profile
// defaults
func New(opts Options) *Remover {
	if opts.FS == nil {
		opts.FS = fsops.OSFS{}
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Policy == nil {
		opts.Policy = backoff.Fixed{Base: opts.RetryDelay}
	}
	return &Remover{
		opts:   opts,
		fs:     opts.FS,
		policy: opts.Policy,
		sleep:  time.Sleep,
	}
}

// Remove deletes path: a file or symlink as itself, a directory tree when
// Recursive is set. Exactly one outcome is returned per call; all retrying
// happens inside leaf operations.
func (r *Remover) Remove(path string) error {
	if isRootPath(path) {
		return ErrRootPath
	}

	info, err := r.fs.Lstat(path)
	if err != nil {
		if fserr.Classify(err) == fserr.NotFound {
			if r.opts.Force {
				return nil
			}
		}
		return err
	}

	// Symlinks are removed as themselves, never dereferenced. A broken link
	// lstats fine and unlinks fine; a stat-then-remove-target approach would
	// error out on it.
	if !info.IsDir() {
		return r.removeEntry(path, false)
	}

	if !r.opts.Recursive {
		return fserr.IsDirError(path)
	}
	if r.opts.Sequential {
		return r.removeTree(path)
	}
	return r.removeTreeParallel(path)
}

// Stats returns a snapshot of the lifetime counters
func (r *Remover) Stats() Stats {
	return Stats{
		Files:   r.files.Load(),
		Dirs:    r.dirs.Load(),
		Retries: r.retries.Load(),
		Repairs: r.repairs.Load(),
	}
}

func isRootPath(path string) bool {
	if path == "" {
		return true
	}
	clean := filepath.Clean(path)
	if clean == "/" {
		return true
	}
	// Windows volume roots such as C:\
	vol := filepath.VolumeName(clean)
	return vol != "" && len(clean) <= len(vol)+1
}
