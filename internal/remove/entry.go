package remove

import (
	"saferm/internal/fserr"
)

// removeEntry removes exactly one file/symlink or one already-empty
// directory, retrying transient failures up to MaxRetries times. The attempt
// counter is 0-based and bounded inclusively, so at most MaxRetries+1
// underlying calls are made. Never shared across sibling entries.
func (r *Remover) removeEntry(path string, dir bool) error {
	repaired := false
	for attempt := 0; ; attempt++ {
		var err error
		if dir {
			err = r.fs.RemoveDir(path)
		} else {
			err = r.fs.Remove(path)
		}
		if err == nil {
			if dir {
				r.dirs.Add(1)
			} else {
				r.files.Add(1)
			}
			return nil
		}

		switch fserr.Classify(err) {
		case fserr.NotFound:
			// Resolved by force, never by retry accounting
			if r.opts.Force {
				return nil
			}
			return err
		case fserr.Retryable:
			// One-shot permission repair on EPERM, Windows semantics only.
			// Succeeding here bypasses the retry counter; failing discards
			// the repair error and leaves the original EPERM in play.
			if r.opts.Windows && !repaired && fserr.IsNotPermitted(err) {
				repaired = true
				if r.repairPermission(path) == nil {
					r.repairs.Add(1)
					return nil
				}
			}
			if attempt < r.opts.MaxRetries {
				r.retries.Add(1)
				if r.opts.OnRetry != nil {
					r.opts.OnRetry(path, attempt, err)
				}
				r.sleep(r.policy.Delay(attempt))
				continue
			}
			return err
		default:
			// Fatal: surfaced immediately, no retry slot consumed
			return err
		}
	}
}

// repairPermission makes a stubborn entry removable and removes it: chmod to
// a permissive mode, re-stat, then rmdir or unlink by actual type. Callers
// discard this function's error in favor of the original trigger.
func (r *Remover) repairPermission(path string) error {
	if err := r.fs.Chmod(path, 0o666); err != nil {
		return err
	}
	info, err := r.fs.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if err := r.fs.RemoveDir(path); err != nil {
			return err
		}
		r.dirs.Add(1)
		return nil
	}
	if err := r.fs.Remove(path); err != nil {
		return err
	}
	r.files.Add(1)
	return nil
}
