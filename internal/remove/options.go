package remove

import (
	"runtime"
	"time"

	"saferm/internal/backoff"
	"saferm/internal/fsops"
)

// DefaultRetryDelay is the base backoff delay both profiles start from
const DefaultRetryDelay = 100 * time.Millisecond

// safeWindowsRetries is the safe-profile retry budget on the Windows family,
// where antivirus scanners and lazy file locks make transient EBUSY/EPERM
// common enough to be worth riding out
const safeWindowsRetries = 10

// Options configures a Remover. The zero value is not usable; start from
// Strict() or Safe() and override fields as needed.
type Options struct {
	// Recursive permits removing directory targets. A directory target with
	// Recursive false always fails with EISDIR, regardless of Force.
	Recursive bool

	// Force turns not-found conditions into successes, both for the target
	// itself and for tree members that vanish mid-walk
	Force bool

	// MaxRetries bounds the 0-based attempt counter inclusively: a leaf
	// operation makes at most MaxRetries+1 underlying calls
	MaxRetries int

	// RetryDelay is the base delay fed to the backoff policy
	RetryDelay time.Duration

	// Sequential selects the single-goroutine walker; the default walker
	// fans out over each directory level
	Sequential bool

	// Windows enables the one-shot chmod-then-remove permission repair on
	// EPERM. Computed once at construction, never read ambiently.
	Windows bool

	// FS is the filesystem the engine mutates through; defaults to the OS
	FS fsops.FS

	// Policy computes backoff delays; defaults per profile
	Policy backoff.Policy

	// OnRetry, when set, observes every consumed retry slot
	OnRetry func(path string, attempt int, err error)
}

// Strict returns the exact-match profile: no recursion, no force, no
// retries, fixed-delay backoff
func Strict() Options {
	return Options{
		RetryDelay: DefaultRetryDelay,
		FS:         fsops.OSFS{},
		Policy:     backoff.Fixed{Base: DefaultRetryDelay},
	}
}

// Safe returns the tolerant profile: recursive, forced, exponential backoff,
// and a retry budget on the Windows platform family
func Safe() Options {
	return safeFor(runtime.GOOS)
}

// safeFor computes safe-profile defaults for an explicit platform so the
// divergence is decided once, at construction
func safeFor(goos string) Options {
	opts := Options{
		Recursive:  true,
		Force:      true,
		RetryDelay: DefaultRetryDelay,
		Windows:    goos == "windows",
		FS:         fsops.OSFS{},
		Policy:     backoff.Exponential{Base: DefaultRetryDelay},
	}
	if opts.Windows {
		opts.MaxRetries = safeWindowsRetries
	}
	return opts
}
