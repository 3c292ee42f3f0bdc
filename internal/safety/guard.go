package safety

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidPath   = errors.New("invalid path")
	ErrProtectedPath = errors.New("protected path")
	ErrTraversal     = errors.New("path traversal detected")
)

// Guard blocks removal targets that no configuration should ever reach:
// the filesystem root and a set of protected system paths
type Guard struct {
	ProtectedPaths []string
}

// NewGuard creates a guard with the base protected set plus any extras from
// configuration
func NewGuard(extraProtected []string) *Guard {
	return &Guard{ProtectedPaths: defaultProtected(extraProtected)}
}

// CheckTarget is the single source of truth for removal authorization.
// Returns a sentinel error on violation.
func (g *Guard) CheckTarget(path string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}

	if DetectTraversal(path) {
		return ErrTraversal
	}

	if IsProtectedPath(p, g.ProtectedPaths) {
		return ErrProtectedPath
	}

	return nil
}

// NormalizePath converts path to absolute, cleaned form
func NormalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrInvalidPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ErrInvalidPath
	}
	return filepath.Clean(abs), nil
}

// DetectTraversal blocks any ".." segment in raw input
func DetectTraversal(raw string) bool {
	parts := strings.Split(filepath.ToSlash(raw), "/")
	for _, p := range parts {
		if p == ".." {
			return true
		}
	}
	return false
}

// IsProtectedPath checks if path is, or sits under, a protected system path
func IsProtectedPath(path string, protected []string) bool {
	p := filepath.Clean(path)

	// Hard block: "/" exact
	if p == string(os.PathSeparator) {
		return true
	}

	for _, prot := range protected {
		prot = filepath.Clean(prot)
		if p == prot || hasPathPrefix(p, prot) {
			return true
		}
	}
	return false
}

// hasPathPrefix checks if path has the given prefix
func hasPathPrefix(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)

	if prefix == string(os.PathSeparator) {
		return path == "/"
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(os.PathSeparator))
}

// defaultProtected returns the base set of protected paths plus any extras
func defaultProtected(extra []string) []string {
	base := []string{
		"/",
		"/etc",
		"/bin",
		"/usr",
		"/boot",
		"/lib",
		"/lib64",
		"/sbin",
		"/var/lib/saferm",
		"/etc/saferm",
	}
	return append(base, extra...)
}
