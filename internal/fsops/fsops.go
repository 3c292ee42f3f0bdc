package fsops

import (
	"io/fs"
	"os"
)

// FS abstracts the filesystem primitives the removal engine mutates through.
// Symlinks are never followed by any of these calls.
// Enables fault injection in tests and proves dry-run never deletes.
type FS interface {
	// Lstat stats the entry itself, not a symlink target
	Lstat(path string) (os.FileInfo, error)
	// ReadDir enumerates the immediate children of a directory
	ReadDir(path string) ([]fs.DirEntry, error)
	// Remove unlinks exactly one file or symlink
	Remove(path string) error
	// RemoveDir removes exactly one already-empty directory
	RemoveDir(path string) error
	// Chmod changes an entry's mode; used only by permission repair
	Chmod(path string, mode os.FileMode) error
}
