package fsops

import (
	"io/fs"
	"os"
)

// OSFS implements FS using real os package calls
type OSFS struct{}

func (OSFS) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

func (OSFS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

func (OSFS) Remove(path string) error {
	return os.Remove(path)
}

// RemoveDir relies on os.Remove failing with ENOTEMPTY for a non-empty
// directory, which the engine treats as retryable
func (OSFS) RemoveDir(path string) error {
	return os.Remove(path)
}

func (OSFS) Chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}
