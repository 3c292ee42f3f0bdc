package fserr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Classification buckets a raw filesystem error for the removal engine
type Classification int

const (
	// None means no error at all
	None Classification = iota
	// NotFound means the target vanished; resolved by force, never retried
	NotFound
	// IllegalOnDirectory means a directory was targeted without recursive
	IllegalOnDirectory
	// Retryable means a transient condition worth backing off and retrying
	Retryable
	// Fatal means anything else; surfaced immediately, zero retries consumed
	Fatal
)

// String returns the classification name for logs
func (c Classification) String() string {
	switch c {
	case None:
		return "none"
	case NotFound:
		return "not_found"
	case IllegalOnDirectory:
		return "illegal_on_directory"
	case Retryable:
		return "retryable"
	case Fatal:
		return "fatal"
	}
	return "unknown"
}

// retryable is the exact set of transient codes eligible for backoff-and-retry
var retryable = []syscall.Errno{
	syscall.EBUSY,
	syscall.EMFILE,
	syscall.ENFILE,
	syscall.ENOTEMPTY,
	syscall.EPERM,
}

// Classify maps a raw filesystem error to its removal-engine bucket
func Classify(err error) Classification {
	if err == nil {
		return None
	}
	if os.IsNotExist(err) {
		return NotFound
	}
	if errors.Is(err, syscall.EISDIR) {
		return IllegalOnDirectory
	}
	for _, code := range retryable {
		if errors.Is(err, code) {
			return Retryable
		}
	}
	return Fatal
}

// IsNotPermitted reports whether err carries EPERM, the one retryable
// condition additionally eligible for Windows permission repair
func IsNotPermitted(err error) bool {
	return errors.Is(err, syscall.EPERM)
}

// Code returns the platform error code string for logs and the history DB
func Code(err error) string {
	if err == nil {
		return ""
	}
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		if os.IsNotExist(err) {
			return "ENOENT"
		}
		return "UNKNOWN"
	}
	switch errno {
	case syscall.ENOENT:
		return "ENOENT"
	case syscall.EISDIR:
		return "EISDIR"
	case syscall.EBUSY:
		return "EBUSY"
	case syscall.EMFILE:
		return "EMFILE"
	case syscall.ENFILE:
		return "ENFILE"
	case syscall.ENOTEMPTY:
		return "ENOTEMPTY"
	case syscall.EPERM:
		return "EPERM"
	case syscall.EACCES:
		return "EACCES"
	case syscall.ENOTDIR:
		return "ENOTDIR"
	case syscall.EROFS:
		return "EROFS"
	}
	return fmt.Sprintf("ERRNO_%d", uint64(errno))
}

// IsDirError builds the illegal-operation error for a directory targeted
// without recursive: fixed operation label, offending path, EISDIR code
func IsDirError(path string) error {
	return &fs.PathError{Op: "rm", Path: path, Err: syscall.EISDIR}
}
