// Package lockfile provides an advisory flock-based lock for mutating
// batches. Readers never take the lock; they rely on every writer using
// temp-file + rename.
package lockfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// DefaultWait bounds how long Acquire polls for a contended lock before
// giving up.
const DefaultWait = 30 * time.Second

const pollInterval = 200 * time.Millisecond

// ErrBusy is returned when the lock is held by another process for the
// whole wait bound.
var ErrBusy = errors.New("lock is held by another process")

// Lock is an advisory file lock at a well-known path.
type Lock struct {
	path string
	file *os.File
}

// New creates a lock handle for the given path. No filesystem I/O happens
// until Acquire.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire opens the lock file and takes an exclusive flock, polling for up
// to wait before returning ErrBusy. A wait of zero tries exactly once.
func (l *Lock) Acquire(wait time.Duration) error {
	if l.file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(wait)
	for {
		err = flock(f, syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			l.file = f
			return nil
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) && !errors.Is(err, syscall.EAGAIN) {
			f.Close()
			return &fs.PathError{Op: "lock", Path: l.path, Err: err}
		}
		if time.Now().After(deadline) {
			f.Close()
			return ErrBusy
		}
		time.Sleep(pollInterval)
	}
}

// Release drops the flock and closes the file. Releasing an unheld lock is
// a no-op.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	err := flock(l.file, syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return &fs.PathError{Op: "unlock", Path: l.path, Err: err}
	}
	return closeErr
}

func flock(f *os.File, how int) error {
	for {
		err := syscall.Flock(int(f.Fd()), how)
		if !errors.Is(err, syscall.EINTR) {
			return err
		}
	}
}
