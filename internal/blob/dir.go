package blob

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Dir stores each key as a file in a directory.
type Dir struct {
	dir string
}

// NewDir creates a directory-backed store. The directory is created on
// first write.
func NewDir(dir string) *Dir {
	return &Dir{dir: dir}
}

// Path returns the directory holding the blobs.
func (d *Dir) Path() string {
	return d.dir
}

func (d *Dir) keyPath(key string) string {
	return filepath.Join(d.dir, key+".blob")
}

func (d *Dir) lockPath() string {
	return filepath.Join(d.dir, "blob.lock")
}

// Get reads the value stored under key.
func (d *Dir) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.keyPath(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return data, nil
}

// Put writes value under key via a temp file and rename, holding an
// exclusive lock on the directory's lock file. Unchanged values are not
// rewritten.
func (d *Dir) Put(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return d.withLock(func() error {
		path := d.keyPath(key)
		if existing, err := os.ReadFile(path); err == nil {
			if bytes.Equal(existing, value) {
				return nil
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("read blob %s: %w", key, err)
		}

		tmpFile, err := os.CreateTemp(d.dir, filepath.Base(path)+".tmp")
		if err != nil {
			return fmt.Errorf("create temp blob file: %w", err)
		}
		name := tmpFile.Name()
		_, err = tmpFile.Write(value)
		if err == nil {
			err = tmpFile.Sync()
		}
		if err1 := tmpFile.Close(); err1 != nil && err == nil {
			err = err1
		}
		if err != nil {
			os.Remove(name)
			return fmt.Errorf("write temp blob file: %w", err)
		}

		if err := os.Rename(name, path); err != nil {
			os.Remove(name)
			return fmt.Errorf("rename blob file: %w", err)
		}
		return nil
	})
}

// Close is a no-op; Dir holds no open handles between calls.
func (d *Dir) Close() error {
	return nil
}

func (d *Dir) withLock(fn func() error) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	lockFile, err := os.OpenFile(d.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	return fn()
}
