package utils

import (
	"os"
	"path/filepath"
)

// EnsureDir creates dir with any missing parent
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, os.FileMode(0755))
}

// Exists returns true if a file exists
func Exists(fpath string) bool {
	_, err := os.Stat(fpath)
	return !os.IsNotExist(err)
}

// IsDir ...
func IsDir(fpath string) bool {
	fi, err := os.Stat(fpath)
	return err == nil && fi.Mode().IsDir()
}

// FileSize return file size, return -1 if error
func FileSize(fpath string) int64 {
	if fi, err := os.Stat(fpath); err == nil {
		return fi.Size()
	}
	return -1
}

// SameDir reports whether a and b resolve to the same directory
func SameDir(a, b string) bool {
	aa, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	bb, err := filepath.Abs(b)
	if err != nil {
		return false
	}
	if aa == bb {
		return true
	}
	fa, err := os.Stat(aa)
	if err != nil {
		return false
	}
	fb, err := os.Stat(bb)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}

// WriteAtomic writes through fn into a temp file in the target directory
// and renames it over filename, an existing file is replaced.
func WriteAtomic(filename string, fn func(f *os.File) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = fn(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(os.FileMode(0644)); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filename)
}
