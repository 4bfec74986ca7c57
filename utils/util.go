package utils

import (
	"fmt"
	"os"
)

// EnsureDir creates dir and any missing parents. An existing directory is
// not an error, an existing non-directory is.
func EnsureDir(dir string) error {
	err := os.MkdirAll(dir, os.FileMode(0755))
	if err == nil {
		return nil
	}
	// another job may have won the race
	if IsDir(dir) {
		return nil
	}
	return err
}

// IsDir ...
func IsDir(fpath string) bool {
	fi, err := os.Stat(fpath)
	return err == nil && fi.Mode().IsDir()
}

// CheckDir returns an error unless fpath is an existing directory
func CheckDir(fpath string) error {
	fi, err := os.Stat(fpath)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%q is not a directory", fpath)
	}
	return nil
}
