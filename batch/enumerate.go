package batch

import (
	"os"
	"path/filepath"

	"github.com/go-imsto/smol/image"
)

// DefaultPattern matches lower case .jpg only, .JPG and .jpeg are skipped
const DefaultPattern = "*.jpg"

// Enumerate lists the regular files directly in dir whose name matches
// pattern (filepath.Match, case-sensitive). The order is not defined.
func Enumerate(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, image.NewError(image.DirectoryRead, dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, image.NewError(image.DirectoryRead, dir, err)
	}

	var files []string
	for _, ent := range entries {
		if ok, _ := filepath.Match(pattern, ent.Name()); !ok {
			continue
		}
		name := filepath.Join(dir, ent.Name())
		if !ent.Type().IsRegular() {
			// follow symlinks to regular files
			fi, err := os.Stat(name)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, name)
	}
	return files, nil
}
