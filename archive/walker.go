// Package archive reads entries back out of finished document packages.
// The writing side lives in hwpx, this is the inspection side used by
// tooling and tests.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// WalkFunc is the type of the function called for each file entry visited
// by Walk. The pkg argument is the package path passed to Walk, the file
// argument gives access to the entry header and content. If an error is
// returned, processing stops.
type WalkFunc func(pkg string, file *zip.File) error

// Walk visits the file entries whose name starts with prefix, in the order
// they are stored in the package. Entry order is significant for the
// consuming application, so nothing is sorted here. Entries with absolute
// names or path traversal components fail the walk.
func Walk(pkg, prefix string, walkFn WalkFunc) error {

	r, err := zip.OpenReader(pkg)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafeName(name) {
			return fmt.Errorf("package entry %q: unsafe name (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			if err := walkFn(pkg, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Entries returns the names of all entries exactly as stored, directories
// included.
func Entries(pkg string) ([]string, error) {
	r, err := zip.OpenReader(pkg)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if !isSafeName(f.Name) {
			return nil, fmt.Errorf("package entry %q: unsafe name (absolute or contains path traversal)", f.Name)
		}
		names = append(names, f.Name)
	}
	return names, nil
}

// ReadEntry returns the decompressed content of a single entry.
func ReadEntry(pkg, name string) ([]byte, error) {
	r, err := zip.OpenReader(pkg)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("no entry %q in %s", name, pkg)
}

// isSafeName returns false for entry names that could escape an extraction
// directory: absolute names and those containing ".." components.
func isSafeName(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
