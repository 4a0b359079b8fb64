// Package archive gives read access to chapter images packed into a single
// zip bundle.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Bundle is an opened zip archive indexed by entry name. It is safe for
// concurrent use.
type Bundle struct {
	name  string
	r     *zip.ReadCloser
	files map[string]*zip.File
}

// Open indexes regular entries of zip file. Archives with entries which are
// absolute or climb out of archive root are rejected as a whole.
func Open(name string) (*Bundle, error) {
	r, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}

	b := &Bundle{name: name, r: r, files: make(map[string]*zip.File, len(r.File))}
	for _, f := range r.File {
		if !isSafePath(f.Name) {
			r.Close()
			return nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		b.files[path.Clean(f.Name)] = f
	}
	return b, nil
}

// Name returns archive file name.
func (b *Bundle) Name() string {
	return b.name
}

func (b *Bundle) Close() error {
	return b.r.Close()
}

// Open returns reader for entry, name uses forward slashes.
func (b *Bundle) Open(name string) (io.ReadCloser, error) {
	f, ok := b.files[path.Clean(strings.TrimPrefix(name, "/"))]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f.Open()
}

// Walk calls walkFn for every file directly in dir in name order. If an error
// is returned, processing stops.
func (b *Bundle) Walk(dir string, walkFn func(file *zip.File) error) error {
	dir = path.Clean(strings.TrimPrefix(dir, "/"))

	names := make([]string, 0, len(b.files))
	for name := range b.files {
		if path.Dir(name) == dir {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := walkFn(b.files[name]); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for names that could escape the archive root:
// absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
