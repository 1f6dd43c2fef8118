package container

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Archive gives read access to the entries of a zip archive.
type Archive struct {
	closer io.Closer
	files  map[string]*zip.File
	names  []string
}

// OpenArchive opens the zip archive at path.
func OpenArchive(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return newArchive(&rc.Reader, rc), nil
}

// NewArchive reads a zip archive of the given size from r.
func NewArchive(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return newArchive(zr, nil), nil
}

func newArchive(zr *zip.Reader, closer io.Closer) *Archive {
	a := &Archive{
		closer: closer,
		files:  make(map[string]*zip.File, len(zr.File)),
		names:  make([]string, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := cleanEntryName(f.Name)
		if _, dup := a.files[name]; dup {
			continue
		}
		a.files[name] = f
		a.names = append(a.names, name)
	}
	return a
}

// cleanEntryName drops a leading slash so "/word/document.xml" and
// "word/document.xml" address the same entry.
func cleanEntryName(name string) string {
	return strings.TrimPrefix(name, "/")
}

// Entries lists file entry names in archive order.
func (a *Archive) Entries() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Has reports whether the archive contains the named entry.
func (a *Archive) Has(name string) bool {
	_, ok := a.files[cleanEntryName(name)]
	return ok
}

// Open opens the named entry. Missing entries report fs.ErrNotExist.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f, ok := a.files[cleanEntryName(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", name, err)
	}
	return rc, nil
}

// ReadFile returns the full contents of the named entry.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	rc, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(rc)
	closeErr := rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", name, err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close entry %s: %w", name, closeErr)
	}
	return data, nil
}

// Close releases the underlying file when the archive was opened by path.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// WriteArchive writes entries to w as a deflate-compressed zip archive, in
// the order given by names.
func WriteArchive(w io.Writer, names []string, contents map[string][]byte) error {
	zw := zip.NewWriter(w)
	for _, name := range names {
		data, ok := contents[name]
		if !ok {
			return errors.Join(fmt.Errorf("entry %s has no contents", name), zw.Close())
		}
		fw, err := zw.Create(name)
		if err != nil {
			return errors.Join(fmt.Errorf("create entry %s: %w", name, err), zw.Close())
		}
		if _, err := fw.Write(data); err != nil {
			return errors.Join(fmt.Errorf("write entry %s: %w", name, err), zw.Close())
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}
