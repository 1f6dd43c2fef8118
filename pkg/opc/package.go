package opc

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/jacoelho/xmlbind"
	"github.com/jacoelho/xmlbind/pkg/container"
)

// ErrNoCoreProperties is returned when the package has no core properties
// relationship.
var ErrNoCoreProperties = errors.New("package has no core properties")

// Package reads the well-known parts of an OPC archive.
type Package struct {
	archive *container.Archive
	opts    xmlbind.DecodeOptions
}

// Open opens the package archive at path.
func Open(path string, opts xmlbind.DecodeOptions) (*Package, error) {
	a, err := container.OpenArchive(path)
	if err != nil {
		return nil, err
	}
	return NewPackage(a, opts), nil
}

// NewPackage reads package parts from a. Closing the package closes a.
func NewPackage(a *container.Archive, opts xmlbind.DecodeOptions) *Package {
	return &Package{archive: a, opts: opts}
}

// Archive returns the underlying archive.
func (p *Package) Archive() *container.Archive {
	return p.archive
}

// Close releases the archive.
func (p *Package) Close() error {
	return p.archive.Close()
}

// ContentTypes decodes [Content_Types].xml.
func (p *Package) ContentTypes() (ContentTypes, error) {
	return Part(p, ContentTypesPath, ContentTypesRecord)
}

// Relationships decodes the relationships of part. The empty part names the
// package relationships. A part without relationships yields an empty set.
func (p *Package) Relationships(part string) (Relationships, error) {
	rels, err := Part(p, RelationshipsPath(part), RelationshipsRecord)
	if errors.Is(err, fs.ErrNotExist) {
		return Relationships{}, nil
	}
	return rels, err
}

// CoreProperties decodes the part targeted by the package-level core
// properties relationship.
func (p *Package) CoreProperties() (CoreProperties, error) {
	rels, err := p.Relationships("")
	if err != nil {
		return CoreProperties{}, err
	}
	for _, rel := range rels.ByType(RelTypeCoreProperties) {
		if rel.TargetMode == TargetExternal {
			continue
		}
		return Part(p, ResolveTarget("", rel.Target), CorePropertiesRecord)
	}
	return CoreProperties{}, ErrNoCoreProperties
}

// Part decodes the named entry with rec.
func Part[T any](p *Package, name string, rec *xmlbind.Record[T]) (T, error) {
	var zero T
	rc, err := p.archive.Open(name)
	if err != nil {
		return zero, err
	}
	v, err := xmlbind.DecodeWithOptions(rec, rc, p.opts)
	closeErr := rc.Close()
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", name, err)
	}
	if closeErr != nil {
		return zero, fmt.Errorf("close %s: %w", name, closeErr)
	}
	return v, nil
}
