package opc

import (
	"path"
	"strings"

	"github.com/jacoelho/xmlbind"
)

// Relationship types used to locate well-known parts.
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelTypeExtended       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	RelTypeThumbnail      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/thumbnail"
)

// TargetMode tells whether a relationship target is a part of the package.
type TargetMode uint8

const (
	TargetInternal TargetMode = iota
	TargetExternal
)

// TargetModeCodec encodes TargetMode as "Internal" or "External".
var TargetModeCodec = xmlbind.MustEnum("TargetMode",
	xmlbind.Case(TargetInternal, "Internal"),
	xmlbind.Case(TargetExternal, "External"),
)

func (m TargetMode) String() string {
	if m == TargetExternal {
		return "External"
	}
	return "Internal"
}

// Relationships is a .rels part.
type Relationships struct {
	Namespaces    xmlbind.Namespaces
	Relationships []Relationship
}

// Relationship links a source part to a target.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode TargetMode
}

var (
	relationshipRecord = xmlbind.MustRecord("Relationship",
		xmlbind.Attr("Id", func(r *Relationship) *string { return &r.ID }, xmlbind.String),
		xmlbind.Attr("Type", func(r *Relationship) *string { return &r.Type }, xmlbind.String),
		xmlbind.Attr("Target", func(r *Relationship) *string { return &r.Target }, xmlbind.String),
		xmlbind.Attr[Relationship, TargetMode]("TargetMode", func(r *Relationship) *TargetMode { return &r.TargetMode }, TargetModeCodec,
			xmlbind.Default(TargetInternal)),
	)

	// RelationshipsRecord binds the Relationships root element.
	RelationshipsRecord = xmlbind.MustRecord("Relationships",
		xmlbind.CollectNamespaces(func(r *Relationships) *xmlbind.Namespaces { return &r.Namespaces }),
		xmlbind.Children(func(r *Relationships) *[]Relationship { return &r.Relationships }, relationshipRecord),
	)
)

// NewRelationships returns an empty set declaring the relationships namespace.
func NewRelationships() Relationships {
	return Relationships{
		Namespaces: xmlbind.Namespaces{{Name: "xmlns", Value: NamespaceRelationships}},
	}
}

// ByType returns the relationships of the given type in document order.
func (r Relationships) ByType(relType string) []Relationship {
	var out []Relationship
	for _, rel := range r.Relationships {
		if rel.Type == relType {
			out = append(out, rel)
		}
	}
	return out
}

// ByID returns the relationship with the given id.
func (r Relationships) ByID(id string) (Relationship, bool) {
	for _, rel := range r.Relationships {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// RelationshipsPath returns the archive entry holding the relationships of
// part. The empty part and "/" name the package itself.
func RelationshipsPath(part string) string {
	part = strings.TrimPrefix(part, "/")
	if part == "" {
		return "_rels/.rels"
	}
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// ResolveTarget resolves an internal relationship target against the part
// owning the relationship and returns the archive entry name.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	base := path.Dir(partURI(source))
	return strings.TrimPrefix(path.Join(base, target), "/")
}

// partURI returns part as an absolute part name.
func partURI(part string) string {
	if strings.HasPrefix(part, "/") {
		return part
	}
	return "/" + part
}

func extension(part string) string {
	return strings.TrimPrefix(path.Ext(part), ".")
}
