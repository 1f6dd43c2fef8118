// Package opc binds the Open Packaging Convention parts shared by every
// OOXML archive: the content type map, relationship parts and the core
// document properties.
package opc

import (
	"github.com/jacoelho/xmlbind"
)

// Namespace URIs used by package parts.
const (
	NamespaceContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	NamespaceRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	NamespaceCore          = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	NamespaceDC            = "http://purl.org/dc/elements/1.1/"
	NamespaceDCTerms       = "http://purl.org/dc/terms/"
	NamespaceDCMIType      = "http://purl.org/dc/dcmitype/"
	NamespaceXSI           = "http://www.w3.org/2001/XMLSchema-instance"
)

// ContentTypesPath is the archive entry holding the content type map.
const ContentTypesPath = "[Content_Types].xml"

// ContentTypes is the [Content_Types].xml part.
type ContentTypes struct {
	Namespaces xmlbind.Namespaces
	Defaults   []Default
	Overrides  []Override
}

// Default maps a file extension to a content type.
type Default struct {
	Extension   string
	ContentType string
}

// Override assigns a content type to one part.
type Override struct {
	PartName    string
	ContentType string
}

var (
	defaultRecord = xmlbind.MustRecord("Default",
		xmlbind.Attr("Extension", func(d *Default) *string { return &d.Extension }, xmlbind.String),
		xmlbind.Attr("ContentType", func(d *Default) *string { return &d.ContentType }, xmlbind.String),
	)
	overrideRecord = xmlbind.MustRecord("Override",
		xmlbind.Attr("PartName", func(o *Override) *string { return &o.PartName }, xmlbind.String),
		xmlbind.Attr("ContentType", func(o *Override) *string { return &o.ContentType }, xmlbind.String),
	)

	// ContentTypesRecord binds the Types root element.
	ContentTypesRecord = xmlbind.MustRecord("Types",
		xmlbind.CollectNamespaces(func(c *ContentTypes) *xmlbind.Namespaces { return &c.Namespaces }),
		xmlbind.Children(func(c *ContentTypes) *[]Default { return &c.Defaults }, defaultRecord),
		xmlbind.Children(func(c *ContentTypes) *[]Override { return &c.Overrides }, overrideRecord),
	)
)

// NewContentTypes returns an empty map declaring the content types namespace.
func NewContentTypes() ContentTypes {
	return ContentTypes{
		Namespaces: xmlbind.Namespaces{{Name: "xmlns", Value: NamespaceContentTypes}},
	}
}

// Lookup returns the content type of partName. An override wins over the
// default registered for the part's extension; extensions match ASCII
// case-insensitively.
func (c ContentTypes) Lookup(partName string) (string, bool) {
	partName = partURI(partName)
	for _, o := range c.Overrides {
		if equalFoldASCII(partURI(o.PartName), partName) {
			return o.ContentType, true
		}
	}
	ext := extension(partName)
	if ext == "" {
		return "", false
	}
	for _, d := range c.Defaults {
		if equalFoldASCII(d.Extension, ext) {
			return d.ContentType, true
		}
	}
	return "", false
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
