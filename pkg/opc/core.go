package opc

import (
	"time"

	"github.com/jacoelho/xmlbind"
	xberrors "github.com/jacoelho/xmlbind/errors"
)

// CoreProperties is the docProps/core.xml part.
type CoreProperties struct {
	Namespaces     xmlbind.Namespaces
	Title          *string
	Subject        *string
	Creator        *string
	Keywords       *string
	Description    *string
	LastModifiedBy *string
	Revision       *uint32
	Created        *Timestamp
	Modified       *Timestamp
}

// Timestamp is a dcterms date with its optional xsi:type annotation,
// normally "dcterms:W3CDTF".
type Timestamp struct {
	Type  *string
	Value time.Time
}

// W3CDTF parses and formats the W3C date and time profile of ISO 8601.
// Reduced precision forms (year, year-month, date) are accepted on input;
// output always uses the full RFC 3339 form.
var W3CDTF xmlbind.Codec[time.Time] = w3cdtfCodec{}

var w3cdtfLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02",
	"2006-01",
	"2006",
}

type w3cdtfCodec struct{}

func (w3cdtfCodec) TypeName() string { return "W3CDTF" }

func (w3cdtfCodec) DecodeBuf(buf []byte) (time.Time, error) {
	s := string(buf)
	for _, layout := range w3cdtfLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, xberrors.Newf(xberrors.KindInvalidLeafValue, "W3CDTF", "invalid date %q", s)
}

func (w3cdtfCodec) AppendBuf(dst []byte, v time.Time) ([]byte, error) {
	return v.AppendFormat(dst, time.RFC3339Nano), nil
}

// textElement binds an element whose whole content is one leaf value.
func textElement[V any](name string, c xmlbind.Codec[V], opts ...xmlbind.FieldOption[V]) *xmlbind.Record[V] {
	return xmlbind.MustRecord(name, xmlbind.Text(func(v *V) *V { return v }, c, opts...))
}

var (
	titleRecord          = textElement("dc:title", xmlbind.String, xmlbind.Default(""))
	subjectRecord        = textElement("dc:subject", xmlbind.String, xmlbind.Default(""))
	creatorRecord        = textElement("dc:creator", xmlbind.String, xmlbind.Default(""))
	keywordsRecord       = textElement("cp:keywords", xmlbind.String, xmlbind.Default(""))
	descriptionRecord    = textElement("dc:description", xmlbind.String, xmlbind.Default(""))
	lastModifiedByRecord = textElement("cp:lastModifiedBy", xmlbind.String, xmlbind.Default(""))
	revisionRecord       = textElement("cp:revision", xmlbind.Uint32)

	createdRecord  = timestampRecord("dcterms:created")
	modifiedRecord = timestampRecord("dcterms:modified")

	// CorePropertiesRecord binds the cp:coreProperties root element.
	CorePropertiesRecord = xmlbind.MustRecord("cp:coreProperties",
		xmlbind.CollectNamespaces(func(c *CoreProperties) *xmlbind.Namespaces { return &c.Namespaces }),
		xmlbind.OptionalChild(func(c *CoreProperties) **string { return &c.Title }, titleRecord),
		xmlbind.OptionalChild(func(c *CoreProperties) **string { return &c.Subject }, subjectRecord),
		xmlbind.OptionalChild(func(c *CoreProperties) **string { return &c.Creator }, creatorRecord),
		xmlbind.OptionalChild(func(c *CoreProperties) **string { return &c.Keywords }, keywordsRecord),
		xmlbind.OptionalChild(func(c *CoreProperties) **string { return &c.Description }, descriptionRecord),
		xmlbind.OptionalChild(func(c *CoreProperties) **string { return &c.LastModifiedBy }, lastModifiedByRecord),
		xmlbind.OptionalChild(func(c *CoreProperties) **uint32 { return &c.Revision }, revisionRecord),
		xmlbind.OptionalChild(func(c *CoreProperties) **Timestamp { return &c.Created }, createdRecord),
		xmlbind.OptionalChild(func(c *CoreProperties) **Timestamp { return &c.Modified }, modifiedRecord),
	)
)

func timestampRecord(name string) *xmlbind.Record[Timestamp] {
	return xmlbind.MustRecord(name,
		xmlbind.OptionalAttr("xsi:type", func(t *Timestamp) **string { return &t.Type }, xmlbind.String),
		xmlbind.Text(func(t *Timestamp) *time.Time { return &t.Value }, W3CDTF),
	)
}

// NewCoreProperties returns empty properties declaring the namespaces
// producers conventionally write.
func NewCoreProperties() CoreProperties {
	return CoreProperties{
		Namespaces: xmlbind.Namespaces{
			{Name: "xmlns:cp", Value: NamespaceCore},
			{Name: "xmlns:dc", Value: NamespaceDC},
			{Name: "xmlns:dcterms", Value: NamespaceDCTerms},
			{Name: "xmlns:dcmitype", Value: NamespaceDCMIType},
			{Name: "xmlns:xsi", Value: NamespaceXSI},
		},
	}
}

// NewTimestamp returns a W3CDTF-typed timestamp.
func NewTimestamp(t time.Time) *Timestamp {
	typ := "dcterms:W3CDTF"
	return &Timestamp{Type: &typ, Value: t}
}
