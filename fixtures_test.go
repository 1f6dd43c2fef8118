package xmlbind_test

import (
	"github.com/jacoelho/xmlbind"
)

type rectangle struct {
	Width  uint32
	Height uint32
}

var rectangleRecord = xmlbind.MustRecord("rectangle",
	xmlbind.Attr("width", func(r *rectangle) *uint32 { return &r.Width }, xmlbind.Uint32),
	xmlbind.Attr("height", func(r *rectangle) *uint32 { return &r.Height }, xmlbind.Uint32),
)

type foo struct {
	Inner int
}

type bar struct {
	Foos []foo
}

var (
	fooRecord = xmlbind.MustRecord("foo",
		xmlbind.Attr("inner", func(f *foo) *int { return &f.Inner }, xmlbind.Int),
	)
	barRecord = xmlbind.MustRecord("bar",
		xmlbind.Children(func(b *bar) *[]foo { return &b.Foos }, fooRecord),
	)
)

type toggle struct {
	Enabled bool
}

var toggleRecord = xmlbind.MustRecord("toggle",
	xmlbind.Attr("enabled", func(t *toggle) *bool { return &t.Enabled }, xmlbind.Bool, xmlbind.Default(false)),
)

type scoped struct {
	Namespaces xmlbind.Namespaces
	A          int
}

var scopedRecord = xmlbind.MustRecord("x",
	xmlbind.CollectNamespaces(func(s *scoped) *xmlbind.Namespaces { return &s.Namespaces }),
	xmlbind.Attr("a", func(s *scoped) *int { return &s.A }, xmlbind.Int),
)

type note struct {
	Lang string
	Body string
}

var noteRecord = xmlbind.MustRecord("note",
	xmlbind.Attr("lang", func(n *note) *string { return &n.Lang }, xmlbind.String, xmlbind.Default("en")),
	xmlbind.Text(func(n *note) *string { return &n.Body }, xmlbind.String),
)

type document struct {
	Version  int
	Title    *string
	Rect     rectangle
	Toggle   *toggle
	Notes    []note
	Priority float64
}

var documentRecord = xmlbind.MustRecord("document",
	xmlbind.Attr("version", func(d *document) *int { return &d.Version }, xmlbind.Int, xmlbind.Default(1)),
	xmlbind.OptionalAttr("title", func(d *document) **string { return &d.Title }, xmlbind.String),
	xmlbind.Attr("priority", func(d *document) *float64 { return &d.Priority }, xmlbind.Float64, xmlbind.Default(0.5)),
	xmlbind.Child(func(d *document) *rectangle { return &d.Rect }, rectangleRecord),
	xmlbind.OptionalChild(func(d *document) **toggle { return &d.Toggle }, toggleRecord),
	xmlbind.Children(func(d *document) *[]note { return &d.Notes }, noteRecord),
)

func ptr[V any](v V) *V {
	return &v
}
