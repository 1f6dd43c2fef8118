package xmlbind_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/xmlbind"
	xberrors "github.com/jacoelho/xmlbind/errors"
)

func TestNewRecordRejectsInvalidDescriptors(t *testing.T) {
	type body struct {
		A, B string
		NS   xmlbind.Namespaces
		NS2  xmlbind.Namespaces
		Foo  foo
		Foo2 foo
	}
	a := func(b *body) *string { return &b.A }
	bb := func(b *body) *string { return &b.B }
	ns := func(b *body) *xmlbind.Namespaces { return &b.NS }
	ns2 := func(b *body) *xmlbind.Namespaces { return &b.NS2 }

	tests := []struct {
		name   string
		record string
		fields []xmlbind.Field[body]
	}{
		{name: "empty name", record: ""},
		{name: "duplicate attribute", record: "b", fields: []xmlbind.Field[body]{
			xmlbind.Attr("a", a, xmlbind.String),
			xmlbind.Attr("a", bb, xmlbind.String),
		}},
		{name: "duplicate child", record: "b", fields: []xmlbind.Field[body]{
			xmlbind.Child(func(b *body) *foo { return &b.Foo }, fooRecord),
			xmlbind.Child(func(b *body) *foo { return &b.Foo2 }, fooRecord),
		}},
		{name: "two text fields", record: "b", fields: []xmlbind.Field[body]{
			xmlbind.Text(a, xmlbind.String),
			xmlbind.Text(bb, xmlbind.String),
		}},
		{name: "two collectors", record: "b", fields: []xmlbind.Field[body]{
			xmlbind.CollectNamespaces(ns),
			xmlbind.CollectNamespaces(ns2),
		}},
		{name: "text and collector", record: "b", fields: []xmlbind.Field[body]{
			xmlbind.Text(a, xmlbind.String),
			xmlbind.CollectNamespaces(ns),
		}},
		{name: "nil accessor", record: "b", fields: []xmlbind.Field[body]{
			xmlbind.Attr[body, string]("a", nil, xmlbind.String),
		}},
		{name: "nil codec", record: "b", fields: []xmlbind.Field[body]{
			xmlbind.Attr[body, string]("a", a, nil),
		}},
		{name: "nil child record", record: "b", fields: []xmlbind.Field[body]{
			xmlbind.Child[body, foo](func(b *body) *foo { return &b.Foo }, nil),
		}},
		{name: "empty attribute name", record: "b", fields: []xmlbind.Field[body]{
			xmlbind.Attr("", a, xmlbind.String),
		}},
		{name: "zero field", record: "b", fields: []xmlbind.Field[body]{{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := xmlbind.NewRecord(tt.record, tt.fields...)
			require.Error(t, err)
			assert.Equal(t, xberrors.KindDescriptor, xberrors.KindOf(err))
		})
	}
}

func TestMustRecordPanics(t *testing.T) {
	assert.Panics(t, func() {
		xmlbind.MustRecord[foo]("")
	})
}

func TestDefineOnce(t *testing.T) {
	rec, err := xmlbind.DeclareRecord[foo]("foo")
	require.NoError(t, err)
	require.NoError(t, rec.Define(xmlbind.Attr("inner", func(f *foo) *int { return &f.Inner }, xmlbind.Int)))
	err = rec.Define()
	assert.Equal(t, xberrors.KindDescriptor, xberrors.KindOf(err))
}

func TestDefineConcurrent(t *testing.T) {
	rec, err := xmlbind.DeclareRecord[foo]("foo")
	require.NoError(t, err)

	const callers = 16
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rec.Define(xmlbind.Attr("inner", func(f *foo) *int { return &f.Inner }, xmlbind.Int)) == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), succeeded.Load())

	got, err := xmlbind.Unmarshal(rec, []byte(`<foo inner="4"/>`))
	require.NoError(t, err)
	assert.Equal(t, foo{Inner: 4}, got)
}

func TestDefineAfterFailedDefine(t *testing.T) {
	rec, err := xmlbind.DeclareRecord[foo]("foo")
	require.NoError(t, err)
	inner := xmlbind.Attr("inner", func(f *foo) *int { return &f.Inner }, xmlbind.Int)
	err = rec.Define(inner, inner)
	assert.Equal(t, xberrors.KindDescriptor, xberrors.KindOf(err))

	require.NoError(t, rec.Define(inner))
	err = rec.Define(inner)
	assert.Equal(t, xberrors.KindDescriptor, xberrors.KindOf(err))
}

func TestUndefinedChildRecord(t *testing.T) {
	leaf, err := xmlbind.DeclareRecord[foo]("foo")
	require.NoError(t, err)
	holder := xmlbind.MustRecord("bar",
		xmlbind.Children(func(b *bar) *[]foo { return &b.Foos }, leaf),
	)

	_, err = xmlbind.Unmarshal(holder, []byte(`<bar><foo inner="1"/></bar>`))
	be, ok := xberrors.As(err)
	require.True(t, ok)
	assert.Equal(t, xberrors.KindDescriptor, be.Kind)
	assert.Equal(t, "foo", be.Type)

	_, err = xmlbind.Marshal(holder, bar{Foos: []foo{{Inner: 1}}})
	be, ok = xberrors.As(err)
	require.True(t, ok)
	assert.Equal(t, xberrors.KindDescriptor, be.Kind)
	assert.Equal(t, "foo", be.Type)

	// A holder with no children never reaches the undefined record.
	out, err := xmlbind.Marshal(holder, bar{})
	require.NoError(t, err)
	assert.Equal(t, `<bar></bar>`, string(out))
}

func TestDescriptorFields(t *testing.T) {
	fields := documentRecord.Descriptor().Fields()
	require.Len(t, fields, 6)
	assert.Equal(t, xmlbind.FieldInfo{Name: "version", Leaf: "int", Role: xmlbind.RoleAttribute}, fields[0])
	assert.Equal(t, xmlbind.RoleAttribute, fields[1].Role)
	assert.False(t, fields[1].Required)
	assert.Equal(t, "rectangle", fields[3].Name)
	assert.True(t, fields[3].Required)
	assert.Same(t, rectangleRecord.Descriptor(), fields[3].Child)
	assert.True(t, fields[5].Many)
	assert.False(t, fields[5].Required)

	text := noteRecord.Descriptor().Fields()[1]
	assert.Equal(t, xmlbind.RoleText, text.Role)
	assert.Empty(t, text.Name)
	assert.Equal(t, "text", text.Role.String())
}

func TestRecordNewAppliesDefaults(t *testing.T) {
	v := documentRecord.New()
	assert.Equal(t, 1, v.Version)
	assert.Equal(t, 0.5, v.Priority)
	assert.Nil(t, v.Title)
	assert.Equal(t, "document", documentRecord.Name())
}

func TestManyFieldsUseHashedIndex(t *testing.T) {
	type wide struct {
		Values [20]int
	}
	fields := make([]xmlbind.Field[wide], 0, 20)
	for i := range 20 {
		fields = append(fields, xmlbind.Attr(fmt.Sprintf("a%d", i), func(w *wide) *int { return &w.Values[i] }, xmlbind.Int, xmlbind.Default(0)))
	}
	rec, err := xmlbind.NewRecord("wide", fields...)
	require.NoError(t, err)

	got, err := xmlbind.Unmarshal(rec, []byte(`<wide a0="1" a9="10" a19="20"/>`))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Values[0])
	assert.Equal(t, 10, got.Values[9])
	assert.Equal(t, 20, got.Values[19])

	out, err := xmlbind.Marshal(rec, got)
	require.NoError(t, err)
	assert.Equal(t, `<wide a0="1" a9="10" a19="20"/>`, string(out))

	_, err = xmlbind.NewRecord("wide", append(fields, xmlbind.Attr("a15", func(w *wide) *int { return &w.Values[0] }, xmlbind.Int))...)
	assert.Equal(t, xberrors.KindDescriptor, xberrors.KindOf(err))
}

func TestListOf(t *testing.T) {
	rec, err := xmlbind.ListOf("list", fooRecord)
	require.NoError(t, err)
	got, err := xmlbind.Unmarshal(rec, []byte(`<list><foo inner="1"/><foo inner="2"/></list>`))
	require.NoError(t, err)
	assert.Equal(t, []foo{{Inner: 1}, {Inner: 2}}, got)

	out, err := xmlbind.Marshal(rec, got)
	require.NoError(t, err)
	assert.Equal(t, `<list><foo inner="1"/><foo inner="2"/></list>`, string(out))

	out, err = xmlbind.Marshal(rec, nil)
	require.NoError(t, err)
	assert.Equal(t, `<list></list>`, string(out))
}

func TestRecursiveRecordRoundTrip(t *testing.T) {
	type node struct {
		Name     string
		Children []node
	}
	rec, err := xmlbind.DeclareRecord[node]("node")
	require.NoError(t, err)
	require.NoError(t, rec.Define(
		xmlbind.Attr("name", func(n *node) *string { return &n.Name }, xmlbind.String),
		xmlbind.Children(func(n *node) *[]node { return &n.Children }, rec),
	))
	input := `<node name="a"><node name="b"><node name="c"></node></node><node name="d"></node></node>`
	got, err := xmlbind.Unmarshal(rec, []byte(input))
	require.NoError(t, err)
	assert.Equal(t, "c", got.Children[0].Children[0].Name)

	out, err := xmlbind.Marshal(rec, got)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}
