package xmlstream

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/xmlbind/pkg/xmltext"
)

func TestNextEvents(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<?xml version="1.0"?>
<doc a="1&amp;2" b="plain"><!-- skipped -->x &lt; y<![CDATA[&raw]]></doc>`))
	require.NoError(t, err)

	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, EventDeclaration, ev.Kind)
	assert.Equal(t, `version="1.0"`, string(ev.Text))

	ev, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, EventCharData, ev.Kind)
	assert.Equal(t, "\n", string(ev.Text))

	ev, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, EventStartElement, ev.Kind)
	assert.Equal(t, "doc", string(ev.Name))
	require.Len(t, ev.Attrs, 2)
	assert.Equal(t, "1&2", string(ev.Attrs[0].Value))
	assert.Equal(t, "1&amp;2", string(ev.Attrs[0].Raw))
	assert.Equal(t, "plain", string(ev.Attrs[1].Value))
	v, ok := ev.Attr("b")
	assert.True(t, ok)
	assert.Equal(t, "plain", string(v))
	assert.Equal(t, 2, ev.Line)

	ev, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, EventCharData, ev.Kind)
	assert.Equal(t, "x < y", string(ev.Text))

	ev, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, EventCharData, ev.Kind)
	assert.Equal(t, "&raw", string(ev.Text))

	ev, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, EventEndElement, ev.Kind)
	assert.Equal(t, "doc", string(ev.Name))

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestNamespaceDeclarationsKept(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<x xmlns:r="hi" xmlns="hey" a="1"/>`))
	require.NoError(t, err)
	ev, err := r.Next()
	require.NoError(t, err)

	var names []string
	for _, attr := range ev.Attrs {
		names = append(names, string(attr.Name))
	}
	assert.Equal(t, []string{"xmlns:r", "xmlns", "a"}, names)
}

func TestMultipleEscapedAttributes(t *testing.T) {
	long := strings.Repeat("&lt;", 200)
	r, err := NewReader(strings.NewReader(`<x a="` + long + `" b="&gt;&gt;"/>`))
	require.NoError(t, err)
	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("<", 200), string(ev.Attrs[0].Value))
	assert.Equal(t, ">>", string(ev.Attrs[1].Value))
}

func TestSkipSubtree(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<a><ns:x><y>t</y></ns:x><b/></a>`))
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)
	ev, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "ns:x", string(ev.Name))
	require.NoError(t, r.SkipSubtree())

	ev, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", string(ev.Name))
	assert.Equal(t, 2, r.Depth())
}

func TestSkipSubtreeRequiresStart(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<a>text</a>`))
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)
	assert.ErrorIs(t, r.SkipSubtree(), errNoStartElement)
}

func TestInvalidEntity(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<a>&bogus;</a>`))
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	var syntax *xmltext.SyntaxError
	require.True(t, errors.As(err, &syntax))
}

func TestCustomEntities(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<a>&co;</a>`), xmltext.WithEntityMap(map[string]string{"co": "Acme"}))
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)
	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Acme", string(ev.Text))
}

func TestNilReader(t *testing.T) {
	_, err := NewReader(nil)
	require.ErrorIs(t, err, errNilReader)

	var r *Reader
	_, err = r.Next()
	require.ErrorIs(t, err, errNilReader)
}

func TestReset(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<a/>`))
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)

	require.NoError(t, r.Reset(strings.NewReader(`<b/>`)))
	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", string(ev.Name))
}
