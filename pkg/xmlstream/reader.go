package xmlstream

import (
	"errors"
	"io"

	"github.com/jacoelho/xmlbind/pkg/xmltext"
)

const readerAttrCapacity = 8

var (
	errNilReader      = errors.New("nil XML reader")
	errNoStartElement = errors.New("expected start element event")
)

type valueSpan struct {
	start int
	end   int
}

// Reader provides a streaming XML event interface over raw names.
type Reader struct {
	dec          *xmltext.Decoder
	attrs        []Attr
	spans        []valueSpan
	valueBuf     []byte
	lastLine     int
	lastColumn   int
	lastWasStart bool
}

// NewReader creates a new streaming reader for r.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	if r == nil {
		return nil, errNilReader
	}
	return &Reader{
		dec:      xmltext.NewDecoder(r, buildOptions(opts...)...),
		attrs:    make([]Attr, 0, readerAttrCapacity),
		valueBuf: make([]byte, 0, 256),
	}, nil
}

// Reset prepares the reader for a new input stream.
func (r *Reader) Reset(src io.Reader, opts ...Option) error {
	if r == nil || src == nil {
		return errNilReader
	}
	if r.dec == nil {
		r.dec = xmltext.NewDecoder(src, buildOptions(opts...)...)
	} else {
		r.dec.Reset(src, buildOptions(opts...)...)
	}
	r.attrs = r.attrs[:0]
	r.valueBuf = r.valueBuf[:0]
	r.lastLine, r.lastColumn = 0, 0
	r.lastWasStart = false
	return nil
}

// Next returns the next event. It returns io.EOF at the end of a well-formed input.
func (r *Reader) Next() (Event, error) {
	if r == nil || r.dec == nil {
		return Event{}, errNilReader
	}
	r.lastWasStart = false
	tok, err := r.dec.ReadToken()
	if err != nil {
		return Event{}, err
	}
	r.lastLine, r.lastColumn = tok.Line, tok.Column
	r.valueBuf = r.valueBuf[:0]

	ev := Event{Line: tok.Line, Column: tok.Column}
	switch tok.Kind {
	case xmltext.KindStartElement:
		ev.Kind = EventStartElement
		ev.Name = tok.Name
		if ev.Attrs, err = r.startAttrs(tok.Attrs); err != nil {
			return Event{}, err
		}
		r.lastWasStart = true
	case xmltext.KindEndElement:
		ev.Kind = EventEndElement
		ev.Name = tok.Name
	case xmltext.KindCharData:
		ev.Kind = EventCharData
		ev.Text = tok.Text
		if tok.TextNeedsUnescape {
			if r.valueBuf, err = r.dec.Unescape(r.valueBuf, tok.Text); err != nil {
				return Event{}, err
			}
			ev.Text = r.valueBuf
		}
	case xmltext.KindCDATA:
		ev.Kind = EventCharData
		ev.Text = tok.Text
	case xmltext.KindPI:
		ev.Kind = EventPI
		if tok.IsXMLDecl {
			ev.Kind = EventDeclaration
		}
		ev.Name = tok.Name
		ev.Text = tok.Text
	case xmltext.KindComment:
		ev.Kind = EventComment
		ev.Text = tok.Text
	case xmltext.KindDirective:
		ev.Kind = EventDirective
		ev.Text = tok.Text
	}
	return ev, nil
}

// startAttrs expands entity references in attribute values.
// Expanded values share valueBuf, so slices are taken after all appends.
func (r *Reader) startAttrs(raw []xmltext.Attr) ([]Attr, error) {
	r.attrs = r.attrs[:0]
	r.spans = r.spans[:0]
	for _, attr := range raw {
		span := valueSpan{start: -1}
		if attr.ValueNeedsUnescape {
			start := len(r.valueBuf)
			var err error
			if r.valueBuf, err = r.dec.Unescape(r.valueBuf, attr.Value); err != nil {
				return nil, err
			}
			span = valueSpan{start: start, end: len(r.valueBuf)}
		}
		r.spans = append(r.spans, span)
	}
	for i, attr := range raw {
		value := attr.Value
		if span := r.spans[i]; span.start >= 0 {
			value = r.valueBuf[span.start:span.end]
		}
		r.attrs = append(r.attrs, Attr{Name: attr.Name, Value: value, Raw: attr.Value})
	}
	return r.attrs, nil
}

// SkipSubtree skips the current element subtree after a StartElement event.
func (r *Reader) SkipSubtree() error {
	if r == nil || r.dec == nil {
		return errNilReader
	}
	if !r.lastWasStart {
		return errNoStartElement
	}
	r.lastWasStart = false
	return r.dec.SkipValue()
}

// CurrentPos returns the line and column of the most recent event.
func (r *Reader) CurrentPos() (line, column int) {
	if r == nil {
		return 0, 0
	}
	return r.lastLine, r.lastColumn
}

// InputOffset returns the current byte position in the input stream.
func (r *Reader) InputOffset() int64 {
	if r == nil || r.dec == nil {
		return 0
	}
	return r.dec.InputOffset()
}

// Depth returns the number of open elements.
func (r *Reader) Depth() int {
	if r == nil || r.dec == nil {
		return 0
	}
	return r.dec.StackDepth()
}
