package xmlbind

import (
	"bytes"
	"errors"
	"io"

	xberrors "github.com/jacoelho/xmlbind/errors"
	"github.com/jacoelho/xmlbind/pkg/xmlstream"
	"github.com/jacoelho/xmlbind/pkg/xmltext"
)

// EventReader is the event source consumed by DecodeFrom and DecodeElement.
// *xmlstream.Reader implements it.
type EventReader interface {
	Next() (xmlstream.Event, error)
	SkipSubtree() error
}

// Unmarshal decodes the single root element of data into a new T.
func Unmarshal[T any](rec *Record[T], data []byte) (T, error) {
	return UnmarshalWithOptions(rec, data, DecodeOptions{})
}

// UnmarshalWithOptions is like Unmarshal with explicit options.
func UnmarshalWithOptions[T any](rec *Record[T], data []byte, opts DecodeOptions) (T, error) {
	return DecodeWithOptions(rec, bytes.NewReader(data), opts)
}

// Decode reads one document from r and decodes its root element.
func Decode[T any](rec *Record[T], r io.Reader) (T, error) {
	return DecodeWithOptions(rec, r, DecodeOptions{})
}

// DecodeWithOptions is like Decode with explicit options.
// The document is read to its end so trailing malformed input is reported.
func DecodeWithOptions[T any](rec *Record[T], r io.Reader, opts DecodeOptions) (T, error) {
	var zero T
	if err := checkRecord(rec); err != nil {
		return zero, err
	}
	resolved, err := opts.withDefaults()
	if err != nil {
		return zero, err
	}
	reader, err := xmlstream.NewReader(r, resolved.parseOptions...)
	if err != nil {
		return zero, xberrors.Wrap(xberrors.KindTokenizer, rec.desc.name, err)
	}
	d := newDecoder(reader, resolved)
	var v T
	if err := d.document(rec.desc, &v, true); err != nil {
		return zero, err
	}
	return v, nil
}

// DecodeFrom scans r for the next element named after rec and decodes it.
// Events preceding it are skipped up to the configured foreign event bound.
// Reading stops at the end tag of the decoded element.
func DecodeFrom[T any](rec *Record[T], r EventReader, opts DecodeOptions) (T, error) {
	var zero T
	if err := checkRecord(rec); err != nil {
		return zero, err
	}
	if r == nil {
		return zero, xberrors.New(xberrors.KindTokenizer, rec.desc.name, "nil event reader")
	}
	resolved, err := opts.withDefaults()
	if err != nil {
		return zero, err
	}
	d := newDecoder(r, resolved)
	var v T
	if err := d.document(rec.desc, &v, false); err != nil {
		return zero, err
	}
	return v, nil
}

// DecodeElement decodes the element whose start event was already read from r.
func DecodeElement[T any](rec *Record[T], r EventReader, start xmlstream.Event, opts DecodeOptions) (T, error) {
	var zero T
	if err := checkRecord(rec); err != nil {
		return zero, err
	}
	if r == nil {
		return zero, xberrors.New(xberrors.KindTokenizer, rec.desc.name, "nil event reader")
	}
	if start.Kind != xmlstream.EventStartElement || string(start.Name) != rec.desc.name {
		return zero, unexpected(rec.desc, &start, "expected start element %s, found %s", rec.desc.name, describeEvent(&start))
	}
	resolved, err := opts.withDefaults()
	if err != nil {
		return zero, err
	}
	d := newDecoder(r, resolved)
	var v T
	if err := d.element(rec.desc, &v, &start); err != nil {
		return zero, err
	}
	return v, nil
}

func checkRecord[T any](rec *Record[T]) error {
	if rec == nil || rec.desc == nil {
		return xberrors.New(xberrors.KindDescriptor, "", "nil record")
	}
	if !rec.desc.defined.Load() {
		return errUndefined(rec.desc)
	}
	return nil
}

func errUndefined(desc *Descriptor) error {
	return xberrors.New(xberrors.KindDescriptor, desc.name, "record declared but never defined")
}

type decoder struct {
	r    EventReader
	opts resolvedDecodeOptions
	// text accumulates consecutive character data of the current element.
	text       []byte
	textLine   int
	textColumn int
}

func newDecoder(r EventReader, opts resolvedDecodeOptions) *decoder {
	return &decoder{r: r, opts: opts}
}

// document skips to the root element, decodes it and, when drain is set,
// consumes the rest of the input.
func (d *decoder) document(desc *Descriptor, rec any, drain bool) error {
	foreign := 0
	for {
		ev, err := d.r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return xberrors.New(xberrors.KindTokenizer, desc.name, "no element found")
			}
			return d.readError(desc, err)
		}
		if ev.Kind == xmlstream.EventStartElement && string(ev.Name) == desc.name {
			if err := d.element(desc, rec, &ev); err != nil {
				return err
			}
			break
		}
		if err := d.foreign(desc, &ev, &foreign); err != nil {
			return err
		}
	}
	if !drain {
		return nil
	}
	for {
		ev, err := d.r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return d.readError(desc, err)
		}
		if err := d.foreign(desc, &ev, &foreign); err != nil {
			return err
		}
	}
}

// foreign accounts for a top-level event that is not the expected root.
func (d *decoder) foreign(desc *Descriptor, ev *xmlstream.Event, count *int) error {
	switch ev.Kind {
	case xmlstream.EventDeclaration:
		return nil
	case xmlstream.EventCharData:
		if xmltext.IsWhitespace(ev.Text) {
			return nil
		}
	}
	*count++
	if *count > d.opts.maxForeignEvents {
		return unexpected(desc, ev, "expected element %s, found %s", desc.name, describeEvent(ev))
	}
	if ev.Kind == xmlstream.EventStartElement {
		if err := d.r.SkipSubtree(); err != nil {
			return d.readError(desc, err)
		}
	}
	return nil
}

// element decodes the element opened by start into rec, a pointer to the
// record type described by desc.
func (d *decoder) element(desc *Descriptor, rec any, start *xmlstream.Event) error {
	if !desc.defined.Load() {
		return errUndefined(desc)
	}
	desc.applyDefaults(rec)
	seen := newFieldSet(len(desc.fields))
	if err := d.attributes(desc, rec, start, &seen); err != nil {
		return err
	}
	for {
		ev, err := d.r.Next()
		if err != nil {
			return d.readError(desc, err)
		}
		if ev.Kind == xmlstream.EventCharData {
			if len(d.text) == 0 {
				d.textLine, d.textColumn = ev.Line, ev.Column
			}
			d.text = append(d.text, ev.Text...)
			continue
		}
		if err := d.flushText(desc, rec, &seen); err != nil {
			return err
		}
		switch ev.Kind {
		case xmlstream.EventStartElement:
			if idx, ok := desc.values.lookup(ev.Name); ok {
				b := desc.fields[idx]
				if err := b.decodeChild(d, rec, &ev); err != nil {
					return err
				}
				seen.set(idx)
				continue
			}
			if isPrefixed(ev.Name) {
				d.report(desc, &ev, DiagnosticForeignElement)
				if err := d.r.SkipSubtree(); err != nil {
					return d.readError(desc, err)
				}
				continue
			}
			return unexpected(desc, &ev, "unexpected element %s", ev.Name)
		case xmlstream.EventEndElement:
			if string(ev.Name) != desc.name {
				return unexpected(desc, &ev, "unexpected end element %s", ev.Name)
			}
			return d.finish(desc, rec, &seen, start)
		case xmlstream.EventDeclaration:
			return unexpected(desc, &ev, "unexpected XML declaration")
		}
	}
}

func (d *decoder) attributes(desc *Descriptor, rec any, start *xmlstream.Event, seen *fieldSet) error {
	for i := range start.Attrs {
		attr := &start.Attrs[i]
		if idx, ok := desc.attrs.lookup(attr.Name); ok {
			b := desc.fields[idx]
			if err := b.decodeBuf(rec, attr.Value); err != nil {
				return fieldError(desc, b, err, start.Line, start.Column)
			}
			seen.set(idx)
			continue
		}
		if desc.namespaces != nil && isNamespaceDecl(attr.Name) {
			desc.namespaces.collect(rec, attr.Name, attr.Raw)
			continue
		}
		if desc.namespaces != nil || isPrefixed(attr.Name) {
			d.opts.diagnostics.Report(Diagnostic{
				Type:   desc.name,
				Name:   string(attr.Name),
				Line:   start.Line,
				Column: start.Column,
				Kind:   DiagnosticForeignAttribute,
			})
			continue
		}
		return unexpected(desc, start, "unexpected attribute %s", attr.Name)
	}
	return nil
}

// flushText binds the pending character data. Whitespace-only runs are ignored.
func (d *decoder) flushText(desc *Descriptor, rec any, seen *fieldSet) error {
	if len(d.text) == 0 {
		return nil
	}
	text := d.text
	d.text = d.text[:0]
	if xmltext.IsWhitespace(text) {
		return nil
	}
	b := desc.text
	if b == nil {
		return &xberrors.Error{
			Kind:    xberrors.KindUnexpectedEvent,
			Type:    desc.name,
			Message: "unexpected character data",
			Line:    d.textLine,
			Column:  d.textColumn,
		}
	}
	if err := b.decodeBuf(rec, text); err != nil {
		return fieldError(desc, b, err, d.textLine, d.textColumn)
	}
	seen.set(d.fieldIndex(desc, b))
	return nil
}

func (d *decoder) fieldIndex(desc *Descriptor, b *binding) int {
	for i, f := range desc.fields {
		if f == b {
			return i
		}
	}
	return -1
}

// finish checks required fields in declaration order and runs validators.
func (d *decoder) finish(desc *Descriptor, rec any, seen *fieldSet, start *xmlstream.Event) error {
	for i, b := range desc.fields {
		if seen.has(i) || !b.required() {
			continue
		}
		return &xberrors.Error{
			Kind:    xberrors.KindMissingRequiredField,
			Type:    desc.name,
			Field:   b.name,
			Message: "missing required field",
			Line:    start.Line,
			Column:  start.Column,
		}
	}
	for _, b := range desc.fields {
		if b.validate == nil {
			continue
		}
		if err := b.validate(rec); err != nil {
			return &xberrors.Error{
				Kind:   xberrors.KindValidationFailed,
				Type:   desc.name,
				Field:  b.name,
				Err:    err,
				Line:   start.Line,
				Column: start.Column,
			}
		}
	}
	return nil
}

func (d *decoder) report(desc *Descriptor, ev *xmlstream.Event, kind DiagnosticKind) {
	d.opts.diagnostics.Report(Diagnostic{
		Type:   desc.name,
		Name:   string(ev.Name),
		Line:   ev.Line,
		Column: ev.Column,
		Kind:   kind,
	})
}

func (d *decoder) readError(desc *Descriptor, err error) error {
	if errors.Is(err, io.EOF) {
		return xberrors.New(xberrors.KindTokenizer, desc.name, "unexpected end of input")
	}
	if be, ok := xberrors.As(err); ok {
		return be
	}
	out := xberrors.Wrap(xberrors.KindTokenizer, desc.name, err)
	var syntax *xmltext.SyntaxError
	if errors.As(err, &syntax) {
		out.Line, out.Column = syntax.Line, syntax.Column
	}
	return out
}

// fieldError attributes a leaf failure to the owning record and field.
func fieldError(desc *Descriptor, b *binding, err error, line, column int) error {
	be, ok := xberrors.As(err)
	if !ok {
		return &xberrors.Error{
			Kind:   xberrors.KindInvalidLeafValue,
			Type:   desc.name,
			Field:  b.name,
			Err:    err,
			Line:   line,
			Column: column,
		}
	}
	out := *be
	if out.Type != "" && out.Type != desc.name {
		if out.Message == "" {
			out.Message = out.Type
		} else {
			out.Message = out.Type + ": " + out.Message
		}
	}
	out.Type = desc.name
	out.Field = b.name
	if out.Line == 0 {
		out.Line, out.Column = line, column
	}
	return &out
}

func unexpected(desc *Descriptor, ev *xmlstream.Event, format string, args ...any) error {
	err := xberrors.Newf(xberrors.KindUnexpectedEvent, desc.name, format, args...)
	err.Line, err.Column = ev.Line, ev.Column
	return err
}

func describeEvent(ev *xmlstream.Event) string {
	switch ev.Kind {
	case xmlstream.EventStartElement:
		return "start element " + string(ev.Name)
	case xmlstream.EventEndElement:
		return "end element " + string(ev.Name)
	default:
		return ev.Kind.String()
	}
}
