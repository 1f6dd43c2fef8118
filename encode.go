package xmlbind

import (
	"io"

	"github.com/jacoelho/xmlbind/pkg/xmltext"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

// Marshal encodes v as a single element named after rec.
func Marshal[T any](rec *Record[T], v T) ([]byte, error) {
	return MarshalWithOptions(rec, v, EncodeOptions{})
}

// MarshalWithOptions is like Marshal with explicit options.
func MarshalWithOptions[T any](rec *Record[T], v T, opts EncodeOptions) ([]byte, error) {
	if err := checkRecord(rec); err != nil {
		return nil, err
	}
	e := &encoder{opts: opts}
	if opts.declaration {
		e.buf = append(e.buf, xmlDeclaration...)
	}
	if err := e.element(rec.desc, &v); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// Encode writes the encoding of v to w.
func Encode[T any](w io.Writer, rec *Record[T], v T) error {
	return EncodeWithOptions(w, rec, v, EncodeOptions{})
}

// EncodeWithOptions is like Encode with explicit options.
// Nothing is written when encoding fails.
func EncodeWithOptions[T any](w io.Writer, rec *Record[T], v T, opts EncodeOptions) error {
	data, err := MarshalWithOptions(rec, v, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

type encoder struct {
	buf     []byte
	scratch []byte
	opts    EncodeOptions
}

// element appends the element for rec, a pointer to the record type
// described by desc.
func (e *encoder) element(desc *Descriptor, rec any) error {
	if !desc.defined.Load() {
		return errUndefined(desc)
	}
	e.buf = append(e.buf, '<')
	e.buf = append(e.buf, desc.name...)
	for _, b := range desc.fields {
		if b.role != RoleAttribute || b.isDefault(rec) {
			continue
		}
		if err := e.attr(desc, b, rec); err != nil {
			return err
		}
	}
	if ns := desc.namespaces; ns != nil {
		for _, n := range ns.namespaces(rec) {
			e.buf = append(e.buf, ' ')
			e.buf = append(e.buf, n.Name...)
			e.buf = append(e.buf, `="`...)
			e.buf = append(e.buf, n.Value...)
			e.buf = append(e.buf, '"')
		}
	}
	if !desc.hasBody {
		e.buf = append(e.buf, "/>"...)
		return nil
	}
	e.buf = append(e.buf, '>')
	for _, b := range desc.fields {
		switch b.role {
		case RoleValue:
			if b.isDefault(rec) {
				continue
			}
			if err := b.encodeChild(e, rec); err != nil {
				return err
			}
		case RoleText:
			if b.isDefault(rec) {
				continue
			}
			if err := e.text(desc, b, rec); err != nil {
				return err
			}
		}
	}
	e.buf = append(e.buf, "</"...)
	e.buf = append(e.buf, desc.name...)
	e.buf = append(e.buf, '>')
	return nil
}

func (e *encoder) attr(desc *Descriptor, b *binding, rec any) error {
	value, err := e.leaf(desc, b, rec)
	if err != nil {
		return err
	}
	e.buf = append(e.buf, ' ')
	e.buf = append(e.buf, b.name...)
	e.buf = append(e.buf, `="`...)
	if e.opts.rawOutput {
		e.buf = append(e.buf, value...)
	} else {
		e.buf = xmltext.AppendEscapedAttr(e.buf, value)
	}
	e.buf = append(e.buf, '"')
	return nil
}

func (e *encoder) text(desc *Descriptor, b *binding, rec any) error {
	value, err := e.leaf(desc, b, rec)
	if err != nil {
		return err
	}
	if e.opts.rawOutput {
		e.buf = append(e.buf, value...)
	} else {
		e.buf = xmltext.AppendEscapedText(e.buf, value)
	}
	return nil
}

// leaf encodes a leaf into the scratch buffer. The result is valid until the
// next call.
func (e *encoder) leaf(desc *Descriptor, b *binding, rec any) ([]byte, error) {
	value, err := b.appendBuf(e.scratch[:0], rec)
	if err != nil {
		return nil, fieldError(desc, b, err, 0, 0)
	}
	e.scratch = value
	return value, nil
}
