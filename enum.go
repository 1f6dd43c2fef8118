package xmlbind

import (
	"fmt"

	xberrors "github.com/jacoelho/xmlbind/errors"
)

// EnumCase pairs an enum value with its serialized literal.
type EnumCase[E comparable] struct {
	Value   E
	Literal string
}

// Case declares one enum literal.
func Case[E comparable](v E, literal string) EnumCase[E] {
	return EnumCase[E]{Value: v, Literal: literal}
}

// Enum is a codec for a closed set of values, each serialized as a literal.
type Enum[E comparable] struct {
	name     string
	cases    []EnumCase[E]
	literals nameIndex
}

// NewEnum builds an enum codec. Literals are matched byte for byte in the
// declared order.
func NewEnum[E comparable](name string, cases ...EnumCase[E]) (*Enum[E], error) {
	if name == "" {
		return nil, xberrors.New(xberrors.KindDescriptor, fmt.Sprintf("%T", *new(E)), "empty enum name")
	}
	if len(cases) == 0 {
		return nil, xberrors.New(xberrors.KindDescriptor, name, "enum has no cases")
	}
	e := &Enum[E]{name: name, cases: make([]EnumCase[E], 0, len(cases))}
	seen := make(map[E]struct{}, len(cases))
	for i, c := range cases {
		if !e.literals.add(c.Literal, i) {
			return nil, xberrors.Newf(xberrors.KindDescriptor, name, "duplicate literal %q", c.Literal)
		}
		if _, ok := seen[c.Value]; ok {
			return nil, xberrors.Newf(xberrors.KindDescriptor, name, "duplicate value for literal %q", c.Literal)
		}
		seen[c.Value] = struct{}{}
		e.cases = append(e.cases, c)
	}
	return e, nil
}

// MustEnum is like NewEnum but panics on an invalid declaration.
func MustEnum[E comparable](name string, cases ...EnumCase[E]) *Enum[E] {
	e, err := NewEnum(name, cases...)
	if err != nil {
		panic(err)
	}
	return e
}

// TypeName returns the serialized enum name.
func (e *Enum[E]) TypeName() string { return e.name }

// DecodeBuf maps a literal to its value.
func (e *Enum[E]) DecodeBuf(buf []byte) (E, error) {
	if i, ok := e.literals.lookup(buf); ok {
		return e.cases[i].Value, nil
	}
	var zero E
	return zero, xberrors.Newf(xberrors.KindInvalidLeafValue, e.name, "invalid value %q", buf)
}

// AppendBuf writes the literal of v.
func (e *Enum[E]) AppendBuf(dst []byte, v E) ([]byte, error) {
	for _, c := range e.cases {
		if c.Value == v {
			return append(dst, c.Literal...), nil
		}
	}
	return dst, xberrors.Newf(xberrors.KindInvalidLeafValue, e.name, "value %v has no literal", v)
}

// Literals returns the declared literals in order.
func (e *Enum[E]) Literals() []string {
	out := make([]string, len(e.cases))
	for i, c := range e.cases {
		out[i] = c.Literal
	}
	return out
}
