package xmlbind

import (
	"fmt"

	xberrors "github.com/jacoelho/xmlbind/errors"
)

// Alternative is one variant of a Union.
type Alternative[U any] struct {
	typeName string
	decode   func(buf []byte) (U, error)
	encode   func(dst []byte, u U) ([]byte, bool, error)
}

// Alt declares a variant decoded by c. wrap lifts a decoded payload into the
// union; unwrap reports whether a union value holds this variant.
func Alt[U, P any](c Codec[P], wrap func(P) U, unwrap func(U) (P, bool)) Alternative[U] {
	return Alternative[U]{
		typeName: c.TypeName(),
		decode: func(buf []byte) (U, error) {
			p, err := c.DecodeBuf(buf)
			if err != nil {
				var zero U
				return zero, err
			}
			return wrap(p), nil
		},
		encode: func(dst []byte, u U) ([]byte, bool, error) {
			p, ok := unwrap(u)
			if !ok {
				return dst, false, nil
			}
			out, err := c.AppendBuf(dst, p)
			return out, true, err
		},
	}
}

// Union is a codec for a tagless sum type: the first alternative that decodes
// the buffer wins.
type Union[U any] struct {
	name string
	alts []Alternative[U]
}

// NewUnion builds a union codec trying alternatives in declaration order.
func NewUnion[U any](name string, alts ...Alternative[U]) (*Union[U], error) {
	if name == "" {
		return nil, xberrors.New(xberrors.KindDescriptor, fmt.Sprintf("%T", *new(U)), "empty union name")
	}
	if len(alts) == 0 {
		return nil, xberrors.New(xberrors.KindDescriptor, name, "union has no alternatives")
	}
	for i, a := range alts {
		if a.decode == nil || a.encode == nil {
			return nil, xberrors.Newf(xberrors.KindDescriptor, name, "alternative %d is not initialized", i)
		}
	}
	return &Union[U]{name: name, alts: append([]Alternative[U](nil), alts...)}, nil
}

// MustUnion is like NewUnion but panics on an invalid declaration.
func MustUnion[U any](name string, alts ...Alternative[U]) *Union[U] {
	u, err := NewUnion(name, alts...)
	if err != nil {
		panic(err)
	}
	return u
}

// TypeName returns the serialized union name.
func (u *Union[U]) TypeName() string { return u.name }

// DecodeBuf returns the first successful alternative. When every alternative
// fails the error of the last one is returned unchanged.
func (u *Union[U]) DecodeBuf(buf []byte) (U, error) {
	var lastErr error
	for _, a := range u.alts {
		v, err := a.decode(buf)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	var zero U
	return zero, lastErr
}

// AppendBuf encodes v with the first alternative that holds it.
func (u *Union[U]) AppendBuf(dst []byte, v U) ([]byte, error) {
	for _, a := range u.alts {
		out, ok, err := a.encode(dst, v)
		if ok {
			return out, err
		}
	}
	return dst, xberrors.New(xberrors.KindInvalidLeafValue, u.name, "value matches no alternative")
}
