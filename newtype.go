package xmlbind

import (
	"fmt"

	xberrors "github.com/jacoelho/xmlbind/errors"
)

// Newtype is a codec for a single-value wrapper type N over an inner V.
type Newtype[N, V any] struct {
	inner    Codec[V]
	wrap     func(V) N
	unwrap   func(N) V
	validate func(V) error
	name     string
}

// NewNewtype builds a wrapper codec. validate may be nil; when set it runs on
// every decoded inner value before wrapping.
func NewNewtype[N, V any](name string, inner Codec[V], wrap func(V) N, unwrap func(N) V, validate func(V) error) (*Newtype[N, V], error) {
	if name == "" {
		return nil, xberrors.New(xberrors.KindDescriptor, fmt.Sprintf("%T", *new(N)), "empty newtype name")
	}
	if inner == nil || wrap == nil || unwrap == nil {
		return nil, xberrors.New(xberrors.KindDescriptor, name, "newtype requires an inner codec, wrap and unwrap")
	}
	return &Newtype[N, V]{name: name, inner: inner, wrap: wrap, unwrap: unwrap, validate: validate}, nil
}

// MustNewtype is like NewNewtype but panics on an invalid declaration.
func MustNewtype[N, V any](name string, inner Codec[V], wrap func(V) N, unwrap func(N) V, validate func(V) error) *Newtype[N, V] {
	n, err := NewNewtype(name, inner, wrap, unwrap, validate)
	if err != nil {
		panic(err)
	}
	return n
}

// TypeName returns the serialized newtype name.
func (n *Newtype[N, V]) TypeName() string { return n.name }

// DecodeBuf decodes the inner value, validates it and wraps it.
func (n *Newtype[N, V]) DecodeBuf(buf []byte) (N, error) {
	var zero N
	v, err := n.inner.DecodeBuf(buf)
	if err != nil {
		return zero, err
	}
	if n.validate != nil {
		if err := n.validate(v); err != nil {
			return zero, &xberrors.Error{Kind: xberrors.KindValidationFailed, Type: n.name, Err: err}
		}
	}
	return n.wrap(v), nil
}

// AppendBuf delegates to the inner codec.
func (n *Newtype[N, V]) AppendBuf(dst []byte, v N) ([]byte, error) {
	return n.inner.AppendBuf(dst, n.unwrap(v))
}
