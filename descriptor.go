package xmlbind

import (
	"fmt"
	"sync/atomic"

	xberrors "github.com/jacoelho/xmlbind/errors"
	"github.com/jacoelho/xmlbind/pkg/xmlstream"
)

// Role identifies how a field maps onto XML.
type Role uint8

const (
	RoleAttribute Role = iota + 1
	RoleValue
	RoleText
	RoleNamespaces
)

// String returns a stable label for the role.
func (r Role) String() string {
	switch r {
	case RoleAttribute:
		return "attribute"
	case RoleValue:
		return "value"
	case RoleText:
		return "text"
	case RoleNamespaces:
		return "namespaces"
	default:
		return "unknown"
	}
}

// binding is the type-erased form of one field. rec is always a pointer to
// the record type that owns the field.
type binding struct {
	err   error
	child *Descriptor
	name  string
	leaf  string

	setDefault  func(rec any)
	isDefault   func(rec any) bool
	validate    func(rec any) error
	decodeBuf   func(rec any, buf []byte) error
	appendBuf   func(dst []byte, rec any) ([]byte, error)
	decodeChild func(d *decoder, rec any, start *xmlstream.Event) error
	encodeChild func(e *encoder, rec any) error
	collect     func(rec any, name, value []byte)
	namespaces  func(rec any) Namespaces

	role       Role
	many       bool
	hasDefault bool
}

func (b *binding) required() bool {
	switch b.role {
	case RoleAttribute, RoleText:
		return !b.hasDefault
	case RoleValue:
		return !b.many && !b.hasDefault
	default:
		return false
	}
}

// FieldInfo describes one field of a descriptor.
type FieldInfo struct {
	// Name is the serialized attribute or child element name; empty for text
	// and namespace fields.
	Name string
	// Leaf names the codec type for attribute and text fields.
	Leaf     string
	Child    *Descriptor
	Role     Role
	Many     bool
	Required bool
}

// Descriptor is the immutable binding schema of one record type.
// It is safe for concurrent use once defined.
type Descriptor struct {
	name       string
	fields     []*binding
	attrs      nameIndex
	values     nameIndex
	text       *binding
	namespaces *binding
	hasBody    bool
	// defining is claimed by the first Define call and released if it fails.
	defining atomic.Bool
	defined  atomic.Bool
}

// Name returns the serialized element name.
func (d *Descriptor) Name() string {
	return d.name
}

// Fields describes the fields in declaration order.
func (d *Descriptor) Fields() []FieldInfo {
	out := make([]FieldInfo, 0, len(d.fields))
	for _, b := range d.fields {
		name := b.name
		if b.role == RoleText || b.role == RoleNamespaces {
			name = ""
		}
		out = append(out, FieldInfo{
			Name:     name,
			Leaf:     b.leaf,
			Child:    b.child,
			Role:     b.role,
			Many:     b.many,
			Required: b.required(),
		})
	}
	return out
}

func (d *Descriptor) applyDefaults(rec any) {
	for _, b := range d.fields {
		b.setDefault(rec)
	}
}

func (d *Descriptor) define(fields []*binding) error {
	if !d.defining.CompareAndSwap(false, true) {
		return xberrors.New(xberrors.KindDescriptor, d.name, "descriptor already defined")
	}
	if err := d.install(fields); err != nil {
		d.defining.Store(false)
		return err
	}
	d.defined.Store(true)
	return nil
}

// install validates fields and stores the lookup tables. The caller holds the
// defining claim.
func (d *Descriptor) install(fields []*binding) error {
	var (
		attrs, values    nameIndex
		text, namespaces *binding
		hasBody          bool
	)
	for i, b := range fields {
		if b.err != nil {
			return &xberrors.Error{Kind: xberrors.KindDescriptor, Type: d.name, Field: b.name, Err: b.err}
		}
		switch b.role {
		case RoleAttribute:
			if b.name == "" {
				return xberrors.Newf(xberrors.KindDescriptor, d.name, "attribute %d has an empty name", i)
			}
			if !attrs.add(b.name, i) {
				return xberrors.Newf(xberrors.KindDescriptor, d.name, "duplicate attribute %s", b.name)
			}
		case RoleValue:
			if b.child == nil {
				return xberrors.Newf(xberrors.KindDescriptor, d.name, "value field %d has no child descriptor", i)
			}
			if !values.add(b.name, i) {
				return xberrors.Newf(xberrors.KindDescriptor, d.name, "duplicate child element %s", b.name)
			}
			hasBody = true
		case RoleText:
			if text != nil {
				return xberrors.New(xberrors.KindDescriptor, d.name, "more than one text field")
			}
			text = b
			hasBody = true
		case RoleNamespaces:
			if namespaces != nil {
				return xberrors.New(xberrors.KindDescriptor, d.name, "more than one namespace collector")
			}
			namespaces = b
		default:
			return xberrors.Newf(xberrors.KindDescriptor, d.name, "field %d has no role", i)
		}
	}
	if text != nil && namespaces != nil {
		return xberrors.New(xberrors.KindDescriptor, d.name, "text field and namespace collector are mutually exclusive")
	}
	d.fields = fields
	d.attrs, d.values = attrs, values
	d.text, d.namespaces = text, namespaces
	d.hasBody = hasBody
	return nil
}

// Record is a typed handle to the descriptor of T.
type Record[T any] struct {
	desc *Descriptor
}

// DeclareRecord creates a record whose fields are supplied later by Define.
// It allows recursive types to reference their own record.
func DeclareRecord[T any](name string) (*Record[T], error) {
	if name == "" {
		return nil, xberrors.New(xberrors.KindDescriptor, fmt.Sprintf("%T", *new(T)), "empty element name")
	}
	return &Record[T]{desc: &Descriptor{name: name}}, nil
}

// NewRecord builds the descriptor of T bound to the element name.
func NewRecord[T any](name string, fields ...Field[T]) (*Record[T], error) {
	rec, err := DeclareRecord[T](name)
	if err != nil {
		return nil, err
	}
	if err := rec.Define(fields...); err != nil {
		return nil, err
	}
	return rec, nil
}

// MustRecord is like NewRecord but panics on an invalid descriptor.
func MustRecord[T any](name string, fields ...Field[T]) *Record[T] {
	rec, err := NewRecord(name, fields...)
	if err != nil {
		panic(err)
	}
	return rec
}

// Define sets the fields of a declared record. It may be called once.
func (r *Record[T]) Define(fields ...Field[T]) error {
	bindings := make([]*binding, 0, len(fields))
	for _, f := range fields {
		if f.b == nil {
			return xberrors.New(xberrors.KindDescriptor, r.desc.name, "zero Field value")
		}
		bindings = append(bindings, f.b)
	}
	return r.desc.define(bindings)
}

// Descriptor returns the type-erased descriptor.
func (r *Record[T]) Descriptor() *Descriptor {
	return r.desc
}

// Name returns the serialized element name.
func (r *Record[T]) Name() string {
	return r.desc.name
}

// New returns a value with every declared default applied.
func (r *Record[T]) New() T {
	var v T
	r.desc.applyDefaults(&v)
	return v
}
