package xmlbind

import (
	"bytes"
	"errors"
	"reflect"

	"github.com/jacoelho/xmlbind/pkg/xmlstream"
)

const (
	textFieldName       = "#text"
	namespacesFieldName = "#namespaces"
	namespacePrefix     = "xmlns"
)

var (
	errNilAccessor = errors.New("nil field accessor")
	errNilCodec    = errors.New("nil codec")
	errNilRecord   = errors.New("nil child record")
)

// Field is one declared binding of a record of type T.
type Field[T any] struct {
	b *binding
}

// Namespace is a raw namespace declaration attribute.
type Namespace struct {
	Name  string
	Value string
}

// Namespaces holds namespace declarations in document order.
type Namespaces []Namespace

// Lookup returns the value declared for the attribute name.
func (ns Namespaces) Lookup(name string) (string, bool) {
	for _, n := range ns {
		if n.Name == name {
			return n.Value, true
		}
	}
	return "", false
}

// FieldOption configures a field holding values of type V.
type FieldOption[V any] func(*fieldConfig[V])

type fieldConfig[V any] struct {
	def        V
	validate   func(V) error
	hasDefault bool
}

// Default makes the field optional on input and omits it on output while it
// holds v.
func Default[V any](v V) FieldOption[V] {
	return func(c *fieldConfig[V]) {
		c.def = v
		c.hasDefault = true
	}
}

// Validate runs fn against the bound value once the element is complete.
func Validate[V any](fn func(V) error) FieldOption[V] {
	return func(c *fieldConfig[V]) {
		c.validate = fn
	}
}

func newFieldConfig[V any](opts []FieldOption[V]) fieldConfig[V] {
	var cfg fieldConfig[V]
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (c *fieldConfig[V]) isDefault(v V) bool {
	return c.hasDefault && valuesEqual(v, c.def)
}

// valuesEqual compares with == when V is comparable by value and falls back to
// deep equality for pointers, slices and structs holding them.
func valuesEqual[V any](a, b V) bool {
	t := reflect.TypeFor[V]()
	if t.Comparable() && t.Kind() != reflect.Interface && t.Kind() != reflect.Pointer {
		return any(a) == any(b)
	}
	return reflect.DeepEqual(a, b)
}

func bindValidator[T, V any](at func(*T) *V, fn func(V) error) func(rec any) error {
	if fn == nil {
		return nil
	}
	return func(rec any) error {
		return fn(*at(rec.(*T)))
	}
}

func invalidField[T any](name string, role Role, err error) Field[T] {
	return Field[T]{b: &binding{name: name, role: role, err: err}}
}

func leafBinding[T, V any](name string, role Role, at func(*T) *V, c Codec[V], opts []FieldOption[V]) Field[T] {
	if at == nil {
		return invalidField[T](name, role, errNilAccessor)
	}
	if c == nil {
		return invalidField[T](name, role, errNilCodec)
	}
	cfg := newFieldConfig(opts)
	return Field[T]{b: &binding{
		name:       name,
		leaf:       c.TypeName(),
		role:       role,
		hasDefault: cfg.hasDefault,
		setDefault: func(rec any) {
			*at(rec.(*T)) = cfg.def
		},
		isDefault: func(rec any) bool {
			return cfg.isDefault(*at(rec.(*T)))
		},
		validate: bindValidator(at, cfg.validate),
		decodeBuf: func(rec any, buf []byte) error {
			v, err := c.DecodeBuf(buf)
			if err != nil {
				return err
			}
			*at(rec.(*T)) = v
			return nil
		},
		appendBuf: func(dst []byte, rec any) ([]byte, error) {
			return c.AppendBuf(dst, *at(rec.(*T)))
		},
	}}
}

// Attr binds an attribute of the element to the field returned by at.
func Attr[T, V any](name string, at func(*T) *V, c Codec[V], opts ...FieldOption[V]) Field[T] {
	return leafBinding(name, RoleAttribute, at, c, opts)
}

// OptionalAttr binds an attribute that may be absent. The field is nil when
// the attribute is missing and a nil field is not written.
func OptionalAttr[T, V any](name string, at func(*T) **V, c Codec[V], opts ...FieldOption[*V]) Field[T] {
	if c == nil {
		return invalidField[T](name, RoleAttribute, errNilCodec)
	}
	return leafBinding(name, RoleAttribute, at, Optional(c), append([]FieldOption[*V]{Default[*V](nil)}, opts...))
}

// Text binds the character data of the element.
func Text[T, V any](at func(*T) *V, c Codec[V], opts ...FieldOption[V]) Field[T] {
	return leafBinding(textFieldName, RoleText, at, c, opts)
}

// Child binds a single child element described by rec.
func Child[T, C any](at func(*T) *C, rec *Record[C], opts ...FieldOption[C]) Field[T] {
	if rec == nil {
		return invalidField[T]("", RoleValue, errNilRecord)
	}
	if at == nil {
		return invalidField[T](rec.desc.name, RoleValue, errNilAccessor)
	}
	desc := rec.desc
	cfg := newFieldConfig(opts)
	return Field[T]{b: &binding{
		name:       desc.name,
		child:      desc,
		role:       RoleValue,
		hasDefault: cfg.hasDefault,
		setDefault: func(r any) {
			*at(r.(*T)) = cfg.def
		},
		isDefault: func(r any) bool {
			return cfg.isDefault(*at(r.(*T)))
		},
		validate: bindValidator(at, cfg.validate),
		decodeChild: func(d *decoder, r any, start *xmlstream.Event) error {
			return d.element(desc, at(r.(*T)), start)
		},
		encodeChild: func(e *encoder, r any) error {
			return e.element(desc, at(r.(*T)))
		},
	}}
}

// OptionalChild binds a child element that may be absent. The field is nil
// when the element is missing and a nil field is not written.
func OptionalChild[T, C any](at func(*T) **C, rec *Record[C], opts ...FieldOption[*C]) Field[T] {
	if rec == nil {
		return invalidField[T]("", RoleValue, errNilRecord)
	}
	if at == nil {
		return invalidField[T](rec.desc.name, RoleValue, errNilAccessor)
	}
	desc := rec.desc
	cfg := newFieldConfig(opts)
	return Field[T]{b: &binding{
		name:       desc.name,
		child:      desc,
		role:       RoleValue,
		hasDefault: true,
		setDefault: func(r any) {
			*at(r.(*T)) = nil
		},
		isDefault: func(r any) bool {
			return *at(r.(*T)) == nil
		},
		validate: bindValidator(at, cfg.validate),
		decodeChild: func(d *decoder, r any, start *xmlstream.Event) error {
			v := new(C)
			if err := d.element(desc, v, start); err != nil {
				return err
			}
			*at(r.(*T)) = v
			return nil
		},
		encodeChild: func(e *encoder, r any) error {
			return e.element(desc, *at(r.(*T)))
		},
	}}
}

// Children binds every occurrence of a repeated child element, in document order.
func Children[T, C any](at func(*T) *[]C, rec *Record[C], opts ...FieldOption[[]C]) Field[T] {
	if rec == nil {
		return invalidField[T]("", RoleValue, errNilRecord)
	}
	if at == nil {
		return invalidField[T](rec.desc.name, RoleValue, errNilAccessor)
	}
	desc := rec.desc
	cfg := newFieldConfig(opts)
	return Field[T]{b: &binding{
		name:  desc.name,
		child: desc,
		role:  RoleValue,
		many:  true,
		setDefault: func(r any) {
			*at(r.(*T)) = nil
		},
		isDefault: func(r any) bool {
			return len(*at(r.(*T))) == 0
		},
		validate: bindValidator(at, cfg.validate),
		decodeChild: func(d *decoder, r any, start *xmlstream.Event) error {
			s := at(r.(*T))
			var zero C
			*s = append(*s, zero)
			return d.element(desc, &(*s)[len(*s)-1], start)
		},
		encodeChild: func(e *encoder, r any) error {
			s := *at(r.(*T))
			for i := range s {
				if err := e.element(desc, &s[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}}
}

// CollectNamespaces gathers every attribute whose name starts with xmlns.
// Collected values are kept as written and are emitted unchanged.
func CollectNamespaces[T any](at func(*T) *Namespaces) Field[T] {
	if at == nil {
		return invalidField[T](namespacesFieldName, RoleNamespaces, errNilAccessor)
	}
	return Field[T]{b: &binding{
		name: namespacesFieldName,
		role: RoleNamespaces,
		setDefault: func(rec any) {
			*at(rec.(*T)) = nil
		},
		isDefault: func(rec any) bool {
			return len(*at(rec.(*T))) == 0
		},
		collect: func(rec any, name, value []byte) {
			ns := at(rec.(*T))
			*ns = append(*ns, Namespace{Name: string(name), Value: string(value)})
		},
		namespaces: func(rec any) Namespaces {
			return *at(rec.(*T))
		},
	}}
}

func isNamespaceDecl(name []byte) bool {
	return bytes.HasPrefix(name, []byte(namespacePrefix))
}

func isPrefixed(name []byte) bool {
	return bytes.IndexByte(name, ':') >= 0
}

// fieldSet records which fields were bound while decoding one element.
type fieldSet struct {
	overflow []bool
	bits     uint64
}

func newFieldSet(n int) fieldSet {
	if n > 64 {
		return fieldSet{overflow: make([]bool, n)}
	}
	return fieldSet{}
}

func (s *fieldSet) set(i int) {
	if s.overflow != nil {
		s.overflow[i] = true
		return
	}
	s.bits |= 1 << uint(i)
}

func (s *fieldSet) has(i int) bool {
	if s.overflow != nil {
		return s.overflow[i]
	}
	return s.bits&(1<<uint(i)) != 0
}
