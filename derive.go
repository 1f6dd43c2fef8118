package xmlbind

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	xberrors "github.com/jacoelho/xmlbind/errors"
	"github.com/jacoelho/xmlbind/internal/num"
	"github.com/jacoelho/xmlbind/pkg/xmlstream"
)

const deriveTagKey = "xmlbind"

// ElementName marks the field that carries the element name of a derived
// record: a field named XMLName of this type with the name in its tag.
type ElementName struct{}

// BufUnmarshaler is implemented by leaf types that decode themselves from the
// raw bytes of an attribute value or element text.
type BufUnmarshaler interface {
	UnmarshalXMLBuf(buf []byte) error
}

// BufMarshaler is implemented by leaf types that encode themselves.
type BufMarshaler interface {
	AppendXMLBuf(dst []byte) ([]byte, error)
}

// Validator is implemented by field values checked after an element is decoded.
type Validator interface {
	Validate() error
}

var (
	elementNameType    = reflect.TypeFor[ElementName]()
	namespacesType     = reflect.TypeFor[Namespaces]()
	bufUnmarshalerType = reflect.TypeFor[BufUnmarshaler]()
	bufMarshalerType   = reflect.TypeFor[BufMarshaler]()
	textUnmarshalType  = reflect.TypeFor[encoding.TextUnmarshaler]()
	textMarshalType    = reflect.TypeFor[encoding.TextMarshaler]()
	validatorType      = reflect.TypeFor[Validator]()
)

var derived = struct {
	descs map[reflect.Type]*Descriptor
	// pending lists the types registered by the Derive call in progress.
	pending []reflect.Type
	mu      sync.Mutex
}{descs: make(map[reflect.Type]*Descriptor)}

// Derive builds the record of struct type T from its field tags.
//
// Fields are bound with the tag key "xmlbind" in the form
// `xmlbind:"name,option,..."`. Options are attr, value, many, text,
// namespaces, default and default=<literal>; "-" skips the field. Untagged
// names are the lowerCamelCase form of the Go name. Struct fields default to
// child elements, slices of structs to repeated children, pointers to optional
// fields and Namespaces fields to the namespace collector. Everything else is
// an attribute.
//
// Descriptors are cached per type, so recursive types are supported.
func Derive[T any]() (*Record[T], error) {
	t := reflect.TypeFor[T]()
	derived.mu.Lock()
	defer derived.mu.Unlock()
	derived.pending = derived.pending[:0]
	desc, err := deriveDescriptor(t)
	if err != nil {
		// Descriptors derived alongside the failed one may reference its
		// placeholder, so none of them are kept.
		for _, p := range derived.pending {
			delete(derived.descs, p)
		}
		return nil, err
	}
	return &Record[T]{desc: desc}, nil
}

// MustDerive is like Derive but panics on an invalid type.
func MustDerive[T any]() *Record[T] {
	rec, err := Derive[T]()
	if err != nil {
		panic(err)
	}
	return rec
}

func deriveDescriptor(t reflect.Type) (*Descriptor, error) {
	if desc, ok := derived.descs[t]; ok {
		return desc, nil
	}
	if t.Kind() != reflect.Struct {
		return nil, xberrors.Newf(xberrors.KindDescriptor, t.String(), "cannot derive a record from %s", t.Kind())
	}
	name := lowerCamel(t.Name())
	if f, ok := t.FieldByName("XMLName"); ok && f.Type == elementNameType {
		if tagName, _, _ := strings.Cut(f.Tag.Get(deriveTagKey), ","); tagName != "" {
			name = tagName
		}
	}
	if name == "" {
		return nil, xberrors.New(xberrors.KindDescriptor, t.String(), "anonymous struct needs an XMLName field")
	}
	desc := &Descriptor{name: name}
	// Registered before the fields so recursive references resolve to it.
	derived.descs[t] = desc
	derived.pending = append(derived.pending, t)
	fields := make([]*binding, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() || (sf.Name == "XMLName" && sf.Type == elementNameType) {
			continue
		}
		tag, ok, err := parseDeriveTag(sf)
		if err != nil {
			return nil, xberrors.Newf(xberrors.KindDescriptor, name, "field %s: %v", sf.Name, err)
		}
		if !ok {
			continue
		}
		b, err := deriveField(sf, i, tag)
		if err != nil {
			return nil, xberrors.Newf(xberrors.KindDescriptor, name, "field %s: %v", sf.Name, err)
		}
		fields = append(fields, b)
	}
	if err := desc.define(fields); err != nil {
		return nil, err
	}
	return desc, nil
}

type deriveTag struct {
	name       string
	literal    string
	role       Role
	many       bool
	hasDefault bool
	hasLiteral bool
}

func parseDeriveTag(sf reflect.StructField) (deriveTag, bool, error) {
	raw, tagged := sf.Tag.Lookup(deriveTagKey)
	if raw == "-" {
		return deriveTag{}, false, nil
	}
	var tag deriveTag
	name, rest, _ := strings.Cut(raw, ",")
	tag.name = name
	if !tagged || tag.name == "" {
		tag.name = lowerCamel(sf.Name)
	}
	for rest != "" {
		var opt string
		if strings.HasPrefix(rest, "default=") {
			tag.hasDefault = true
			tag.hasLiteral = true
			tag.literal = strings.TrimPrefix(rest, "default=")
			break
		}
		opt, rest, _ = strings.Cut(rest, ",")
		switch opt {
		case "attr":
			tag.role = RoleAttribute
		case "value":
			tag.role = RoleValue
		case "many":
			tag.role = RoleValue
			tag.many = true
		case "text":
			tag.role = RoleText
		case "namespaces":
			tag.role = RoleNamespaces
		case "default":
			tag.hasDefault = true
		case "":
		default:
			return deriveTag{}, false, fmt.Errorf("unknown tag option %q", opt)
		}
	}
	return tag, true, nil
}

func fieldOf(rec any, index int) reflect.Value {
	return reflect.ValueOf(rec).Elem().Field(index)
}

func deriveField(sf reflect.StructField, index int, tag deriveTag) (*binding, error) {
	ft := sf.Type
	if tag.role == 0 {
		tag.role, tag.many = inferRole(ft)
	}
	var (
		b   *binding
		err error
	)
	switch tag.role {
	case RoleNamespaces:
		if ft != namespacesType {
			return nil, fmt.Errorf("namespace collector must be of type Namespaces, got %s", ft)
		}
		b = &binding{
			name: namespacesFieldName,
			role: RoleNamespaces,
			setDefault: func(rec any) {
				fieldOf(rec, index).SetZero()
			},
			isDefault: func(rec any) bool {
				return fieldOf(rec, index).Len() == 0
			},
			collect: func(rec any, name, value []byte) {
				fv := fieldOf(rec, index)
				ns := fv.Addr().Interface().(*Namespaces)
				*ns = append(*ns, Namespace{Name: string(name), Value: string(value)})
			},
			namespaces: func(rec any) Namespaces {
				return fieldOf(rec, index).Interface().(Namespaces)
			},
		}
		return b, nil
	case RoleValue:
		b, err = deriveChild(ft, index, tag)
	case RoleAttribute, RoleText:
		name := tag.name
		if tag.role == RoleText {
			name = textFieldName
		}
		b, err = deriveLeaf(name, tag.role, ft, index, tag)
	}
	if err != nil {
		return nil, err
	}
	b.validate = deriveValidator(ft, index)
	return b, nil
}

func inferRole(t reflect.Type) (Role, bool) {
	if t == namespacesType {
		return RoleNamespaces, false
	}
	if isLeafType(t) {
		return RoleAttribute, false
	}
	switch t.Kind() {
	case reflect.Struct:
		return RoleValue, false
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct && !isLeafType(t.Elem()) {
			return RoleValue, false
		}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Struct && !isLeafType(t.Elem()) {
			return RoleValue, true
		}
	}
	return RoleAttribute, false
}

func isLeafType(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return pt.Implements(bufUnmarshalerType) || pt.Implements(textUnmarshalType)
}

func deriveChild(ft reflect.Type, index int, tag deriveTag) (*binding, error) {
	if tag.hasLiteral {
		return nil, fmt.Errorf("child elements cannot have a literal default")
	}
	switch {
	case tag.many:
		if ft.Kind() != reflect.Slice {
			return nil, fmt.Errorf("many field must be a slice, got %s", ft)
		}
		child, err := deriveDescriptor(ft.Elem())
		if err != nil {
			return nil, err
		}
		return &binding{
			name:  child.name,
			child: child,
			role:  RoleValue,
			many:  true,
			setDefault: func(rec any) {
				fieldOf(rec, index).SetZero()
			},
			isDefault: func(rec any) bool {
				return fieldOf(rec, index).Len() == 0
			},
			decodeChild: func(d *decoder, rec any, start *xmlstream.Event) error {
				fv := fieldOf(rec, index)
				fv.Set(reflect.Append(fv, reflect.Zero(ft.Elem())))
				return d.element(child, fv.Index(fv.Len()-1).Addr().Interface(), start)
			},
			encodeChild: func(e *encoder, rec any) error {
				fv := fieldOf(rec, index)
				for i := range fv.Len() {
					if err := e.element(child, fv.Index(i).Addr().Interface()); err != nil {
						return err
					}
				}
				return nil
			},
		}, nil
	case ft.Kind() == reflect.Pointer:
		elem := ft.Elem()
		child, err := deriveDescriptor(elem)
		if err != nil {
			return nil, err
		}
		return &binding{
			name:       child.name,
			child:      child,
			role:       RoleValue,
			hasDefault: true,
			setDefault: func(rec any) {
				fieldOf(rec, index).SetZero()
			},
			isDefault: func(rec any) bool {
				return fieldOf(rec, index).IsNil()
			},
			decodeChild: func(d *decoder, rec any, start *xmlstream.Event) error {
				nv := reflect.New(elem)
				if err := d.element(child, nv.Interface(), start); err != nil {
					return err
				}
				fieldOf(rec, index).Set(nv)
				return nil
			},
			encodeChild: func(e *encoder, rec any) error {
				return e.element(child, fieldOf(rec, index).Interface())
			},
		}, nil
	default:
		child, err := deriveDescriptor(ft)
		if err != nil {
			return nil, err
		}
		return &binding{
			name:       child.name,
			child:      child,
			role:       RoleValue,
			hasDefault: tag.hasDefault,
			setDefault: func(rec any) {
				fieldOf(rec, index).SetZero()
			},
			isDefault: func(rec any) bool {
				return tag.hasDefault && fieldOf(rec, index).IsZero()
			},
			decodeChild: func(d *decoder, rec any, start *xmlstream.Event) error {
				return d.element(child, fieldOf(rec, index).Addr().Interface(), start)
			},
			encodeChild: func(e *encoder, rec any) error {
				return e.element(child, fieldOf(rec, index).Addr().Interface())
			},
		}, nil
	}
}

func deriveLeaf(name string, role Role, ft reflect.Type, index int, tag deriveTag) (*binding, error) {
	optional := ft.Kind() == reflect.Pointer && !isLeafType(ft)
	lt := ft
	if optional {
		lt = ft.Elem()
	}
	leaf, err := leafFor(lt)
	if err != nil {
		return nil, err
	}
	def := reflect.Zero(ft)
	if tag.hasLiteral {
		dv := reflect.New(lt).Elem()
		if err := leaf.decode([]byte(tag.literal), dv); err != nil {
			return nil, fmt.Errorf("invalid default %q: %v", tag.literal, err)
		}
		if optional {
			pv := reflect.New(lt)
			pv.Elem().Set(dv)
			dv = pv
		}
		def = dv
	}
	hasDefault := tag.hasDefault || optional
	b := &binding{
		name:       name,
		leaf:       leaf.name,
		role:       role,
		hasDefault: hasDefault,
		setDefault: func(rec any) {
			fv := fieldOf(rec, index)
			if optional && !def.IsNil() {
				pv := reflect.New(lt)
				pv.Elem().Set(def.Elem())
				fv.Set(pv)
				return
			}
			fv.Set(def)
		},
		isDefault: func(rec any) bool {
			return hasDefault && reflect.DeepEqual(fieldOf(rec, index).Interface(), def.Interface())
		},
		decodeBuf: func(rec any, buf []byte) error {
			fv := fieldOf(rec, index)
			if optional {
				nv := reflect.New(lt)
				if err := leaf.decode(buf, nv.Elem()); err != nil {
					return err
				}
				fv.Set(nv)
				return nil
			}
			return leaf.decode(buf, fv)
		},
		appendBuf: func(dst []byte, rec any) ([]byte, error) {
			fv := fieldOf(rec, index)
			if optional {
				if fv.IsNil() {
					return dst, xberrors.New(xberrors.KindEmptyOptional, leaf.name, "cannot serialize empty optional")
				}
				fv = fv.Elem()
			}
			return leaf.encode(dst, fv)
		},
	}
	return b, nil
}

func deriveValidator(ft reflect.Type, index int) func(rec any) error {
	switch {
	case ft.Implements(validatorType):
		return func(rec any) error {
			fv := fieldOf(rec, index)
			if ft.Kind() == reflect.Pointer && fv.IsNil() {
				return nil
			}
			return fv.Interface().(Validator).Validate()
		}
	case reflect.PointerTo(ft).Implements(validatorType):
		return func(rec any) error {
			return fieldOf(rec, index).Addr().Interface().(Validator).Validate()
		}
	}
	return nil
}

// reflectLeaf decodes into and encodes from addressable values of one type.
type reflectLeaf struct {
	decode func(buf []byte, dst reflect.Value) error
	encode func(dst []byte, v reflect.Value) ([]byte, error)
	name   string
}

func leafFor(t reflect.Type) (reflectLeaf, error) {
	pt := reflect.PointerTo(t)
	switch {
	case pt.Implements(bufUnmarshalerType):
		if !t.Implements(bufMarshalerType) && !pt.Implements(bufMarshalerType) {
			return reflectLeaf{}, fmt.Errorf("%s implements BufUnmarshaler but not BufMarshaler", t)
		}
		return reflectLeaf{
			name: leafTypeName(t),
			decode: func(buf []byte, dst reflect.Value) error {
				return dst.Addr().Interface().(BufUnmarshaler).UnmarshalXMLBuf(buf)
			},
			encode: func(dst []byte, v reflect.Value) ([]byte, error) {
				return marshalerOf[BufMarshaler](v).AppendXMLBuf(dst)
			},
		}, nil
	case pt.Implements(textUnmarshalType):
		if !t.Implements(textMarshalType) && !pt.Implements(textMarshalType) {
			return reflectLeaf{}, fmt.Errorf("%s implements TextUnmarshaler but not TextMarshaler", t)
		}
		return reflectLeaf{
			name: leafTypeName(t),
			decode: func(buf []byte, dst reflect.Value) error {
				return dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText(buf)
			},
			encode: func(dst []byte, v reflect.Value) ([]byte, error) {
				text, err := marshalerOf[encoding.TextMarshaler](v).MarshalText()
				if err != nil {
					return dst, err
				}
				return append(dst, text...), nil
			},
		}, nil
	}
	name := leafTypeName(t)
	switch t.Kind() {
	case reflect.Bool:
		return reflectLeaf{
			name: name,
			decode: func(buf []byte, dst reflect.Value) error {
				v, err := Bool.DecodeBuf(buf)
				if err != nil {
					return err
				}
				dst.SetBool(v)
				return nil
			},
			encode: func(dst []byte, v reflect.Value) ([]byte, error) {
				return Bool.AppendBuf(dst, v.Bool())
			},
		}, nil
	case reflect.String:
		return reflectLeaf{
			name: name,
			decode: func(buf []byte, dst reflect.Value) error {
				v, err := String.DecodeBuf(buf)
				if err != nil {
					return err
				}
				dst.SetString(v)
				return nil
			},
			encode: func(dst []byte, v reflect.Value) ([]byte, error) {
				return append(dst, v.String()...), nil
			},
		}, nil
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Uint8 {
			break
		}
		return reflectLeaf{
			name: name,
			decode: func(buf []byte, dst reflect.Value) error {
				dst.SetBytes(append([]byte(nil), buf...))
				return nil
			},
			encode: func(dst []byte, v reflect.Value) ([]byte, error) {
				return append(dst, v.Bytes()...), nil
			},
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		c := signedCodec[int64]{name: name, bits: t.Bits()}
		return reflectLeaf{
			name: name,
			decode: func(buf []byte, dst reflect.Value) error {
				v, err := c.DecodeBuf(buf)
				if err != nil {
					return err
				}
				dst.SetInt(v)
				return nil
			},
			encode: func(dst []byte, v reflect.Value) ([]byte, error) {
				return strconv.AppendInt(dst, v.Int(), 10), nil
			},
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		c := unsignedCodec[uint64]{name: name, bits: t.Bits()}
		return reflectLeaf{
			name: name,
			decode: func(buf []byte, dst reflect.Value) error {
				v, err := c.DecodeBuf(buf)
				if err != nil {
					return err
				}
				dst.SetUint(v)
				return nil
			},
			encode: func(dst []byte, v reflect.Value) ([]byte, error) {
				return strconv.AppendUint(dst, v.Uint(), 10), nil
			},
		}, nil
	case reflect.Float32, reflect.Float64:
		c := floatCodec[float64]{name: name, bits: t.Bits()}
		return reflectLeaf{
			name: name,
			decode: func(buf []byte, dst reflect.Value) error {
				v, err := c.DecodeBuf(buf)
				if err != nil {
					return err
				}
				dst.SetFloat(v)
				return nil
			},
			encode: func(dst []byte, v reflect.Value) ([]byte, error) {
				return num.AppendFloat(dst, v.Float(), t.Bits()), nil
			},
		}, nil
	}
	return reflectLeaf{}, fmt.Errorf("unsupported leaf type %s", t)
}

func marshalerOf[M any](v reflect.Value) M {
	if m, ok := v.Interface().(M); ok {
		return m
	}
	return v.Addr().Interface().(M)
}

func leafTypeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// lowerCamel converts a Go or snake_case identifier to lowerCamelCase.
// Words split at underscores, at a lower-to-upper transition and before the
// last capital of an acronym; digits keep the case of the preceding letter.
func lowerCamel(s string) string {
	words := splitWords(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if i > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		b.WriteString(string(runes))
	}
	return b.String()
}

type caseMode uint8

const (
	caseBoundary caseMode = iota
	caseLower
	caseUpper
)

func splitWords(s string) []string {
	var words []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(part)
		start := 0
		mode := caseBoundary
		for i, r := range runes {
			next := mode
			switch {
			case unicode.IsLower(r):
				next = caseLower
			case unicode.IsUpper(r):
				next = caseUpper
			}
			if i+1 < len(runes) {
				following := runes[i+1]
				switch {
				case next == caseLower && unicode.IsUpper(following):
					words = append(words, string(runes[start:i+1]))
					start = i + 1
					next = caseBoundary
				case mode == caseUpper && unicode.IsUpper(r) && unicode.IsLower(following):
					if i > start {
						words = append(words, string(runes[start:i]))
						start = i
					}
				}
			}
			mode = next
		}
		if start < len(runes) {
			words = append(words, string(runes[start:]))
		}
	}
	return words
}
