package xmlbind

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/jacoelho/xmlbind/errors"
	"github.com/jacoelho/xmlbind/internal/num"
)

// Codec converts a leaf value to and from the raw bytes of an attribute value
// or element text. Decoding must consume the whole buffer.
type Codec[V any] interface {
	// TypeName names the leaf type in errors.
	TypeName() string
	DecodeBuf(buf []byte) (V, error)
	AppendBuf(dst []byte, v V) ([]byte, error)
}

// Leaf codecs for the built-in types.
var (
	Bool    Codec[bool]    = boolCodec{}
	String  Codec[string]  = stringCodec{}
	Bytes   Codec[[]byte]  = bytesCodec{}
	Int     Codec[int]     = signedCodec[int]{name: "int", bits: strconv.IntSize}
	Int8    Codec[int8]    = signedCodec[int8]{name: "int8", bits: 8}
	Int16   Codec[int16]   = signedCodec[int16]{name: "int16", bits: 16}
	Int32   Codec[int32]   = signedCodec[int32]{name: "int32", bits: 32}
	Int64   Codec[int64]   = signedCodec[int64]{name: "int64", bits: 64}
	Uint    Codec[uint]    = unsignedCodec[uint]{name: "uint", bits: strconv.IntSize}
	Uint8   Codec[uint8]   = unsignedCodec[uint8]{name: "uint8", bits: 8}
	Uint16  Codec[uint16]  = unsignedCodec[uint16]{name: "uint16", bits: 16}
	Uint32  Codec[uint32]  = unsignedCodec[uint32]{name: "uint32", bits: 32}
	Uint64  Codec[uint64]  = unsignedCodec[uint64]{name: "uint64", bits: 64}
	Float32 Codec[float32] = floatCodec[float32]{name: "float32", bits: 32}
	Float64 Codec[float64] = floatCodec[float64]{name: "float64", bits: 64}
)

type boolCodec struct{}

func (boolCodec) TypeName() string { return "bool" }

// DecodeBuf accepts 0, 1, false and true.
func (boolCodec) DecodeBuf(buf []byte) (bool, error) {
	switch string(buf) {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	}
	return false, errors.Newf(errors.KindInvalidLeafValue, "bool", "invalid boolean %q", buf)
}

// AppendBuf writes 0 or 1.
func (boolCodec) AppendBuf(dst []byte, v bool) ([]byte, error) {
	if v {
		return append(dst, '1'), nil
	}
	return append(dst, '0'), nil
}

type stringCodec struct{}

func (stringCodec) TypeName() string { return "string" }

func (stringCodec) DecodeBuf(buf []byte) (string, error) {
	if !utf8.Valid(buf) {
		return "", errors.New(errors.KindEncoding, "string", "invalid UTF-8")
	}
	return string(buf), nil
}

func (stringCodec) AppendBuf(dst []byte, v string) ([]byte, error) {
	return append(dst, v...), nil
}

type bytesCodec struct{}

func (bytesCodec) TypeName() string { return "bytes" }

func (bytesCodec) DecodeBuf(buf []byte) ([]byte, error) {
	return append([]byte(nil), buf...), nil
}

func (bytesCodec) AppendBuf(dst []byte, v []byte) ([]byte, error) {
	return append(dst, v...), nil
}

type signedCodec[V ~int | ~int8 | ~int16 | ~int32 | ~int64] struct {
	name string
	bits int
}

func (c signedCodec[V]) TypeName() string { return c.name }

func (c signedCodec[V]) DecodeBuf(buf []byte) (V, error) {
	v, perr := num.ParseInt(buf, c.bits)
	if perr != nil {
		return 0, leafParseError(c.name, buf, perr)
	}
	return V(v), nil
}

func (c signedCodec[V]) AppendBuf(dst []byte, v V) ([]byte, error) {
	return strconv.AppendInt(dst, int64(v), 10), nil
}

type unsignedCodec[V ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64] struct {
	name string
	bits int
}

func (c unsignedCodec[V]) TypeName() string { return c.name }

func (c unsignedCodec[V]) DecodeBuf(buf []byte) (V, error) {
	v, perr := num.ParseUint(buf, c.bits)
	if perr != nil {
		return 0, leafParseError(c.name, buf, perr)
	}
	return V(v), nil
}

func (c unsignedCodec[V]) AppendBuf(dst []byte, v V) ([]byte, error) {
	return strconv.AppendUint(dst, uint64(v), 10), nil
}

type floatCodec[V ~float32 | ~float64] struct {
	name string
	bits int
}

func (c floatCodec[V]) TypeName() string { return c.name }

func (c floatCodec[V]) DecodeBuf(buf []byte) (V, error) {
	v, perr := num.ParseFloat(buf, c.bits)
	if perr != nil {
		return 0, leafParseError(c.name, buf, perr)
	}
	return V(v), nil
}

func (c floatCodec[V]) AppendBuf(dst []byte, v V) ([]byte, error) {
	return num.AppendFloat(dst, float64(v), c.bits), nil
}

func leafParseError(typ string, buf []byte, perr *num.ParseError) error {
	return &errors.Error{
		Kind:     errors.KindInvalidLeafValue,
		Type:     typ,
		Message:  fmt.Sprintf("%s in %q", perr.Error(), buf),
		Consumed: perr.Consumed,
		Length:   perr.Length,
	}
}

type optionalCodec[V any] struct {
	inner Codec[V]
}

// Optional wraps c so a field can hold an absent value.
// Decoding always yields a non-nil pointer; encoding nil fails with
// errors.KindEmptyOptional.
func Optional[V any](c Codec[V]) Codec[*V] {
	return optionalCodec[V]{inner: c}
}

func (c optionalCodec[V]) TypeName() string { return c.inner.TypeName() }

func (c optionalCodec[V]) DecodeBuf(buf []byte) (*V, error) {
	v, err := c.inner.DecodeBuf(buf)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c optionalCodec[V]) AppendBuf(dst []byte, v *V) ([]byte, error) {
	if v == nil {
		return dst, errors.New(errors.KindEmptyOptional, c.inner.TypeName(), "cannot serialize empty optional")
	}
	return c.inner.AppendBuf(dst, *v)
}
