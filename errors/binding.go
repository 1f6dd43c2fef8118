package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a binding failure.
type Kind string

const (
	// KindTokenizer indicates malformed bytes from the underlying stream or an
	// unexpected end of input.
	KindTokenizer Kind = "xml-tokenizer"
	// KindInvalidLeafValue indicates a leaf decode failed or left unconsumed bytes.
	KindInvalidLeafValue Kind = "invalid-leaf-value"
	// KindMissingRequiredField indicates a required attribute or child was absent.
	KindMissingRequiredField Kind = "missing-required-field"
	// KindUnexpectedEvent indicates an event that is structurally invalid in the
	// current state (unknown unprefixed name, wrong end tag, stray text).
	KindUnexpectedEvent Kind = "unexpected-event"
	// KindValidationFailed indicates a field validator rejected a decoded value.
	KindValidationFailed Kind = "validation-failed"
	// KindEncoding indicates non UTF-8 content where text was required.
	KindEncoding Kind = "encoding"
	// KindEmptyOptional indicates an absent optional value reached the serializer.
	KindEmptyOptional Kind = "empty-optional"
	// KindDescriptor indicates an invalid binding descriptor.
	KindDescriptor Kind = "invalid-descriptor"
)

// Error describes a binding failure attributed to the owning type.
//
// Type is the serialized name of the record or leaf type that failed. Field is
// the serialized name of the field being bound, when known. Consumed and Length
// are set for leaf decode failures that stopped before the end of the buffer.
type Error struct {
	Err      error
	Kind     Kind
	Type     string
	Field    string
	Message  string
	Consumed int
	Length   int
	Line     int
	Column   int
}

// Error formats the error for display, including kind, message, and context.
func (e *Error) Error() string {
	if e == nil {
		return "xml error <nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "xml error in type %s: [%s] ", e.Type, e.Kind)
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	b.WriteString(msg)
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.Line > 0 && e.Column > 0 {
		fmt.Fprintf(&b, " at line %d, column %d", e.Line, e.Column)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New builds an Error with a kind, owning type name and message.
func New(kind Kind, typ, msg string) *Error {
	return &Error{Kind: kind, Type: typ, Message: msg}
}

// Newf formats a message and builds an Error.
func Newf(kind Kind, typ, format string, args ...any) *Error {
	return New(kind, typ, fmt.Sprintf(format, args...))
}

// Wrap builds an Error carrying err as its cause.
func Wrap(kind Kind, typ string, err error) *Error {
	return &Error{Kind: kind, Type: typ, Err: err}
}

// As extracts the binding error from err.
func As(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var be *Error
	if errors.As(err, &be) && be != nil {
		return be, true
	}
	return nil, false
}

// KindOf reports the kind of the binding error in err, or "" when err is not one.
func KindOf(err error) Kind {
	if be, ok := As(err); ok {
		return be.Kind
	}
	return ""
}
