package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		want string
		e    Error
	}{
		{
			name: "message only",
			e:    Error{Kind: KindUnexpectedEvent, Type: "bar", Message: "start of baz"},
			want: "xml error in type bar: [unexpected-event] start of baz",
		},
		{
			name: "with field",
			e:    Error{Kind: KindMissingRequiredField, Type: "rectangle", Field: "height", Message: "missing required field"},
			want: "xml error in type rectangle: [missing-required-field] missing required field (field height)",
		},
		{
			name: "with cause",
			e:    Error{Kind: KindTokenizer, Type: "bar", Err: io.ErrUnexpectedEOF},
			want: "xml error in type bar: [xml-tokenizer] unexpected EOF",
		},
		{
			name: "message and cause",
			e:    Error{Kind: KindTokenizer, Type: "bar", Message: "reading body", Err: io.ErrUnexpectedEOF},
			want: "xml error in type bar: [xml-tokenizer] reading body: unexpected EOF",
		},
		{
			name: "with position",
			e:    Error{Kind: KindUnexpectedEvent, Type: "bar", Message: "text", Line: 3, Column: 7},
			want: "xml error in type bar: [unexpected-event] text at line 3, column 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	inner := Newf(KindInvalidLeafValue, "u32", "read only %d of %d bytes", 2, 3)
	wrapped := fmt.Errorf("decode: %w", inner)

	got, ok := As(wrapped)
	if !ok {
		t.Fatalf("As() ok = false")
	}
	if got != inner {
		t.Fatalf("As() returned a different error")
	}
	if KindOf(wrapped) != KindInvalidLeafValue {
		t.Fatalf("KindOf() = %q", KindOf(wrapped))
	}
}

func TestKindOfForeignError(t *testing.T) {
	if got := KindOf(io.EOF); got != "" {
		t.Fatalf("KindOf(io.EOF) = %q, want empty", got)
	}
	if _, ok := As(nil); ok {
		t.Fatalf("As(nil) ok = true")
	}
}

func TestWrapUnwrap(t *testing.T) {
	err := Wrap(KindTokenizer, "doc", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("errors.Is() = false")
	}
}
