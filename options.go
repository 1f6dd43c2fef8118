package xmlbind

import (
	"fmt"
	"maps"

	"github.com/jacoelho/xmlbind/pkg/xmlstream"
	"github.com/jacoelho/xmlbind/pkg/xmltext"
)

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolved() int {
	if !o.set {
		return 0
	}
	return o.value
}

// DecodeOptions configures document decoding.
// The zero value is valid and uses the default limits.
type DecodeOptions struct {
	diagnostics      DiagnosticSink
	entities         map[string]string
	maxDepth         intOption
	maxAttrs         intOption
	maxTokenSize     intOption
	maxForeignEvents intOption
	strict           bool
}

// EncodeOptions configures document encoding.
// The zero value escapes reserved characters and omits the XML declaration.
type EncodeOptions struct {
	declaration bool
	rawOutput   bool
}

type resolvedDecodeOptions struct {
	diagnostics      DiagnosticSink
	parseOptions     []xmlstream.Option
	limits           xmlParseLimits
	maxForeignEvents int
}

// NewDecodeOptions returns a default, valid decode options value.
func NewDecodeOptions() DecodeOptions {
	return DecodeOptions{}
}

// NewEncodeOptions returns a default, valid encode options value.
func NewEncodeOptions() EncodeOptions {
	return EncodeOptions{}
}

// Validate validates decode options values.
func (o DecodeOptions) Validate() error {
	_, err := o.withDefaults()
	return err
}

// WithMaxDepth sets the element nesting limit (0 uses default).
func (o DecodeOptions) WithMaxDepth(value int) DecodeOptions {
	o.maxDepth = intOption{value: value, set: true}
	return o
}

// WithMaxAttrs sets the per-element attribute limit (0 uses default).
func (o DecodeOptions) WithMaxAttrs(value int) DecodeOptions {
	o.maxAttrs = intOption{value: value, set: true}
	return o
}

// WithMaxTokenSize sets the token size limit in bytes (0 uses default).
func (o DecodeOptions) WithMaxTokenSize(value int) DecodeOptions {
	o.maxTokenSize = intOption{value: value, set: true}
	return o
}

// WithMaxForeignEvents sets how many top-level events other than the expected
// root element are tolerated before decoding fails. Zero tolerates none; when
// unset, defaultMaxForeignEvents applies.
func (o DecodeOptions) WithMaxForeignEvents(value int) DecodeOptions {
	o.maxForeignEvents = intOption{value: value, set: true}
	return o
}

// WithStrict enables document-level well-formedness checks in the tokenizer.
// Duplicate attributes are rejected instead of resolved by last occurrence.
func (o DecodeOptions) WithStrict(value bool) DecodeOptions {
	o.strict = value
	return o
}

// WithDiagnostics sets the sink receiving notices about ignored namespaced
// attributes and elements.
func (o DecodeOptions) WithDiagnostics(sink DiagnosticSink) DecodeOptions {
	o.diagnostics = sink
	return o
}

// WithEntities registers additional named entities for text and attribute values.
func (o DecodeOptions) WithEntities(entities map[string]string) DecodeOptions {
	o.entities = maps.Clone(entities)
	return o
}

// WithDeclaration controls whether an XML declaration precedes the root element.
func (o EncodeOptions) WithDeclaration(value bool) EncodeOptions {
	o.declaration = value
	return o
}

// WithEscaping controls whether reserved characters in attribute values and
// text are written as entity references. Disabling it writes encoded leaf
// values byte for byte, which produces malformed output for values containing
// '<', '&' or '"'.
func (o EncodeOptions) WithEscaping(value bool) EncodeOptions {
	o.rawOutput = !value
	return o
}

func (o DecodeOptions) withDefaults() (resolvedDecodeOptions, error) {
	limits, err := resolveXMLParseLimits(
		o.maxDepth.resolved(),
		o.maxAttrs.resolved(),
		o.maxTokenSize.resolved(),
	)
	if err != nil {
		return resolvedDecodeOptions{}, fmt.Errorf("xml limits: %w", err)
	}
	maxForeign := defaultMaxForeignEvents
	if o.maxForeignEvents.set {
		maxForeign = o.maxForeignEvents.value
	}
	if maxForeign < 0 {
		return resolvedDecodeOptions{}, fmt.Errorf("max foreign events must be >= 0")
	}
	parseOptions := limits.options()
	parseOptions = append(parseOptions, xmltext.Strict(o.strict))
	if o.entities != nil {
		parseOptions = append(parseOptions, xmltext.WithEntityMap(o.entities))
	}
	diagnostics := o.diagnostics
	if diagnostics == nil {
		diagnostics = discardDiagnostics{}
	}
	return resolvedDecodeOptions{
		diagnostics:      diagnostics,
		parseOptions:     parseOptions,
		limits:           limits,
		maxForeignEvents: maxForeign,
	}, nil
}
