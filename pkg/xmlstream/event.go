// Package xmlstream provides a streaming XML event reader built on xmltext.
//
// Names are reported exactly as written: prefixes are not resolved and
// namespace declarations stay in the attribute list. Event slices alias
// reader buffers and are valid until the next call to Next or SkipSubtree.
package xmlstream

// EventKind identifies the type of an event.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventStartElement
	EventEndElement
	EventCharData
	EventDeclaration
	EventComment
	EventPI
	EventDirective
)

// String returns a stable name for the kind.
func (k EventKind) String() string {
	switch k {
	case EventStartElement:
		return "start element"
	case EventEndElement:
		return "end element"
	case EventCharData:
		return "character data"
	case EventDeclaration:
		return "declaration"
	case EventComment:
		return "comment"
	case EventPI:
		return "processing instruction"
	case EventDirective:
		return "directive"
	default:
		return "none"
	}
}

// Attr is an attribute of a start element.
// Value has entity references expanded; Raw holds the bytes as written.
type Attr struct {
	Name  []byte
	Value []byte
	Raw   []byte
}

// Event is a single streaming event.
//
// Name is set for start and end elements and processing instructions.
// Text holds character data (CDATA sections included, entities expanded),
// comment bodies, PI bodies and the pseudo-attributes of an XML declaration.
type Event struct {
	Name   []byte
	Attrs  []Attr
	Text   []byte
	Line   int
	Column int
	Kind   EventKind
}

// Attr returns the value of the named attribute.
func (e *Event) Attr(name string) ([]byte, bool) {
	for _, attr := range e.Attrs {
		if string(attr.Name) == name {
			return attr.Value, true
		}
	}
	return nil, false
}
