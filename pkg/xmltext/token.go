package xmltext

// Kind identifies the syntactic kind of an XML token.
type Kind byte

const (
	KindNone Kind = iota
	KindStartElement
	KindEndElement
	KindCharData
	KindComment
	KindPI
	KindDirective
	KindCDATA
)

// String returns a stable name for the kind, suitable for debugging.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindStartElement:
		return "StartElement"
	case KindEndElement:
		return "EndElement"
	case KindCharData:
		return "CharData"
	case KindComment:
		return "Comment"
	case KindPI:
		return "PI"
	case KindDirective:
		return "Directive"
	case KindCDATA:
		return "CDATA"
	default:
		return "Unknown"
	}
}

// Attr is a raw attribute as written in a start tag.
// Value holds the bytes between the quotes without entity expansion.
type Attr struct {
	Name               []byte
	Value              []byte
	ValueNeedsUnescape bool
}

// Token is a single XML token.
//
// All byte slices alias the decoder's internal buffer and are valid only until
// the next call to ReadToken, SkipValue or Reset.
//
// Name holds the element name for start and end elements and the target for
// processing instructions. Text holds raw character data, CDATA content,
// comment bodies, PI bodies and directive bodies. Self-closing tags are
// reported as a start element immediately followed by an end element.
type Token struct {
	Name              []byte
	Attrs             []Attr
	Text              []byte
	Offset            int64
	Line              int
	Column            int
	Kind              Kind
	TextNeedsUnescape bool
	IsXMLDecl         bool
}
