// Package xmltext is a forward-only, byte-oriented XML tokenizer.
//
// The decoder reports raw tokens: names are byte spans with prefixes left
// intact, attribute values and character data are returned as written, and
// entity expansion is left to the caller through Unescape. Nesting is tracked
// so end tags are matched against their start tags.
package xmltext

import (
	"bytes"
	"io"
)

const attrSeenSmallMax = 8

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type attrSpan struct {
	nameStart  int
	nameEnd    int
	valueStart int
	valueEnd   int
	needs      bool
}

// Decoder streams XML tokens with zero-copy spans.
type Decoder struct {
	r          io.Reader
	readErr    error
	err        error
	entities   entityResolver
	buf        []byte
	names      []byte
	nameEnds   []int
	attrSpans  []attrSpan
	attrs      []Attr
	attrSeen   map[string]struct{}
	base       int64
	tokOffset  int64
	pos        int
	end        int
	tokenStart int
	line       int
	col        int
	tokLine    int
	tokCol     int

	bufferSize     int
	maxDepth       int
	maxAttrs       int
	maxTokenSize   int
	emitComments   bool
	emitPI         bool
	emitDirectives bool
	strict         bool

	pendingEnd bool
	started    bool
	sawRoot    bool
	rootClosed bool
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader, opts ...Options) *Decoder {
	d := &Decoder{}
	d.Reset(r, opts...)
	return d
}

// Reset prepares the decoder for a new input, keeping allocated buffers.
func (d *Decoder) Reset(r io.Reader, opts ...Options) {
	o := JoinOptions(opts...)
	buf := d.buf[:cap(d.buf)]
	*d = Decoder{
		r:              r,
		buf:            buf,
		names:          d.names[:0],
		nameEnds:       d.nameEnds[:0],
		attrSpans:      d.attrSpans[:0],
		attrs:          d.attrs[:0],
		entities:       entityResolver{custom: o.entityMap},
		line:           1,
		col:            1,
		bufferSize:     defaultBufferSize,
		maxDepth:       o.maxDepth,
		maxAttrs:       o.maxAttrs,
		maxTokenSize:   o.maxTokenSize,
		emitComments:   o.emitComments,
		emitPI:         o.emitPI,
		emitDirectives: o.emitDirectives,
		strict:         o.strict,
	}
	if o.bufferSize > 0 {
		d.bufferSize = o.bufferSize
	}
	if r == nil {
		d.err = errNilReader
	}
}

// StackDepth returns the number of currently open elements.
func (d *Decoder) StackDepth() int {
	return len(d.nameEnds)
}

// InputOffset returns the absolute byte offset of the next unread byte.
func (d *Decoder) InputOffset() int64 {
	return d.base + int64(d.pos)
}

// InputPos returns the line and column of the next unread byte.
func (d *Decoder) InputPos() (int, int) {
	return d.line, d.col
}

// ReadToken returns the next token. It returns io.EOF after the last token
// of a well-formed input. Errors are sticky.
func (d *Decoder) ReadToken() (Token, error) {
	if d.err != nil {
		return Token{}, d.err
	}
	tok, err := d.next()
	if err != nil {
		d.err = err
		return Token{}, err
	}
	return tok, nil
}

// SkipValue consumes tokens until the innermost open element is closed.
// It is a no-op when no element is open.
func (d *Decoder) SkipValue() error {
	target := len(d.nameEnds) - 1
	if target < 0 {
		return nil
	}
	for {
		tok, err := d.ReadToken()
		if err != nil {
			return err
		}
		if tok.Kind == KindEndElement && len(d.nameEnds) == target {
			return nil
		}
	}
}

func (d *Decoder) next() (Token, error) {
	if d.pendingEnd {
		d.pendingEnd = false
		tok := Token{
			Kind:   KindEndElement,
			Name:   d.topName(),
			Offset: d.tokOffset,
			Line:   d.tokLine,
			Column: d.tokCol,
		}
		d.pop()
		return tok, nil
	}
	for {
		d.compact()
		d.tokenStart = d.pos
		d.tokOffset, d.tokLine, d.tokCol = d.InputOffset(), d.line, d.col
		ok, err := d.ensure(d.pos)
		if err != nil {
			return Token{}, d.fail(err)
		}
		if !d.started && ok {
			if err := d.skipBOM(); err != nil {
				return Token{}, d.fail(err)
			}
			ok = d.pos < d.end
		}
		if !ok {
			return Token{}, d.atEOF()
		}
		var (
			tok  Token
			emit bool
		)
		if d.buf[d.pos] == '<' {
			tok, emit, err = d.scanMarkup()
		} else {
			tok, emit, err = d.scanCharData()
		}
		if err != nil {
			return Token{}, d.fail(err)
		}
		if d.maxTokenSize > 0 && d.pos-d.tokenStart > d.maxTokenSize {
			return Token{}, d.fail(errTokenTooLarge)
		}
		d.started = true
		if !emit {
			continue
		}
		tok.Offset, tok.Line, tok.Column = d.tokOffset, d.tokLine, d.tokCol
		return tok, nil
	}
}

func (d *Decoder) fail(err error) error {
	if err == d.readErr {
		return err
	}
	return &SyntaxError{Err: err, Offset: d.tokOffset, Line: d.tokLine, Column: d.tokCol}
}

func (d *Decoder) atEOF() error {
	if len(d.nameEnds) > 0 {
		return d.fail(errUnexpectedEOF)
	}
	if d.strict && !d.sawRoot {
		return d.fail(errMissingRoot)
	}
	return io.EOF
}

func (d *Decoder) skipBOM() error {
	if _, err := d.ensure(d.pos + len(utf8BOM) - 1); err != nil {
		return err
	}
	if bytes.HasPrefix(d.buf[d.pos:d.end], utf8BOM) {
		d.pos += len(utf8BOM)
		d.tokenStart = d.pos
		d.tokOffset = d.InputOffset()
	}
	return nil
}

func (d *Decoder) scanCharData() (Token, bool, error) {
	end, err := d.indexByteFrom(d.pos, '<')
	if err != nil {
		return Token{}, false, err
	}
	if end < 0 {
		end = d.end
	}
	text := d.buf[d.pos:end]
	if d.strict && len(d.nameEnds) == 0 && !IsWhitespace(text) {
		return Token{}, false, errContentOutsideRoot
	}
	d.advance(end)
	return Token{
		Kind:              KindCharData,
		Text:              text,
		TextNeedsUnescape: bytes.IndexByte(text, '&') >= 0,
	}, true, nil
}

func (d *Decoder) scanMarkup() (Token, bool, error) {
	ok, err := d.ensure(d.pos + 1)
	if err != nil {
		return Token{}, false, err
	}
	if !ok {
		return Token{}, false, errUnexpectedEOF
	}
	switch d.buf[d.pos+1] {
	case '/':
		return d.scanEndTag()
	case '?':
		return d.scanPI()
	case '!':
		if ok, err := d.hasPrefixAt(d.pos, "<!--"); err != nil || ok {
			if err != nil {
				return Token{}, false, err
			}
			return d.scanComment()
		}
		if ok, err := d.hasPrefixAt(d.pos, "<![CDATA["); err != nil || ok {
			if err != nil {
				return Token{}, false, err
			}
			return d.scanCDATA()
		}
		return d.scanDirective()
	default:
		return d.scanStartTag()
	}
}

func (d *Decoder) scanStartTag() (Token, bool, error) {
	nameStart := d.pos + 1
	nameEnd, err := d.scanName(nameStart)
	if err != nil {
		return Token{}, false, err
	}
	d.attrSpans = d.attrSpans[:0]
	selfClosing := false
	cur := nameEnd
	for {
		j, err := d.skipSpace(cur)
		if err != nil {
			return Token{}, false, err
		}
		ok, err := d.ensure(j)
		if err != nil {
			return Token{}, false, err
		}
		if !ok {
			return Token{}, false, errUnexpectedEOF
		}
		switch d.buf[j] {
		case '>':
			cur = j + 1
		case '/':
			ok, err := d.ensure(j + 1)
			if err != nil {
				return Token{}, false, err
			}
			if !ok {
				return Token{}, false, errUnexpectedEOF
			}
			if d.buf[j+1] != '>' {
				return Token{}, false, errInvalidToken
			}
			selfClosing = true
			cur = j + 2
		default:
			if j == cur {
				return Token{}, false, errInvalidToken
			}
			cur, err = d.scanAttr(j)
			if err != nil {
				return Token{}, false, err
			}
			continue
		}
		break
	}

	d.attrs = d.attrs[:0]
	for _, span := range d.attrSpans {
		d.attrs = append(d.attrs, Attr{
			Name:               d.buf[span.nameStart:span.nameEnd],
			Value:              d.buf[span.valueStart:span.valueEnd],
			ValueNeedsUnescape: span.needs,
		})
	}
	if d.strict {
		if err := d.checkDuplicateAttrs(); err != nil {
			return Token{}, false, err
		}
	}
	if len(d.nameEnds) == 0 {
		if d.strict && d.rootClosed {
			return Token{}, false, errMultipleRoots
		}
		d.sawRoot = true
	}
	if d.maxDepth > 0 && len(d.nameEnds) >= d.maxDepth {
		return Token{}, false, errDepthLimit
	}
	name := d.buf[nameStart:nameEnd]
	d.push(name)
	d.pendingEnd = selfClosing
	d.advance(cur)
	return Token{Kind: KindStartElement, Name: name, Attrs: d.attrs}, true, nil
}

// scanAttr scans name="value" starting at buf[i] and returns the index after it.
func (d *Decoder) scanAttr(i int) (int, error) {
	nameEnd, err := d.scanName(i)
	if err != nil {
		return 0, err
	}
	k, err := d.skipSpace(nameEnd)
	if err != nil {
		return 0, err
	}
	if ok, err := d.ensure(k); err != nil || !ok {
		if err != nil {
			return 0, err
		}
		return 0, errUnexpectedEOF
	}
	if d.buf[k] != '=' {
		return 0, errInvalidToken
	}
	k, err = d.skipSpace(k + 1)
	if err != nil {
		return 0, err
	}
	if ok, err := d.ensure(k); err != nil || !ok {
		if err != nil {
			return 0, err
		}
		return 0, errUnexpectedEOF
	}
	quote := d.buf[k]
	if quote != '"' && quote != '\'' {
		return 0, errInvalidToken
	}
	valueEnd, err := d.indexByteFrom(k+1, quote)
	if err != nil {
		return 0, err
	}
	if valueEnd < 0 {
		return 0, errUnexpectedEOF
	}
	value := d.buf[k+1 : valueEnd]
	if bytes.IndexByte(value, '<') >= 0 {
		return 0, errInvalidChar
	}
	d.attrSpans = append(d.attrSpans, attrSpan{
		nameStart:  i,
		nameEnd:    nameEnd,
		valueStart: k + 1,
		valueEnd:   valueEnd,
		needs:      bytes.IndexByte(value, '&') >= 0,
	})
	if d.maxAttrs > 0 && len(d.attrSpans) > d.maxAttrs {
		return 0, errAttrLimit
	}
	return valueEnd + 1, nil
}

func (d *Decoder) checkDuplicateAttrs() error {
	if len(d.attrs) <= attrSeenSmallMax {
		for i := 1; i < len(d.attrs); i++ {
			for j := 0; j < i; j++ {
				if bytes.Equal(d.attrs[i].Name, d.attrs[j].Name) {
					return errDuplicateAttr
				}
			}
		}
		return nil
	}
	if d.attrSeen == nil {
		d.attrSeen = make(map[string]struct{}, len(d.attrs))
	}
	clear(d.attrSeen)
	for _, attr := range d.attrs {
		if _, ok := d.attrSeen[string(attr.Name)]; ok {
			return errDuplicateAttr
		}
		d.attrSeen[string(attr.Name)] = struct{}{}
	}
	return nil
}

func (d *Decoder) scanEndTag() (Token, bool, error) {
	nameStart := d.pos + 2
	nameEnd, err := d.scanName(nameStart)
	if err != nil {
		return Token{}, false, err
	}
	j, err := d.skipSpace(nameEnd)
	if err != nil {
		return Token{}, false, err
	}
	ok, err := d.ensure(j)
	if err != nil {
		return Token{}, false, err
	}
	if !ok {
		return Token{}, false, errUnexpectedEOF
	}
	if d.buf[j] != '>' {
		return Token{}, false, errInvalidToken
	}
	name := d.buf[nameStart:nameEnd]
	if len(d.nameEnds) == 0 || !bytes.Equal(name, d.topName()) {
		return Token{}, false, errMismatchedEndTag
	}
	d.pop()
	d.advance(j + 1)
	return Token{Kind: KindEndElement, Name: name}, true, nil
}

func (d *Decoder) scanComment() (Token, bool, error) {
	bodyStart := d.pos + len("<!--")
	end, err := d.indexFrom(bodyStart, []byte("-->"))
	if err != nil {
		return Token{}, false, err
	}
	if end < 0 {
		return Token{}, false, errUnexpectedEOF
	}
	body := d.buf[bodyStart:end]
	d.advance(end + len("-->"))
	return Token{Kind: KindComment, Text: body}, d.emitComments, nil
}

func (d *Decoder) scanCDATA() (Token, bool, error) {
	if d.strict && len(d.nameEnds) == 0 {
		return Token{}, false, errContentOutsideRoot
	}
	bodyStart := d.pos + len("<![CDATA[")
	end, err := d.indexFrom(bodyStart, []byte("]]>"))
	if err != nil {
		return Token{}, false, err
	}
	if end < 0 {
		return Token{}, false, errUnexpectedEOF
	}
	body := d.buf[bodyStart:end]
	d.advance(end + len("]]>"))
	return Token{Kind: KindCDATA, Text: body}, true, nil
}

func (d *Decoder) scanPI() (Token, bool, error) {
	targetStart := d.pos + 2
	targetEnd, err := d.scanName(targetStart)
	if err != nil {
		return Token{}, false, err
	}
	end, err := d.indexFrom(targetEnd, []byte("?>"))
	if err != nil {
		return Token{}, false, err
	}
	if end < 0 {
		return Token{}, false, errUnexpectedEOF
	}
	if targetEnd < end && !isWhitespace(d.buf[targetEnd]) {
		return Token{}, false, errInvalidPI
	}
	target := d.buf[targetStart:targetEnd]
	bodyStart := targetEnd
	for bodyStart < end && isWhitespace(d.buf[bodyStart]) {
		bodyStart++
	}
	body := d.buf[bodyStart:end]
	isDecl := string(target) == "xml"
	if isDecl && d.strict && d.started {
		return Token{}, false, errMisplacedXMLDecl
	}
	d.advance(end + len("?>"))
	return Token{Kind: KindPI, Name: target, Text: body, IsXMLDecl: isDecl}, isDecl || d.emitPI, nil
}

// scanDirective scans <!...> honoring quoted strings and bracketed subsets.
func (d *Decoder) scanDirective() (Token, bool, error) {
	if d.strict && d.sawRoot {
		return Token{}, false, errMisplacedDirective
	}
	bodyStart := d.pos + 2
	var quote byte
	depth := 0
	for i := bodyStart; ; i++ {
		ok, err := d.ensure(i)
		if err != nil {
			return Token{}, false, err
		}
		if !ok {
			return Token{}, false, errUnexpectedEOF
		}
		b := d.buf[i]
		switch {
		case quote != 0:
			if b == quote {
				quote = 0
			}
		case b == '"' || b == '\'':
			quote = b
		case b == '[':
			depth++
		case b == ']':
			depth--
		case b == '>' && depth <= 0:
			body := d.buf[bodyStart:i]
			d.advance(i + 1)
			return Token{Kind: KindDirective, Text: body}, d.emitDirectives, nil
		}
	}
}

func (d *Decoder) push(name []byte) {
	d.names = append(d.names, name...)
	d.nameEnds = append(d.nameEnds, len(d.names))
}

func (d *Decoder) pop() {
	n := len(d.nameEnds) - 1
	start := 0
	if n > 0 {
		start = d.nameEnds[n-1]
	}
	d.names = d.names[:start]
	d.nameEnds = d.nameEnds[:n]
	if n == 0 {
		d.rootClosed = true
	}
}

func (d *Decoder) topName() []byte {
	n := len(d.nameEnds)
	if n == 0 {
		return nil
	}
	start := 0
	if n > 1 {
		start = d.nameEnds[n-2]
	}
	return d.names[start:d.nameEnds[n-1]]
}
