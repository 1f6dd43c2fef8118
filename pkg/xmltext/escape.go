package xmltext

var (
	escAmp  = []byte("&amp;")
	escLt   = []byte("&lt;")
	escGt   = []byte("&gt;")
	escQuot = []byte("&#34;")
)

// AppendEscapedText appends src to dst with '&', '<' and '>' replaced by
// entity references, suitable for element content.
func AppendEscapedText(dst, src []byte) []byte {
	last := 0
	for i, b := range src {
		var esc []byte
		switch b {
		case '&':
			esc = escAmp
		case '<':
			esc = escLt
		case '>':
			esc = escGt
		default:
			continue
		}
		dst = append(dst, src[last:i]...)
		dst = append(dst, esc...)
		last = i + 1
	}
	return append(dst, src[last:]...)
}

// AppendEscapedAttr appends src to dst escaped for a double-quoted attribute value.
func AppendEscapedAttr(dst, src []byte) []byte {
	last := 0
	for i, b := range src {
		var esc []byte
		switch b {
		case '&':
			esc = escAmp
		case '<':
			esc = escLt
		case '>':
			esc = escGt
		case '"':
			esc = escQuot
		default:
			continue
		}
		dst = append(dst, src[last:i]...)
		dst = append(dst, esc...)
		last = i + 1
	}
	return append(dst, src[last:]...)
}
