package xmltext

import (
	"bytes"
	"unicode/utf8"
)

type entityResolver struct {
	custom map[string]string
}

var standardEntities = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"apos": "'",
	"quot": "\"",
}

func (r *entityResolver) resolve(name []byte) (string, bool) {
	if value, ok := standardEntities[string(name)]; ok {
		return value, true
	}
	if r == nil || r.custom == nil {
		return "", false
	}
	value, ok := r.custom[string(name)]
	return value, ok
}

// Unescape appends src to dst with the predefined entities and character
// references expanded.
func Unescape(dst, src []byte) ([]byte, error) {
	return unescapeInto(dst, src, nil, 0)
}

// Unescape appends src to dst with entity and character references expanded,
// using the decoder's entity map and token size limit.
// Errors are reported at the current token position.
func (d *Decoder) Unescape(dst, src []byte) ([]byte, error) {
	out, err := unescapeInto(dst, src, &d.entities, d.maxTokenSize)
	if err != nil {
		return dst, &SyntaxError{Err: err, Offset: d.tokOffset, Line: d.tokLine, Column: d.tokCol}
	}
	return out, nil
}

func unescapeInto(dst []byte, data []byte, resolver *entityResolver, maxTokenSize int) ([]byte, error) {
	for len(data) > 0 {
		amp := bytes.IndexByte(data, '&')
		if amp < 0 {
			dst = append(dst, data...)
			break
		}
		dst = append(dst, data[:amp]...)
		consumed, replacement, r, isNumeric, err := parseEntityRef(data[amp:], resolver)
		if err != nil {
			return nil, err
		}
		if isNumeric {
			dst = utf8.AppendRune(dst, r)
		} else {
			dst = append(dst, replacement...)
		}
		if maxTokenSize > 0 && len(dst) > maxTokenSize {
			return nil, errTokenTooLarge
		}
		data = data[amp+consumed:]
	}
	return dst, nil
}

// parseEntityRef parses the reference starting at data[0] == '&'.
func parseEntityRef(data []byte, resolver *entityResolver) (int, string, rune, bool, error) {
	semi := bytes.IndexByte(data, ';')
	if semi <= 1 {
		return 0, "", 0, false, errInvalidEntity
	}
	ref := data[1:semi]
	if ref[0] == '#' {
		r, err := parseNumericEntity(ref)
		if err != nil {
			return 0, "", 0, false, err
		}
		return semi + 1, "", r, true, nil
	}
	replacement, ok := resolver.resolve(ref)
	if !ok {
		return 0, "", 0, false, errInvalidEntity
	}
	return semi + 1, replacement, 0, false, nil
}

func parseNumericEntity(ref []byte) (rune, error) {
	if len(ref) < 2 {
		return 0, errInvalidCharRef
	}
	base := 10
	start := 1
	if ref[1] == 'x' {
		base = 16
		start = 2
	}
	if start >= len(ref) {
		return 0, errInvalidCharRef
	}
	var value uint64
	for i := start; i < len(ref); i++ {
		b := ref[i]
		var digit byte
		switch {
		case b >= '0' && b <= '9':
			digit = b - '0'
		case base == 16 && b >= 'a' && b <= 'f':
			digit = b - 'a' + 10
		case base == 16 && b >= 'A' && b <= 'F':
			digit = b - 'A' + 10
		default:
			return 0, errInvalidCharRef
		}
		value = value*uint64(base) + uint64(digit)
		if value > utf8.MaxRune {
			return 0, errInvalidCharRef
		}
	}
	r := rune(value)
	if !isValidXMLChar(r) {
		return 0, errInvalidCharRef
	}
	return r, nil
}

// isValidXMLChar reports whether r is a valid XML 1.0 character.
func isValidXMLChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	default:
		return false
	}
}
