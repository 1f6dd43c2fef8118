package xmltext

import (
	"unicode"
	"unicode/utf8"
)

var nameStartByteLUT = [utf8.RuneSelf]bool{
	':': true,
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true,
	'H': true, 'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true,
	'O': true, 'P': true, 'Q': true, 'R': true, 'S': true, 'T': true, 'U': true,
	'V': true, 'W': true, 'X': true, 'Y': true, 'Z': true,
	'_': true,
	'a': true, 'b': true, 'c': true, 'd': true, 'e': true, 'f': true, 'g': true,
	'h': true, 'i': true, 'j': true, 'k': true, 'l': true, 'm': true, 'n': true,
	'o': true, 'p': true, 'q': true, 'r': true, 's': true, 't': true, 'u': true,
	'v': true, 'w': true, 'x': true, 'y': true, 'z': true,
}

var nameByteLUT = func() [utf8.RuneSelf]bool {
	lut := nameStartByteLUT
	for _, b := range []byte("-.0123456789") {
		lut[b] = true
	}
	return lut
}()

// XML 1.0 fifth edition NameStartChar ranges above ASCII.
var nameStartTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0xC0, Hi: 0xD6, Stride: 1},
		{Lo: 0xD8, Hi: 0xF6, Stride: 1},
		{Lo: 0xF8, Hi: 0x2FF, Stride: 1},
		{Lo: 0x370, Hi: 0x37D, Stride: 1},
		{Lo: 0x37F, Hi: 0x1FFF, Stride: 1},
		{Lo: 0x200C, Hi: 0x200D, Stride: 1},
		{Lo: 0x2070, Hi: 0x218F, Stride: 1},
		{Lo: 0x2C00, Hi: 0x2FEF, Stride: 1},
		{Lo: 0x3001, Hi: 0xD7FF, Stride: 1},
		{Lo: 0xF900, Hi: 0xFDCF, Stride: 1},
		{Lo: 0xFDF0, Hi: 0xFFFD, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10000, Hi: 0xEFFFF, Stride: 1},
	},
}

// Additional NameChar ranges above ASCII.
var nameCharTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0xB7, Hi: 0xB7, Stride: 1},
		{Lo: 0x300, Hi: 0x36F, Stride: 1},
		{Lo: 0x203F, Hi: 0x2040, Stride: 1},
	},
}

func isNameStartRune(r rune) bool {
	if r < utf8.RuneSelf {
		return nameStartByteLUT[r]
	}
	return unicode.Is(nameStartTable, r)
}

func isNameRune(r rune) bool {
	if r < utf8.RuneSelf {
		return nameByteLUT[r]
	}
	return unicode.Is(nameStartTable, r) || unicode.Is(nameCharTable, r)
}

var whitespaceLUT = [256]bool{' ': true, '\t': true, '\n': true, '\r': true}

func isWhitespace(b byte) bool {
	return whitespaceLUT[b]
}

// IsWhitespace reports whether data consists only of XML whitespace.
func IsWhitespace(data []byte) bool {
	for _, b := range data {
		if !whitespaceLUT[b] {
			return false
		}
	}
	return true
}

// scanName returns the end index of the XML name starting at buf[i].
func (d *Decoder) scanName(i int) (int, error) {
	start := i
	for {
		ok, err := d.ensure(i)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, errUnexpectedEOF
		}
		b := d.buf[i]
		if b < utf8.RuneSelf {
			valid := nameByteLUT[b]
			if i == start {
				valid = nameStartByteLUT[b]
			}
			if !valid {
				break
			}
			i++
			continue
		}
		if _, err := d.ensure(i + utf8.UTFMax - 1); err != nil {
			return 0, err
		}
		r, size := utf8.DecodeRune(d.buf[i:d.end])
		if r == utf8.RuneError && size <= 1 {
			return 0, errInvalidChar
		}
		valid := isNameRune(r)
		if i == start {
			valid = isNameStartRune(r)
		}
		if !valid {
			break
		}
		i += size
	}
	if i == start {
		return 0, errInvalidName
	}
	return i, nil
}

// skipSpace returns the index of the first non-whitespace byte at or after i.
func (d *Decoder) skipSpace(i int) (int, error) {
	for {
		ok, err := d.ensure(i)
		if err != nil {
			return 0, err
		}
		if !ok || !isWhitespace(d.buf[i]) {
			return i, nil
		}
		i++
	}
}
