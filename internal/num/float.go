package num

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"unsafe"
)

var (
	litInf    = []byte("INF")
	litNegInf = []byte("-INF")
	litNaN    = []byte("NaN")
)

// ParseFloat parses a float lexical value for the requested bit size.
// INF, -INF and NaN are accepted; values beyond the representable range
// round to the corresponding infinity.
func ParseFloat(b []byte, bits int) (float64, *ParseError) {
	if len(b) == 0 {
		return 0, &ParseError{Kind: ParseEmpty}
	}
	switch {
	case bytes.Equal(b, litInf):
		return math.Inf(1), nil
	case bytes.Equal(b, litNegInf):
		return math.Inf(-1), nil
	case bytes.Equal(b, litNaN):
		return math.NaN(), nil
	}
	n := floatPrefix(b)
	if n == 0 {
		return 0, &ParseError{Kind: ParseNoDigits, Length: len(b)}
	}
	if n != len(b) {
		return 0, &ParseError{Kind: ParseBadChar, Consumed: n, Length: len(b)}
	}
	lexical := unsafe.String(unsafe.SliceData(b), len(b))
	f, err := strconv.ParseFloat(lexical, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f, nil
		}
		return 0, &ParseError{Kind: ParseBadChar, Length: len(b)}
	}
	return f, nil
}

// AppendFloat appends the shortest lexical form that parses back to f.
func AppendFloat(dst []byte, f float64, bits int) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, litNaN...)
	case math.IsInf(f, 1):
		return append(dst, litInf...)
	case math.IsInf(f, -1):
		return append(dst, litNegInf...)
	}
	return strconv.AppendFloat(dst, f, 'g', -1, bits)
}

// floatPrefix returns the length of the longest prefix of value that forms a
// complete float lexical value, or 0 when no prefix does.
func floatPrefix(value []byte) int {
	i := 0
	if i < len(value) && (value[i] == '+' || value[i] == '-') {
		i++
	}
	startDigits := scanDigits(value[i:])
	i += startDigits
	fracDigits := 0
	if i < len(value) && value[i] == '.' {
		fracDigits = scanDigits(value[i+1:])
		if startDigits == 0 && fracDigits == 0 {
			return 0
		}
		i += 1 + fracDigits
	} else if startDigits == 0 {
		return 0
	}
	mantissa := i
	if i < len(value) && (value[i] == 'e' || value[i] == 'E') {
		j := i + 1
		if j < len(value) && (value[j] == '+' || value[j] == '-') {
			j++
		}
		expDigits := scanDigits(value[j:])
		if expDigits == 0 {
			return mantissa
		}
		i = j + expDigits
	}
	return i
}
