package num

// ParseInt parses a signed decimal integer that must span the whole input.
// An optional leading '+' or '-' is accepted. Values outside the range of a
// bits-sized integer fail with ParseOverflow instead of wrapping.
func ParseInt(b []byte, bits int) (int64, *ParseError) {
	if len(b) == 0 {
		return 0, &ParseError{Kind: ParseEmpty, Length: 0}
	}
	neg := false
	i := 0
	switch b[0] {
	case '+':
		i++
	case '-':
		neg = true
		i++
	}
	n := scanDigits(b[i:])
	if n == 0 {
		return 0, &ParseError{Kind: ParseNoDigits, Consumed: i, Length: len(b)}
	}
	if i+n != len(b) {
		return 0, &ParseError{Kind: ParseBadChar, Consumed: i + n, Length: len(b)}
	}
	digits := trimLeadingZeros(b[i:])
	limit := boundFor(maxIntDigits, bits)
	if neg {
		limit = boundFor(minIntDigits, bits)
	}
	if exceeds(digits, limit) {
		return 0, &ParseError{Kind: ParseOverflow, Consumed: len(b), Length: len(b)}
	}
	// accumulate on the negative side so the minimum value fits.
	var v int64
	for _, c := range digits {
		v = v*10 - int64(c-'0')
	}
	if !neg {
		v = -v
	}
	return v, nil
}

// ParseUint parses an unsigned decimal integer that must span the whole input.
// Signs are rejected.
func ParseUint(b []byte, bits int) (uint64, *ParseError) {
	if len(b) == 0 {
		return 0, &ParseError{Kind: ParseEmpty, Length: 0}
	}
	if b[0] == '+' || b[0] == '-' {
		return 0, &ParseError{Kind: ParseSign, Consumed: 0, Length: len(b)}
	}
	n := scanDigits(b)
	if n == 0 {
		return 0, &ParseError{Kind: ParseNoDigits, Consumed: 0, Length: len(b)}
	}
	if n != len(b) {
		return 0, &ParseError{Kind: ParseBadChar, Consumed: n, Length: len(b)}
	}
	digits := trimLeadingZeros(b)
	if exceeds(digits, boundFor(maxUintDigits, bits)) {
		return 0, &ParseError{Kind: ParseOverflow, Consumed: len(b), Length: len(b)}
	}
	var v uint64
	for _, c := range digits {
		v = v*10 + uint64(c-'0')
	}
	return v, nil
}
