package num

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == '0' {
		i++
	}
	return b[i:]
}

// scanDigits returns the length of the leading run of ASCII digits.
func scanDigits(b []byte) int {
	n := 0
	for n < len(b) && isDigit(b[n]) {
		n++
	}
	return n
}

// exceeds reports whether the decimal magnitude digits is larger than limit.
// digits must have no leading zeros.
func exceeds(digits []byte, limit string) bool {
	if len(digits) != len(limit) {
		return len(digits) > len(limit)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] == limit[i] {
			continue
		}
		return digits[i] > limit[i]
	}
	return false
}
