package num

import "strconv"

// ParseError represents a numeric parse failure.
// Consumed counts the bytes accepted before the failure, Length is the input size.
type ParseError struct {
	Kind     ParseErrKind
	Consumed int
	Length   int
}

// Error returns the formatted error message.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ParseBadChar, ParseSign:
		return "read only " + strconv.Itoa(e.Consumed) + " of " + strconv.Itoa(e.Length) + " bytes"
	default:
		return e.Kind.String()
	}
}

// ParseErrKind identifies a parse failure category.
type ParseErrKind uint8

const (
	ParseInvalid ParseErrKind = iota
	ParseEmpty
	ParseBadChar
	ParseNoDigits
	ParseOverflow
	ParseSign
)

// String returns a stable label for the parse error kind.
func (k ParseErrKind) String() string {
	switch k {
	case ParseEmpty:
		return "empty"
	case ParseBadChar:
		return "bad character"
	case ParseNoDigits:
		return "no digits"
	case ParseOverflow:
		return "out of range"
	case ParseSign:
		return "sign not allowed"
	default:
		return "invalid"
	}
}
