package forthic

import (
	"strconv"
	"strings"
)

// LiteralHandler attempts to interpret text as a value, returning ok=false
// (never an error) when it doesn't recognize the shape, falling through the literal
// fallback step.
type LiteralHandler func(text string) (Value, bool)

func boolLiteralHandler(text string) (Value, bool) {
	switch text {
	case "TRUE":
		return Bool(true), true
	case "FALSE":
		return Bool(false), true
	default:
		return Value{}, false
	}
}

// floatLiteralHandler claims anything containing a '.' that parses as a
// float64; registered before intLiteralHandler so "3.0" is never mistaken
// for an integer.
func floatLiteralHandler(text string) (Value, bool) {
	if !strings.Contains(text, ".") {
		return Value{}, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, false
	}
	return Float(f), true
}

// intLiteralHandler requires a round trip through FormatInt to match the
// original text, so things like leading zeros or "+5" fall through to
// become unknown words rather than being silently reinterpreted.
func intLiteralHandler(text string) (Value, bool) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, false
	}
	if strconv.FormatInt(n, 10) != text {
		return Value{}, false
	}
	return Int(n), true
}

func datetimeLiteralHandler(text string) (Value, bool) {
	dt, ok := parseDatetimeLiteral(text)
	if !ok {
		return Value{}, false
	}
	return Datetime(dt), true
}
