package settings

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xhit/go-str2duration/v2"
	"go.trai.ch/zerr"
)

// Kind is the declared type tag of an entry. It selects the conversion applied last
// during resolution.
type Kind int

const (
	// KindUntyped leaves resolved values as they are.
	KindUntyped Kind = iota
	// KindString stringifies resolved values.
	KindString
	// KindInteger parses resolved values as base-10 integers.
	KindInteger
	// KindBoolean parses resolved values as booleans.
	KindBoolean
	// KindDuration converts human durations ("7d", "10m") or plain numbers to whole seconds.
	KindDuration
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindDuration:
		return "duration"
	default:
		return "untyped"
	}
}

// Value is a resolved or raw setting value: nothing, a string, an integer or a boolean.
type Value struct {
	raw any
}

// Nil is the absent value.
var Nil = Value{}

// String returns a string value.
func String(s string) Value { return Value{raw: s} }

// Int returns an integer value.
func Int(i int) Value { return Value{raw: i} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{raw: b} }

// Of converts a Go value to a Value. Durations become whole seconds; other scalar
// types are stringified.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Nil
	case Value:
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int64:
		return Int(int(x))
	case int32:
		return Int(int(x))
	case uint:
		return Int(int(x))
	case float64:
		if x == float64(int(x)) {
			return Int(int(x))
		}
		return String(strconv.FormatFloat(x, 'f', -1, 64))
	case time.Duration:
		return Int(int(x / time.Second))
	default:
		return String(stringify(x))
	}
}

// IsNil reports whether v holds nothing.
func (v Value) IsNil() bool { return v.raw == nil }

// IsZero reports whether v is falsy: nothing, "", 0 or false.
func (v Value) IsZero() bool {
	switch x := v.raw.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case int:
		return x == 0
	case bool:
		return !x
	}
	return false
}

// Any returns the underlying Go value.
func (v Value) Any() any { return v.raw }

// String stringifies v. The absent value is "".
func (v Value) String() string {
	if v.raw == nil {
		return ""
	}
	return stringify(v.raw)
}

// Int returns v as an integer when it holds one.
func (v Value) Int() (int, bool) {
	i, ok := v.raw.(int)
	return i, ok
}

// Bool returns v as a boolean when it holds one.
func (v Value) Bool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, ok
}

// Str returns v as a string when it holds one.
func (v Value) Str() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

func stringify(x any) string {
	switch t := x.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case interface{ String() string }:
		return t.String()
	default:
		return ""
	}
}

// cast applies the kind conversion to v.
func (k Kind) cast(v Value) (Value, error) {
	switch k {
	case KindString:
		return String(v.String()), nil
	case KindInteger:
		switch x := v.raw.(type) {
		case int:
			return v, nil
		case bool:
			if x {
				return Int(1), nil
			}
			return Int(0), nil
		case string:
			i, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return Nil, zerr.With(zerr.Wrap(ErrInvalidValue, err.Error()), "kind", k.String())
			}
			return Int(i), nil
		}
	case KindBoolean:
		switch x := v.raw.(type) {
		case bool:
			return v, nil
		case int:
			return Bool(x != 0), nil
		case string:
			b, err := parseBool(x)
			if err != nil {
				return Nil, zerr.With(zerr.Wrap(ErrInvalidValue, err.Error()), "kind", k.String())
			}
			return Bool(b), nil
		}
	case KindDuration:
		secs, err := convertDuration(v)
		if err != nil {
			return Nil, zerr.With(zerr.Wrap(ErrInvalidValue, err.Error()), "kind", k.String())
		}
		return Int(secs), nil
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

// convertDuration turns an integer or a duration string into whole seconds.
// A bare number is already seconds.
func convertDuration(v Value) (int, error) {
	switch x := v.raw.(type) {
	case int:
		return x, nil
	case bool:
		return 0, zerr.New("boolean is not a duration")
	case string:
		s := strings.TrimSpace(x)
		if i, err := strconv.Atoi(s); err == nil {
			return i, nil
		}
		d, err := str2duration.ParseDuration(compactDuration(s))
		if err != nil {
			return 0, err
		}
		return int(d / time.Second), nil
	}
	return 0, zerr.New("unsupported duration value")
}

var durationPhrase = regexp.MustCompile(`(?i)(\d+)\s*([a-z]+)`)

var durationUnits = map[string]string{
	"w": "w", "wk": "w", "wks": "w", "week": "w", "weeks": "w",
	"d": "d", "day": "d", "days": "d",
	"h": "h", "hr": "h", "hrs": "h", "hour": "h", "hours": "h",
	"m": "m", "min": "m", "mins": "m", "minute": "m", "minutes": "m",
	"s": "s", "sec": "s", "secs": "s", "second": "s", "seconds": "s",
	"ms": "ms", "millisecond": "ms", "milliseconds": "ms",
}

// compactDuration rewrites phrases such as "2 days" or "1 week, 12 hours" into "2d" and "1w12h".
// Strings containing anything else are returned as they are.
func compactDuration(s string) string {
	matches := durationPhrase.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if !isFiller(s[last:m[0]]) {
			return s
		}
		unit, ok := durationUnits[strings.ToLower(s[m[4]:m[5]])]
		if !ok {
			return s
		}
		b.WriteString(s[m[2]:m[3]])
		b.WriteString(unit)
		last = m[1]
	}
	if !isFiller(s[last:]) {
		return s
	}
	return b.String()
}

func isFiller(s string) bool {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
	return s == "" || strings.EqualFold(s, "and")
}
