package types

import (
	"fmt"
	"strconv"
)

// Kind is the storage type of a column.
type Kind int

// Column kinds.
const (
	KindFloat Kind = iota + 1
	KindInt
	KindString
)

// Undefined sentinels, one per kind. Undefined is distinct from absent: an
// absent column is an error, an undefined value is a stored value.
const (
	UndefinedFloat  float64 = -9999
	UndefinedInt    int64   = -9999
	UndefinedString         = ""
)

var kindNames = map[Kind]string{
	KindFloat:  "float",
	KindInt:    "int",
	KindString: "string",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind converts the textual kind used in project files.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Value is a single typed cell. The zero Value has no kind and is never
// stored; use Undefined to obtain the sentinel of a kind.
type Value struct {
	kind Kind
	f    float64
	i    int64
	s    string
}

// Float returns a float value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Int returns an integer value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// String returns a string value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Undefined returns the undefined sentinel for k.
func Undefined(k Kind) Value {
	switch k {
	case KindFloat:
		return Float(UndefinedFloat)
	case KindInt:
		return Int(UndefinedInt)
	default:
		return String(UndefinedString)
	}
}

// Kind reports the stored kind.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v holds the sentinel of its kind.
func (v Value) IsUndefined() bool {
	switch v.kind {
	case KindFloat:
		return v.f == UndefinedFloat
	case KindInt:
		return v.i == UndefinedInt
	case KindString:
		return v.s == UndefinedString
	}
	return true
}

// AsFloat returns the numeric content of v. Integers are widened; strings
// yield the undefined float.
func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		if v.i == UndefinedInt {
			return UndefinedFloat
		}
		return float64(v.i)
	}
	return UndefinedFloat
}

// AsInt returns the integer content of v. Floats are truncated.
func (v Value) AsInt() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return int64(v.f)
	}
	return UndefinedInt
}

// AsString returns the string content of v, or the textual form of a number.
func (v Value) AsString() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	}
	return UndefinedString
}

// Interface returns the Go value held by v, for encoders.
func (v Value) Interface() any {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return v.i
	case KindString:
		return v.s
	}
	return nil
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%s)", v.kind, v.AsString())
}

// Convert coerces v to kind k. Numbers convert between float and int;
// strings are parsed. It reports false when the conversion is not possible.
func (v Value) Convert(k Kind) (Value, bool) {
	if v.kind == k {
		return v, true
	}
	switch k {
	case KindFloat:
		switch v.kind {
		case KindInt:
			return Float(v.AsFloat()), true
		case KindString:
			f, err := strconv.ParseFloat(v.s, 64)
			if err != nil {
				return Value{}, false
			}
			return Float(f), true
		}
	case KindInt:
		switch v.kind {
		case KindFloat:
			if v.f != float64(int64(v.f)) {
				return Value{}, false
			}
			return Int(int64(v.f)), true
		case KindString:
			i, err := strconv.ParseInt(v.s, 10, 64)
			if err != nil {
				return Value{}, false
			}
			return Int(i), true
		}
	case KindString:
		return String(v.AsString()), true
	}
	return Value{}, false
}
