package lang

import (
	"cmp"
	"strconv"
	"strings"
)

// ValueKind identifies the variant held by a [Value].
type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueBoolean
	ValueSymbol
	ValueString
	ValueInteger
	ValueDecimal
)

// String returns the name of the value kind.
func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "Null"
	case ValueBoolean:
		return "Boolean"
	case ValueSymbol:
		return "Symbol"
	case ValueString:
		return "String"
	case ValueInteger:
		return "Integer"
	case ValueDecimal:
		return "Decimal"
	default:
		return "Unknown"
	}
}

// Value is a literal: null, a boolean, a symbol, a string, or a number with
// an optional unit suffix.
//
// Value is comparable and may key a map. Two values are equal when every
// field is equal, so the suffix participates ("10kg" != "10") and an
// Integer never equals a Decimal (1 != 1.0). Only the fields of the active
// variant are ever set.
type Value struct {
	Kind   ValueKind
	Bool   bool    // ValueBoolean
	Text   string  // ValueSymbol, ValueString
	Int    int64   // ValueInteger
	Float  float64 // ValueDecimal
	Suffix string  // ValueInteger, ValueDecimal
}

// Null returns the null value.
func Null() Value { return Value{Kind: ValueNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: ValueBoolean, Bool: b} }

// Symbol returns a symbol (bare identifier) value.
func Symbol(s string) Value { return Value{Kind: ValueSymbol, Text: s} }

// String returns a string value.
func String(s string) Value { return Value{Kind: ValueString, Text: s} }

// Integer returns an integer value with the given unit suffix.
func Integer(i int64, suffix string) Value {
	return Value{Kind: ValueInteger, Int: i, Suffix: suffix}
}

// Decimal returns a decimal value with the given unit suffix.
func Decimal(f float64, suffix string) Value {
	return Value{Kind: ValueDecimal, Float: f, Suffix: suffix}
}

// Number returns the numeric literal held by v, if any.
func (v Value) Number() (NumberLiteral, bool) {
	switch v.Kind {
	case ValueInteger:
		return NumberLiteral{Atom: IntegerAtom(v.Int), Suffix: v.Suffix}, true
	case ValueDecimal:
		return NumberLiteral{Atom: DecimalAtom(v.Float), Suffix: v.Suffix}, true
	default:
		return NumberLiteral{}, false
	}
}

// String returns v in source form; strings are quoted.
func (v Value) String() string {
	switch v.Kind {
	case ValueBoolean:
		return strconv.FormatBool(v.Bool)
	case ValueSymbol:
		return v.Text
	case ValueString:
		return quote(v.Text)
	case ValueInteger:
		return strconv.FormatInt(v.Int, 10) + v.Suffix
	case ValueDecimal:
		return formatDecimal(v.Float) + v.Suffix
	default:
		return "null"
	}
}

// ToNative converts v to a plain Go value: nil, bool, string, int64 or
// float64. Numbers with a unit suffix keep their source text as a string.
func (v Value) ToNative() any {
	switch v.Kind {
	case ValueBoolean:
		return v.Bool
	case ValueSymbol, ValueString:
		return v.Text
	case ValueInteger:
		if v.Suffix != "" {
			return v.String()
		}

		return v.Int
	case ValueDecimal:
		if v.Suffix != "" {
			return v.String()
		}

		return v.Float
	default:
		return nil
	}
}

// key returns the text used when v names a dictionary entry in output.
func (v Value) key() string {
	if v.Kind == ValueSymbol || v.Kind == ValueString {
		return v.Text
	}

	return v.String()
}

// compareKeys orders values for deterministic output. It is not a value
// ordering; kinds sort by declaration order.
func compareKeys(a, b Value) int {
	return cmp.Or(
		cmp.Compare(a.Kind, b.Kind),
		strings.Compare(a.Text, b.Text),
		cmp.Compare(a.Int, b.Int),
		cmp.Compare(a.Float, b.Float),
		strings.Compare(a.Suffix, b.Suffix),
		compareBool(a.Bool, b.Bool),
	)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

// quote renders s as a double-quoted string literal that parses back to s.
func quote(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				sb.WriteString(`\u{`)
				sb.WriteString(strconv.FormatInt(int64(r), 16))
				sb.WriteByte('}')
			} else {
				sb.WriteRune(r)
			}
		}
	}

	sb.WriteByte('"')

	return sb.String()
}
