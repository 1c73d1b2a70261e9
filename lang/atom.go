package lang

import (
	"math"
	"strconv"
	"strings"
)

// AtomKind identifies the variant held by an [Atom].
type AtomKind uint8

const (
	AtomSymbol AtomKind = iota
	AtomInteger
	AtomDecimal
)

// String returns the name of the atom kind.
func (k AtomKind) String() string {
	switch k {
	case AtomSymbol:
		return "Symbol"
	case AtomInteger:
		return "Integer"
	case AtomDecimal:
		return "Decimal"
	default:
		return "Unknown"
	}
}

// Atom is the smallest lexical value: a symbol, an integer, or a decimal.
//
// Accessors are variant-specific. Calling one on the wrong variant is a
// programming error and panics; callers always know which grammar rule
// produced the atom.
type Atom struct {
	kind AtomKind
	text string
	i    int64
	f    float64
}

// SymbolAtom returns a Symbol atom holding text.
func SymbolAtom(text string) Atom { return Atom{kind: AtomSymbol, text: text} }

// IntegerAtom returns an Integer atom.
func IntegerAtom(i int64) Atom { return Atom{kind: AtomInteger, i: i} }

// DecimalAtom returns a Decimal atom.
func DecimalAtom(f float64) Atom { return Atom{kind: AtomDecimal, f: f} }

// Kind returns the variant of a.
func (a Atom) Kind() AtomKind { return a.kind }

// AsString returns the text of a Symbol atom.
func (a Atom) AsString() string {
	if a.kind != AtomSymbol {
		panic("lang: AsString called on " + a.kind.String() + " atom")
	}

	return a.text
}

// AsInt64 returns the value of an Integer atom, or re-parses the text of a
// Symbol atom. It panics on Decimal atoms and on Symbols that are not
// integer text.
func (a Atom) AsInt64() int64 {
	switch a.kind {
	case AtomInteger:
		return a.i

	case AtomSymbol:
		i, err := strconv.ParseInt(strings.ReplaceAll(a.text, "_", ""), 10, 64)
		if err != nil {
			panic("lang: AsInt64 called on non-numeric symbol " + strconv.Quote(a.text))
		}

		return i

	default:
		panic("lang: AsInt64 called on " + a.kind.String() + " atom")
	}
}

// AsFloat64 returns the value of a Decimal atom or the exact widening of an
// Integer atom. It panics on Symbol atoms.
func (a Atom) AsFloat64() float64 {
	switch a.kind {
	case AtomDecimal:
		return a.f
	case AtomInteger:
		return float64(a.i)
	default:
		panic("lang: AsFloat64 called on " + a.kind.String() + " atom")
	}
}

// String returns the source-like text of a.
func (a Atom) String() string {
	switch a.kind {
	case AtomInteger:
		return strconv.FormatInt(a.i, 10)
	case AtomDecimal:
		return formatDecimal(a.f)
	default:
		return a.text
	}
}

// NumberLiteral is a numeric atom with an optional unit suffix, as in
// "10kg" or "2.5m".
type NumberLiteral struct {
	Atom   Atom
	Suffix string
}

// Int64 returns the integer value, truncating decimals toward zero.
func (n NumberLiteral) Int64() int64 {
	if n.Atom.kind == AtomDecimal {
		return int64(math.Trunc(n.Atom.f))
	}

	return n.Atom.AsInt64()
}

// Float64 returns the value as a float64.
func (n NumberLiteral) Float64() float64 { return n.Atom.AsFloat64() }

// Float32 returns the value as a float32.
func (n NumberLiteral) Float32() float32 { return float32(n.Atom.AsFloat64()) }

// Unit returns the unit suffix, or "" if none.
func (n NumberLiteral) Unit() string { return n.Suffix }

// Value converts n into an Integer or Decimal [Value].
func (n NumberLiteral) Value() Value {
	if n.Atom.kind == AtomDecimal {
		return Decimal(n.Atom.f, n.Suffix)
	}

	return Integer(n.Int64(), n.Suffix)
}

// String returns the number followed by its suffix.
func (n NumberLiteral) String() string { return n.Atom.String() + n.Suffix }

// formatDecimal formats f so that it reads back as a decimal, never as an
// integer.
func formatDecimal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}

	return s
}
