package lang

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/re0/lang/syntax"
)

var errInvalidCodePoint = errors.New("invalid code point")

// digits strips digit-group underscores.
func digits(s string) string { return strings.ReplaceAll(s, "_", "") }

// parseNumber interprets a number node: a signed integer or decimal with an
// optional adjacent unit suffix.
func parseNumber(n *syntax.Node) (NumberLiteral, error) {
	signed := n.Child(syntax.RuleSignedNumber)
	if signed == nil {
		return NumberLiteral{}, ErrUnexpectedNode.With(nodeAttrs(n)...)
	}

	var lit NumberLiteral

	if suffix := n.Child(syntax.RuleSymbol); suffix != nil {
		lit.Suffix = suffix.Text
	}

	var sign string
	if s := signed.Child(syntax.RuleSign); s != nil {
		sign = s.Text
	}

	for _, c := range signed.Children {
		switch c.Rule {
		case syntax.RuleDecimal:
			f, err := strconv.ParseFloat(sign+digits(c.Text), 64)
			if err != nil {
				return NumberLiteral{}, literalError(c, numError(err))
			}

			lit.Atom = DecimalAtom(f)

			return lit, nil

		case syntax.RuleInteger:
			i, err := strconv.ParseInt(sign+digits(c.Text), 10, 64)
			if err != nil {
				return NumberLiteral{}, literalError(c, numError(err))
			}

			lit.Atom = IntegerAtom(i)

			return lit, nil

		case syntax.RuleDecimalBad:
			return NumberLiteral{}, literalError(c, ErrMalformedDecimal)
		}
	}

	return NumberLiteral{}, ErrUnexpectedNode.With(nodeAttrs(signed)...)
}

// parseInteger interprets an integer node, as used for dictionary keys.
func parseInteger(n *syntax.Node) (int64, error) {
	i, err := strconv.ParseInt(digits(n.Text), 10, 64)
	if err != nil {
		return 0, literalError(n, numError(err))
	}

	return i, nil
}

// numError drops the strconv function name and input, which the
// [LiteralError] already carries.
func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}

	return err
}

// parseString de-escapes the parts of a string or string_normal node.
func parseString(n *syntax.Node) (string, error) {
	if n.Rule == syntax.RuleString {
		if n = n.Child(syntax.RuleStringNormal); n == nil {
			return "", nil
		}
	}

	var sb strings.Builder

	for part := range n.All(syntax.RuleStringPart) {
		if err := unescape(&sb, part); err != nil {
			return "", err
		}
	}

	return sb.String(), nil
}

// unescape writes the decoded text of one string_part node.
func unescape(sb *strings.Builder, part *syntax.Node) error {
	text := part.Text
	if !strings.HasPrefix(text, `\`) {
		sb.WriteString(text)

		return nil
	}

	switch {
	case strings.HasPrefix(text, `\u{`):
		for field := range strings.FieldsSeq(text[3 : len(text)-1]) {
			r, err := codePoint(field)
			if err != nil {
				return literalError(part, err)
			}

			sb.WriteRune(r)
		}

	case strings.HasPrefix(text, `\u`) && len(text) == 6:
		r, err := codePoint(text[2:])
		if err != nil {
			return literalError(part, err)
		}

		sb.WriteRune(r)

	default:
		r, _ := utf8.DecodeRuneInString(text[1:])
		switch r {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		default:
			sb.WriteRune(r)
		}
	}

	return nil
}

func codePoint(hex string) (rune, error) {
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, numError(err)
	}

	if r := rune(u); utf8.ValidRune(r) {
		return r, nil
	}

	return 0, errInvalidCodePoint
}
