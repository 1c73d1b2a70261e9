package syntax

import "unicode"

// entry returns the matcher for rule r.
func (s *state) entry(r Rule) matcher {
	switch r {
	case RuleSOI:
		return s.soi
	case RuleEOI:
		return s.eoi
	case RuleProgram:
		return s.program
	case RuleStatements:
		return s.statements
	case RuleDeclareStatement:
		return s.declareStatement
	case RuleDeclareBlock:
		return s.declareBlock
	case RuleDeclareItem:
		return s.declareItem
	case RuleDeclarePair:
		return s.declarePair
	case RuleIfStatement:
		return s.ifStatement
	case RuleElseStatement:
		return s.elseStatement
	case RuleBlock:
		return s.block
	case RuleExpression:
		return s.expression
	case RuleTerm:
		return s.term
	case RuleCallSuffix:
		return s.callSuffix
	case RuleListBlock:
		return s.listBlock
	case RuleKey:
		return s.key
	case RuleColon:
		return s.colon
	case RuleKwIf:
		return s.kwIf
	case RuleKwElse:
		return s.kwElse
	case RuleOpInfix:
		return s.opInfix
	case RuleData:
		return s.data
	case RuleSpecial:
		return s.special
	case RuleNumber:
		return s.number
	case RuleSignedNumber:
		return s.signedNumber
	case RuleDecimal:
		return s.decimal
	case RuleDecimalBad:
		return s.decimalBad
	case RuleInteger:
		return s.integer
	case RuleSign:
		return s.sign
	case RuleString:
		return s.string
	case RuleStringNormal:
		return s.stringNormal
	case RuleStringPart:
		return s.stringPart(`"`)
	case RuleSymbol:
		return s.symbol
	case RuleModifiers:
		return s.modifiers
	case RuleDot:
		return s.dot
	case RuleComment:
		return s.comment
	case RuleWhitespace:
		return s.whitespace
	case RuleLineComment:
		return s.lineComment
	case RuleOmitComment:
		return s.omitComment
	case RuleMultiLineComment:
		return s.multiLineComment
	case RuleSeparator:
		return s.separator
	default:
		return func() bool { return false }
	}
}

// Structural grammar.

func (s *state) program() bool {
	return s.rule(RuleProgram, inherit,
		s.seq(s.soi, s.repeat(s.declareStatement), s.eoi))
}

func (s *state) statements() bool {
	return s.rule(RuleStatements, inherit,
		s.choice(s.ifStatement, s.expression))
}

func (s *state) declareStatement() bool {
	return s.rule(RuleDeclareStatement, inherit,
		s.seq(s.symbol, s.symbol, s.optional(s.modifiers), s.declareBlock))
}

func (s *state) declareBlock() bool {
	return s.rule(RuleDeclareBlock, inherit,
		s.seq(s.str("{"), s.repeat(s.declareItem), s.str("}")))
}

func (s *state) declareItem() bool {
	return s.silent(s.atomicity, s.choice(s.separator, s.declarePair))
}

// declarePair tries a nested block, then a list, then a colon-separated
// statement. Only the last form requires the colon.
func (s *state) declarePair() bool {
	return s.rule(RuleDeclarePair, inherit, s.choice(
		s.seq(s.key, s.optional(s.colon), s.declareBlock),
		s.seq(s.key, s.optional(s.colon), s.listBlock),
		s.seq(s.key, s.colon, s.statements),
	))
}

func (s *state) key() bool {
	return s.rule(RuleKey, inherit,
		s.choice(s.stringNormal, s.symbol, s.integer))
}

func (s *state) colon() bool {
	return s.rule(RuleColon, atomic, s.strs(":", "："))
}

func (s *state) ifStatement() bool {
	return s.rule(RuleIfStatement, inherit,
		s.seq(s.kwIf, s.expression, s.block, s.optional(s.elseStatement)))
}

func (s *state) elseStatement() bool {
	return s.rule(RuleElseStatement, inherit,
		s.seq(s.kwElse, s.choice(s.block, s.ifStatement)))
}

func (s *state) block() bool {
	return s.rule(RuleBlock, inherit,
		s.seq(s.str("{"), s.repeat(s.statements), s.str("}")))
}

func (s *state) kwIf() bool {
	return s.rule(RuleKwIf, atomic, s.choice(
		s.strs("若", "如果"),
		s.keyword("if"),
	))
}

func (s *state) kwElse() bool {
	return s.rule(RuleKwElse, atomic, s.choice(
		s.str("否则"),
		s.keyword("else"),
	))
}

func (s *state) expression() bool {
	return s.rule(RuleExpression, inherit,
		s.seq(s.term, s.repeat(s.seq(s.opInfix, s.term))))
}

func (s *state) term() bool {
	return s.rule(RuleTerm, inherit,
		s.seq(s.data, s.optional(s.callSuffix)))
}

func (s *state) callSuffix() bool {
	args := s.seq(
		s.expression,
		s.repeat(s.seq(s.separator, s.expression)),
		s.optional(s.separator),
	)

	return s.rule(RuleCallSuffix, inherit,
		s.seq(s.str("("), s.optional(args), s.str(")")))
}

// opInfix lists each spelling longest-first within its operator family.
func (s *state) opInfix() bool {
	return s.rule(RuleOpInfix, atomic, s.strs(
		">=", "大于等于", "不小于", ">", "大于",
		"<=", "小于等于", "不大于", "<", "小于",
		"==", "等于",
		"!=", "不等于",
		"+=", "-=",
	))
}

func (s *state) listBlock() bool {
	items := s.repeat(s.choice(s.data, s.separator))

	return s.rule(RuleListBlock, inherit, s.choice(
		s.seq(s.str("["), items, s.str("]")),
		s.seq(s.str("【"), items, s.str("】")),
	))
}

// Lexical grammar.

func (s *state) data() bool {
	return s.rule(RuleData, nonAtomic,
		s.choice(s.special, s.number, s.string, s.symbol))
}

func (s *state) special() bool {
	return s.rule(RuleSpecial, atomic, s.choice(
		s.keyword("true"),
		s.keyword("false"),
		s.keyword("null"),
	))
}

// keyword matches an ASCII word not immediately followed by an identifier
// character.
func (s *state) keyword(word string) matcher {
	return s.seq(s.str(word), s.not(s.char(isIdentContinue)))
}

func (s *state) number() bool {
	return s.rule(RuleNumber, compoundAtomic,
		s.seq(s.signedNumber, s.optional(s.symbol)))
}

func (s *state) signedNumber() bool {
	return s.rule(RuleSignedNumber, compoundAtomic, s.seq(
		s.optional(s.sign),
		s.choice(s.decimal, s.decimalBad, s.integer),
	))
}

func (s *state) decimal() bool {
	return s.rule(RuleDecimal, compoundAtomic,
		s.seq(s.integer, s.dot, s.repeat1(s.digit())))
}

// decimalBad recognizes a dot with digits on only one side.
func (s *state) decimalBad() bool {
	return s.rule(RuleDecimalBad, compoundAtomic, s.choice(
		s.seq(s.integer, s.dot),
		s.seq(s.dot, s.repeat1(s.digit())),
	))
}

func (s *state) integer() bool {
	return s.rule(RuleInteger, atomic,
		s.seq(s.char(isDigit), s.repeat(s.digit())))
}

// digit matches one decimal digit with an optional leading underscore.
func (s *state) digit() matcher {
	return s.seq(s.optional(s.str("_")), s.char(isDigit))
}

func (s *state) sign() bool {
	return s.rule(RuleSign, atomic, s.strs("+", "-"))
}

func (s *state) string() bool {
	return s.rule(RuleString, nonAtomic, s.stringNormal)
}

func (s *state) stringNormal() bool {
	return s.rule(RuleStringNormal, compoundAtomic, s.choice(
		s.quoted("'", "'"),
		s.quoted(`"`, `"`),
		s.quoted("“", "”"),
		s.quoted("‹", "›"),
		s.quoted("«", "»"),
	))
}

func (s *state) quoted(opening, closing string) matcher {
	return s.seq(s.str(opening), s.repeat(s.stringPart(closing)), s.str(closing))
}

// stringPart matches one escape sequence or a run of plain characters
// up to closing or a backslash.
func (s *state) stringPart(closing string) matcher {
	return func() bool {
		return s.rule(RuleStringPart, atomic, s.choice(
			s.seq(s.str(`\u`), s.char(isHex), s.char(isHex), s.char(isHex), s.char(isHex)),
			s.seq(s.str(`\u{`), s.repeat1(s.char(isHexOrSpace)), s.str("}")),
			s.seq(s.str(`\`), s.any),
			s.repeat1(s.seq(s.not(s.strs(closing, `\`)), s.any)),
		))
	}
}

func (s *state) symbol() bool {
	return s.rule(RuleSymbol, atomic,
		s.seq(s.char(isIdentStart), s.repeat(s.char(isIdentContinue))))
}

func (s *state) modifiers() bool {
	return s.rule(RuleModifiers, inherit, s.repeat1(s.symbol))
}

func (s *state) dot() bool {
	return s.rule(RuleDot, atomic, s.str("."))
}

// Whitespace, comments, separators.

func (s *state) comment() bool {
	return s.silent(atomic,
		s.choice(s.lineComment, s.omitComment, s.multiLineComment))
}

func (s *state) whitespace() bool {
	return s.silent(atomic, s.choice(
		s.newline(),
		s.char(func(r rune) bool { return unicode.Is(unicode.Zs, r) }),
		s.str("\t"),
	))
}

func (s *state) newline() matcher {
	return s.strs("\n", "\r\n", "\r")
}

func (s *state) lineComment() bool {
	return s.rule(RuleLineComment, compoundAtomic, s.seq(
		s.strs("///", "、"),
		s.repeat(s.seq(s.not(s.newline()), s.any)),
	))
}

// omitComment continues through the skip rule, so it only extends past a
// line break when called in non-atomic context.
func (s *state) omitComment() bool {
	return s.seq(
		s.str("//"),
		s.repeat(s.seq(s.not(s.newline()), s.any)),
	)()
}

func (s *state) multiLineComment() bool {
	return s.rule(RuleMultiLineComment, compoundAtomic, s.seq(
		s.str("/*"),
		s.repeat(s.choice(
			s.multiLineComment,
			s.seq(s.not(s.str("*/")), s.any),
		)),
		s.str("*/"),
	))
}

func (s *state) separator() bool {
	return s.silent(atomic, s.strs(",", ";", "，", "；"))
}

// Character classes.

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isHexOrSpace(r rune) bool {
	return isHex(r) || unicode.Is(unicode.Zs, r)
}

func isIdentStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}
