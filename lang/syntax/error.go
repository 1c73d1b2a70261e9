package syntax

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Error reports a grammar failure at the furthest position any rule
// attempt reached.
type Error struct {
	// Offset is the byte offset of the furthest failure.
	Offset int
	// Line and Column locate Offset (both 1-based, Column counts runes).
	Line   int
	Column int
	// Expected holds the rules that were still viable at Offset.
	Expected []Rule
	// Tokens holds the punctuation literals that were expected at Offset.
	Tokens []string

	source string
}

func newError(source string, offset int, expected []Rule, tokens []string) *Error {
	line, col := lineCol(source, offset)

	return &Error{
		Offset:   offset,
		Line:     line,
		Column:   col,
		Expected: expected,
		Tokens:   tokens,
		source:   source,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString("parse error at line ")
	sb.WriteString(strconv.Itoa(e.Line))
	sb.WriteString(", column ")
	sb.WriteString(strconv.Itoa(e.Column))

	if exp := e.expectation(); len(exp) > 0 {
		sb.WriteString(": expected ")
		sb.WriteString(strings.Join(exp, ", "))
	}

	return sb.String()
}

// expectation returns the sorted, human-readable expected set.
func (e *Error) expectation() []string {
	exp := make([]string, 0, len(e.Expected)+len(e.Tokens))

	for _, r := range e.Expected {
		exp = append(exp, r.String())
	}

	for _, t := range e.Tokens {
		exp = append(exp, strconv.Quote(t))
	}

	slices.Sort(exp)

	return slices.Compact(exp)
}

// Snippet renders the offending source line with a caret under Column.
func (e *Error) Snippet() string {
	lines := strings.Split(e.source, "\n")
	if e.Line <= 0 || e.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(e.Line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(strings.TrimRight(lines[e.Line-1], "\r"))
	sb.WriteByte('\n')
	// 2 leading spaces + " | "
	sb.WriteString(strings.Repeat(" ", len(num)+5+e.Column-1))
	sb.WriteString("^\n")

	return sb.String()
}

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("offset", e.Offset),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
		slog.Any("expected", e.expectation()),
	)
}

// lineCol converts a byte offset into a 1-based line and rune column.
func lineCol(source string, offset int) (line, col int) {
	offset = min(max(offset, 0), len(source))

	start := strings.LastIndexByte(source[:offset], '\n') + 1
	line = strings.Count(source[:start], "\n") + 1

	return line, utf8.RuneCountInString(source[start:offset]) + 1
}
