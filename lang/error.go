package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/re0/lang/syntax"
)

// Predefined errors (sentinel values).
var (
	ErrParse               = NewError("syntax error")
	ErrLiteral             = NewError("invalid literal")
	ErrMalformedDecimal    = NewError("malformed decimal")
	ErrValidation          = NewError("validation failed")
	ErrUnexpectedNode      = NewError("unexpected syntax node")
	ErrDeclarationNotFound = NewError("declaration not found")
	ErrReadInput           = NewError("failed to read input")
	ErrUnsupportedFormat   = NewError("unsupported output format")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is a sentinel with the same message, so that
// errors derived from a sentinel with [Error.Wrap] or [Error.With] still
// match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// parseError wraps a grammar failure with its position attributes.
func parseError(err error) *Error {
	perr := &syntax.Error{}
	if !errors.As(err, &perr) {
		return ErrParse.Wrap(err)
	}

	return ErrParse.Wrap(perr).With(
		slog.Int("line", perr.Line),
		slog.Int("column", perr.Column),
		slog.Int("offset", perr.Offset),
	)
}

// LiteralError reports a literal span that could not be converted to its
// value. It matches [ErrLiteral] and its cause with errors.Is.
type LiteralError struct {
	Span syntax.Span
	Rule syntax.Rule
	Text string
	Err  error
}

// Error implements the error interface.
func (e *LiteralError) Error() string {
	return fmt.Sprintf("invalid %s literal %q at %s: %v",
		e.Rule, e.Text, e.Span, e.Err)
}

// Unwrap returns [ErrLiteral] and the underlying conversion error.
func (e *LiteralError) Unwrap() []error { return []error{ErrLiteral, e.Err} }

// LogValue implements slog.LogValuer.
func (e *LiteralError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("rule", e.Rule.String()),
		slog.String("text", e.Text),
		slog.String("span", e.Span.String()),
		slog.String("cause", fmt.Sprint(e.Err)),
	)
}

func literalError(n *syntax.Node, err error) *LiteralError {
	return &LiteralError{Span: n.Span, Rule: n.Rule, Text: n.Text, Err: err}
}

func nodeAttrs(n *syntax.Node) []slog.Attr {
	return []slog.Attr{
		slog.String("rule", n.Rule.String()),
		slog.String("span", n.Span.String()),
	}
}
