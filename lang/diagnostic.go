package lang

import (
	"errors"
	"log/slog"

	"github.com/ardnew/re0/lang/syntax"
)

// Diagnostic reports a recoverable inconsistency found while building the
// AST. The offending entry is dropped and the build continues.
type Diagnostic struct {
	Span    syntax.Span
	Message string
}

// Error implements the error interface.
func (d Diagnostic) Error() string { return d.Span.String() + ": " + d.Message }

// LogValue implements slog.LogValuer.
func (d Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("span", d.Span.String()),
		slog.String("message", d.Message),
	)
}

// Diagnostics is an ordered list of [Diagnostic].
type Diagnostics []Diagnostic

// Err returns nil if d is empty, or else an [ErrValidation] wrapping every
// diagnostic.
func (d Diagnostics) Err() error {
	if len(d) == 0 {
		return nil
	}

	errs := make([]error, len(d))
	for i, diag := range d {
		errs[i] = diag
	}

	return ErrValidation.Wrap(errors.Join(errs...)).With(
		slog.Int("count", len(d)))
}
