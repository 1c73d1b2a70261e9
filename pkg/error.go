package pkg

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// Error represents a chain of errors, outermost first. Sentinel values hold
// a single message and are extended with [Error.Wrap].
type Error []error

var (
	// ErrOpenSource is returned when a source file cannot be opened or read.
	ErrOpenSource = MakeErrorf("open source")

	// ErrNoSource is returned when a command that needs input has none.
	ErrNoSource = MakeErrorf("no source input (pass a file or '-' for stdin)")

	// ErrUnknownRule is returned when a grammar rule name is not defined.
	// It should be wrapped with suggestions for similar names, if any.
	ErrUnknownRule = MakeErrorf("unknown grammar rule")

	// ErrCheckFailed is returned when one or more sources fail validation.
	ErrCheckFailed = MakeErrorf("check failed")

	// ErrWatch is returned when watching source files for changes fails.
	ErrWatch = MakeErrorf("watch sources")

	// ErrLoadConfig is returned when the configuration file cannot be
	// parsed into flag defaults.
	ErrLoadConfig = MakeErrorf("load configuration")

	// ErrWriteConfig is returned when the configuration file cannot be
	// written.
	ErrWriteConfig = MakeErrorf("write configuration file")

	// ErrFileExists is returned when a file would be overwritten without
	// permission.
	ErrFileExists = MakeErrorf("file exists (use --force to overwrite)")
)

// MakeError constructs an Error from errs, skipping nil values and
// flattening nested chains.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		e = append(e, UnwrapErrors(err)...)
	}

	return e
}

// MakeErrorf constructs an Error from a formatted message.
func MakeErrorf(format string, args ...any) Error {
	return Error{fmt.Errorf(format, args...)}
}

// Error joins the messages of the chain with ": ".
func (e Error) Error() string {
	parts := make([]string, 0, len(e))
	for _, err := range e {
		parts = append(parts, err.Error())
	}

	return strings.Join(parts, ": ")
}

// Wrap returns a copy of the receiver with errs appended.
func (e Error) Wrap(errs ...error) Error {
	out := make(Error, 0, len(e)+len(errs))
	out = append(out, e...)

	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}

	return out
}

// Wrapf returns a copy of the receiver with a formatted error appended.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the errors of the chain.
func (e Error) Unwrap() []error { return e }

// Is reports whether target is an Error whose chain is a prefix of the
// receiver's, so a wrapped sentinel still matches the sentinel.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i := range t {
		if !sameError(e[i], t[i]) {
			return false
		}
	}

	return true
}

func sameError(a, b error) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}

	return a == b
}

// LogValue implements slog.LogValuer. Errors in the chain that are
// themselves LogValuers contribute their attributes.
func (e Error) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("error", e.Error())}

	for _, err := range e {
		if lv, ok := err.(slog.LogValuer); ok {
			attrs = append(attrs, slog.Any("detail", lv))
		}
	}

	return slog.GroupValue(attrs...)
}

// UnwrapErrors flattens err into its chain, outermost first. Errors with a
// single wrapped cause are kept whole; multi-errors are expanded.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	multi, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return Error{err}
	}

	var chain Error
	for _, wrapped := range multi.Unwrap() {
		chain = append(chain, UnwrapErrors(wrapped)...)
	}

	return chain
}
