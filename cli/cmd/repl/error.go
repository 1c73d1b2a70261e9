package repl

import "github.com/ardnew/re0/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds    = pkg.MakeErrorf("index out of range")
	ErrEditDeclined   = pkg.MakeErrorf("decline edit")
	ErrUnknownCommand = pkg.MakeErrorf("unknown command")
	ErrUsage          = pkg.MakeErrorf("usage")
)
