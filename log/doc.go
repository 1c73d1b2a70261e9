// Package log provides leveled structured logging on top of [log/slog].
//
// A [Logger] is created with [Make] and configured once with functional
// options. Its configuration never changes afterward; [Logger.Wrap] and
// [Logger.With] return new loggers instead.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"))
//
//	logger.Trace("parse start", slog.Int("source_length", len(src)))
//
// Attributes are always [slog.Attr] values, never loose key/value pairs.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for parser milestones.
// Level names print in upper case, including "TRACE".
//
// # Pretty output
//
// With [WithPretty], records are colorized with lipgloss styles. Text
// records stay on one line; JSON records are indented. Colors are dropped
// automatically when the output is not a terminal.
//
// # Package-level logger
//
// The functions [Trace], [Debug], [Info], [Warn], and [Error] (and their
// Context variants) write through a package-level logger that writes to
// stderr. [Config] adjusts it, and [SetDefault] replaces it.
package log
