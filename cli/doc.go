// Package cli contains the command line interface for re0.
//
// # Usage
//
//	re0 [flags] <command> [args]
//
// The commands are:
//
//	check   parse sources and report errors and diagnostics
//	fmt     reformat a document as re0, JSON, YAML, or an AST dump
//	tree    print the span tree matched by a grammar rule
//	rules   list grammar rules
//	repl    parse input interactively
//	init    write a configuration file
//
// # Configuration
//
// Flag defaults are read from the declaration with symbol "cli" in the
// re0 file at [pkg.ConfigFile], and from the same path with a ".json"
// suffix. Command-line flags override both.
//
//	settings cli {
//	  log_level: "info",
//	  fmt: { indent: 4 },
//	}
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o re0 .
//
//   - --pprof-mode: profiling mode (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory
package cli
