// Package cmd implements the re0 subcommands: check, fmt, tree, rules,
// repl and init.
//
// Commands read their sources with shared rules: each distinct file is
// read once, in the order given, and every "-" collapses into a single
// read of standard input after the files.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the configuration file.
	ConfigIdentifier = "config"

	// ConfigKeyword and ConfigSymbol name the declaration holding flag
	// defaults in the configuration file.
	ConfigKeyword, ConfigSymbol = "settings", "cli"
)
