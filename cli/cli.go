package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/re0/cli/cmd"
	"github.com/ardnew/re0/pkg"
)

// CLI is the top-level command-line interface for re0.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print the version and exit." short:"V"`

	Check cmd.Check `cmd:"" help:"Parse sources and report errors and diagnostics."`
	Fmt   cmd.Fmt   `cmd:"" help:"Reformat a document."`
	Tree  cmd.Tree  `cmd:"" help:"Print the span tree matched by a grammar rule."`
	Rules cmd.Rules `cmd:"" help:"List grammar rules."`
	Repl  cmd.Repl  `cmd:"" help:"Parse input interactively."`
	Init  cmd.Init  `cmd:"" help:"Write a configuration file."`
}

// defaultDirMode is the permission mode of created directories.
const defaultDirMode os.FileMode = 0o700

// Run executes the re0 CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	// Logger flags are applied before kong parses anything so that errors
	// reported during parsing use the requested format.
	cli.Log.scan(args)

	parser, err := newParser(ctx, &cli, pkg.ConfigFile(),
		kong.Exit(exit),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// newParser returns the kong parser for cli. Flag defaults are read from
// configFile, written in re0, and from configFile with a ".json" suffix.
func newParser(
	ctx context.Context,
	cli *CLI,
	configFile string,
	opts ...kong.Option,
) (*kong.Kong, error) {
	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFile,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	base := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFile+".json"),
		kong.Configuration(load(ctx, cmd.ConfigSymbol), configFile),
		vars,
	}

	return kong.New(cli, append(base, opts...)...)
}
