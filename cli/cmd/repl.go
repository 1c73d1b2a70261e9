package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"

	"github.com/ardnew/re0/cli/cmd/repl"
	"github.com/ardnew/re0/cli/cmd/suggest"
	"github.com/ardnew/re0/log"
	"github.com/ardnew/re0/pkg"
)

// Repl starts an interactive session. Sources given on the command line are
// loaded as the initial declarations.
type Repl struct {
	Rule      string   `default:"program" help:"Grammar rule input is matched against." placeholder:"RULE" short:"r"`
	View      string   `default:"fmt"     enum:"fmt,json,yaml,ast,tree"                 help:"Result view (${enum})."`
	Strict    bool     `help:"Treat inconsistent entries as errors." negatable:""`
	NoHistory bool     `help:"Do not read or write the history file."`
	Source    []string `arg:"" help:"Source file(s) to load, or '-' for stdin." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	rule, err := suggest.Lookup(r.Rule)
	if err != nil {
		return err
	}

	view, _ := repl.ParseView(r.View)

	cfg := repl.Config{
		Rule:        rule,
		View:        view,
		Strict:      r.Strict,
		HistoryFile: pkg.HistoryFile(),
		Logger:      log.Default(),
	}

	if r.NoHistory {
		cfg.HistoryFile = ""
	}

	if len(r.Source) > 0 {
		_, cfg.Source, err = readSources(ctx, r.Source)
		if err != nil {
			return err
		}

		cfg.InputTTY = slices.Contains(r.Source, stdinSource)
	}

	streams := streamsFrom(ctx)
	if streams.In != os.Stdin {
		cfg.Input = streams.In
	}

	if streams.Out != os.Stdout {
		cfg.Output = streams.Out
	}

	log.DebugContext(ctx, "start repl",
		slog.String("rule", rule.String()),
		slog.String("view", view.String()),
		slog.Int("source_length", len(cfg.Source)),
		slog.String("history", cfg.HistoryFile),
	)

	return repl.Run(ctx, cfg)
}
