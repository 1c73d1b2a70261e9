package cli

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/re0/lang"
	"github.com/ardnew/re0/log"
	"github.com/ardnew/re0/pkg"
)

// load returns a [kong.ConfigurationLoader] that reads flag defaults from
// the declaration named symbol in a re0 document:
//
//	settings cli {
//	  log_level: "debug",
//	  log: { caller: true },
//	  check: { strict: true },
//	}
//
// Nested dictionaries join their keys with "-", so the last two entries set
// --log-caller and the check command's --strict. Underscores may stand in
// for hyphens. Lists become comma-separated values.
//
// A document that cannot be parsed is reported and ignored, so a broken
// configuration file never prevents the CLI from starting.
func load(ctx context.Context, symbol string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		doc, err := lang.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration",
				slog.Any("error", pkg.ErrLoadConfig.Wrap(err)))

			return config{}, nil
		}

		decl, err := doc.Declaration(symbol)
		if err != nil {
			log.DebugContext(ctx, "no configuration declaration",
				slog.String("symbol", symbol))

			return config{}, nil
		}

		cfg := make(config, len(decl.Property))
		for name, n := range decl.Property {
			cfg.add(name, n)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] over flattened flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A value scoped to the selected
// command takes precedence over a global one.
func (c config) Resolve(
	ktx *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	names := []string{flag.Name}

	if ktx != nil {
		if scope := commandScope(ktx.Selected()); scope != "" {
			names = append([]string{scope + "-" + flag.Name}, names...)
		}
	}

	for _, name := range names {
		if v, ok := c[name]; ok {
			return v, nil
		}
	}

	return nil, nil
}

// commandScope returns the names of node and its parent commands joined
// with "-", outermost first.
func commandScope(node *kong.Node) string {
	var names []string

	for n := node; n != nil && n.Type == kong.CommandNode; n = n.Parent {
		names = append(names, n.Name)
	}

	slices.Reverse(names)

	return strings.Join(names, "-")
}

// add stores n under name, flattening dictionaries.
func (c config) add(name string, n lang.Node) {
	name = strings.ReplaceAll(name, "_", "-")

	switch n.Kind {
	case lang.KindDict:
		for k, v := range n.Entries() {
			key := k.Text
			if k.Kind != lang.ValueSymbol && k.Kind != lang.ValueString {
				key = k.String()
			}

			c.add(name+"-"+key, v)
		}

	case lang.KindBlock:
		items := make([]string, 0, len(n.Block))
		for _, item := range n.Block {
			if item.Kind == lang.KindValue {
				items = append(items, scalar(item.Value))
			}
		}

		c[name] = strings.Join(items, ",")

	case lang.KindValue:
		if n.Value.Kind == lang.ValueBoolean {
			c[name] = n.Value.Bool
		} else if n.Value.Kind != lang.ValueNull {
			c[name] = scalar(n.Value)
		}
	}
}

// scalar returns the flag text of v. Kong parses numbers from strings.
func scalar(v lang.Value) string {
	switch x := v.ToNative().(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
