package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/re0/lang"
	"github.com/ardnew/re0/log"
	"github.com/ardnew/re0/pkg"
	"github.com/ardnew/re0/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init writes a configuration file holding the current value of every
// global flag.
type Init struct {
	Force  bool `help:"Overwrite an existing configuration file." short:"f"`
	Stdout bool `help:"Write to stdout instead of the configuration file."`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return pkg.ErrWriteConfig.Wrapf("no command-line context")
	}

	decl := buildConfig(ktx)

	if i.Stdout {
		return writeConfig(streamsFrom(ctx).Out, decl)
	}

	path := ktx.Model.Vars()[ConfigIdentifier]

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !i.Force {
		flags |= os.O_EXCL
	}

	file, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return pkg.ErrWriteConfig.Wrapf("%s", path).Wrap(pkg.ErrFileExists)
		}

		return pkg.ErrWriteConfig.Wrapf("%s", path).Wrap(err)
	}

	if err := writeConfig(file, decl); err != nil {
		_ = file.Close()

		return pkg.ErrWriteConfig.Wrapf("%s", path).Wrap(err)
	}

	if err := file.Close(); err != nil {
		return pkg.ErrWriteConfig.Wrapf("%s", path).Wrap(err)
	}

	log.InfoContext(ctx, "initialized configuration file",
		slog.String("path", path),
		slog.Int("entries", len(decl.Property)))

	return nil
}

func writeConfig(w io.Writer, decl *lang.DeclareStatement) error {
	if err := lang.FormatDeclaration(w, decl, defaultConfigIndent); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")

	return err
}

// buildConfig returns the configuration declaration for the global flags
// of ktx. Flag names use underscores, which the configuration loader
// accepts for hyphens.
func buildConfig(ktx *kong.Context) *lang.DeclareStatement {
	b := lang.NewBuilder()

	var entries []lang.Entry

	for _, flag := range ktx.Model.Flags {
		if skipFlag(flag) {
			continue
		}

		if n, ok := flagNode(b, ktx.FlagValue(flag)); ok {
			entries = append(entries, b.Entry(strings.ReplaceAll(flag.Name, "-", "_"), n))
		}
	}

	decl := b.Declare(ConfigKeyword, ConfigSymbol, nil, entries...)
	decl.Comment = "Defaults for " + pkg.Name + " command-line flags."

	return decl
}

// skipFlag reports whether flag is omitted from the configuration file.
func skipFlag(flag *kong.Flag) bool {
	if flag.Hidden {
		return true
	}

	switch flag.Name {
	case "help", "version":
		return true
	}

	return strings.HasPrefix(flag.Name, profile.Tag+"-")
}

// flagNode converts a flag value to a literal node. Empty strings and
// empty lists are omitted.
func flagNode(b *lang.Builder, value any) (lang.Node, bool) {
	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.Bool:
		return b.Bool(v.Bool()), true

	case reflect.String:
		if v.Len() == 0 {
			return lang.Node{}, false
		}

		return b.String(v.String()), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return b.Int(v.Int(), ""), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return b.Int(int64(v.Uint()), ""), true //nolint:gosec

	case reflect.Float32, reflect.Float64:
		return b.Decimal(v.Float(), ""), true

	case reflect.Slice:
		if v.Len() == 0 {
			return lang.Node{}, false
		}

		items := make([]lang.Value, 0, v.Len())
		for j := range v.Len() {
			if n, ok := flagNode(b, v.Index(j).Interface()); ok && n.Kind == lang.KindValue {
				items = append(items, n.Value)
			}
		}

		return b.List(items...), true

	case reflect.Invalid:
		return lang.Node{}, false

	default:
		return b.String(fmt.Sprint(value)), true
	}
}
