package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/re0/lang"
	"github.com/ardnew/re0/pkg"
)

type initCLI struct {
	Level     string   `default:"warn"`
	Pretty    bool     `default:"true" negatable:""`
	Count     int      `default:"3"`
	Ratio     float64  `default:"0.5"`
	Tags      []string `default:"a,b"`
	Empty     string
	Secret    string `default:"x"   hidden:""`
	PprofMode string `default:"cpu"`

	Init Init `cmd:""`
}

// initContext parses args against a CLI whose configuration file is path.
func initContext(t *testing.T, path string, args ...string) (context.Context, *Init) {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: path})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	ctx, _, _ := testContext("")

	return WithContext(ctx, ktx), &cli.Init
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	var cli initCLI

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse([]string{"init", "--level=debug", "--no-pretty"})
	if err != nil {
		t.Fatal(err)
	}

	decl := buildConfig(ktx)

	if decl.Keyword != ConfigKeyword || decl.Symbol != ConfigSymbol {
		t.Errorf("declaration = %s %s", decl.Keyword, decl.Symbol)
	}

	want := []string{"count", "level", "pretty", "ratio", "tags"}
	if got := decl.Names(); !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	b := lang.NewBuilder()

	checks := map[string]lang.Node{
		"level":  b.String("debug"),
		"pretty": b.Bool(false),
		"count":  b.Int(3, ""),
		"tags":   b.List(lang.String("a"), lang.String("b")),
	}

	for name, node := range checks {
		if got := decl.Property[name]; !lang.Equal(got, node) {
			t.Errorf("%s = %v, want %v", name, got, node)
		}
	}
}

func TestFlagNode(t *testing.T) {
	t.Parallel()

	b := lang.NewBuilder()

	tests := []struct {
		name  string
		value any
		want  lang.Node
		ok    bool
	}{
		{"bool", true, b.Bool(true), true},
		{"string", "s", b.String("s"), true},
		{"empty_string", "", lang.Node{}, false},
		{"int", 7, b.Int(7, ""), true},
		{"uint", uint8(9), b.Int(9, ""), true},
		{"float", 1.5, b.Decimal(1.5, ""), true},
		{"list", []int{1, 2}, b.List(lang.Integer(1, ""), lang.Integer(2, "")), true},
		{"empty_list", []string{}, lang.Node{}, false},
		{"nil", nil, lang.Node{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := flagNode(b, tt.value)
			if ok != tt.ok {
				t.Fatalf("flagNode(%v) ok = %t, want %t", tt.value, ok, tt.ok)
			}

			if ok && !lang.Equal(got, tt.want) {
				t.Errorf("flagNode(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestInit_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		exists  bool
		wantErr error
	}{
		{"create", nil, false, nil},
		{"overwrite_with_force", []string{"--force"}, true, nil},
		{"refuse_overwrite", nil, true, pkg.ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.re0")

			if tt.exists {
				if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ctx, cmd := initContext(t, path, tt.args...)

			err := cmd.Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, pkg.ErrWriteConfig) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}

			doc, err := lang.ParseString(ctx, string(data))
			if err != nil {
				t.Fatalf("written configuration does not parse: %v\n%s", err, data)
			}

			decl, err := doc.Declaration(ConfigSymbol)
			if err != nil {
				t.Fatal(err)
			}

			if !strings.HasPrefix(decl.Comment, "Defaults for") {
				t.Errorf("Comment = %q", decl.Comment)
			}
		})
	}
}

func TestInit_Stdout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.re0")

	ctx, cmd := initContext(t, path, "--stdout")
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := streamsFrom(ctx).Out.(interface{ String() string }).String()
	if !strings.Contains(out, ConfigKeyword+" "+ConfigSymbol) {
		t.Errorf("out = %q", out)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Run() --stdout wrote the configuration file")
	}
}

func TestInit_NoContext(t *testing.T) {
	t.Parallel()

	ctx, _, _ := testContext("")

	if err := (&Init{}).Run(ctx); !errors.Is(err, pkg.ErrWriteConfig) {
		t.Errorf("Run() error = %v, want ErrWriteConfig", err)
	}
}
