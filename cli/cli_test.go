package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/re0/log"
)

// restoreLogger resets the default logger after tests whose flag parsing
// reconfigures it.
func restoreLogger(t *testing.T) {
	t.Helper()

	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })
}

func TestNewParser_Config(t *testing.T) {
	restoreLogger(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.re0")

	src := `settings cli {
  log_level: "error",
  log: { caller: true },
  check: { strict: true, quiet: true },
}`
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path+".json", []byte(`{"log-format": "json"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli CLI

	parser, err := newParser(context.Background(), &cli, path)
	if err != nil {
		t.Fatalf("newParser() error = %v", err)
	}

	if _, err := parser.Parse([]string{"check"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cli.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cli.Log.Level)
	}

	if cli.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cli.Log.Format)
	}

	if !cli.Log.Caller {
		t.Error("Log.Caller = false, want true")
	}

	if !cli.Check.Strict || !cli.Check.Quiet {
		t.Errorf("Check = %+v, want strict and quiet", cli.Check)
	}
}

func TestNewParser_FlagsOverrideConfig(t *testing.T) {
	restoreLogger(t)

	path := filepath.Join(t.TempDir(), "config.re0")
	if err := os.WriteFile(path, []byte(`settings cli { check: { strict: true } }`), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli CLI

	parser, err := newParser(context.Background(), &cli, path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"check", "--no-strict"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cli.Check.Strict {
		t.Error("Check.Strict = true, want false")
	}
}

func TestNewParser_BrokenConfig(t *testing.T) {
	restoreLogger(t)

	path := filepath.Join(t.TempDir(), "config.re0")
	if err := os.WriteFile(path, []byte(`settings cli {`), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli CLI

	parser, err := newParser(context.Background(), &cli, path)
	if err != nil {
		t.Fatalf("newParser() error = %v", err)
	}

	if _, err := parser.Parse([]string{"rules"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cli.Log.Level != logLevel(log.DefaultLevel.String()) {
		t.Errorf("Log.Level = %q, want %q", cli.Log.Level, log.DefaultLevel)
	}
}

func TestNewParser_MissingConfig(t *testing.T) {
	restoreLogger(t)

	var cli CLI

	path := filepath.Join(t.TempDir(), "absent.re0")

	parser, err := newParser(context.Background(), &cli, path)
	if err != nil {
		t.Fatalf("newParser() error = %v", err)
	}

	if _, err := parser.Parse([]string{"rules"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}
