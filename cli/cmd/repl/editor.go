package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/re0/lang"
	"github.com/ardnew/re0/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop.
// It writes the session declarations to a temp file, opens the user's
// editor, and parses the result. On a parse error the user is asked to edit
// again; declining ends the REPL.
type editCommand struct {
	ctx     context.Context
	doc     *lang.Document
	options []lang.Option
	result  *lang.Document
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file cancels the edit and leaves
// result nil. Declining to edit again returns [ErrEditDeclined].
func (c *editCommand) Run() error {
	var buf bytes.Buffer
	if err := c.doc.Format(c.ctx, &buf, outputIndent); err != nil {
		return fmt.Errorf("format declarations: %w", err)
	}

	f, err := os.CreateTemp("", "re0-repl-*.re0")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, privateFileMode); err != nil {
			return err
		}

		if err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		content, err = os.ReadFile(path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		doc, err := lang.ParseString(c.ctx, string(content), c.options...)

		log.TraceContext(c.ctx, "editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.result = doc

			return nil
		}

		fmt.Fprintf(c.stderr, "\nParse error: %s\n", err)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor opens path in $EDITOR and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
