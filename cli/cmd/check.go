package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/re0/lang"
	"github.com/ardnew/re0/lang/syntax"
	"github.com/ardnew/re0/log"
	"github.com/ardnew/re0/pkg"
)

// settleTime is how long a watched file must stay unchanged before it is
// checked again. Editors often write a file in several steps.
const settleTime = 100 * time.Millisecond

// Check parses each source independently and reports the result.
type Check struct {
	Strict bool `help:"Fail on entries that would otherwise be dropped."           negatable:""`
	Watch  bool `help:"Check files again whenever they change, until interrupted." short:"w"`
	Quiet  bool `help:"Only report sources that fail."                             short:"q"`

	Input
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	out := streamsFrom(ctx).Out

	if c.Watch {
		return c.watch(ctx, out)
	}

	return c.checkAll(ctx, out, c.Source)
}

// checkAll checks every distinct source in paths and returns
// [pkg.ErrCheckFailed] if any of them fails.
func (c *Check) checkAll(ctx context.Context, out io.Writer, paths []string) error {
	srcs, closeAll, err := openSources(ctx, paths)
	if err != nil {
		return pkg.ErrCheckFailed.Wrap(err)
	}
	defer closeAll()

	rep := newReport(out)
	failed := 0

	for _, src := range srcs {
		doc, err := c.check(ctx, src)
		if err != nil {
			failed++

			rep.fail(src.name, err)

			continue
		}

		if !c.Quiet {
			rep.pass(src.name, doc)
		}
	}

	if failed > 0 {
		return pkg.ErrCheckFailed.Wrapf("%d of %d sources", failed, len(srcs))
	}

	return nil
}

func (c *Check) check(ctx context.Context, src source) (*lang.Document, error) {
	logger := log.With(slog.String("source", src.name))

	return lang.ParseReader(ctx, src,
		lang.WithLogger(logger),
		lang.WithStrict(c.Strict),
	)
}

// watch checks the named files, then checks each file again after it
// changes. It returns when ctx is done.
func (c *Check) watch(ctx context.Context, out io.Writer) error {
	paths := slices.DeleteFunc(slices.Clone(c.Source), func(p string) bool {
		return p == stdinSource
	})
	if len(paths) == 0 {
		return pkg.ErrWatch.Wrapf("no files to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return pkg.ErrWatch.Wrap(err)
	}
	defer w.Close()

	// Directories are watched so files replaced by rename are still seen.
	watched := make(map[string]string, len(paths))

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return pkg.ErrWatch.Wrapf("%s", p).Wrap(err)
		}

		watched[abs] = p

		if err := w.Add(filepath.Dir(abs)); err != nil {
			return pkg.ErrWatch.Wrapf("%s", p).Wrap(err)
		}
	}

	c.logResult(ctx, c.checkAll(ctx, out, paths))

	timer := time.NewTimer(settleTime)
	timer.Stop()

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			name, ok := watched[filepath.Clean(ev.Name)]
			if !ok || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}

			log.TraceContext(ctx, "source changed",
				slog.String("source", name),
				slog.String("op", ev.Op.String()))

			pending[name] = struct{}{}

			timer.Reset(settleTime)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch failed", slog.Any("error", pkg.ErrWatch.Wrap(err)))

		case <-timer.C:
			names := slices.Sorted(maps.Keys(pending))
			clear(pending)

			c.logResult(ctx, c.checkAll(ctx, out, names))
		}
	}
}

// logResult logs the result of a check made while watching, where failures
// do not end the command.
func (*Check) logResult(ctx context.Context, err error) {
	if err != nil {
		log.DebugContext(ctx, "check failed", slog.Any("error", err))
	}
}

// report writes one result per source.
type report struct {
	out                    io.Writer
	passed, failed, detail lipgloss.Style
}

func newReport(out io.Writer) *report {
	ren := lipgloss.NewRenderer(out)

	return &report{
		out:    out,
		passed: ren.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		failed: ren.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		detail: ren.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (r *report) pass(name string, doc *lang.Document) {
	n := 0
	for range doc.Declarations() {
		n++
	}

	msg := fmt.Sprintf("%d declaration%s", n, plural(n))
	switch d := len(doc.Diagnostics); d {
	case 0:
	case 1:
		msg += ", 1 dropped entry"
	default:
		msg += fmt.Sprintf(", %d dropped entries", d)
	}

	fmt.Fprintf(r.out, "%s %s %s\n", r.passed.Render("ok  "), name, r.detail.Render(msg))
}

func (r *report) fail(name string, err error) {
	fmt.Fprintf(r.out, "%s %s %s\n", r.failed.Render("FAIL"), name, err)

	serr := &syntax.Error{}
	if errors.As(err, &serr) {
		for line := range strings.Lines(serr.Snippet()) {
			fmt.Fprint(r.out, "     ", r.detail.Render(strings.TrimRight(line, "\n")), "\n")
		}
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}

	return "s"
}
