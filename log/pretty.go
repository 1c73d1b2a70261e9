package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles come from a renderer
// bound to the handler's writer, so colors are dropped for non-terminals.
type palette struct {
	key, str, num, yes, no, null, dur, tim lipgloss.Style
	trace, debug, info, warn, error        lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		null:  fg("8").Italic(true),
		dur:   fg("5"),
		tim:   fg("4"),
		trace: fg("8").Bold(true),
		debug: fg("4").Bold(true),
		info:  fg("2").Bold(true),
		warn:  fg("3").Bold(true),
		error: fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler writes colorized records, either as key=value pairs on one
// line or as an indented JSON-like object.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	colors *palette
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr // qualified with the groups active when added
	group  string      // dotted prefix for attributes added later
}

func newPrettyHandler(w io.Writer, format Format, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		colors: newPalette(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = h.group + name + "."

	return &c
}

func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	builtin := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			fields = append(fields, a)
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time))
	}

	builtin(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin(slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		fields = flatten(fields, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, h.group, a)

		return true
	})

	var buf bytes.Buffer
	if h.format == FormatJSON {
		h.writeObject(&buf, r.Level, fields)
	} else {
		h.writeLine(&buf, r.Level, fields)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// flatten appends a to fields, expanding groups into dotted keys.
func flatten(fields []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		if a.Key == "" {
			return fields
		}

		return append(fields, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}

	if a.Key != "" {
		prefix += a.Key + "."
	}

	for _, g := range a.Value.Group() {
		fields = flatten(fields, prefix, g)
	}

	return fields
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.colors.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(level, a, strconv.Quote))
	}
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range fields {
		buf.WriteString("  ")
		buf.WriteString(h.colors.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")
		buf.WriteString(h.value(level, a, jsonString))

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteByte('}')
}

func jsonString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}

	return string(b)
}

// value renders a resolved attribute value. Strings are passed through
// quote only when they would otherwise be ambiguous.
func (h *prettyHandler) value(level slog.Level, a slog.Attr, quote func(string) string) string {
	c := h.colors
	v := a.Value

	if a.Key == slog.LevelKey {
		return c.level(level).Render(maybeQuote(v.String(), quote, h.format))
	}

	switch v.Kind() {
	case slog.KindString:
		return c.str.Render(maybeQuote(v.String(), quote, h.format))
	case slog.KindInt64:
		return c.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return c.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return c.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return c.yes.Render("true")
		}

		return c.no.Render("false")
	case slog.KindDuration:
		return c.dur.Render(maybeQuote(v.Duration().String(), quote, h.format))
	case slog.KindTime:
		return c.tim.Render(maybeQuote(v.Time().Format(time.RFC3339), quote, h.format))
	}

	switch x := v.Any().(type) {
	case nil:
		return c.null.Render("null")
	case error:
		return c.no.Render(maybeQuote(x.Error(), quote, h.format))
	case fmt.Stringer:
		return c.str.Render(maybeQuote(x.String(), quote, h.format))
	}

	if h.format == FormatJSON {
		if b, err := json.Marshal(v.Any()); err == nil {
			return c.str.Render(string(b))
		}
	}

	return c.str.Render(maybeQuote(fmt.Sprint(v.Any()), quote, h.format))
}

// maybeQuote always quotes JSON strings; text values are quoted only when
// they contain spaces, quotes, or '='.
func maybeQuote(s string, quote func(string) string, format Format) string {
	if format == FormatJSON || s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return quote(s)
	}

	return s
}
