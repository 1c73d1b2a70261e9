package repl

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/re0/cli/cmd/suggest"
	"github.com/ardnew/re0/lang"
)

// Action is a side effect requested by a control command that the session
// cannot perform itself.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionClear
	ActionEdit
)

// command is a control-mode command.
type command struct {
	name    string
	aliases []string
	args    string
	help    string
	run     func(s *Session, ctx context.Context, args []string) (string, Action, error)
}

// commands lists the control-mode commands in help order.
var commands = []command{
	{"help", []string{"h", "?"}, "", "Print this help", nil},
	{"rule", nil, "[NAME]", "Show or set the grammar rule input is matched against", runRule},
	{"view", nil, "[" + strings.Join(viewNames, "|") + "]", "Show or set the result view", runView},
	{"strict", nil, "[on|off]", "Show or set whether inconsistent entries are errors", runStrict},
	{"list", []string{"l", "ls"}, "", "List declarations", runList},
	{"show", nil, "NAME", "Print a declaration", runShow},
	{"reset", nil, "", "Remove all declarations", runReset},
	{"edit", []string{"e"}, "", "Edit declarations in $EDITOR", action(ActionEdit)},
	{"clear", []string{"c"}, "", "Clear screen", action(ActionClear)},
	{"quit", []string{"q", "exit"}, "", "Exit", action(ActionQuit)},
}

// commandNames returns the primary names of all commands.
func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}

		for _, a := range c.aliases {
			if a == name {
				return c, true
			}
		}
	}

	return command{}, false
}

// Command runs the control command in line.
func (s *Session) Command(ctx context.Context, line string) (string, Action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ActionNone, nil
	}

	c, ok := findCommand(fields[0])
	if !ok {
		return "", ActionNone, ErrUnknownCommand.Wrapf("%q (try 'help')", fields[0])
	}

	if c.run == nil {
		return helpText(), ActionNone, nil
	}

	return c.run(s, ctx, fields[1:])
}

func action(a Action) func(*Session, context.Context, []string) (string, Action, error) {
	return func(*Session, context.Context, []string) (string, Action, error) {
		return "", a, nil
	}
}

// helpText lists the commands. Command handles help directly.
func helpText() string {
	var sb strings.Builder

	sb.WriteString("Commands (press Esc to toggle mode):\n\n")

	for _, c := range commands {
		fmt.Fprintf(&sb, "  %-7s %-26s %s\n", c.name, c.args, c.help)
	}

	sb.WriteString(`
Usage:
  Type re0 source to parse it with the current rule
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between parse and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit`)

	return sb.String()
}

func runRule(s *Session, _ context.Context, args []string) (string, Action, error) {
	if len(args) == 0 {
		return "rule: " + s.Rule.String(), ActionNone, nil
	}

	rule, err := suggest.Lookup(args[0])
	if err != nil {
		return "", ActionNone, err
	}

	s.Rule = rule

	return "rule: " + rule.String(), ActionNone, nil
}

func runView(s *Session, _ context.Context, args []string) (string, Action, error) {
	if len(args) > 0 {
		v, ok := ParseView(args[0])
		if !ok {
			return "", ActionNone, ErrUsage.Wrapf("view %s", strings.Join(viewNames, "|"))
		}

		s.View = v
	}

	return "view: " + s.View.String(), ActionNone, nil
}

func runStrict(s *Session, _ context.Context, args []string) (string, Action, error) {
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "on", "true", "yes", "1":
			s.Strict = true
		case "off", "false", "no", "0":
			s.Strict = false
		default:
			return "", ActionNone, ErrUsage.Wrapf("strict on|off")
		}
	}

	return fmt.Sprintf("strict: %t", s.Strict), ActionNone, nil
}

func runList(s *Session, _ context.Context, _ []string) (string, Action, error) {
	if len(s.decls) == 0 {
		return "(no declarations)", ActionNone, nil
	}

	var sb strings.Builder

	for i, d := range s.decls {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString("  " + d.Keyword + " " + d.Symbol)

		for _, m := range d.Modifiers {
			sb.WriteString(" " + m)
		}

		sb.WriteString(" " + hintStyle.Render(preview(d)))
	}

	return sb.String(), ActionNone, nil
}

// preview summarizes the properties of d.
func preview(d *lang.DeclareStatement) string {
	names := d.Names()

	const maxNames = 4
	if len(names) > maxNames {
		return "{ " + strings.Join(names[:maxNames], ", ") + fmt.Sprintf(", … %d more }", len(names)-maxNames)
	}

	return "{ " + strings.Join(names, ", ") + " }"
}

func runShow(s *Session, _ context.Context, args []string) (string, Action, error) {
	if len(args) != 1 {
		return "", ActionNone, ErrUsage.Wrapf("show NAME")
	}

	d, ok := s.Declaration(args[0])
	if !ok {
		return "", ActionNone, lang.ErrDeclarationNotFound.Wrap(fmt.Errorf("%q", args[0]))
	}

	var sb strings.Builder
	if err := lang.FormatDeclaration(&sb, d, outputIndent); err != nil {
		return "", ActionNone, err
	}

	return sb.String(), ActionNone, nil
}

func runReset(s *Session, _ context.Context, _ []string) (string, Action, error) {
	n := len(s.decls)
	s.Reset()

	return fmt.Sprintf("removed %d declarations", n), ActionNone, nil
}
