package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/re0/lang"
	"github.com/ardnew/re0/lang/syntax"
	"github.com/ardnew/re0/log"
)

// editDoneMsg is sent when editing produced a new document.
type editDoneMsg struct{ doc *lang.Document }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails for any other reason.
type editErrorMsg struct{ err error }

const (
	parsePrompt = "➜ "
	ctrlPrompt  = " :"
)

// inputMode is the interpretation of submitted input.
type inputMode int

const (
	modeParse inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

func echo(mode inputMode, input string) tea.Cmd {
	if mode == modeCtrl {
		return tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))
	}

	return tea.Println(promptStyle.Render(parsePrompt) + inputStyle.Render(input))
}

// Config configures an interactive session.
type Config struct {
	// Source is a program loaded before the first prompt.
	Source string
	Rule   syntax.Rule
	View   View
	Strict bool

	// HistoryFile persists input across sessions. Empty keeps history in
	// memory.
	HistoryFile string
	Logger      log.Logger

	// Input and Output are the terminal streams; nil uses the defaults of
	// bubbletea. InputTTY opens the controlling terminal for input, for use
	// when stdin was consumed as source.
	Input    io.Reader
	Output   io.Writer
	InputTTY bool
}

// Run starts the REPL and blocks until the user exits or ctx is done.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := cfg.Logger

	session := NewSession(logger)
	session.Rule, session.View, session.Strict = cfg.Rule, cfg.View, cfg.Strict

	if strings.TrimSpace(cfg.Source) != "" {
		if err := session.Load(ctx, cfg.Source); err != nil {
			return err
		}
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("rule", session.Rule.String()),
		slog.String("view", session.View.String()),
		slog.Int("declaration_count", len(session.decls)),
	)

	history := NewHistory(cfg.HistoryFile)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.HistoryFile),
			slog.Any("error", err),
		)
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}

	switch {
	case cfg.InputTTY:
		opts = append(opts, tea.WithInputTTY())
	case cfg.Input != nil:
		opts = append(opts, tea.WithInput(cfg.Input))
	}

	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}

	_, err = tea.NewProgram(newModel(ctx, session, history), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx        context.Context
	session    *Session
	input      textinput.Model
	history    *History
	historyIdx int
	completion
	sel          int    // selected candidate index
	tabActive    bool   // whether the user is cycling candidates
	preTabText   string // input before cycling began
	preTabCursor int    // cursor before cycling began
	width        int
	quitting     bool
	mode         inputMode
	saved        [2]struct {
		text   string
		cursor int
	}
}

func newModel(ctx context.Context, session *Session, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(parsePrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		session:    session,
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		sel:        -1,
		width:      defaultWidth,
		mode:       modeParse,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(parsePrompt) - 2

		return m, nil

	case editDoneMsg:
		m.session.setDocument(msg.doc)
		m.session.logger.TraceContext(m.ctx, "repl edit complete",
			slog.Int("declaration_count", len(m.session.decls)))

		return m, tea.Println(resultStyle.Render("✔ declarations updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len())))

	case strings.TrimSpace(m.input.Value()) == "":
		if m.mode == modeParse {
			b.WriteString(hintStyle.Render(fmt.Sprintf(
				"Type re0 matched as %s (view %s) or press Esc for commands",
				m.session.Rule, m.session.View)))
		} else {
			b.WriteString(hintStyle.Render(
				"Type: " + strings.Join(commandNames(), ", ") + " (press Esc to return)"))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.sel, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.session.logger.TraceContext(m.ctx, "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refresh(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.submit()
		}

		m.tabActive = false
		m.refresh(true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refresh(false)

			return m, nil
		}

		if m.mode == modeParse {
			return m.switchMode(modeCtrl), nil
		}

		return m.switchMode(modeParse), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refresh(true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(false)

	return m, cmd
}

// cycle steps the selected candidate by dir, completing the word at the
// cursor with it. A sole candidate is accepted immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.sel = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.sel = (m.sel + dir + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.sel = 0
		if dir < 0 {
			m.sel = n - 1
		}
	}

	m.replaceWord(m.matches[m.sel].Str)

	return m
}

// replaceWord replaces the word at the cursor with text.
func (m *model) replaceWord(text string) {
	input := m.input.Value()
	cursor := m.start + len(text)

	m.input.SetValue(input[:m.start] + text + input[m.end:])
	m.input.SetCursor(cursor)

	m.end = cursor
}

// refresh recomputes the candidates for the word at the cursor. When accept
// is set and the word already equals the only candidate, the completion is
// dismissed. Deletions and cursor movement pass false so editing never
// completes unexpectedly.
func (m *model) refresh(accept bool) {
	m.completion = m.session.complete(m.mode, m.input.Value(), m.input.Position())

	if !m.tabActive {
		m.sel = -1
	}

	if accept && len(m.matches) == 1 &&
		m.input.Value()[m.start:m.end] == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode

	m.saved = [2]struct {
		text   string
		cursor int
	}{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, mode); err != nil {
		m.session.logger.WarnContext(m.ctx, "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if mode == modeCtrl {
		return m.command(input)
	}

	out, err := m.session.Eval(m.ctx, input)
	if err != nil {
		return m, tea.Sequence(echo(mode, input), printError(err))
	}

	return m, tea.Sequence(echo(mode, input), tea.Println(resultStyle.Render(out)))
}

func (m model) command(input string) (model, tea.Cmd) {
	m.session.logger.TraceContext(m.ctx, "repl command",
		slog.String("input", input))

	out, action, err := m.session.Command(m.ctx, input)
	if err != nil {
		return m, tea.Sequence(echo(modeCtrl, input), printError(err))
	}

	cmds := []tea.Cmd{echo(modeCtrl, input)}
	if out != "" {
		cmds = append(cmds, tea.Println(out))
	}

	switch action {
	case ActionQuit:
		m.quitting = true

		cmds = append(cmds, tea.Quit)

	case ActionClear:
		return m, tea.ClearScreen

	case ActionEdit:
		cmds = append(cmds, m.edit())

	case ActionNone:
	}

	return m, tea.Sequence(cmds...)
}

func printError(err error) tea.Cmd {
	return tea.Println(errorStyle.Render("error: " + err.Error()))
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctx:     m.ctx,
		doc:     m.session.Document(),
		options: m.session.options(),
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.result == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{doc: cmd.result}
		}
	})
}

// historyStep moves through history by dir, switching to the mode of the
// recalled entry. With sameMode set only entries of the current mode are
// visited. Stepping past the newest entry clears the input.
func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refresh(false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refresh(false)
	}

	return m
}

// switchMode changes the input mode, keeping the unsubmitted input of each
// mode.
func (m model) switchMode(mode inputMode) model {
	m.saved[m.mode].text = m.input.Value()
	m.saved[m.mode].cursor = m.input.Position()

	m.mode = mode
	m.tabActive = false

	if mode == modeParse {
		m.input.Prompt = promptStyle.Render(parsePrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	m.refresh(false)

	return m
}
