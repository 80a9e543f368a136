// Package ui is the terminal front end of the hub: a bubbletea program that
// renders whatever prompt the arbiter says is current and translates key
// presses into arbiter commands. The program's message queue doubles as the
// hub task queue; everything the arbiter does runs on this loop.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/martinemde/askhub/internal/arbiter"
	"github.com/martinemde/askhub/internal/keybind"
	"github.com/martinemde/askhub/internal/modes"
	"github.com/martinemde/askhub/internal/prompt"
)

// taskMsg carries a posted hub task through the bubbletea mailbox.
type taskMsg struct {
	fn func()
}

// UI owns the bubbletea program around the hub model.
type UI struct {
	program *tea.Program
	model   *model
}

// New assembles the model, the mode manager, and the arbiter, wired so that
// posted tasks travel through the program's mailbox.
func New(keys *keybind.Map, sockPath string, log *zap.Logger) *UI {
	m := newModel(keys, sockPath, log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.post = func(fn func()) {
		p.Send(taskMsg{fn: fn})
	}
	return &UI{program: p, model: m}
}

// Arbiter returns the hub's question engine, for producers.
func (u *UI) Arbiter() *arbiter.Arbiter {
	return u.model.arb
}

// Run blocks running the program until it quits.
func (u *UI) Run() error {
	_, err := u.program.Run()
	return err
}

// Quit shuts the hub down from outside the loop, e.g. on a signal. Suspended
// producers are released before the program exits.
func (u *UI) Quit() {
	u.program.Send(taskMsg{fn: func() {
		u.model.arb.Shutdown()
	}})
	u.program.Quit()
}

// model is the bubbletea model. It also implements arbiter.Presenter: the
// arbiter tells it what to display, and View renders that.
type model struct {
	arb   *arbiter.Arbiter
	modes *modes.Manager
	keys  *keybind.Map
	md    *glamour.TermRenderer
	log   *zap.Logger
	post  func(func())

	displayed prompt.Prompt
	width     int
	height    int
	status    string
	sockPath  string
	quitting  bool
}

func newModel(keys *keybind.Map, sockPath string, log *zap.Logger) *model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &model{
		keys:     keys,
		log:      log,
		sockPath: sockPath,
		width:    80,
		height:   24,
	}
	// Fallback to plain text when the renderer cannot be built.
	if md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(boxInnerWidth),
	); err == nil {
		m.md = md
	}
	m.modes = modes.NewManager(log)
	m.arb = arbiter.New(func(fn func()) { m.post(fn) }, m, m.modes, log)
	m.modes.OnLeave(m.arb.OnModeLeft)
	return m
}

// ShowPrompt implements arbiter.Presenter.
func (m *model) ShowPrompt(p prompt.Prompt) {
	m.displayed = p
	m.status = ""
}

// HidePrompt implements arbiter.Presenter.
func (m *model) HidePrompt() {
	m.displayed = nil
	m.status = ""
}

// Displayed implements arbiter.Presenter.
func (m *model) Displayed() prompt.Prompt {
	return m.displayed
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskMsg:
		msg.fn()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur := m.arb.Current()
	if cur == nil {
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			m.arb.Shutdown()
			return m, tea.Quit
		}
		return m, nil
	}

	if cmd, ok := m.keys.Command(cur.KeyMode(), msg.String()); ok {
		m.dispatch(cmd)
		return m, nil
	}
	// Unbound keys belong to the prompt's own widgets.
	return m, cur.Update(msg)
}

// dispatch runs a prompt command against the arbiter. Rejected accepts keep
// the question open and show up on the status line.
func (m *model) dispatch(cmd string) {
	switch cmd {
	case "accept":
		m.reject(m.arb.AcceptCurrent(nil))
	case "accept-yes":
		v := "yes"
		m.reject(m.arb.AcceptCurrent(&v))
	case "accept-no":
		v := "no"
		m.reject(m.arb.AcceptCurrent(&v))
	case "leave-mode":
		if cur := m.arb.Current(); cur != nil {
			m.modes.MaybeLeave(cur.KeyMode(), "escape pressed")
		}
	case "item-next":
		m.arb.FocusItem(prompt.FocusNext)
	case "item-prev":
		m.arb.FocusItem(prompt.FocusPrev)
	case "open-download":
		m.arb.OpenDownload("")
	default:
		m.log.Warn("unknown prompt command", zap.String("command", cmd))
	}
}

func (m *model) reject(err error) {
	if err != nil {
		m.status = err.Error()
	}
}
