// Package prompt implements the per-mode behavior objects that resolve a
// question, one variant per question mode. A variant owns the input widgets
// for its question and implements the accept/cancel contract; it knows
// nothing about queueing, which is the arbiter's job.
package prompt

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/martinemde/askhub/internal/modes"
	"github.com/martinemde/askhub/internal/question"
)

var (
	// ErrInvalidValue is returned by Accept when the override value is
	// malformed for the variant.
	ErrInvalidValue = errors.New("invalid value")
	// ErrNoDefault is returned by a no-value Accept on a question without
	// a default.
	ErrNoDefault = errors.New("no default value was set for this question")
	// ErrUnsupported is returned when an operation is requested on a
	// variant that does not implement it. The command layer swallows it.
	ErrUnsupported = errors.New("operation not supported by this prompt")
)

// FocusDirection selects the target of an item-focus command.
type FocusDirection int

const (
	// FocusNext moves focus to the next field or list item.
	FocusNext FocusDirection = iota
	// FocusPrev moves focus to the previous field or list item.
	FocusPrev
)

// CommandHint names a command the user may run against the current prompt,
// with a label for the key hint bar.
type CommandHint struct {
	Command string
	Label   string
}

// Prompt is the contract every variant implements.
type Prompt interface {
	// Question returns the question this prompt resolves.
	Question() *question.Question
	// KeyMode returns the input mode the prompt's bindings live in.
	KeyMode() modes.Mode
	// Accept resolves the prompt with the override value, or with the
	// current field contents when override is nil. It returns true when
	// the question is fully resolved and false on partial progress, such
	// as moving focus from the username to the password field.
	Accept(override *string) (bool, error)
	// DownloadOpen answers a download prompt with an open-with command
	// instead of a save path. Returns ErrUnsupported on other variants.
	DownloadOpen(cmdline string) error
	// ItemFocus shifts focus between fields or listed items. Returns
	// ErrUnsupported on variants without anything to navigate.
	ItemFocus(dir FocusDirection) error
	// Commands lists the commands that make sense against this prompt.
	Commands() []CommandHint
	// Update forwards an input event to the prompt's widgets.
	Update(msg tea.Msg) tea.Cmd
	// View renders the prompt's inner content at the given width.
	View(width int) string
}

// New constructs the variant for the question's mode. Construction has no
// side effects on the hub, so a freshly built prompt can be discarded
// without cleanup if it never gets shown.
func New(q *question.Question) (Prompt, error) {
	switch q.Mode {
	case question.YesNo:
		return newYesNo(q), nil
	case question.Text:
		return newText(q), nil
	case question.Credentials:
		return newCredentials(q), nil
	case question.Filename:
		return newFilename(q), nil
	case question.DownloadFilename:
		return newDownload(q), nil
	case question.Alert:
		return newAlert(q), nil
	default:
		return nil, fmt.Errorf("no prompt variant for mode %s", q.Mode)
	}
}

// base carries the parts shared by every variant, with the unsupported
// defaults for the optional capabilities.
type base struct {
	q *question.Question
}

func (b *base) Question() *question.Question { return b.q }

func (b *base) KeyMode() modes.Mode { return modes.Prompt }

func (b *base) DownloadOpen(string) error {
	return fmt.Errorf("%w: open-download", ErrUnsupported)
}

func (b *base) ItemFocus(FocusDirection) error {
	return fmt.Errorf("%w: item focus", ErrUnsupported)
}

func (b *base) Update(tea.Msg) tea.Cmd { return nil }

var (
	fieldLabel = lipgloss.NewStyle().Bold(true)
	faint      = lipgloss.NewStyle().Faint(true)
	selected   = lipgloss.NewStyle().Bold(true)
)
