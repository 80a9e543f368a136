package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/martinemde/askhub/internal/question"
)

// CredentialsPrompt resolves a username/password pair. Accept walks the two
// fields: called while the username field has focus it moves focus to the
// password field and reports partial progress; called after that it resolves
// with both field values.
type CredentialsPrompt struct {
	base
	user textinput.Model
	pass textinput.Model
}

func newCredentials(q *question.Question) *CredentialsPrompt {
	user := textinput.New()
	user.Prompt = ""
	user.Focus()

	pass := textinput.New()
	pass.Prompt = ""
	pass.EchoMode = textinput.EchoPassword

	return &CredentialsPrompt{base: base{q: q}, user: user, pass: pass}
}

// Accept resolves the question. An override must be a single-colon
// "user:password" literal and resolves in one call.
func (p *CredentialsPrompt) Accept(override *string) (bool, error) {
	if override != nil {
		user, pass, ok := strings.Cut(*override, ":")
		if !ok {
			return false, fmt.Errorf(
				"%w: value needs to be in the format username:password, but %q was given",
				ErrInvalidValue, *override)
		}
		if err := p.q.SetAnswer(question.Auth{User: user, Password: pass}); err != nil {
			return false, err
		}
		return true, nil
	}
	if p.user.Focused() {
		// Tab used to be bound to accept; moving focus keeps that habit
		// working.
		p.user.Blur()
		p.pass.Focus()
		return false, nil
	}
	if err := p.q.SetAnswer(question.Auth{User: p.user.Value(), Password: p.pass.Value()}); err != nil {
		return false, err
	}
	return true, nil
}

// ItemFocus switches between the two fields. Requests that would move past
// either end are ignored.
func (p *CredentialsPrompt) ItemFocus(dir FocusDirection) error {
	switch {
	case dir == FocusNext && p.user.Focused():
		p.user.Blur()
		p.pass.Focus()
	case dir == FocusPrev && p.pass.Focused():
		p.pass.Blur()
		p.user.Focus()
	}
	return nil
}

func (p *CredentialsPrompt) Commands() []CommandHint {
	return []CommandHint{
		{Command: "accept", Label: "Accept"},
		{Command: "leave-mode", Label: "Abort"},
	}
}

func (p *CredentialsPrompt) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if p.user.Focused() {
		p.user, cmd = p.user.Update(msg)
	} else {
		p.pass, cmd = p.pass.Update(msg)
	}
	return cmd
}

func (p *CredentialsPrompt) View(width int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		fieldLabel.Render("Username: ")+p.user.View(),
		fieldLabel.Render("Password: ")+p.pass.View(),
	)
}
