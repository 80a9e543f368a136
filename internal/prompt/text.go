package prompt

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/martinemde/askhub/internal/question"
)

// TextPrompt resolves a single line of free text.
type TextPrompt struct {
	base
	input textinput.Model
}

func newText(q *question.Question) *TextPrompt {
	ti := textinput.New()
	ti.Prompt = "> "
	if d, ok := q.Default.(string); ok && d != "" {
		ti.SetValue(d)
		ti.CursorEnd()
	}
	ti.Focus()
	return &TextPrompt{base: base{q: q}, input: ti}
}

// Accept resolves the question with the override value, or with whatever is
// in the field. The empty string is a legal answer.
func (p *TextPrompt) Accept(override *string) (bool, error) {
	text := p.input.Value()
	if override != nil {
		text = *override
	}
	if err := p.q.SetAnswer(text); err != nil {
		return false, err
	}
	return true, nil
}

func (p *TextPrompt) Commands() []CommandHint {
	return []CommandHint{
		{Command: "accept", Label: "Accept"},
		{Command: "leave-mode", Label: "Abort"},
	}
}

func (p *TextPrompt) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *TextPrompt) View(width int) string {
	if w := width - len(p.input.Prompt) - 1; w > 0 {
		p.input.Width = w
	}
	return p.input.View()
}
