package prompt

import (
	"fmt"

	"github.com/martinemde/askhub/internal/modes"
	"github.com/martinemde/askhub/internal/question"
)

// YesNoPrompt resolves a boolean confirmation. It has no input widgets; the
// answer comes from the yes/no bindings or from the question's default.
type YesNoPrompt struct {
	base
}

func newYesNo(q *question.Question) *YesNoPrompt {
	return &YesNoPrompt{base{q: q}}
}

// KeyMode returns the yes/no mode, which binds single letters.
func (p *YesNoPrompt) KeyMode() modes.Mode { return modes.YesNo }

// Accept resolves the question. With no override the default is used, and a
// question without a default is rejected. "yes" and "no" are the only
// literals allowed.
func (p *YesNoPrompt) Accept(override *string) (bool, error) {
	var answer bool
	switch {
	case override == nil:
		if p.q.Default == nil {
			return false, ErrNoDefault
		}
		d, ok := p.q.Default.(bool)
		if !ok {
			return false, fmt.Errorf("%w: default %v is not a boolean", ErrInvalidValue, p.q.Default)
		}
		answer = d
	case *override == "yes":
		answer = true
	case *override == "no":
		answer = false
	default:
		return false, fmt.Errorf("%w: %q - expected yes/no", ErrInvalidValue, *override)
	}
	if err := p.q.SetAnswer(answer); err != nil {
		return false, err
	}
	return true, nil
}

// Commands lists yes, no, the default shortcut when one exists, and abort.
func (p *YesNoPrompt) Commands() []CommandHint {
	cmds := []CommandHint{
		{Command: "accept-yes", Label: "Yes"},
		{Command: "accept-no", Label: "No"},
	}
	if d, ok := p.q.Default.(bool); ok {
		label := "no"
		if d {
			label = "yes"
		}
		cmds = append(cmds, CommandHint{Command: "accept", Label: fmt.Sprintf("Use default (%s)", label)})
	}
	return append(cmds, CommandHint{Command: "leave-mode", Label: "Abort"})
}

func (p *YesNoPrompt) View(width int) string {
	line := selected.Render("yes") + faint.Render(" / ") + selected.Render("no")
	if d, ok := p.q.Default.(bool); ok {
		if d {
			line += faint.Render("  (default: yes)")
		} else {
			line += faint.Render("  (default: no)")
		}
	}
	return line
}
