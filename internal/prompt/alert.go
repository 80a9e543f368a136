package prompt

import (
	"fmt"

	"github.com/martinemde/askhub/internal/question"
)

// AlertPrompt shows a message that only needs acknowledgement. It completes
// its question without a real answer payload.
type AlertPrompt struct {
	base
}

func newAlert(q *question.Question) *AlertPrompt {
	return &AlertPrompt{base{q: q}}
}

// Accept acknowledges the alert. Passing a value is an error.
func (p *AlertPrompt) Accept(override *string) (bool, error) {
	if override != nil {
		return false, fmt.Errorf("%w: no value is permitted with alert prompts", ErrInvalidValue)
	}
	if err := p.q.SetAnswer(nil); err != nil {
		return false, err
	}
	return true, nil
}

func (p *AlertPrompt) Commands() []CommandHint {
	return []CommandHint{{Command: "accept", Label: "Hide"}}
}

func (p *AlertPrompt) View(width int) string {
	return faint.Render("press enter to dismiss")
}
