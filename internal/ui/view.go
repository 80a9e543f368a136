package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// boxInnerWidth is the target content width of the prompt box.
const boxInnerWidth = 64

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	hintKey     = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if m.displayed == nil {
		return m.idleView()
	}
	return m.promptView()
}

// idleView is shown while no question is displayed.
func (m *model) idleView() string {
	lines := []string{
		titleStyle.Render("askhub"),
		"",
		faintStyle.Render("Waiting for questions."),
	}
	if n := m.arb.QueueLen(); n > 0 {
		lines[2] = faintStyle.Render("Serving next question…")
	}
	if m.sockPath != "" {
		lines = append(lines, faintStyle.Render("socket: "+m.sockPath))
	}
	lines = append(lines, "", faintStyle.Render("q to quit"))
	body := strings.Join(lines, "\n")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// promptView renders the current prompt as a centered, bordered box: title,
// optional body text, the variant's widgets, and a key hint bar.
func (m *model) promptView() string {
	cur := m.displayed
	q := cur.Question()

	inner := boxInnerWidth
	if m.width-6 < inner {
		inner = m.width - 6
	}
	if inner < 20 {
		inner = 20
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(q.Title))
	if q.Text != "" {
		sb.WriteByte('\n')
		sb.WriteString(m.renderText(q.Text))
	}
	sb.WriteString("\n\n")
	sb.WriteString(cur.View(inner))

	if bar := m.hintBar(); bar != "" {
		sb.WriteString("\n\n")
		sb.WriteString(bar)
	}
	if m.status != "" {
		sb.WriteByte('\n')
		sb.WriteString(statusStyle.Render(m.status))
	}

	box := boxStyle.Width(inner + 4).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderText renders the question body, as markdown when the renderer is
// available.
func (m *model) renderText(text string) string {
	if m.md == nil {
		return text
	}
	rendered, err := m.md.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(rendered)
}

// hintBar labels the commands available against the current prompt with
// their key bindings.
func (m *model) hintBar() string {
	cur := m.displayed
	var parts []string
	for _, hint := range cur.Commands() {
		// Bindings live in the prompt's own mode, yes/no included.
		combo := m.keys.Hint(cur.KeyMode(), hint.Command)
		if combo == "" {
			continue
		}
		parts = append(parts, hintKey.Render(combo)+" "+faintStyle.Render(hint.Label))
	}
	return strings.Join(parts, "   ")
}
