package prompt

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/martinemde/askhub/internal/question"
)

// maxListed caps how many directory entries the listing window shows.
const maxListed = 8

// FilenamePrompt resolves a file-system path. Under the input field it shows
// a listing of the directory the typed path points into, navigable with the
// item-focus commands.
type FilenamePrompt struct {
	base
	input   textinput.Model
	dir     string
	entries []string
	cursor  int
}

func newFilename(q *question.Question) *FilenamePrompt {
	ti := textinput.New()
	ti.Prompt = "> "
	p := &FilenamePrompt{base: base{q: q}, input: ti, cursor: -1}
	if d, ok := q.Default.(string); ok && d != "" {
		p.input.SetValue(d)
		p.input.CursorEnd()
		p.refresh(d)
	}
	p.input.Focus()
	return p
}

// refresh points the listing at the directory named by path. It only reacts
// to paths ending in a separator, and quietly keeps the old listing for
// anything unreadable, so partially typed paths never get in the way.
func (p *FilenamePrompt) refresh(path string) {
	if !strings.HasSuffix(path, string(os.PathSeparator)) {
		return
	}
	dir := strings.TrimRight(path, string(os.PathSeparator))
	if dir == "" {
		dir = string(os.PathSeparator)
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	// Directories first, then files, each sorted by name.
	var dirs, files []string
	for _, info := range infos {
		if info.IsDir() {
			dirs = append(dirs, info.Name()+string(os.PathSeparator))
		} else {
			files = append(files, info.Name())
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	p.dir = dir
	p.entries = append(dirs, files...)
	p.cursor = -1
}

// Accept resolves the question with the override value or the field
// contents.
func (p *FilenamePrompt) Accept(override *string) (bool, error) {
	text := p.input.Value()
	if override != nil {
		text = *override
	}
	if err := p.q.SetAnswer(text); err != nil {
		return false, err
	}
	return true, nil
}

// ItemFocus moves the listing cursor, wrapping at either end, and copies the
// selected entry into the field.
func (p *FilenamePrompt) ItemFocus(dir FocusDirection) error {
	if len(p.entries) == 0 {
		return nil
	}
	switch dir {
	case FocusNext:
		p.cursor++
		if p.cursor >= len(p.entries) {
			p.cursor = 0
		}
	case FocusPrev:
		if p.cursor <= 0 {
			p.cursor = len(p.entries)
		}
		p.cursor--
	}
	name := strings.TrimSuffix(p.entries[p.cursor], string(os.PathSeparator))
	p.input.SetValue(filepath.Join(p.dir, name))
	p.input.CursorEnd()
	return nil
}

func (p *FilenamePrompt) Commands() []CommandHint {
	return []CommandHint{
		{Command: "accept", Label: "Accept"},
		{Command: "leave-mode", Label: "Abort"},
	}
}

func (p *FilenamePrompt) Update(msg tea.Msg) tea.Cmd {
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if v := p.input.Value(); v != before {
		p.refresh(v)
	}
	return cmd
}

func (p *FilenamePrompt) View(width int) string {
	var sb strings.Builder
	sb.WriteString(p.input.View())

	// Window of entries around the cursor.
	start := 0
	if p.cursor >= maxListed {
		start = p.cursor - maxListed + 1
	}
	end := start + maxListed
	if end > len(p.entries) {
		end = len(p.entries)
	}
	for i := start; i < end; i++ {
		sb.WriteByte('\n')
		entry := p.entries[i]
		if i == p.cursor {
			sb.WriteString(selected.Render("> " + entry))
		} else {
			sb.WriteString(faint.Render("  " + entry))
		}
	}
	if end < len(p.entries) {
		sb.WriteByte('\n')
		sb.WriteString(faint.Render("  …"))
	}
	return sb.String()
}
