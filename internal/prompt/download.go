package prompt

import (
	"github.com/martinemde/askhub/internal/question"
)

// DownloadPrompt is a filename prompt whose answer is wrapped in a download
// target, and which can alternatively resolve with an open-with command.
type DownloadPrompt struct {
	FilenamePrompt
}

func newDownload(q *question.Question) *DownloadPrompt {
	return &DownloadPrompt{FilenamePrompt: *newFilename(q)}
}

// Accept resolves the question with a save target for the override value or
// the field contents.
func (p *DownloadPrompt) Accept(override *string) (bool, error) {
	text := p.input.Value()
	if override != nil {
		text = *override
	}
	if err := p.q.SetAnswer(question.FileTarget{Path: text}); err != nil {
		return false, err
	}
	return true, nil
}

// DownloadOpen resolves the question directly with an open-with target,
// bypassing Accept. An empty cmdline means the system default application.
func (p *DownloadPrompt) DownloadOpen(cmdline string) error {
	return p.q.SetAnswer(question.OpenWithTarget{Cmdline: cmdline})
}

func (p *DownloadPrompt) Commands() []CommandHint {
	return []CommandHint{
		{Command: "accept", Label: "Accept"},
		{Command: "leave-mode", Label: "Abort"},
		{Command: "open-download", Label: "Open download"},
	}
}
