// Package modes tracks which input mode owns the keyboard. The hub only
// needs three: the normal mode, and one mode per family of prompt bindings.
package modes

import "go.uber.org/zap"

// Mode is an input mode.
type Mode int

const (
	// Normal is the mode when no question is displayed.
	Normal Mode = iota
	// Prompt is the mode for text-like prompts (text, credentials,
	// filename, download, alert).
	Prompt
	// YesNo is the mode for yes/no prompts, which bind single letters.
	YesNo
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Prompt:
		return "prompt"
	case YesNo:
		return "yesno"
	default:
		return "unknown"
	}
}

// Manager owns the current input mode and notifies hooks when a mode is
// left. It must only be used from the hub loop.
type Manager struct {
	cur     Mode
	onLeave []func(Mode)
	log     *zap.Logger
}

// NewManager returns a Manager in Normal mode. A nil logger disables logging.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log}
}

// Current returns the active mode.
func (m *Manager) Current() Mode {
	return m.cur
}

// OnLeave registers fn to run whenever a mode is left, with the mode that
// was left. Hooks run synchronously on the hub loop.
func (m *Manager) OnLeave(fn func(Mode)) {
	m.onLeave = append(m.onLeave, fn)
}

// Enter switches to the given mode. Entering the active mode is a no-op;
// switching between two non-normal modes does not count as leaving the old
// one, since the prompt that owned it is being saved, not resolved.
func (m *Manager) Enter(mode Mode, reason string) {
	if m.cur == mode {
		return
	}
	m.log.Debug("entering mode",
		zap.Stringer("mode", mode),
		zap.Stringer("old", m.cur),
		zap.String("reason", reason))
	m.cur = mode
}

// MaybeLeave leaves the given mode if it is active. Leaving a mode that is
// not active is a no-op, which makes repeated leave requests harmless.
func (m *Manager) MaybeLeave(mode Mode, reason string) {
	if m.cur != mode {
		return
	}
	m.log.Debug("leaving mode",
		zap.Stringer("mode", mode),
		zap.String("reason", reason))
	m.cur = Normal
	for _, fn := range m.onLeave {
		fn(mode)
	}
}
