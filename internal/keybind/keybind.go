// Package keybind maps key combos to prompt commands, per input mode, with
// an optional YAML override file layered over the defaults. Key names use
// bubbletea's spelling ("enter", "esc", "shift+tab", "ctrl+x").
package keybind

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/martinemde/askhub/internal/modes"
)

// preferred is the combo order used when labelling a command that has
// several bindings.
var preferred = []string{"enter", "esc"}

// Map holds command → key-combo bindings for each input mode, plus the
// reverse key → command lookup the dispatcher uses.
type Map struct {
	bindings map[modes.Mode]map[string][]string
	reverse  map[modes.Mode]map[string]string
}

// Default returns the built-in bindings.
func Default() *Map {
	m := &Map{bindings: map[modes.Mode]map[string][]string{
		modes.Prompt: {
			"accept":        {"enter"},
			"leave-mode":    {"esc", "ctrl+c"},
			"item-next":     {"tab"},
			"item-prev":     {"shift+tab"},
			"open-download": {"ctrl+x"},
		},
		modes.YesNo: {
			"accept":     {"enter"},
			"accept-yes": {"y"},
			"accept-no":  {"n"},
			"leave-mode": {"esc", "ctrl+c"},
		},
	}}
	m.index()
	return m
}

// Load returns the defaults with the YAML file at path layered on top. The
// file maps mode names to command → combo-list tables:
//
//	prompt:
//	  accept: [enter]
//	yesno:
//	  accept-yes: [y, "1"]
//
// A command listed in the file replaces that command's default combos.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings file: %w", err)
	}

	var raw map[string]map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse bindings file: %w", err)
	}

	m := Default()
	for modeName, cmds := range raw {
		mode, err := parseMode(modeName)
		if err != nil {
			return nil, err
		}
		for cmd, combos := range cmds {
			m.bindings[mode][cmd] = combos
		}
	}
	m.index()
	return m, nil
}

func parseMode(name string) (modes.Mode, error) {
	switch name {
	case "prompt":
		return modes.Prompt, nil
	case "yesno":
		return modes.YesNo, nil
	default:
		return 0, fmt.Errorf("unknown binding mode %q", name)
	}
}

func (m *Map) index() {
	m.reverse = make(map[modes.Mode]map[string]string, len(m.bindings))
	for mode, cmds := range m.bindings {
		rev := make(map[string]string)
		for cmd, combos := range cmds {
			for _, combo := range combos {
				rev[combo] = cmd
			}
		}
		m.reverse[mode] = rev
	}
}

// Command returns the command bound to the key combo in the given mode.
func (m *Map) Command(mode modes.Mode, combo string) (string, bool) {
	cmd, ok := m.reverse[mode][combo]
	return cmd, ok
}

// Keys returns the combos bound to the command in the given mode.
func (m *Map) Keys(mode modes.Mode, command string) []string {
	return m.bindings[mode][command]
}

// Hint returns the combo to label the command with: a preferred combo if one
// is bound, otherwise the first binding. Returns "" for an unbound command.
func (m *Map) Hint(mode modes.Mode, command string) string {
	combos := m.bindings[mode][command]
	if len(combos) == 0 {
		return ""
	}
	for _, pref := range preferred {
		for _, combo := range combos {
			if combo == pref {
				return combo
			}
		}
	}
	return combos[0]
}
