package keybind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/martinemde/askhub/internal/modes"
)

func TestDefaultBindings(t *testing.T) {
	m := Default()

	tests := []struct {
		mode  modes.Mode
		combo string
		want  string
	}{
		{modes.Prompt, "enter", "accept"},
		{modes.Prompt, "esc", "leave-mode"},
		{modes.Prompt, "ctrl+c", "leave-mode"},
		{modes.Prompt, "tab", "item-next"},
		{modes.Prompt, "shift+tab", "item-prev"},
		{modes.Prompt, "ctrl+x", "open-download"},
		{modes.YesNo, "y", "accept-yes"},
		{modes.YesNo, "n", "accept-no"},
		{modes.YesNo, "enter", "accept"},
		{modes.YesNo, "esc", "leave-mode"},
	}
	for _, tt := range tests {
		cmd, ok := m.Command(tt.mode, tt.combo)
		if !ok {
			t.Errorf("%v %q is unbound, want %s", tt.mode, tt.combo, tt.want)
			continue
		}
		if cmd != tt.want {
			t.Errorf("%v %q = %s, want %s", tt.mode, tt.combo, cmd, tt.want)
		}
	}

	if _, ok := m.Command(modes.YesNo, "tab"); ok {
		t.Error("tab should be unbound in yesno mode")
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	content := []byte("yesno:\n  accept-yes: [y, \"1\"]\nprompt:\n  leave-mode: [esc]\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// The overridden commands use the file's combos.
	if cmd, _ := m.Command(modes.YesNo, "1"); cmd != "accept-yes" {
		t.Errorf("yesno \"1\" = %q, want accept-yes", cmd)
	}
	if _, ok := m.Command(modes.Prompt, "ctrl+c"); ok {
		t.Error("overriding leave-mode should drop its default ctrl+c combo")
	}

	// Untouched commands keep their defaults.
	if cmd, _ := m.Command(modes.Prompt, "enter"); cmd != "accept" {
		t.Errorf("prompt enter = %q, want accept", cmd)
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	if err := os.WriteFile(path, []byte("insert:\n  accept: [enter]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load should reject unknown mode names")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestHint(t *testing.T) {
	m := Default()

	if got := m.Hint(modes.Prompt, "leave-mode"); got != "esc" {
		t.Errorf("Hint(leave-mode) = %q, want esc", got)
	}
	if got := m.Hint(modes.YesNo, "accept-yes"); got != "y" {
		t.Errorf("Hint(accept-yes) = %q, want y", got)
	}
	if got := m.Hint(modes.Prompt, "no-such-command"); got != "" {
		t.Errorf("Hint(no-such-command) = %q, want empty", got)
	}
}
