package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/martinemde/askhub/internal/question"
)

// listingDir builds a directory with two files and a subdirectory, returning
// its path with a trailing separator so refresh picks it up.
func listingDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"beta.txt", "alpha.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir + string(os.PathSeparator)
}

func TestFilenameListsDirectoriesFirst(t *testing.T) {
	dir := listingDir(t)
	q := question.New(question.Filename, "Save where?", "")
	q.Default = dir
	p := newFilename(q)

	want := []string{
		"nested" + string(os.PathSeparator),
		"alpha.txt",
		"beta.txt",
	}
	if len(p.entries) != len(want) {
		t.Fatalf("entries = %v, want %v", p.entries, want)
	}
	for i := range want {
		if p.entries[i] != want[i] {
			t.Errorf("entries[%d] = %q, want %q", i, p.entries[i], want[i])
		}
	}
}

func TestFilenameItemFocusWraps(t *testing.T) {
	dir := listingDir(t)
	q := question.New(question.Filename, "Save where?", "")
	q.Default = dir
	p := newFilename(q)

	// Forward past the end wraps to the first entry.
	for i := 0; i < len(p.entries)+1; i++ {
		if err := p.ItemFocus(FocusNext); err != nil {
			t.Fatalf("ItemFocus failed: %v", err)
		}
	}
	if p.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after wrapping forward", p.cursor)
	}

	// Backward from the first entry wraps to the last.
	if err := p.ItemFocus(FocusPrev); err != nil {
		t.Fatalf("ItemFocus failed: %v", err)
	}
	if p.cursor != len(p.entries)-1 {
		t.Errorf("cursor = %d, want %d after wrapping backward", p.cursor, len(p.entries)-1)
	}

	wantValue := filepath.Join(p.dir, "beta.txt")
	if got := p.input.Value(); got != wantValue {
		t.Errorf("field = %q, want %q", got, wantValue)
	}
}

func TestFilenameRefreshKeepsListingOnBadPath(t *testing.T) {
	dir := listingDir(t)
	q := question.New(question.Filename, "Save where?", "")
	q.Default = dir
	p := newFilename(q)

	before := len(p.entries)
	p.refresh(filepath.Join(dir, "does-not-exist") + string(os.PathSeparator))
	if len(p.entries) != before {
		t.Error("unreadable path should keep the previous listing")
	}

	// Paths without a trailing separator are partial input, not directories.
	p.refresh(filepath.Join(dir, "alph"))
	if len(p.entries) != before {
		t.Error("partial path should keep the previous listing")
	}
}

func TestFilenameAccept(t *testing.T) {
	q := question.New(question.Filename, "Save where?", "")
	p := newFilename(q)
	p.input.SetValue("/tmp/out.txt")

	if _, err := p.Accept(nil); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if got := q.Answer(); got != "/tmp/out.txt" {
		t.Errorf("answer = %v, want /tmp/out.txt", got)
	}
}

func TestDownloadAcceptWrapsFileTarget(t *testing.T) {
	q := question.New(question.DownloadFilename, "Save download", "")
	p := newDownload(q)
	p.input.SetValue("/tmp/file.bin")

	if _, err := p.Accept(nil); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	want := question.FileTarget{Path: "/tmp/file.bin"}
	if got := q.Answer(); got != want {
		t.Errorf("answer = %v, want %v", got, want)
	}
}

func TestDownloadOpen(t *testing.T) {
	q := question.New(question.DownloadFilename, "Save download", "")
	p := newDownload(q)

	if err := p.DownloadOpen("xdg-open"); err != nil {
		t.Fatalf("DownloadOpen failed: %v", err)
	}
	want := question.OpenWithTarget{Cmdline: "xdg-open"}
	if got := q.Answer(); got != want {
		t.Errorf("answer = %v, want %v", got, want)
	}

	if !hasCommand(p.Commands(), "open-download") {
		t.Error("download prompts should hint open-download")
	}
}
