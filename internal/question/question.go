// Package question defines the request record producers hand to the hub: a
// mode-tagged question with a write-once answer slot and a one-shot
// completion signal.
package question

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned when an answer is set on a question that has
// already been answered or aborted.
var ErrInvalidState = errors.New("question already completed")

// Mode identifies which kind of prompt a question needs.
type Mode int

const (
	// YesNo asks for a boolean confirmation.
	YesNo Mode = iota
	// Text asks for a single line of free text.
	Text
	// Credentials asks for a username and password pair.
	Credentials
	// Filename asks for a file-system path.
	Filename
	// DownloadFilename asks where to save a download, or what to open it with.
	DownloadFilename
	// Alert shows a message that only needs acknowledgement.
	Alert
)

func (m Mode) String() string {
	switch m {
	case YesNo:
		return "yesno"
	case Text:
		return "text"
	case Credentials:
		return "credentials"
	case Filename:
		return "filename"
	case DownloadFilename:
		return "download"
	case Alert:
		return "alert"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a wire-format mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "yesno":
		return YesNo, nil
	case "text":
		return Text, nil
	case "credentials":
		return Credentials, nil
	case "filename":
		return Filename, nil
	case "download":
		return DownloadFilename, nil
	case "alert":
		return Alert, nil
	default:
		return 0, fmt.Errorf("unknown question mode %q", s)
	}
}

// Auth is the answer payload of a credentials question.
type Auth struct {
	User     string
	Password string
}

// DownloadTarget is the answer payload of a download question.
type DownloadTarget interface {
	downloadTarget()
}

// FileTarget answers a download question with a destination path.
type FileTarget struct {
	Path string
}

// OpenWithTarget answers a download question with a command to open the
// file instead of saving it. An empty Cmdline means the system default
// application.
type OpenWithTarget struct {
	Cmdline string
}

func (FileTarget) downloadTarget()     {}
func (OpenWithTarget) downloadTarget() {}

// Question is a single request for user input.
//
// The answer slot is write-once: a question goes from pending to exactly one
// of answered or aborted, and the completion signal fires exactly once.
// Depending on the mode, the answer is a bool (YesNo), a string (Text,
// Filename), an Auth (Credentials), a DownloadTarget (DownloadFilename), or
// nil (Alert).
//
// A Question is not safe for concurrent mutation. SetAnswer, Cancel, and
// Abort must only be called from the hub loop; producers on other goroutines
// interact with it through the arbiter and may only wait on Done and read
// the answer afterwards.
type Question struct {
	// Mode selects the prompt variant used to resolve the question.
	Mode Mode
	// Title is a short display heading. Required.
	Title string
	// Text is an optional longer body shown under the title.
	Text string
	// Default optionally pre-fills the prompt. Its type depends on the
	// mode: bool for YesNo, string for the text-like modes.
	Default any

	answer    any
	answered  bool
	aborted   bool
	done      chan struct{}
	completed []func()
	onAborted []func()
}

// New returns a pending question.
func New(mode Mode, title, text string) *Question {
	return &Question{
		Mode:  mode,
		Title: title,
		Text:  text,
		done:  make(chan struct{}),
	}
}

// Done returns a channel closed once the question is answered or aborted.
// Waiting on it is the only Question operation allowed off the hub loop.
func (q *Question) Done() <-chan struct{} {
	return q.done
}

// Answer returns the stored answer, or nil if the question is still pending
// or was abandoned.
func (q *Question) Answer() any {
	return q.answer
}

// Answered reports whether an answer has been set.
func (q *Question) Answered() bool {
	return q.answered
}

// Aborted reports whether the question was abandoned without an answer.
func (q *Question) Aborted() bool {
	return q.aborted
}

// Completed reports whether the question has left the pending state.
func (q *Question) Completed() bool {
	return q.answered || q.aborted
}

// OnCompleted registers fn to run when the question completes, whether it is
// answered or aborted. Registering after completion is a no-op.
func (q *Question) OnCompleted(fn func()) {
	q.completed = append(q.completed, fn)
}

// OnAborted registers fn to run when the question is aborted by its
// originator or by shutdown, before the completion callbacks. A plain user
// Cancel does not fire it.
func (q *Question) OnAborted(fn func()) {
	q.onAborted = append(q.onAborted, fn)
}

// SetAnswer stores the answer and fires completion. It fails with
// ErrInvalidState if the question has already completed.
func (q *Question) SetAnswer(v any) error {
	if q.Completed() {
		return fmt.Errorf("%w: cannot answer %s question twice", ErrInvalidState, q.Mode)
	}
	q.answer = v
	q.answered = true
	q.complete()
	return nil
}

// Cancel abandons the question without an answer and fires completion. It is
// a no-op on an already-completed question.
func (q *Question) Cancel() {
	if q.Completed() {
		return
	}
	q.aborted = true
	q.complete()
}

// Abort is the rejection path used when the originator withdraws the
// question or the hub shuts down. It behaves like Cancel but additionally
// fires the aborted callbacks, before completion, so the hub can tear down
// whatever input mode the question holds.
func (q *Question) Abort() {
	if q.Completed() {
		return
	}
	q.aborted = true
	q.fireAborted()
	q.complete()
}

func (q *Question) fireAborted() {
	for _, fn := range q.onAborted {
		fn()
	}
}

func (q *Question) complete() {
	for _, fn := range q.completed {
		fn()
	}
	close(q.done)
}
