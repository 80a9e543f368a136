// Package arbiter is the question engine: it owns the single "currently
// displayed" prompt, the FIFO queue of non-blocking questions, and the
// save/restore protocol that lets a blocking question interrupt whatever is
// on screen and put it back afterwards.
//
// How multiple questions are handled deserves some explanation. A blocking
// question has to be asked immediately; it cannot wait for older questions
// to finish, and another blocking question may arrive while one is already
// up. ask therefore saves the present prompt in the locals of its own
// continuation, lets the user answer the most recent question, and restores
// the saved prompt when that question completes — nesting falls out of the
// closures, not an explicit stack. A non-blocking question that arrives
// while something is displayed just goes to the back of the queue.
//
// Whenever a question finishes, serving the next queued one is posted to the
// hub loop rather than done inline. Running it inline from the middle of a
// mode-exit would re-enter show before the old prompt is fully torn down and
// corrupt the single-current invariant.
//
// All state here is confined to the hub loop. Producers on other goroutines
// only post closures and wait on completion channels, so no locking is
// needed, just correct sequencing.
package arbiter

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/martinemde/askhub/internal/modes"
	"github.com/martinemde/askhub/internal/prompt"
	"github.com/martinemde/askhub/internal/question"
)

// Presenter renders whatever prompt the arbiter says is current.
type Presenter interface {
	// ShowPrompt displays the prompt, replacing any previous one.
	ShowPrompt(p prompt.Prompt)
	// HidePrompt removes the displayed prompt.
	HidePrompt()
	// Displayed returns the prompt currently displayed, or nil.
	Displayed() prompt.Prompt
}

// ModeManager is the input-mode collaborator.
type ModeManager interface {
	Enter(mode modes.Mode, reason string)
	MaybeLeave(mode modes.Mode, reason string)
}

// ConsistencyError reports that the presenter and the arbiter disagree about
// what is displayed. It is raised as a panic: the single-current invariant
// was violated, which is a bug, not a recoverable condition.
type ConsistencyError struct {
	Displayed prompt.Prompt
	Current   prompt.Prompt
}

func (e ConsistencyError) Error() string {
	return fmt.Sprintf("prompt slot out of sync: presenter shows %v, arbiter has %v",
		e.Displayed, e.Current)
}

// Arbiter serializes questions from many producers onto one prompt surface.
//
// The exported methods other than AskQuestion must be called on the hub
// loop; AskQuestion may be called from any goroutine.
type Arbiter struct {
	post      func(func())
	presenter Presenter
	modes     ModeManager
	log       *zap.Logger

	current      prompt.Prompt
	queue        []*question.Question
	suspended    []*question.Question
	shuttingDown bool
}

// New returns an Arbiter. post must append a closure to the end of the hub
// loop's task queue; it is also how the arbiter defers its own follow-up
// steps. A nil logger disables logging.
func New(post func(func()), presenter Presenter, mm ModeManager, log *zap.Logger) *Arbiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Arbiter{
		post:      post,
		presenter: presenter,
		modes:     mm,
		log:       log,
	}
}

// Current returns the prompt being displayed, or nil.
func (a *Arbiter) Current() prompt.Prompt {
	return a.current
}

// QueueLen returns how many non-blocking questions are waiting their turn.
func (a *Arbiter) QueueLen() int {
	return len(a.queue)
}

// AskQuestion asks the user a question. If blocking, the calling goroutine
// suspends until the question completes and the answer is returned, nil if
// it was aborted. If non-blocking, it returns nil immediately and the
// question is displayed once every older question has finished; the caller
// observes the result through the question itself.
func (a *Arbiter) AskQuestion(q *question.Question, blocking bool) any {
	a.post(func() { a.ask(q, blocking) })
	if !blocking {
		return nil
	}
	<-q.Done()
	if q.Aborted() {
		return nil
	}
	return q.Answer()
}

// ask runs on the hub loop.
func (a *Arbiter) ask(q *question.Question, blocking bool) {
	a.log.Debug("asking question",
		zap.Stringer("mode", q.Mode),
		zap.String("title", q.Title),
		zap.Bool("blocking", blocking),
		zap.Int("queued", len(a.queue)),
		zap.Int("suspended", len(a.suspended)))

	if a.shuttingDown {
		// Everything asked from here on is dead on arrival; completing it
		// as aborted is what lets the producer move on.
		a.log.Debug("ignoring question, shutting down")
		q.Abort()
		return
	}

	if a.current != nil && !blocking {
		a.log.Debug("queueing question", zap.String("title", q.Title))
		a.queue = append(a.queue, q)
		return
	}

	// A blocking question replaces whatever is up right now. The prompt we
	// save here is restored by the completion continuation below, so each
	// nested blocking ask unwinds exactly the state it displaced.
	saved := a.current

	p, err := prompt.New(q)
	if err != nil {
		a.log.Error("cannot build prompt", zap.Error(err))
		q.Abort()
		return
	}
	a.show(p)

	if !blocking {
		q.OnCompleted(a.popLater)
		return
	}

	a.suspended = append(a.suspended, q)
	q.OnCompleted(func() {
		a.unsuspend(q)
		a.post(func() {
			if !a.show(saved) && len(a.queue) > 0 {
				// Nothing left to restore, go back to serving queued
				// questions.
				a.popLater()
			}
		})
	})
}

// show makes p the displayed prompt, or hides everything for nil. It
// returns whether a prompt is now displayed.
//
// The previous prompt is hidden, not destroyed; it may be the saved state of
// a suspended blocking ask that will be restored later.
func (a *Arbiter) show(p prompt.Prompt) bool {
	if d := a.presenter.Displayed(); d != a.current {
		panic(ConsistencyError{Displayed: d, Current: a.current})
	}

	a.log.Debug("displaying prompt", zap.String("prompt", describe(p)))
	a.current = p
	if p == nil {
		a.presenter.HidePrompt()
		return false
	}

	// An externally aborted question has to tear down its own input mode,
	// which shows up as a mode-left event and cancels cleanly.
	p.Question().OnAborted(func() {
		a.modes.MaybeLeave(p.KeyMode(), "aborted")
	})
	a.modes.Enter(p.KeyMode(), "question asked")
	a.presenter.ShowPrompt(p)
	return true
}

// OnModeLeft is the mode manager's notification that an input mode ended.
// If the displayed prompt owned that mode, it is hidden, and its question is
// cancelled when nothing answered it.
func (a *Arbiter) OnModeLeft(mode modes.Mode) {
	if a.current == nil || mode != a.current.KeyMode() {
		return
	}
	q := a.current.Question()
	a.show(nil)
	if !q.Completed() {
		q.Cancel()
	}
}

// popLater schedules serving the next queued question after everything
// in flight has settled.
func (a *Arbiter) popLater() {
	a.post(a.pop)
}

// pop serves the oldest queued question that is still pending. Questions
// withdrawn by their originator while queued are discarded silently.
func (a *Arbiter) pop() {
	a.log.Debug("popping from queue", zap.Int("queued", len(a.queue)))
	for len(a.queue) > 0 {
		q := a.queue[0]
		a.queue = a.queue[1:]
		if q.Completed() {
			a.log.Debug("discarding withdrawn question", zap.String("title", q.Title))
			continue
		}
		a.ask(q, false)
		return
	}
}

// Shutdown refuses all future questions and forces every suspended blocking
// ask to return promptly with an aborted result, innermost first. It
// returns whether any suspended asks had to be stopped.
func (a *Arbiter) Shutdown() bool {
	a.log.Info("shutting down", zap.Int("suspended", len(a.suspended)))
	a.shuttingDown = true
	if len(a.suspended) == 0 {
		return false
	}
	for len(a.suspended) > 0 {
		// Abort unsuspends the question via its completion continuation.
		a.suspended[len(a.suspended)-1].Abort()
	}
	return true
}

func (a *Arbiter) unsuspend(q *question.Question) {
	for i := len(a.suspended) - 1; i >= 0; i-- {
		if a.suspended[i] == q {
			a.suspended = append(a.suspended[:i], a.suspended[i+1:]...)
			return
		}
	}
}

func describe(p prompt.Prompt) string {
	if p == nil {
		return "none"
	}
	return fmt.Sprintf("%s %q", p.Question().Mode, p.Question().Title)
}

// AcceptCurrent accepts the displayed prompt, with the override value when
// one is given. Variant rejections (bad literal, missing default) are
// returned for the command layer to show; the question stays open.
func (a *Arbiter) AcceptCurrent(override *string) error {
	if a.current == nil {
		return nil
	}
	p := a.current
	done, err := p.Accept(override)
	if err != nil {
		return err
	}
	if done {
		a.modes.MaybeLeave(p.KeyMode(), "prompt accepted")
	}
	return nil
}

// OpenDownload resolves a download prompt with an open-with command. On
// variants without the capability this is a deliberate no-op.
func (a *Arbiter) OpenDownload(cmdline string) {
	if a.current == nil {
		return
	}
	p := a.current
	err := p.DownloadOpen(cmdline)
	if errors.Is(err, prompt.ErrUnsupported) {
		a.log.Debug("open-download not supported here")
		return
	}
	if err != nil {
		a.log.Warn("open-download failed", zap.Error(err))
		return
	}
	a.modes.MaybeLeave(p.KeyMode(), "download opened")
}

// FocusItem shifts focus within the displayed prompt. On variants without
// anything to navigate this is a deliberate no-op.
func (a *Arbiter) FocusItem(dir prompt.FocusDirection) {
	if a.current == nil {
		return
	}
	if err := a.current.ItemFocus(dir); err != nil {
		if errors.Is(err, prompt.ErrUnsupported) {
			a.log.Debug("item focus not supported here")
			return
		}
		a.log.Warn("item focus failed", zap.Error(err))
	}
}
