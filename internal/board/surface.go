package board

import (
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// SignupForm holds the values the signup form is rendered with.
type SignupForm struct {
	Activity string
	Email    string
}

// State is a consistent copy of a Surface taken for rendering.
type State struct {
	View    View
	Form    SignupForm
	Message model.StatusMessage
}

// Surface is the UI state of one visitor: the rendered list, the signup form
// and the status message. It is safe for concurrent use.
type Surface struct {
	mu sync.Mutex

	issued  uint64 // last load token handed out
	applied uint64 // token of the load currently shown

	view View
	form SignupForm

	msg       model.StatusMessage
	msgGen    uint64
	hideTimer *time.Timer

	now func() time.Time
}

// NewSurface returns a surface showing an empty list and the placeholder option.
func NewSurface() *Surface {
	return &Surface{
		view: View{Options: []Option{placeholderOption()}},
		now:  time.Now,
	}
}

// beginLoad hands out a token; tokens increase monotonically.
func (s *Surface) beginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// applyView installs v unless a newer load has already been applied.
func (s *Surface) applyView(token uint64, v View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token < s.applied {
		return false
	}
	s.applied = token
	s.view = v
	return true
}

// applyFailure replaces the list with the failure text. The selection control
// keeps whatever options it already had.
func (s *Surface) applyFailure(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token < s.applied {
		return false
	}
	s.applied = token
	opts := s.view.Options
	if len(opts) == 0 {
		opts = []Option{placeholderOption()}
	}
	s.view = View{Options: opts, LoadError: LoadFailedText}
	return true
}

func (s *Surface) resetForm() {
	s.mu.Lock()
	s.form = SignupForm{}
	s.mu.Unlock()
}

func (s *Surface) keepForm(activity, email string) {
	s.mu.Lock()
	s.form = SignupForm{Activity: activity, Email: email}
	s.mu.Unlock()
}

// show displays a message and schedules it to hide after ttl. A pending hide
// of an earlier message is cancelled.
func (s *Surface) show(text string, kind model.MessageKind, ttl time.Duration) model.StatusMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hideTimer != nil {
		s.hideTimer.Stop()
	}
	s.msgGen++
	gen := s.msgGen
	s.msg = model.StatusMessage{
		Text:      text,
		Kind:      kind,
		Visible:   true,
		ExpiresAt: s.now().Add(ttl),
	}
	s.hideTimer = time.AfterFunc(ttl, func() { s.hide(gen) })
	return s.msg
}

func (s *Surface) hide(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.msgGen {
		return
	}
	s.msg.Visible = false
	s.hideTimer = nil
}

// State returns a copy of the surface for rendering.
func (s *Surface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.view
	v.Cards = append([]Card(nil), s.view.Cards...)
	v.Options = append([]Option(nil), s.view.Options...)
	return State{View: v, Form: s.form, Message: s.msg}
}

// Close stops the pending hide timer, if any.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hideTimer != nil {
		s.hideTimer.Stop()
		s.hideTimer = nil
	}
}
