// Package board implements the activity board: it loads activities from the
// activities API, turns them into the page a visitor sees, and runs the
// signup and unregister mutations with their status messages.
package board

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-board/internal/client"
	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// User-facing texts used when the API gives no better wording.
const (
	SignupFallbackError     = "An error occurred"
	SignupNetworkError      = "Failed to sign up. Please try again."
	UnregisterFallbackOK    = "Participant removed"
	UnregisterFallbackError = "Failed to remove participant"
	UnregisterNetworkError  = "Failed to unregister participant. Try again."
)

// Backend is the subset of the activities API the board consumes.
type Backend interface {
	ListActivities(ctx context.Context) (model.Snapshot, error)
	Signup(ctx context.Context, activity, email string) (string, error)
	Unregister(ctx context.Context, activity, email string) (string, error)
}

// Options tunes message lifetimes.
type Options struct {
	SignupMessageTTL     time.Duration
	UnregisterMessageTTL time.Duration
}

// Outcome is the result of a mutation. Reload is set when the activity list
// changed on the server and must be loaded again.
type Outcome struct {
	Message model.StatusMessage
	Reload  bool
}

// Board runs board operations against a Backend.
type Board struct {
	backend Backend
	log     *zap.SugaredLogger
	opts    Options
}

// New constructs a Board.
func New(backend Backend, log *zap.SugaredLogger, opts Options) *Board {
	return &Board{
		backend: backend,
		log:     log.Named("board"),
		opts:    opts,
	}
}

// LoadActivities fetches a fresh snapshot and installs it on the surface.
// Failures replace the list with a fixed message and are only logged.
// A result that arrives after a newer load was applied is dropped.
func (b *Board) LoadActivities(ctx context.Context, s *Surface) State {
	token := s.beginLoad()

	snap, err := b.backend.ListActivities(ctx)
	var applied bool
	if err != nil {
		b.log.Errorw("failed to load activities", "error", err)
		applied = s.applyFailure(token)
	} else {
		applied = s.applyView(token, buildView(snap))
	}
	if !applied {
		b.log.Debugw("discarded stale activities load", "token", token)
	}
	return s.State()
}

// Signup registers email for activity. On success the form is reset; on any
// failure it keeps the submitted values.
func (b *Board) Signup(ctx context.Context, s *Surface, activity, email string) Outcome {
	msg, err := b.backend.Signup(ctx, activity, email)
	ttl := b.opts.SignupMessageTTL

	var apiErr *client.APIError
	switch {
	case err == nil:
		s.resetForm()
		return Outcome{Message: s.show(msg, model.KindSuccess, ttl), Reload: true}
	case errors.As(err, &apiErr):
		s.keepForm(activity, email)
		return Outcome{Message: s.show(orDefault(apiErr.Detail, SignupFallbackError), model.KindError, ttl)}
	default:
		b.log.Errorw("error signing up", "activity", activity, "error", err)
		s.keepForm(activity, email)
		return Outcome{Message: s.show(SignupNetworkError, model.KindError, ttl)}
	}
}

// Unregister removes email from activity.
func (b *Board) Unregister(ctx context.Context, s *Surface, activity, email string) Outcome {
	msg, err := b.backend.Unregister(ctx, activity, email)
	ttl := b.opts.UnregisterMessageTTL

	var apiErr *client.APIError
	switch {
	case err == nil:
		return Outcome{Message: s.show(orDefault(msg, UnregisterFallbackOK), model.KindSuccess, ttl), Reload: true}
	case errors.As(err, &apiErr):
		return Outcome{Message: s.show(orDefault(apiErr.Detail, UnregisterFallbackError), model.KindError, ttl)}
	default:
		b.log.Errorw("error unregistering participant", "activity", activity, "error", err)
		return Outcome{Message: s.show(UnregisterNetworkError, model.KindError, ttl)}
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
