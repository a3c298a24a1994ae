// Package service implements the activities API business rules between
// HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
	"github.com/Shivanand-hulikatti/activity-board/internal/repository"
)

// ErrEmailRequired is returned for an empty email.
var ErrEmailRequired = errors.New("email is required")

// ErrInvalidEmail is returned for an email without a user and a dotted domain.
var ErrInvalidEmail = errors.New("invalid email address")

// ActivityService orchestrates activity operations.
type ActivityService struct {
	store repository.Store
	log   *zap.SugaredLogger
}

// NewActivityService constructs an ActivityService.
func NewActivityService(store repository.Store, log *zap.SugaredLogger) *ActivityService {
	return &ActivityService{store: store, log: log.Named("service")}
}

// ListActivities returns all activities.
func (s *ActivityService) ListActivities(ctx context.Context) (model.Snapshot, error) {
	snap, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return snap, nil
}

// Signup registers email for the named activity and returns the confirmation text.
func (s *ActivityService) Signup(ctx context.Context, activity, email string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}

	if err := s.store.AddParticipant(ctx, activity, email); err != nil {
		// Domain errors pass through untouched so handlers can pick the status.
		if isDomainError(err) {
			return "", err
		}
		return "", fmt.Errorf("signup: %w", err)
	}

	s.log.Infow("participant signed up", "activity", activity, "email", email)
	return fmt.Sprintf("Signed up %s for %s", email, activity), nil
}

// Unregister removes email from the named activity and returns the confirmation text.
func (s *ActivityService) Unregister(ctx context.Context, activity, email string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}

	if err := s.store.RemoveParticipant(ctx, activity, email); err != nil {
		if isDomainError(err) {
			return "", err
		}
		return "", fmt.Errorf("unregister: %w", err)
	}

	s.log.Infow("participant unregistered", "activity", activity, "email", email)
	return fmt.Sprintf("Unregistered %s from %s", email, activity), nil
}

func isDomainError(err error) bool {
	return errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrParticipantNotFound) ||
		errors.Is(err, repository.ErrAlreadyRegistered) ||
		errors.Is(err, repository.ErrActivityFull)
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	if !isValidEmail(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
