// Package repository stores activities and their participants.
// Two backends exist: an in-memory store and PostgreSQL through pgx.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-board/config"
	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// ErrNotFound is returned when an activity does not exist.
var ErrNotFound = errors.New("activity not found")

// ErrParticipantNotFound is returned when removing an email that is not registered.
var ErrParticipantNotFound = errors.New("participant not found")

// ErrAlreadyRegistered is returned when the same email signs up twice.
var ErrAlreadyRegistered = errors.New("email already registered for this activity")

// ErrActivityFull is returned when an activity has no remaining spots.
var ErrActivityFull = errors.New("activity is full")

// Store persists activities in a stable order.
type Store interface {
	// List returns every activity in insertion order.
	List(ctx context.Context) (model.Snapshot, error)
	// AddParticipant appends email to the activity's participants.
	AddParticipant(ctx context.Context, activity, email string) error
	// RemoveParticipant deletes email from the activity's participants.
	RemoveParticipant(ctx context.Context, activity, email string) error
	// Close releases held resources.
	Close()
}

// New builds the store selected by cfg.API.Store and seeds it when empty.
func New(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (Store, error) {
	seed, err := LoadSeed()
	if err != nil {
		return nil, err
	}

	switch cfg.API.Store {
	case config.StoreMemory:
		return NewMemoryStore(seed), nil
	case config.StorePostgres:
		store, err := NewPostgresStore(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		if err := store.SeedIfEmpty(ctx, seed); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.API.Store)
	}
}
