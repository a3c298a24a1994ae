package repository

import (
	"context"
	"sync"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// MemoryStore keeps activities in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	activities model.Snapshot
}

// NewMemoryStore returns a store holding a private copy of seed.
func NewMemoryStore(seed model.Snapshot) *MemoryStore {
	return &MemoryStore{activities: cloneSnapshot(seed)}
}

// List returns a copy of all activities.
func (m *MemoryStore) List(_ context.Context) (model.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneSnapshot(m.activities), nil
}

// AddParticipant registers email, checking duplicates before capacity.
func (m *MemoryStore) AddParticipant(_ context.Context, activity, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(activity)
	if i < 0 {
		return ErrNotFound
	}
	act := &m.activities[i].Activity
	if act.HasParticipant(email) {
		return ErrAlreadyRegistered
	}
	if act.IsFull() {
		return ErrActivityFull
	}
	act.Participants = append(act.Participants, email)
	return nil
}

// RemoveParticipant unregisters email.
func (m *MemoryStore) RemoveParticipant(_ context.Context, activity, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(activity)
	if i < 0 {
		return ErrNotFound
	}
	act := &m.activities[i].Activity
	for j, p := range act.Participants {
		if p == email {
			act.Participants = append(act.Participants[:j], act.Participants[j+1:]...)
			return nil
		}
	}
	return ErrParticipantNotFound
}

// Close is a no-op.
func (m *MemoryStore) Close() {}

func (m *MemoryStore) indexOf(name string) int {
	for i, na := range m.activities {
		if na.Name == name {
			return i
		}
	}
	return -1
}

func cloneSnapshot(s model.Snapshot) model.Snapshot {
	out := make(model.Snapshot, len(s))
	for i, na := range s {
		out[i] = na
		out[i].Participants = append([]string{}, na.Participants...)
	}
	return out
}
