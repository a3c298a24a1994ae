package board

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	surface  *Surface
	lastSeen time.Time
}

// SessionStore maps visitor session ids to their surfaces.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	idle     time.Duration
	now      func() time.Time
}

// NewSessionStore returns a store that forgets sessions idle for longer than idle.
func NewSessionStore(idle time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		idle:     idle,
		now:      time.Now,
	}
}

// Get returns the surface for id. Unknown or malformed ids get a fresh
// session; the returned id is the one the caller must hand back to the visitor.
func (st *SessionStore) Get(id string) (string, *Surface) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	if _, err := uuid.Parse(id); err == nil {
		if sess, ok := st.sessions[id]; ok {
			sess.lastSeen = now
			return id, sess.surface
		}
	}

	id = uuid.New().String()
	sess := &session{surface: NewSurface(), lastSeen: now}
	st.sessions[id] = sess
	return id, sess.surface
}

// Sweep drops idle sessions and returns how many were removed.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.now().Add(-st.idle)
	removed := 0
	for id, sess := range st.sessions {
		if sess.lastSeen.Before(cutoff) {
			sess.surface.Close()
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Run sweeps every interval until ctx is done.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st.Sweep()
		}
	}
}
