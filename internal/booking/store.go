package booking

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"barberbook/internal/calendar"
)

// SessionStore keeps sessions in memory, keyed by a random id.
type SessionStore struct {
	sessions map[string]Session
	mu       sync.Mutex
	timeout  time.Duration
}

// NewSessionStore creates a store whose sessions expire after timeout of
// inactivity.
func NewSessionStore(timeout time.Duration) *SessionStore {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &SessionStore{
		sessions: make(map[string]Session),
		timeout:  timeout,
	}
}

func (ss *SessionStore) expired(s Session) bool {
	return time.Since(s.UpdatedAt) > ss.timeout
}

// Create starts a new session on month.
func (ss *SessionStore) Create(month calendar.Month) Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s := NewSession(uuid.NewString(), month)
	ss.sessions[s.ID] = s
	return s
}

// Get returns a live session.
func (ss *SessionStore) Get(id string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s, ok := ss.sessions[id]
	if !ok || ss.expired(s) {
		return Session{}, false
	}
	return s, true
}

// GetOrCreate returns the session id, or a fresh one on month when id is
// unknown or expired. created reports which.
func (ss *SessionStore) GetOrCreate(id string, month calendar.Month) (s Session, created bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if s, ok := ss.sessions[id]; ok && !ss.expired(s) {
		return s, false
	}
	if id != "" {
		delete(ss.sessions, id)
	}
	s = NewSession(uuid.NewString(), month)
	ss.sessions[s.ID] = s
	return s, true
}

// Update replaces session id with fn's result under the store lock. When
// fn fails the stored session is left as it was.
func (ss *SessionStore) Update(id string, fn func(Session) (Session, error)) (Session, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s, ok := ss.sessions[id]
	if !ok || ss.expired(s) {
		return Session{}, ErrSessionNotFound
	}
	next, err := fn(s)
	if err != nil {
		return s, err
	}
	next.ID = id
	ss.sessions[id] = next
	return next, nil
}

// Dispatch reduces ev into session id.
func (ss *SessionStore) Dispatch(id string, policy calendar.SchedulePolicy, ev Event) (Session, error) {
	return ss.Update(id, func(s Session) (Session, error) {
		return Reduce(policy, s, ev)
	})
}

// Delete removes a session.
func (ss *SessionStore) Delete(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, id)
}

// Cleanup removes expired sessions.
func (ss *SessionStore) Cleanup() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	removed := 0
	for id, s := range ss.sessions {
		if ss.expired(s) {
			delete(ss.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (ss *SessionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}
