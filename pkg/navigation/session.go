package navigation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultSessionTTL  = 12 * time.Hour
	defaultMaxSessions = 10_000
)

// SessionStore keeps one UIState per session id. Operations on a session are
// serialised. Unknown ids read as a fresh, fully collapsed state; a session is
// only stored once it toggles a group or the rail. Sessions idle longer than
// the TTL are dropped, and the least recently seen one makes room when the
// store is full.
type SessionStore struct {
	mu          sync.Mutex
	tree        *Tree
	sessions    map[string]*session
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

type session struct {
	state UIState
	seen  time.Time
}

type SessionOption func(*SessionStore)

// WithSessionTTL sets how long an idle session is kept. Zero keeps sessions
// until they are evicted for space.
func WithSessionTTL(d time.Duration) SessionOption {
	return func(s *SessionStore) {
		if d >= 0 {
			s.ttl = d
		}
	}
}

// WithMaxSessions caps the number of stored sessions.
func WithMaxSessions(n int) SessionOption {
	return func(s *SessionStore) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithSessionClock replaces time.Now.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessionStore builds an empty store bound to tree.
func NewSessionStore(tree *Tree, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		tree:        tree,
		sessions:    make(map[string]*session),
		ttl:         defaultSessionTTL,
		maxSessions: defaultMaxSessions,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSessionID allocates an opaque session identifier.
func (s *SessionStore) NewSessionID() string {
	return uuid.NewString()
}

// Tree returns the menu definition the store is bound to.
func (s *SessionStore) Tree() *Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// State returns a copy of the session state.
func (s *SessionStore) State(id string) UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.lookupLocked(id); sess != nil {
		return sess.state.Clone()
	}
	return UIState{}
}

// Update applies fn to the session state under the store lock, storing the
// session, and returns a copy of the result.
func (s *SessionStore) Update(id string, fn func(*UIState)) UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.lookupLocked(id)
	if sess == nil {
		sess = s.insertLocked(id)
	}
	if fn != nil {
		fn(&sess.state)
	}
	return sess.state.Clone()
}

// Toggle flips a group for the session. See UIState.Toggle.
func (s *SessionStore) Toggle(id, key string) (UIState, bool) {
	var applied bool
	state := s.Update(id, func(st *UIState) {
		applied = st.Toggle(s.tree, key)
	})
	return state, applied
}

// SetRailCollapsed collapses or restores the rail for the session.
func (s *SessionStore) SetRailCollapsed(id string, collapsed bool) UIState {
	return s.Update(id, func(st *UIState) {
		st.SetRailCollapsed(collapsed)
	})
}

// Menu renders the menu at path. A stored session records path as its
// location; an unknown id renders from a collapsed state without being stored.
func (s *SessionStore) Menu(id, path string) Menu {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := NewUIState(path)
	if sess := s.lookupLocked(id); sess != nil {
		sess.state.Navigate(path)
		state = sess.state.Clone()
	}
	return s.tree.Menu(state)
}

// Rebind swaps the tree and prunes every session's stale keys.
func (s *SessionStore) Rebind(tree *Tree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = tree
	for _, sess := range s.sessions {
		sess.state.Rebind(tree)
	}
}

// Forget drops the session.
func (s *SessionStore) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())
	return len(s.sessions)
}

// lookupLocked returns the live session for id and marks it seen. Expired
// sessions are dropped.
func (s *SessionStore) lookupLocked(id string) *session {
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil
	}
	sess.seen = now
	return sess
}

func (s *SessionStore) insertLocked(id string) *session {
	now := s.now()
	if len(s.sessions) >= s.maxSessions {
		s.evictLocked(now)
	}
	sess := &session{seen: now}
	s.sessions[id] = sess
	return sess
}

// evictLocked drops expired sessions, then the least recently seen ones
// until there is room for one more.
func (s *SessionStore) evictLocked(now time.Time) {
	s.sweepLocked(now)
	for len(s.sessions) >= s.maxSessions {
		var oldestID string
		var oldest time.Time
		for id, sess := range s.sessions {
			if oldestID == "" || sess.seen.Before(oldest) {
				oldestID, oldest = id, sess.seen
			}
		}
		delete(s.sessions, oldestID)
	}
}

func (s *SessionStore) sweepLocked(now time.Time) {
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *SessionStore) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.seen) > s.ttl
}
