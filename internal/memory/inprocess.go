package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type session struct {
	state    State
	messages []ConversationEntry
}

// InProcessStore keeps sessions in a go-cache instance. It is the default
// backend for a single instance and for tests. Writes refresh the expiry,
// matching RedisStore.
type InProcessStore struct {
	mu          sync.RWMutex
	cache       *cache.Cache
	maxMessages int
}

// NewInProcessStore creates a store that keeps at most maxMessages history
// entries per session. A ttl of zero keeps sessions until cleared.
func NewInProcessStore(maxMessages int, ttl time.Duration) *InProcessStore {
	expiration, cleanup := cache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, min(ttl, 10*time.Minute)
	}
	return &InProcessStore{
		cache:       cache.New(expiration, cleanup),
		maxMessages: maxMessages,
	}
}

func (s *InProcessStore) get(sessionID string) (*session, bool) {
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, false
	}
	return v.(*session), true
}

func (s *InProcessStore) touch(sessionID string, sess *session) {
	s.cache.Set(sessionID, sess, cache.DefaultExpiration)
}

func (s *InProcessStore) Create(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.get(sessionID); !ok {
		s.touch(sessionID, &session{})
	}
	return nil
}

func (s *InProcessStore) Exists(_ context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.get(sessionID)
	return ok, nil
}

func (s *InProcessStore) LoadState(_ context.Context, sessionID string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.get(sessionID)
	if !ok {
		return State{}, ErrSessionNotFound
	}
	st := State{}
	if sess.state.Budget != nil {
		v := *sess.state.Budget
		st.Budget = &v
	}
	return st, nil
}

func (s *InProcessStore) SaveState(_ context.Context, sessionID string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	sess.state = State{}
	if state.Budget != nil {
		v := *state.Budget
		sess.state.Budget = &v
	}
	s.touch(sessionID, sess)
	return nil
}

func (s *InProcessStore) AppendMessage(_ context.Context, sessionID string, entry ConversationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	sess.messages = append(sess.messages, entry)
	if s.maxMessages > 0 && len(sess.messages) > s.maxMessages {
		sess.messages = append([]ConversationEntry(nil), sess.messages[len(sess.messages)-s.maxMessages:]...)
	}
	s.touch(sessionID, sess)
	return nil
}

func (s *InProcessStore) GetRecentMessages(_ context.Context, sessionID string, limit int) ([]ConversationEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	msgs := sess.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]ConversationEntry, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *InProcessStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(sessionID)
	return nil
}
