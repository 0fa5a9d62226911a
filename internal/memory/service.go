package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service owns session lifecycle and serializes turns per session.
type Service struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewService creates a new memory service.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		locks: make(map[string]*sessionLock),
	}
}

// NewSession creates an empty session and returns its ID.
func (s *Service) NewSession(ctx context.Context) (string, error) {
	id := uuid.New().String()
	if err := s.store.Create(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// Exists reports whether the session is known to the store.
func (s *Service) Exists(ctx context.Context, sessionID string) (bool, error) {
	return s.store.Exists(ctx, sessionID)
}

// Lock blocks until no other turn for sessionID is in flight. Different
// sessions never contend.
func (s *Service) Lock(sessionID string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}

// LoadState returns the remembered state for the session.
func (s *Service) LoadState(ctx context.Context, sessionID string) (State, error) {
	return s.store.LoadState(ctx, sessionID)
}

// SaveState persists the remembered state for the session.
func (s *Service) SaveState(ctx context.Context, sessionID string, state State) error {
	return s.store.SaveState(ctx, sessionID, state)
}

// StoreConversationTurn appends the user and assistant messages of one turn.
func (s *Service) StoreConversationTurn(ctx context.Context, sessionID, userMsg, assistantResp string) error {
	now := time.Now()

	if err := s.store.AppendMessage(ctx, sessionID, ConversationEntry{
		Role:      RoleUser,
		Content:   userMsg,
		Timestamp: now,
	}); err != nil {
		return fmt.Errorf("appending user message: %w", err)
	}

	if err := s.store.AppendMessage(ctx, sessionID, ConversationEntry{
		Role:      RoleAssistant,
		Content:   assistantResp,
		Timestamp: now,
	}); err != nil {
		return fmt.Errorf("appending assistant message: %w", err)
	}
	return nil
}

// History returns up to limit recent messages, oldest first.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]ConversationEntry, error) {
	return s.store.GetRecentMessages(ctx, sessionID, limit)
}

// Clear forgets the session entirely.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}
