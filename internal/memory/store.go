package memory

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned for operations on a session that was never
// created or has been cleared.
var ErrSessionNotFound = errors.New("session not found")

// Store persists per-session memory. Implementations must keep sessions
// fully isolated from each other.
type Store interface {
	Create(ctx context.Context, sessionID string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	LoadState(ctx context.Context, sessionID string) (State, error)
	SaveState(ctx context.Context, sessionID string, state State) error
	AppendMessage(ctx context.Context, sessionID string, entry ConversationEntry) error
	GetRecentMessages(ctx context.Context, sessionID string, limit int) ([]ConversationEntry, error)
	Clear(ctx context.Context, sessionID string) error
}
