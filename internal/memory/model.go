package memory

import "time"

// Roles used in the message history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationEntry is a single message in the session history. It is kept
// for display only; the recommendation pipeline never reads it.
type ConversationEntry struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the part of session memory that feeds the next turn.
type State struct {
	Budget *int `json:"budget,omitempty"`
}

// Remember overwrites the remembered budget when the utterance carried a
// positive amount. Zero or absent budgets leave the previous value in place.
// It reports whether the state changed.
func (s *State) Remember(budget *int) bool {
	if budget == nil || *budget <= 0 {
		return false
	}
	if s.Budget != nil && *s.Budget == *budget {
		return false
	}
	v := *budget
	s.Budget = &v
	return true
}
