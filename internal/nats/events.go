package nats

import (
	"time"

	"github.com/google/uuid"
)

// Stream names.
const (
	StreamEvents = "STONE_EVENTS"
)

// Subject constants.
const (
	SubjectEvents         = "stoneadvisor.events.>"
	SubjectRecommendation = "stoneadvisor.events.recommendation"
	SubjectSessionCleared = "stoneadvisor.events.session_cleared"
)

// RecommendationEvent is published once per answered chat turn.
type RecommendationEvent struct {
	ID          uuid.UUID `json:"id"`
	SessionID   string    `json:"session_id"`
	Kind        string    `json:"kind"` // advisor, ranked, cheapest, empty_catalog
	Stone       string    `json:"stone,omitempty"`
	Candidates  int       `json:"candidates"`
	AdvisorUsed bool      `json:"advisor_used"`
	Budget      *int      `json:"budget,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// SessionEvent is published for session lifecycle changes.
type SessionEvent struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}
