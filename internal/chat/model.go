package chat

import (
	"github.com/stoneadvisor/advisor/internal/memory"
	"github.com/stoneadvisor/advisor/internal/recommend"
)

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// TurnResponse carries the rendered reply next to the structured turn so
// clients can choose either.
type TurnResponse struct {
	SessionID string            `json:"session_id"`
	Reply     string            `json:"reply"`
	Turn      recommend.Turn    `json:"turn"`
	ImageURLs map[string]string `json:"image_urls,omitempty"`
}

type HistoryResponse struct {
	SessionID string                     `json:"session_id"`
	Budget    *int                       `json:"budget,omitempty"`
	Messages  []memory.ConversationEntry `json:"messages"`
}
