// Package chat exposes the recommendation turn over HTTP.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stoneadvisor/advisor/internal/api"
	"github.com/stoneadvisor/advisor/internal/catalog"
	"github.com/stoneadvisor/advisor/internal/memory"
	inats "github.com/stoneadvisor/advisor/internal/nats"
	"github.com/stoneadvisor/advisor/internal/recommend"
)

// ImagePrefix is the URL prefix the router serves catalog images under.
const ImagePrefix = api.ImagesPath

// EventPublisher receives turn and session events. It may be nil.
type EventPublisher interface {
	PublishRecommendation(ctx context.Context, event inats.RecommendationEvent) error
	PublishSessionCleared(ctx context.Context, event inats.SessionEvent) error
}

type Handler struct {
	sessions *memory.Service
	engine   *recommend.Engine
	catalog  *catalog.Catalog
	events   EventPublisher
	validate *validator.Validate
}

func NewHandler(sessions *memory.Service, engine *recommend.Engine, c *catalog.Catalog, events EventPublisher) *Handler {
	return &Handler{
		sessions: sessions,
		engine:   engine,
		catalog:  c,
		events:   events,
		validate: validator.New(),
	}
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := h.sessions.NewSession(r.Context())
	if err != nil {
		slog.Error("creating session", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	api.JSON(w, http.StatusCreated, SessionResponse{SessionID: id})
}

// SendMessage runs one recommendation turn for the session. Turns on the
// same session are serialized.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	unlock := h.sessions.Lock(sessionID)
	defer unlock()

	ctx := r.Context()
	state, err := h.sessions.LoadState(ctx, sessionID)
	if err != nil {
		h.handleStoreError(w, "loading session state", sessionID, err)
		return
	}

	turn := h.engine.Recommend(ctx, &state, req.Message)
	if turn.BudgetChanged {
		if err := h.sessions.SaveState(ctx, sessionID, state); err != nil {
			h.handleStoreError(w, "saving session state", sessionID, err)
			return
		}
	}

	reply := recommend.Compose(turn)
	if err := h.sessions.StoreConversationTurn(ctx, sessionID, req.Message, reply); err != nil {
		h.handleStoreError(w, "storing conversation turn", sessionID, err)
		return
	}

	h.publishRecommendation(ctx, sessionID, turn)

	api.JSON(w, http.StatusOK, TurnResponse{
		SessionID: sessionID,
		Reply:     reply,
		Turn:      turn,
		ImageURLs: imageURLs(turn.Images),
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ctx := r.Context()

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			api.HandleError(w, api.NewBadRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	state, err := h.sessions.LoadState(ctx, sessionID)
	if err != nil {
		h.handleStoreError(w, "loading session state", sessionID, err)
		return
	}
	msgs, err := h.sessions.History(ctx, sessionID, limit)
	if err != nil {
		h.handleStoreError(w, "loading history", sessionID, err)
		return
	}

	api.JSON(w, http.StatusOK, HistoryResponse{SessionID: sessionID, Budget: state.Budget, Messages: msgs})
}

func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ctx := r.Context()

	unlock := h.sessions.Lock(sessionID)
	defer unlock()

	ok, err := h.sessions.Exists(ctx, sessionID)
	if err != nil {
		h.handleStoreError(w, "checking session", sessionID, err)
		return
	}
	if !ok {
		api.HandleError(w, api.NewNotFoundError("session not found"))
		return
	}
	if err := h.sessions.Clear(ctx, sessionID); err != nil {
		h.handleStoreError(w, "clearing session", sessionID, err)
		return
	}

	if h.events != nil {
		ev := inats.SessionEvent{ID: uuid.New(), SessionID: sessionID, EventType: "cleared", Timestamp: time.Now().UTC()}
		if err := h.events.PublishSessionCleared(ctx, ev); err != nil {
			slog.Warn("publishing session event", "error", err, "session_id", sessionID)
		}
	}

	api.JSONMessage(w, http.StatusOK, "session cleared")
}

func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	entries := h.catalog.Entries()

	page, pageSize := 1, 50
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && ps > 0 && ps <= 200 {
		pageSize = ps
	}

	start := (page - 1) * pageSize
	if start > len(entries) {
		start = len(entries)
	}
	end := min(start+pageSize, len(entries))

	api.JSONPaginated(w, http.StatusOK, entries[start:end], int64(len(entries)), page, pageSize)
}

func (h *Handler) handleStoreError(w http.ResponseWriter, op, sessionID string, err error) {
	if errors.Is(err, memory.ErrSessionNotFound) {
		api.HandleError(w, api.NewNotFoundError("session not found"))
		return
	}
	slog.Error(op, "error", err, "session_id", sessionID)
	api.HandleError(w, api.ErrInternalServer)
}

func (h *Handler) publishRecommendation(ctx context.Context, sessionID string, turn recommend.Turn) {
	if h.events == nil {
		return
	}
	ev := inats.RecommendationEvent{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Kind:        string(turn.Kind),
		Stone:       turn.Stone(),
		Candidates:  turn.CandidateCount,
		AdvisorUsed: turn.Kind == recommend.KindAdvisor,
		Budget:      turn.Budget,
		Timestamp:   time.Now().UTC(),
	}
	if err := h.events.PublishRecommendation(ctx, ev); err != nil {
		slog.Warn("publishing recommendation event", "error", err, "session_id", sessionID)
	}
}

func imageURLs(images map[string]string) map[string]string {
	if len(images) == 0 {
		return nil
	}
	out := make(map[string]string, len(images))
	for name, p := range images {
		out[name] = path.Join(ImagePrefix, filepath.Base(p))
	}
	return out
}
