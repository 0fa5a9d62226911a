package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	mw "github.com/stoneadvisor/advisor/internal/middleware"
)

// Response is the envelope for every JSON body. RequestID echoes the
// X-Request-ID header so a chat client can quote it when reporting a bad
// recommendation.
type Response struct {
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type PaginatedResponse struct {
	Data       any    `json:"data"`
	TotalCount int64  `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	HasMore    bool   `json:"has_more"`
	RequestID  string `json:"request_id,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Response{Data: data, RequestID: requestID(w)})
}

func JSONMessage(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{Message: message, RequestID: requestID(w)})
}

func JSONPaginated(w http.ResponseWriter, status int, data any, totalCount int64, page, pageSize int) {
	write(w, status, PaginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		HasMore:    int64(page)*int64(pageSize) < totalCount,
		RequestID:  requestID(w),
	})
}

func JSONErrorMessage(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{Error: message, RequestID: requestID(w)})
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("writing json response", "status", status, "error", err)
	}
}

// requestID reads the id the RequestID middleware already set on the response.
func requestID(w http.ResponseWriter) string {
	return w.Header().Get(mw.RequestIDHeader)
}
