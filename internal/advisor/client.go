package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	maxRetries     = 2
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 4 * time.Second
)

// Completer is a text-in/text-out LLM call.
type Completer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	httpClient  *http.Client

	maxRetries     uint64
	initialBackoff time.Duration
}

// NewGeminiClient creates a client. It returns nil when apiKey is empty so
// callers can treat a missing credential as "advisor disabled".
func NewGeminiClient(apiKey, model, baseURL string, temperature float64) *GeminiClient {
	if apiKey == "" {
		return nil
	}
	return &GeminiClient{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temperature,
		httpClient:  &http.Client{},

		maxRetries:     maxRetries,
		initialBackoff: initialBackoff,
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// statusError is a non-200 answer from the endpoint.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("advisor returned status %d: %s", e.code, e.body)
}

func retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Generate sends prompt as a single user turn and returns the text of the
// first candidate. Throttling, 5xx answers and transport errors are retried
// with exponential backoff until ctx expires.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: c.temperature},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var text string
	op := func() error {
		t, err := c.generateOnce(ctx, body)
		if err == nil {
			text = t
			return nil
		}
		var se *statusError
		if ctx.Err() != nil || (errors.As(err, &se) && !retryable(se.code)) {
			return backoff.Permanent(err)
		}
		return err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.initialBackoff
	eb.MaxInterval = maxBackoff
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, c.maxRetries), ctx)

	err = backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		slog.Warn("advisor: request failed, retrying", "error", err, "wait", wait)
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *GeminiClient) generateOnce(ctx context.Context, body []byte) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(snippet))}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decoding response: %w", err))
	}
	if len(out.Candidates) == 0 {
		return "", backoff.Permanent(errors.New("advisor returned no candidates"))
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
