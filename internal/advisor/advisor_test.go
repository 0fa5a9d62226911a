package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stoneadvisor/advisor/internal/catalog"
	"github.com/stoneadvisor/advisor/internal/ranking"
)

type stubCompleter struct {
	answer string
	err    error
	calls  int
	prompt string
}

func (s *stubCompleter) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.answer, s.err
}

func rankedFixture() []ranking.Scored {
	names := []string{"S1", "S2", "S3", "S4", "S5", "S6"}
	out := make([]ranking.Scored, 0, len(names))
	for i, n := range names {
		out = append(out, ranking.Scored{
			Entry: catalog.Entry{Name: n, PriceMin: float64(1000 + i*100), PriceMax: float64(2000 + i*100), StyleTag: "modern"},
			Score: 1 - float64(i)/10,
		})
	}
	return out
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"plain object", `{"recommended_stone": "S1"}`, true},
		{"wrapped in prose", "Sure! Here you go:\n{\"recommended_stone\": \"S1\"}\nHope it helps.", true},
		{"code fence", "```json\n{\"recommended_stone\": \"S1\"}\n```", true},
		{"no braces", "I cannot help with that", false},
		{"broken span", "answer: {recommended_stone: S1}", false},
		{"array is not an object", `["S1"]`, false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, ok := ExtractJSON(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Contains(t, obj, "recommended_stone")
			}
		})
	}
}

func TestParseSuggestion(t *testing.T) {
	s, ok := ParseSuggestion(`{"recommended_stone": "S2", "finish_type": "polished", "reason": "ทนทาน", "warnings": ["stains", "heat"]}`)
	require.True(t, ok)
	assert.True(t, s.HasStone)
	assert.Equal(t, "S2", s.RecommendedStone)
	assert.Equal(t, "polished", s.FinishType)
	assert.Equal(t, "ทนทาน", s.Reason)
	assert.Equal(t, "stains, heat", s.Warnings)

	s, ok = ParseSuggestion(`{"finish_type": "honed"}`)
	require.True(t, ok)
	assert.False(t, s.HasStone)
}

func TestValidate(t *testing.T) {
	ranked := rankedFixture()

	t.Run("accepts exact name and derives price", func(t *testing.T) {
		res, ok := Validate(&Suggestion{RecommendedStone: "S2", HasStone: true, FinishType: "polished"}, ranked)
		require.True(t, ok)
		assert.Equal(t, "S2", res.RecommendedStone)
		assert.Equal(t, "1100 - 2100 บาท/ตร.ม.", res.PriceRange)
		assert.Equal(t, "polished", res.FinishType)
	})

	t.Run("rejects unknown name whatever the other fields say", func(t *testing.T) {
		_, ok := Validate(&Suggestion{RecommendedStone: "Imaginary Granite", HasStone: true, FinishType: "polished", Reason: "great"}, ranked)
		assert.False(t, ok)
	})

	t.Run("comparison is exact", func(t *testing.T) {
		_, ok := Validate(&Suggestion{RecommendedStone: "s2", HasStone: true}, ranked)
		assert.False(t, ok)
		_, ok = Validate(&Suggestion{RecommendedStone: "S2 ", HasStone: true}, ranked)
		assert.False(t, ok)
	})

	t.Run("rejects missing key", func(t *testing.T) {
		_, ok := Validate(&Suggestion{}, ranked)
		assert.False(t, ok)
	})

	t.Run("rejects empty candidate set", func(t *testing.T) {
		_, ok := Validate(&Suggestion{RecommendedStone: "S1", HasStone: true}, nil)
		assert.False(t, ok)
	})

	t.Run("nil suggestion", func(t *testing.T) {
		_, ok := Validate(nil, ranked)
		assert.False(t, ok)
	})
}

func TestAdvisor_DisabledMakesNoCall(t *testing.T) {
	a := New(nil, 5, time.Second)
	assert.False(t, a.Enabled())

	res, outcome := a.Recommend(context.Background(), "kitchen", rankedFixture())
	assert.Nil(t, res)
	assert.Equal(t, OutcomeDisabled, outcome)

	var nilAdvisor *Advisor
	res, outcome = nilAdvisor.Recommend(context.Background(), "kitchen", rankedFixture())
	assert.Nil(t, res)
	assert.Equal(t, OutcomeDisabled, outcome)
}

func TestAdvisor_Accepts(t *testing.T) {
	stub := &stubCompleter{answer: "```json\n{\"recommended_stone\": \"S3\", \"finish_type\": \"honed\", \"reason\": \"r\", \"warnings\": \"w\"}\n```"}
	a := New(stub, 5, time.Second)

	res, outcome := a.Recommend(context.Background(), "งบ 1,500 ครัว", rankedFixture())
	require.Equal(t, OutcomeAccepted, outcome)
	require.NotNil(t, res)
	assert.Equal(t, "S3", res.RecommendedStone)
	assert.Equal(t, "1200 - 2200 บาท/ตร.ม.", res.PriceRange)
	assert.Equal(t, 1, stub.calls)
}

func TestAsk_ParsedIsNotAccepted(t *testing.T) {
	// S9 is not a candidate; Ask only parses, so it must not claim acceptance.
	stub := &stubCompleter{answer: `{"recommended_stone": "S9", "reason": "r"}`}
	a := New(stub, 5, time.Second)

	s, outcome := a.Ask(context.Background(), "kitchen", rankedFixture())
	require.NotNil(t, s)
	assert.Equal(t, OutcomeParsed, outcome)
	assert.Equal(t, "S9", s.RecommendedStone)

	res, outcome := a.Recommend(context.Background(), "kitchen", rankedFixture())
	assert.Nil(t, res)
	assert.Equal(t, OutcomeRejected, outcome)
}

func TestAdvisor_PromptShowsOnlyTopN(t *testing.T) {
	stub := &stubCompleter{answer: `{}`}
	a := New(stub, 5, time.Second)
	_, _ = a.Recommend(context.Background(), "งบ 1,500 ครัว", rankedFixture())

	assert.Contains(t, stub.prompt, `"stone_name":"S5"`)
	assert.NotContains(t, stub.prompt, `"stone_name":"S6"`)
	assert.Contains(t, stub.prompt, "งบ 1,500 ครัว")
	assert.Contains(t, stub.prompt, `"recommended_stone"`)
}

func TestAdvisor_RejectsStoneOutsideShownSet(t *testing.T) {
	stub := &stubCompleter{answer: `{"recommended_stone": "S6"}`}
	a := New(stub, 5, time.Second)

	res, outcome := a.Recommend(context.Background(), "kitchen", rankedFixture())
	assert.Nil(t, res)
	assert.Equal(t, OutcomeRejected, outcome)
}

func TestAdvisor_AbsorbsFailures(t *testing.T) {
	tests := []struct {
		name    string
		stub    *stubCompleter
		outcome Outcome
	}{
		{"transport error", &stubCompleter{err: errors.New("connection refused")}, OutcomeError},
		{"prose only", &stubCompleter{answer: "I recommend S1."}, OutcomeUnparseable},
		{"missing key", &stubCompleter{answer: `{"reason": "no pick"}`}, OutcomeRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, outcome := New(tt.stub, 5, time.Second).Recommend(context.Background(), "kitchen", rankedFixture())
			assert.Nil(t, res)
			assert.Equal(t, tt.outcome, outcome)
		})
	}
}

func TestAdvisor_TimeoutBoundsSlowCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	a := New(NewGeminiClient("key", "gemini-2.0-flash", srv.URL, 0.2), 5, 50*time.Millisecond)
	start := time.Now()
	res, outcome := a.Recommend(context.Background(), "kitchen", rankedFixture())
	assert.Nil(t, res)
	assert.Equal(t, OutcomeError, outcome)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewGeminiClient_NilWithoutKey(t *testing.T) {
	assert.Nil(t, NewGeminiClient("", "m", "http://x", 0.2))
}

func TestGeminiClient_Generate(t *testing.T) {
	var gotKey, gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("x-goog-api-key"))
		gotPath.Store(r.URL.Path)

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Contents) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.GenerationConfig.Temperature != 0.2 || !strings.Contains(req.Contents[0].Parts[0].Text, "hello") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"recommended_stone\":"},{"text":"\"S1\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("secret", "gemini-2.0-flash", srv.URL+"/", 0.2)
	out, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"recommended_stone":"S1"}`, out)
	assert.Equal(t, "secret", gotKey.Load())
	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", gotPath.Load())
}

func fastRetries(c *GeminiClient) *GeminiClient {
	c.initialBackoff = time.Millisecond
	return c
}

func TestGeminiClient_Errors(t *testing.T) {
	t.Run("client error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "bad key", http.StatusForbidden)
		}))
		defer srv.Close()
		_, err := fastRetries(NewGeminiClient("k", "m", srv.URL, 0)).Generate(context.Background(), "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("throttling exhausts retries", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer srv.Close()
		_, err := fastRetries(NewGeminiClient("k", "m", srv.URL, 0)).Generate(context.Background(), "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
		assert.Equal(t, int32(maxRetries+1), calls.Load())
	})

	t.Run("no candidates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()
		_, err := NewGeminiClient("k", "m", srv.URL, 0).Generate(context.Background(), "p")
		require.Error(t, err)
	})
}

func TestGeminiClient_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	out, err := fastRetries(NewGeminiClient("k", "m", srv.URL, 0)).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), calls.Load())
}
