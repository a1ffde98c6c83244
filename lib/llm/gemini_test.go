package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// geminiServer answers generateContent calls with the given candidates.
func geminiServer(t *testing.T, status int, payload any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(body), "suggest movies")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func candidate(texts ...string) map[string]any {
	parts := make([]map[string]any, len(texts))
	for i, text := range texts {
		parts[i] = map[string]any{"text": text}
	}
	return map[string]any{"content": map[string]any{"role": "model", "parts": parts}}
}

func newTestGemini(t *testing.T, srv *httptest.Server) *Gemini {
	t.Helper()
	gen, err := NewGemini(context.Background(), "test-key", "gemini-test", srv.URL, srv.Client())
	require.NoError(t, err)
	return gen
}

func TestGeminiGenerateText(t *testing.T) {
	srv := geminiServer(t, http.StatusOK, map[string]any{
		"candidates": []any{
			candidate("Inception, ", "Up"),
			candidate("ignored"),
		},
	})

	out, err := newTestGemini(t, srv).GenerateText(context.Background(), "suggest movies")
	require.NoError(t, err)
	assert.Equal(t, "Inception, Up", out)
}

func TestGeminiEmptyResponse(t *testing.T) {
	tests := map[string]any{
		"blank text":    map[string]any{"candidates": []any{candidate("  ", "\n")}},
		"no candidates": map[string]any{"candidates": []any{}},
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			srv := geminiServer(t, http.StatusOK, payload)
			_, err := newTestGemini(t, srv).GenerateText(context.Background(), "suggest movies")
			assert.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestGeminiUpstreamError(t *testing.T) {
	srv := geminiServer(t, http.StatusBadRequest, map[string]any{
		"error": map[string]any{"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"},
	})

	_, err := newTestGemini(t, srv).GenerateText(context.Background(), "suggest movies")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyResponse)
}
