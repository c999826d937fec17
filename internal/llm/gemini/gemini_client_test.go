package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerlens/internal/config"
	"ledgerlens/internal/llm"
	"ledgerlens/internal/llm/gemini"
	"ledgerlens/internal/port"
)

func newTestClient(serverURL string) *gemini.Client {
	cfg := &config.ParserProviderConfig{
		Provider:     "gemini",
		APIKey:       "test-gemini-key",
		DefaultModel: "gemini-2.0-flash",
		TimeoutSecs:  30,
	}
	return gemini.NewClientWithEndpoint(cfg, serverURL)
}

func successResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]interface{}{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGeminiClient_Generate_WithAttachment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		assert.Len(t, contents, 1)
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		assert.Len(t, parts, 2)

		inline := parts[0].(map[string]interface{})["inline_data"].(map[string]interface{})
		assert.Equal(t, "application/pdf", inline["mime_type"])
		assert.NotEmpty(t, inline["data"])
		assert.Equal(t, "extract please", parts[1].(map[string]interface{})["text"])

		genCfg := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genCfg["responseMimeType"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(successResponse(`{"invoices":[]}`))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Generate(context.Background(), port.GenerateInput{
		Prompt:     "extract please",
		Attachment: []byte("%PDF-1.4"),
		MimeType:   "application/pdf",
		JSONMode:   true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"invoices":[]}`, out.Text)
	assert.Equal(t, "gemini-2.0-flash", out.Model)
}

func TestGeminiClient_Generate_TextOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		parts := reqBody["contents"].([]interface{})[0].(map[string]interface{})["parts"].([]interface{})
		assert.Len(t, parts, 1)
		genCfg := reqBody["generationConfig"].(map[string]interface{})
		_, hasMime := genCfg["responseMimeType"]
		assert.False(t, hasMime)

		_ = json.NewEncoder(w).Encode(successResponse("plain answer"))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Generate(context.Background(), port.GenerateInput{Prompt: "fix this"})

	require.NoError(t, err)
	assert.Equal(t, "plain answer", out.Text)
}

func TestGeminiClient_Generate_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"quota"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), port.GenerateInput{Prompt: "p"})

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "gemini", rlErr.Provider)
	assert.Equal(t, 15.0, rlErr.RetryAfter.Seconds())
}

func TestGeminiClient_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), port.GenerateInput{Prompt: "p"})

	var statusErr *llm.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestGeminiClient_Generate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), port.GenerateInput{Prompt: "p"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiClient_Generate_UnsupportedAttachment(t *testing.T) {
	_, err := newTestClient("http://unused").Generate(context.Background(), port.GenerateInput{
		Prompt:     "p",
		Attachment: []byte("x"),
		MimeType:   "text/plain",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported attachment type")
}
