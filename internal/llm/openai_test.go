package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T, status int, body any) (*httptest.Server, *map[string]any) {
	t.Helper()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func completion(content string) map[string]any {
	choices := []map[string]any{}
	if content != "-" {
		choices = append(choices, map[string]any{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		})
	}
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   DefaultModel,
		"choices": choices,
	}
}

func testRequest() Request {
	return Request{System: "sys", User: "hello", Temperature: 0.7, MaxTokens: 1024, TopP: 1}
}

func TestClient_Complete(t *testing.T) {
	srv, got := fakeAPI(t, http.StatusOK, completion("Hi there"))
	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})

	out, err := c.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Hi there", out)

	req := *got
	assert.Equal(t, DefaultModel, req["model"])
	assert.InDelta(t, 0.7, req["temperature"], 0.001)
	assert.EqualValues(t, 1024, req["max_tokens"])
	msgs := req["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "hello", msgs[1].(map[string]any)["content"])
}

func TestClient_UpstreamError(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusInternalServerError, map[string]any{
		"error": map[string]any{"message": "overloaded", "type": "server_error"},
	})
	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := c.Complete(context.Background(), testRequest())
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable), "got %v", err)
}

func TestClient_MalformedResponse(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusOK, completion("-"))
	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := c.Complete(context.Background(), testRequest())
	assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, DefaultModel, c.Model())
	_, err := c.Complete(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
