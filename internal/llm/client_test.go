package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/config"
)

func TestConfigured(t *testing.T) {
	var nilClient *Client
	assert.False(t, nilClient.Configured())

	assert.False(t, NewClient(&config.OpenAIConfig{}).Configured())
	assert.False(t, NewClient(&config.OpenAIConfig{Endpoint: "http://x", Deployment: "gpt"}).Configured())
	assert.True(t, NewClient(&config.OpenAIConfig{
		Endpoint: "http://x", Deployment: "gpt", APIKey: "k",
	}).Configured())
}

func TestChat(t *testing.T) {
	var gotPath, gotKey string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotKey = r.Header.Get("api-key")
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"title\":\"T\"}"}}]}`)
	}))
	defer srv.Close()

	c := NewClient(&config.OpenAIConfig{
		Endpoint:   srv.URL,
		Deployment: "gpt-4o",
		APIKey:     "k",
		APIVersion: "2023-12-01-preview",
	})

	content, err := c.Chat(context.Background(), []Message{
		{Role: "system", Content: "be terse"},
		{Role: "user", Content: "hello"},
	}, true)
	require.NoError(t, err)

	assert.Equal(t, `{"title":"T"}`, content)
	assert.Equal(t, "/openai/deployments/gpt-4o/chat/completions?api-version=2023-12-01-preview", gotPath)
	assert.Equal(t, "k", gotKey)

	var req map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &req))
	assert.Equal(t, map[string]any{"type": "json_object"}, req["response_format"])
}

func TestChatUnconfigured(t *testing.T) {
	_, err := NewClient(&config.OpenAIConfig{}).Chat(context.Background(), nil, false)
	assert.Error(t, err)
}

func TestChatErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limit"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(&config.OpenAIConfig{Endpoint: srv.URL, Deployment: "gpt", APIKey: "k"})

	_, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "x"}}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c := NewClient(&config.OpenAIConfig{Endpoint: srv.URL, Deployment: "gpt", APIKey: "k"})

	_, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "x"}}, false)
	assert.Error(t, err)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}
