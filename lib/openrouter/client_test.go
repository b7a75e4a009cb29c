package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, reply string, calls *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++

		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		require.Equal(t, "user", req.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
	}))
}

func TestAsk(t *testing.T) {
	calls := 0
	server := chatServer(t, "  B|0.85|Hastings was 1066.\n", &calls)
	defer server.Close()

	client := NewClient(ClientOptions{
		BaseUrl: server.URL,
		ApiKey:  "test-key",
		Model:   "test/model",
	})

	reply, err := client.Ask(context.Background(), "Question: ...")
	require.NoError(t, err)
	require.Equal(t, "B|0.85|Hastings was 1066.", reply)
	require.Equal(t, 1, calls)
}

func TestAskStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL, ApiKey: "k", Model: "m"})

	_, err := client.Ask(context.Background(), "prompt")
	var statusErr StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	require.Contains(t, statusErr.Body, "rate limited")
}

func TestAskEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL, ApiKey: "k", Model: "m"})

	_, err := client.Ask(context.Background(), "prompt")
	require.Error(t, err)
}

func TestAskUsesCache(t *testing.T) {
	calls := 0
	server := chatServer(t, "A|0.9|cached", &calls)
	defer server.Close()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	defer db.Close()

	client := NewClient(ClientOptions{
		BaseUrl: server.URL,
		ApiKey:  "test-key",
		Model:   "test/model",
		Cache:   db,
	})

	ctx := context.Background()
	first, err := client.Ask(ctx, "same prompt")
	require.NoError(t, err)
	second, err := client.Ask(ctx, "same prompt")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}
