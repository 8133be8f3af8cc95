package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseFrame(content string) string {
	return fmt.Sprintf(`data: {"choices":[{"delta":{"content":%q}}]}`+"\n", content)
}

func TestStreamClientAccumulatesDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-ai-token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseFrame("[{'检验项目'"))
		fmt.Fprint(w, ": ping\n") // non-data noise, ignored
		fmt.Fprint(w, sseFrame(": '厚度'}]"))
		fmt.Fprint(w, "data: {not json}\n") // malformed frame, skipped
		fmt.Fprint(w, "data: [DONE]\n")
		fmt.Fprint(w, sseFrame("after done, never read"))
	}))
	defer srv.Close()

	c := NewStreamClient(srv.URL, map[string]string{"x-ai-token": "secret"}, time.Second, testLogger())
	got, err := c.Complete(context.Background(), map[string]any{"stream": true})
	require.NoError(t, err)
	assert.Equal(t, "[{'检验项目': '厚度'}]", got)
}

func TestStreamClientStopsAtConnectionClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseFrame("partial"))
		// no [DONE]; stream ends with the connection
	}))
	defer srv.Close()

	c := NewStreamClient(srv.URL, nil, time.Second, testLogger())
	got, err := c.Complete(context.Background(), struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "partial", got)
}

func TestStreamClientNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewStreamClient(srv.URL, nil, time.Second, testLogger())
	_, err := c.Complete(context.Background(), struct{}{})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "model overloaded")
}

func TestStreamClientContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := NewStreamClient(srv.URL, nil, time.Second, testLogger())
	_, err := c.Complete(ctx, struct{}{})
	assert.Error(t, err)
}
