package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// doneSentinel terminates an SSE stream ahead of connection close.
const doneSentinel = "[DONE]"

// StatusError reports a non-2xx response from the inference endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inference endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// StreamClient posts chat-completion payloads and accumulates the streamed
// server-sent-event deltas into a complete response string.
type StreamClient struct {
	url        string
	headers    map[string]string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewStreamClient builds a client for one endpoint. Headers are sent on
// every request (auth tokens live here).
func NewStreamClient(url string, headers map[string]string, timeout time.Duration, logger *slog.Logger) *StreamClient {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamClient{
		url:        url,
		headers:    headers,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// chunk is the conventional chat-completion stream frame.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Complete posts the payload and reads the stream to completion, returning
// the concatenated content deltas. Malformed frames are skipped with a
// warning; a non-2xx status aborts with a *StatusError.
func (c *StreamClient) Complete(ctx context.Context, payload any) (string, error) {
	start := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post stream: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("llm.sse.body_close_error", "error", cerr)
		}
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(resp.Body)
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var full strings.Builder
	frames, skipped := 0, 0

	sc := bufio.NewScanner(resp.Body)
	// Frames carrying table-heavy deltas can exceed the 64K scanner default.
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == doneSentinel {
			break
		}
		var ck chunk
		if err := json.Unmarshal([]byte(data), &ck); err != nil {
			skipped++
			c.logger.Warn("llm.sse.frame_skip", "error", err, "frame_bytes", len(data))
			continue
		}
		frames++
		if len(ck.Choices) > 0 {
			full.WriteString(ck.Choices[0].Delta.Content)
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}

	c.logger.Info("llm.sse.done",
		"frames", frames,
		"skipped", skipped,
		"content_bytes", full.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return full.String(), nil
}
