package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/materialqc/specsheet/internal/spec"
)

// Config for the inference client. Token and UserCode are forwarded as the
// x-ai-token / x-user-code headers the gateway expects.
type Config struct {
	URL      string
	Token    string
	UserCode string
	Model    string        // e.g. "Qwen3-32B"
	Timeout  time.Duration // whole-stream budget
}

// Client implements ValueExtractor against a streaming chat-completion
// endpoint.
type Client struct {
	cfg    Config
	stream *StreamClient
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "Qwen3-32B"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	headers := map[string]string{
		"x-ai-token":  cfg.Token,
		"x-user-code": cfg.UserCode,
	}
	return &Client{
		cfg:    cfg,
		stream: NewStreamClient(cfg.URL, headers, cfg.Timeout, logger),
		logger: logger,
	}
}

// ExtractValues assembles the prompt, streams the completion, and decodes
// the response into checklist items validated against the result schema.
func (c *Client) ExtractValues(ctx context.Context, req ExtractRequest) ([]spec.Item, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"file", req.FileName,
		"markdown_bytes", len(req.Markdown),
		"checklist_items", len(req.Checklist),
		"cf_side", req.CFSide,
	)

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"model":  c.cfg.Model,
		"stream": true,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	full, err := c.stream.Complete(ctx, payload)
	if err != nil {
		c.logger.Error("llm.extract.stream_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	records, err := DecodeRecords(full)
	if err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "content_bytes", len(full),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	items := CoerceRecords(records)
	marshaled, err := spec.MarshalList(items)
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	if err := ValidateAgainstSchema(BuildItemListSchema(), marshaled); err != nil {
		c.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"items", len(items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return items, nil
}
