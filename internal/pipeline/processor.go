// Package pipeline coordinates the stages of a spec-sheet extraction:
// document conversion, markdown compaction, LLM value extraction, and
// post-processing.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/materialqc/specsheet/internal/compact"
	"github.com/materialqc/specsheet/internal/llm"
	"github.com/materialqc/specsheet/internal/postprocess"
	"github.com/materialqc/specsheet/internal/spec"
)

// DocumentConverter turns a PDF into markdown. Returns the markdown and the
// number of pages converted.
type DocumentConverter interface {
	Convert(ctx context.Context, pdf []byte) (string, int, error)
}

// Processor coordinates convert then compact then extract then post-process.
type Processor struct {
	Logger    *slog.Logger
	Converter DocumentConverter
	Extractor llm.ValueExtractor
}

func NewProcessor(logger *slog.Logger, conv DocumentConverter, extractor llm.ValueExtractor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Converter: conv, Extractor: extractor}
}

// Process runs the full extraction for one spec sheet. The checklist's
// project codes are held back from the model and restored on its output.
func (p *Processor) Process(ctx context.Context, fileName string, pdf []byte, checklist []spec.Item) ([]spec.Item, error) {
	rid := uuid.NewString()
	start := time.Now()

	codes := spec.CodeMapping(checklist)
	stripped := spec.StripCodes(checklist)

	markdown, pages, err := p.Converter.Convert(ctx, pdf)
	if err != nil {
		p.Logger.Error("pipeline.convert.failed", "req_id", rid, "file_name", fileName, "err", err)
		return nil, err
	}

	compacted := compact.Markdown(markdown)
	p.Logger.Info("pipeline.convert.ok",
		"req_id", rid,
		"file_name", fileName,
		"pages", pages,
		"markdown_bytes", len(markdown),
		"compacted_bytes", len(compacted),
	)

	items, err := p.Extractor.ExtractValues(ctx, llm.ExtractRequest{
		FileName:  fileName,
		Markdown:  compacted,
		Checklist: stripped,
		CFSide:    spec.HasHaze(checklist),
	})
	if err != nil {
		p.Logger.Error("pipeline.extract.failed", "req_id", rid, "file_name", fileName, "err", err)
		return nil, err
	}

	items = postprocess.BackfillCodes(items, codes)
	items = postprocess.NormalizeLargeNumbers(items)

	p.Logger.Info("pipeline.extract.ok",
		"req_id", rid,
		"file_name", fileName,
		"items", len(items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return items, nil
}

// ConvertMarkdown runs only the conversion stage and returns the raw
// markdown, before compaction. Used to inspect conversion output.
func (p *Processor) ConvertMarkdown(ctx context.Context, fileName string, pdf []byte) (string, error) {
	markdown, pages, err := p.Converter.Convert(ctx, pdf)
	if err != nil {
		p.Logger.Error("pipeline.convert.failed", "file_name", fileName, "err", err)
		return "", err
	}
	p.Logger.Info("pipeline.convert.ok",
		"file_name", fileName,
		"pages", pages,
		"markdown_bytes", len(markdown),
	)
	return markdown, nil
}
