package llm

import (
	"context"

	"github.com/materialqc/specsheet/internal/spec"
)

// ExtractRequest carries everything the model needs to fill one checklist
// from one document.
type ExtractRequest struct {
	// FileName is the uploaded document's name; the prompt uses it to pick a
	// model variant when the sheet covers several.
	FileName string
	// Markdown is the compacted document content.
	Markdown string
	// Checklist is the target list with project codes already stripped.
	Checklist []spec.Item
	// CFSide selects the CF-side (上偏) polarizer instruction; it is set when
	// the checklist contains a haze item.
	CFSide bool
}

// ValueExtractor is the interface the pipeline depends on.
type ValueExtractor interface {
	ExtractValues(ctx context.Context, req ExtractRequest) ([]spec.Item, error)
}
