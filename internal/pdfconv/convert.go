// Package pdfconv turns supplier PDF bytes into a markdown representation of
// the document (headings and tables preserved as HTML for later compaction).
package pdfconv

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/gen2brain/go-fitz"
)

// reInlineImage matches base64 images the HTML renderer embeds per page.
// They carry no text and dominate the byte count, so they go first.
var reInlineImage = regexp.MustCompile(`!\[\]\(data:image/[^)]+\)`)

// Converter renders PDF pages to HTML and converts the HTML to markdown.
type Converter struct {
	logger *slog.Logger
}

func NewConverter(logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{logger: logger}
}

// Convert parses one PDF into a single markdown blob and reports the page
// count. The context is checked between pages so a cancelled request does
// not keep rendering a large document.
func (c *Converter) Convert(ctx context.Context, pdfBytes []byte) (string, int, error) {
	start := time.Now()

	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			c.logger.Warn("pdfconv.close_error", "error", cerr)
		}
	}()

	converter := md.NewConverter("", true, nil)
	pages := doc.NumPage()

	var b strings.Builder
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", pages, err
		}
		html, err := doc.HTML(i, true)
		if err != nil {
			return "", pages, fmt.Errorf("render page %d: %w", i+1, err)
		}
		text, err := converter.ConvertString(html)
		if err != nil {
			return "", pages, fmt.Errorf("convert page %d: %w", i+1, err)
		}
		b.WriteString(StripInlineImages(text))
		b.WriteString("\n\n")
	}

	c.logger.Info("pdfconv.ok",
		"pages", pages,
		"pdf_bytes", len(pdfBytes),
		"markdown_bytes", b.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b.String(), pages, nil
}

// StripInlineImages removes embedded base64 image references.
func StripInlineImages(content string) string {
	return reInlineImage.ReplaceAllString(content, "")
}
