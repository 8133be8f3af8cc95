// Package tokens estimates prompt cost: total token counts and a per-section
// breakdown of markdown documents.
package tokens

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// CountFunc counts tokens in a text. Injectable so section analysis can be
// tested without an encoder.
type CountFunc func(text string) (int, error)

// NewTiktokenCounter returns a counter for the model's encoding, falling
// back to cl100k_base for unknown models.
func NewTiktokenCounter(model string) (CountFunc, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("load encoding: %w", err)
		}
	}
	return func(text string) (int, error) {
		return len(enc.Encode(text, nil, nil)), nil
	}, nil
}

// Section is one heading-delimited region of a markdown document.
type Section struct {
	Title   string
	Level   int
	Tokens  int
	Preview string
}

var reHeading = regexp.MustCompile(`^(#+)\s+(.+)$`)

const previewLen = 100

// AnalyzeSections splits markdown on heading lines and reports each
// section's token usage. Content before the first heading is not counted as
// a section, matching how spec sheets front-load boilerplate.
func AnalyzeSections(md string, count CountFunc) ([]Section, error) {
	var sections []Section
	var current []string
	var title string
	var level int

	flush := func() error {
		if len(current) == 0 || title == "" {
			return nil
		}
		content := strings.Join(current, "\n")
		n, err := count(content)
		if err != nil {
			return err
		}
		sections = append(sections, Section{
			Title:   title,
			Level:   level,
			Tokens:  n,
			Preview: preview(content),
		})
		return nil
	}

	for _, line := range strings.Split(md, "\n") {
		if m := reHeading.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if err := flush(); err != nil {
				return nil, err
			}
			title = strings.TrimSpace(m[2])
			level = len(m[1])
			current = []string{line}
			continue
		}
		if strings.TrimSpace(line) != "" || len(current) > 0 {
			current = append(current, line)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return sections, nil
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLen {
		return content
	}
	return string(runes[:previewLen]) + "..."
}
