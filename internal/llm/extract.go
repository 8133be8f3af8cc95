package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Typed extraction failures, so callers can tell "model returned no list"
// from "list was malformed" from transport errors.
var (
	ErrNoList = errors.New("no bracketed list in model response")
	ErrParse  = errors.New("model response list is malformed")
)

var (
	reThinkBlock  = regexp.MustCompile(`(?s)<think>.*?</think>`)
	reThinkOrphan = regexp.MustCompile(`</?think>`)
)

// StripReasoning removes reasoning segments and any orphaned reasoning tags
// from the accumulated response.
func StripReasoning(s string) string {
	s = reThinkBlock.ReplaceAllString(s, "")
	return reThinkOrphan.ReplaceAllString(s, "")
}

// OutermostList isolates the first top-level [...] region, tracking nesting
// depth so inner lists stay inside.
func OutermostList(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	var quote byte
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == quote {
				inString = false
			}
			continue
		}
		switch c {
		case '\'', '"':
			inString = true
			quote = c
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// DecodeRecords parses the accumulated raw model output into generic
// records: reasoning stripped, outermost list isolated, newlines removed,
// then parsed as JSON or as a Python-style list literal.
func DecodeRecords(full string) ([]map[string]any, error) {
	cleaned := StripReasoning(full)
	list, ok := OutermostList(cleaned)
	if !ok {
		return nil, ErrNoList
	}
	list = strings.ReplaceAll(list, "\n", "")

	var records []map[string]any
	if err := json.Unmarshal([]byte(list), &records); err == nil {
		return records, nil
	}
	// Models trained on Python emit single-quoted dict literals.
	if err := json.Unmarshal([]byte(pythonLiteralToJSON(list)), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return records, nil
}

// pythonLiteralToJSON rewrites a Python list/dict literal into JSON: single
// quoted strings become double quoted (escapes adjusted), and the bare
// constants None/True/False become their JSON spellings.
func pythonLiteralToJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\'':
			b.WriteByte('"')
			i++
			for i < len(s) {
				if s[i] == '\\' && i+1 < len(s) {
					if s[i+1] == '\'' {
						b.WriteByte('\'') // \' has no meaning in JSON
					} else {
						b.WriteByte(s[i])
						b.WriteByte(s[i+1])
					}
					i += 2
					continue
				}
				if s[i] == '\'' {
					break
				}
				if s[i] == '"' {
					b.WriteString(`\"`)
				} else {
					b.WriteByte(s[i])
				}
				i++
			}
			b.WriteByte('"')
		case '"':
			b.WriteByte('"')
			i++
			for i < len(s) {
				if s[i] == '\\' && i+1 < len(s) {
					b.WriteByte(s[i])
					b.WriteByte(s[i+1])
					i += 2
					continue
				}
				if s[i] == '"' {
					break
				}
				b.WriteByte(s[i])
				i++
			}
			b.WriteByte('"')
		default:
			if rest := s[i:]; strings.HasPrefix(rest, "None") {
				b.WriteString("null")
				i += 3
			} else if strings.HasPrefix(rest, "True") {
				b.WriteString("true")
				i += 3
			} else if strings.HasPrefix(rest, "False") {
				b.WriteString("false")
				i += 4
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}
