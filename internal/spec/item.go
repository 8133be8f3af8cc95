// Package spec defines the inspection-checklist record type and the helpers
// that operate on checklists as a whole (validation, code mapping).
package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Item type markers. Qualitative items carry fixed pass/fail limits that the
// extraction pipeline must never rewrite.
const (
	TypeQuantitative = "定量"
	TypeQualitative  = "定性"
)

// Infinity is the sentinel used for unbounded upper limits. It passes through
// numeric post-processing untouched.
const Infinity = "∞"

// Item is one row of an inspection checklist. The JSON keys are the fixed
// Chinese wire schema used by upstream QMS clients; identity is Name, which
// is assumed unique within one document.
type Item struct {
	ProjectCode string `json:"项目代码,omitempty"`
	Name        string `json:"检验项目"`
	Type        string `json:"类型"`
	Upper       string `json:"上限"`
	Lower       string `json:"下限"`
	Unit        string `json:"单位"`
}

// Qualitative reports whether the item's limits are fixed pass/fail markers.
func (it Item) Qualitative() bool {
	return it.Type == TypeQualitative
}

// requiredKeys are the fields every inbound checklist entry must carry.
var requiredKeys = []string{"项目代码", "检验项目", "类型", "上限", "下限", "单位"}

// ParseChecklist decodes and validates an inbound dataList payload.
// Every entry must be an object carrying all six required keys; missing keys
// are reported with the 1-based entry position so the caller can surface a
// precise 400.
func ParseChecklist(data []byte) ([]Item, error) {
	var rawList []json.RawMessage
	if err := json.Unmarshal(data, &rawList); err != nil {
		return nil, fmt.Errorf("dataList must be a JSON array: %w", err)
	}

	items := make([]Item, 0, len(rawList))
	for i, raw := range rawList {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("entry %d must be an object: %w", i+1, err)
		}
		var missing []string
		for _, k := range requiredKeys {
			if _, ok := m[k]; !ok {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("entry %d missing required fields: %s", i+1, strings.Join(missing, ", "))
		}
		var it Item
		if err := json.Unmarshal(raw, &it); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// CodeMapping builds the name→code map used to back-fill project codes that
// the model drops from its response.
func CodeMapping(items []Item) map[string]string {
	m := make(map[string]string, len(items))
	for _, it := range items {
		if it.Name != "" && it.ProjectCode != "" {
			m[it.Name] = it.ProjectCode
		}
	}
	return m
}

// StripCodes returns a copy of the checklist with project codes removed.
// The code column is withheld from the model and restored afterwards.
func StripCodes(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		out[i].ProjectCode = ""
	}
	return out
}

// HasHaze reports whether any item name mentions 雾度. Its presence selects
// the CF-side prompt variant for polarizer documents.
func HasHaze(items []Item) bool {
	for _, it := range items {
		if strings.Contains(it.Name, "雾度") {
			return true
		}
	}
	return false
}

// MarshalList renders a checklist as UTF-8 JSON without HTML escaping, so
// the Chinese keys and comparison symbols survive verbatim in prompts and
// files.
func MarshalList(items []Item) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// exportKeys maps the Chinese wire keys to the English column names used by
// downstream exports.
var exportKeys = map[string]string{
	"项目代码": "pro_code",
	"检验项目": "pro_name",
	"类型":   "pro_type",
	"上限":   "pro_up",
	"下限":   "pro_down",
	"单位":   "pro_unit",
}

// TranslateKeys rewrites the Chinese keys of each record to their English
// equivalents; unknown keys pass through unchanged.
func TranslateKeys(records []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		translated := make(map[string]any, len(rec))
		for k, v := range rec {
			if ek, ok := exportKeys[k]; ok {
				translated[ek] = v
			} else {
				translated[k] = v
			}
		}
		out = append(out, translated)
	}
	return out
}
