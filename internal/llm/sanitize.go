package llm

import (
	"strconv"
	"strings"

	"github.com/materialqc/specsheet/internal/spec"
)

// CoerceRecords turns generic decoded records into checklist items. Number
// values become their minimal string rendering (the model sometimes emits
// bare numerics for limits), nulls become empty strings, and string values
// are trimmed.
func CoerceRecords(records []map[string]any) []spec.Item {
	items := make([]spec.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, spec.Item{
			ProjectCode: coerceString(rec["项目代码"]),
			Name:        coerceString(rec["检验项目"]),
			Type:        coerceString(rec["类型"]),
			Upper:       coerceString(rec["上限"]),
			Lower:       coerceString(rec["下限"]),
			Unit:        coerceString(rec["单位"]),
		})
	}
	return items
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
