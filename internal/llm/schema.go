package llm

// BuildItemListSchema returns a JSON-Schema (draft 2020-12 subset) for the
// coerced result list, used to validate the model's output locally before it
// reaches callers.
func BuildItemListSchema() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"项目代码": map[string]any{"type": "string"},
			"检验项目": map[string]any{"type": "string", "minLength": 1},
			"类型":   map[string]any{"type": "string", "enum": []string{"定量", "定性"}},
			"上限":   map[string]any{"type": "string"},
			"下限":   map[string]any{"type": "string"},
			"单位":   map[string]any{"type": "string"},
		},
		"required": []string{"检验项目", "类型", "上限", "下限", "单位"},
	}
	return map[string]any{
		"type":  "array",
		"items": item,
	}
}
