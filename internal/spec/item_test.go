package spec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materialqc/specsheet/internal/spec"
)

func TestParseChecklist(t *testing.T) {
	payload := `[{"项目代码":"P001","检验项目":"厚度","类型":"定量","上限":"","下限":"","单位":"mm"}]`

	items, err := spec.ParseChecklist([]byte(payload))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P001", items[0].ProjectCode)
	assert.Equal(t, "厚度", items[0].Name)
	assert.Equal(t, "mm", items[0].Unit)
	assert.False(t, items[0].Qualitative())
}

func TestParseChecklistRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not an array", `{"检验项目":"厚度"}`},
		{"entry not an object", `["厚度"]`},
		{"missing fields", `[{"检验项目":"厚度","类型":"定量"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := spec.ParseChecklist([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}

func TestCodeMappingAndStrip(t *testing.T) {
	items := []spec.Item{
		{ProjectCode: "P001", Name: "厚度"},
		{Name: "黏度"}, // no code, not mapped
	}

	m := spec.CodeMapping(items)
	assert.Equal(t, map[string]string{"厚度": "P001"}, m)

	stripped := spec.StripCodes(items)
	assert.Empty(t, stripped[0].ProjectCode)
	assert.Equal(t, "P001", items[0].ProjectCode, "input must not be mutated")
}

func TestHasHaze(t *testing.T) {
	assert.True(t, spec.HasHaze([]spec.Item{{Name: "雾度"}}))
	assert.True(t, spec.HasHaze([]spec.Item{{Name: "厚度"}, {Name: "全雾度值"}}))
	assert.False(t, spec.HasHaze([]spec.Item{{Name: "厚度"}}))
}

func TestMarshalListKeepsSymbols(t *testing.T) {
	b, err := spec.MarshalList([]spec.Item{{Name: "拉伸强度", Type: spec.TypeQuantitative, Upper: spec.Infinity, Lower: "50", Unit: "MPa"}})
	require.NoError(t, err)
	assert.Contains(t, string(b), "∞")
	assert.Contains(t, string(b), "检验项目")
	assert.NotContains(t, string(b), `\u`)
}

func TestTranslateKeys(t *testing.T) {
	out := spec.TranslateKeys([]map[string]any{
		{"项目代码": "P001", "检验项目": "厚度", "类型": "定量", "上限": "0.5", "下限": "0", "单位": "mm", "备注": "x"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "P001", out[0]["pro_code"])
	assert.Equal(t, "厚度", out[0]["pro_name"])
	assert.Equal(t, "0.5", out[0]["pro_up"])
	assert.Equal(t, "x", out[0]["备注"])
}
