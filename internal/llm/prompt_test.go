package llm

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materialqc/specsheet/internal/spec"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildPromptEmbedsDocumentAndChecklist(t *testing.T) {
	req := ExtractRequest{
		FileName: "偏光片 23.8 TFT.pdf",
		Markdown: "|检验项目|规格|\n|---|---|\n|厚度|≤0.5mm|",
		Checklist: []spec.Item{
			{Name: "厚度", Type: spec.TypeQuantitative, Unit: "mm"},
		},
	}

	prompt, err := BuildPrompt(req)
	require.NoError(t, err)

	assert.Contains(t, prompt, req.Markdown)
	assert.Contains(t, prompt, `"检验项目":"厚度"`)
	assert.Contains(t, prompt, "偏光片 23.8 TFT.pdf")
	assert.Contains(t, prompt, "厚度 ≤ 0.5 mm → 上限0.5，下限0")
	// rendered format verbs must not leak
	assert.NotContains(t, prompt, "%s")
	assert.NotContains(t, prompt, "%!")
}

func TestBuildPromptSideSelection(t *testing.T) {
	req := ExtractRequest{Checklist: []spec.Item{{Name: "雾度", Type: spec.TypeQuantitative}}}

	req.CFSide = true
	cf, err := BuildPrompt(req)
	require.NoError(t, err)
	assert.Contains(t, cf, "CF侧")
	assert.NotContains(t, cf, "TFT侧（下偏")

	req.CFSide = false
	tft, err := BuildPrompt(req)
	require.NoError(t, err)
	assert.Contains(t, tft, "TFT侧")
}
