package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HK_API_URL", "http://llm.internal/v1/chat/completions")
	t.Setenv("X_AI_TOKEN", "tok")
	t.Setenv("X_USER_CODE", "u1")

	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":5001", cfg.Server.Addr)
	assert.Equal(t, "Qwen3-32B", cfg.LLM.Model)
	assert.Equal(t, 5*time.Minute, cfg.LLM.Timeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HK_API_URL", "http://llm.internal")
	t.Setenv("X_AI_TOKEN", "tok")
	t.Setenv("PORT", "8080")
	t.Setenv("LLM_MODEL", "Qwen3-72B")
	t.Setenv("LLM_TIMEOUT", "90s")

	cfg := LoadConfig()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "Qwen3-72B", cfg.LLM.Model)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
}

func TestValidateMissingURL(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Addr: ":5001"}, LLM: LLMConfig{Token: "tok"}}
	err := cfg.Validate()
	require.Error(t, err)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateMissingToken(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Addr: ":5001"}, LLM: LLMConfig{URL: "http://llm"}}
	assert.Error(t, cfg.Validate())
}
