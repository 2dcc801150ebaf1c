package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv makes sure no override from the developer's shell leaks in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GFM_API_BASE_URL", "VITE_API_BASE_URL", "GFM_REQUEST_TIMEOUT", "GFM_LOG_MODE",
		"GFM_LISTEN_ADDR", "GFM_LLM_BASE_URL", "GFM_LLM_MODEL", "GFM_LLM_API_KEY", "OPENAI_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestManager_LoadCreatesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	m := NewManager(dir)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout.Std())
	assert.Equal(t, "qwen3", cfg.LLMModel)
	assert.Len(t, cfg.AllowedOrigins, 4)

	assert.FileExists(t, filepath.Join(dir, DirName, "config.json"))
	assert.FileExists(t, filepath.Join(dir, DirName, ".gitignore"))

	data, err := os.ReadFile(filepath.Join(dir, DirName, "config.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"request_timeout": "2m0s"`)
}

func TestManager_LoadReadsFileAndExpandsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GFM_TEST_KEY", "sk-from-env")
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, DirName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DirName, "config.json"), []byte(`{
		"api_base_url": "http://gfm.internal:9000",
		"request_timeout": "45s",
		"llm_api_key": "${GFM_TEST_KEY}",
		"llm_model": "$UNSET_GFM_VAR"
	}`), 0o644))

	m := NewManager(dir)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "http://gfm.internal:9000", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout.Std())
	assert.Equal(t, "sk-from-env", cfg.LLMAPIKey)
	assert.Equal(t, "$UNSET_GFM_VAR", cfg.LLMModel)
	assert.Equal(t, 2048, cfg.MaxTokens, "fields missing from the file keep their defaults")
}

func TestManager_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("VITE_API_BASE_URL", "http://vite:8000")
	t.Setenv("GFM_REQUEST_TIMEOUT", "0")
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	m := NewManager(t.TempDir())
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "http://vite:8000", cfg.APIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout.Std())
	assert.Equal(t, "sk-openai", cfg.LLMAPIKey)

	t.Setenv("GFM_API_BASE_URL", "http://gfm:8000")
	require.NoError(t, m.Load())
	assert.Equal(t, "http://gfm:8000", m.Get().APIBaseURL)
}

func TestManager_InvalidTimeoutOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("GFM_REQUEST_TIMEOUT", "soon")

	err := NewManager(t.TempDir()).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GFM_REQUEST_TIMEOUT")
}

func TestManager_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GFM_DOTENV_ONLY_MODEL=llama-from-dotenv\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("GFM_DOTENV_ONLY_MODEL") })
	require.NoError(t, os.MkdirAll(filepath.Join(dir, DirName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DirName, "config.json"),
		[]byte(`{"llm_model": "${GFM_DOTENV_ONLY_MODEL}"}`), 0o644))

	m := NewManager(dir)
	require.NoError(t, m.Load())
	assert.Equal(t, "llama-from-dotenv", m.Get().LLMModel)
}

func TestManager_SetPersistsFileValuesOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("GFM_LLM_API_KEY", "sk-secret")
	dir := t.TempDir()

	m := NewManager(dir)
	require.NoError(t, m.Load())
	require.NoError(t, m.Set("request_timeout", "90s"))
	require.NoError(t, m.Set("max_tokens", "512"))

	assert.Equal(t, 90*time.Second, m.Get().RequestTimeout.Std())

	data, err := os.ReadFile(filepath.Join(dir, DirName, "config.json"))
	require.NoError(t, err)
	var onDisk map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "1m30s", onDisk["request_timeout"])
	assert.EqualValues(t, 512, onDisk["max_tokens"])
	assert.Equal(t, "", onDisk["llm_api_key"], "env overrides are not written back")
}

func TestManager_SetRejectsBadInput(t *testing.T) {
	clearEnv(t)
	m := NewManager(t.TempDir())
	require.NoError(t, m.Load())

	assert.Error(t, m.Set("nope", "x"))
	assert.Error(t, m.Set("request_timeout", "-5s"))
	assert.Error(t, m.Set("temperature", "warm"))
	assert.Error(t, m.Set("max_tokens", "many"))
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`"2m"`, 2 * time.Minute, false},
		{`""`, 0, false},
		{`30`, 30 * time.Second, false},
		{`"later"`, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Std())
		})
	}
}
