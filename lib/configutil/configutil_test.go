package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	QuizUrl string `json:"quiz_url"`
	Model   string `json:"model"`
	ApiKey  string `json:"api_key"`
}

func TestReadConfigMergesLocalOverrides(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "config.json5")

	err := os.WriteFile(base, []byte(`{
		// base config checked into the repo
		quiz_url: "https://example.com/quiz/1",
		model: "some/model",
	}`), 0o644)
	require.NoError(t, err)

	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		api_key: "sk-local-secret",
	}`), 0o644)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](base)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/quiz/1", cfg.QuizUrl)
	require.Equal(t, "some/model", cfg.Model)
	require.Equal(t, "sk-local-secret", cfg.ApiKey)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}
