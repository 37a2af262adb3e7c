package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/coding-mentor/internal/executor"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/mentor.db", cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 10000, cfg.MaxCodeLength)
	assert.Equal(t, 10*time.Second, cfg.Execution.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, "gpt-4o-mini", cfg.Mentor.Model)
	assert.False(t, cfg.Mentor.Enabled())
	assert.Equal(t, "python3 {src}", cfg.Execution.Languages[executor.Python].Run)
}

func TestLoad_Environment(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{
		"PORT":                "9090",
		"DB_PATH":             "/var/lib/mentor.db",
		"LOG_LEVEL":           "debug",
		"MAX_CODE_LENGTH":     "500",
		"TEMP_DIR":            "/scratch",
		"EXEC_TIMEOUT":        "5",
		"ANALYSIS_TIMEOUT":    "1m",
		"ANALYSIS_CACHE_SIZE": "16",
		"OPENAI_API_KEY":      " sk-test ",
		"OPENAI_MODEL":        "gpt-4o",
		"OPENAI_BASE_URL":     "http://localhost:11434/v1/",
		"OPENAI_ORG_ID":       "org-1",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/var/lib/mentor.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 500, cfg.MaxCodeLength)
	assert.Equal(t, "/scratch", cfg.TempDir)
	assert.Equal(t, 5*time.Second, cfg.Execution.Timeout)
	assert.Equal(t, time.Minute, cfg.Analysis.Timeout)
	assert.Equal(t, 16, cfg.AnalysisCacheSize)
	assert.Equal(t, "sk-test", cfg.Mentor.APIKey)
	assert.True(t, cfg.Mentor.Enabled())
	assert.Equal(t, "gpt-4o", cfg.Mentor.Model)
	assert.Equal(t, "http://localhost:11434/v1/", cfg.Mentor.BaseURL)
	assert.Equal(t, "org-1", cfg.Mentor.Organization)
}

func TestLoad_InvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"PORT":            "eighty",
		"MAX_CODE_LENGTH": "-1",
		"EXEC_TIMEOUT":    "soon",
		"LOG_LEVEL":       "chatty",
		"TOOLCHAIN_FILE":  "/does/not/exist.yaml",
	} {
		t.Run(key, func(t *testing.T) {
			_, err := Load(envMap(map[string]string{key: value}))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ToolchainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolchain.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
execution:
  timeout: 20s
  env:
    EXTRA: "1"
  languages:
    python:
      run: python3 -I {src}
    ruby:
      sourceFile: main.rb
      run: ruby {src}
analysis:
  timeout: 45s
  tools:
    lint: ruff check --output-format=json {src}
`), 0o644))

	cfg, err := Load(envMap(map[string]string{
		"TOOLCHAIN_FILE": path,
		"EXEC_TIMEOUT":   "7s",
	}))
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ToolchainFile)
	// The environment wins over the file.
	assert.Equal(t, 7*time.Second, cfg.Execution.Timeout)
	assert.Equal(t, 45*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, "1", cfg.Execution.Env["EXTRA"])
	assert.Equal(t, "utf-8", cfg.Execution.Env["PYTHONIOENCODING"])

	py := cfg.Execution.Languages[executor.Python]
	assert.Equal(t, "python3 -I {src}", py.Run)
	assert.Equal(t, "main.py", py.SourceFile)
	assert.Equal(t, "ruby {src}", cfg.Execution.Languages["ruby"].Run)

	assert.Equal(t, "ruff check --output-format=json {src}", cfg.Analysis.Tools.Lint)
	assert.Equal(t, "black -q -", cfg.Analysis.Tools.Format)
}

func TestLoadToolchain_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("execution: [not, a, map"), 0o644))

	_, err := LoadToolchain(path)
	assert.Error(t, err)
}
