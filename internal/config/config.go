// Package config resolves the application's configuration once at start-up.
//
// Values come from three layers, later ones winning:
//
//	built-in defaults → toolchain YAML file (TOOLCHAIN_FILE) → environment
//
// The .env file is loaded into the environment by main before Load runs.
// Nothing below main reads the environment; components receive the values
// they need through their constructors.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sakif/coding-mentor/internal/analyzer"
	"github.com/sakif/coding-mentor/internal/executor/local"
	"github.com/sakif/coding-mentor/internal/mentor"
)

const (
	defaultPort          = 8080
	defaultDBPath        = "data/mentor.db"
	defaultMaxCodeLength = 10000
	defaultModel         = "gpt-4o-mini"
)

// Config is the resolved application configuration.
type Config struct {
	Port     int
	DBPath   string
	LogLevel slog.Level
	// MaxCodeLength bounds submitted source, in bytes.
	MaxCodeLength int
	// TempDir is the root of per-request workspaces. Empty means os.TempDir().
	TempDir           string
	AnalysisCacheSize int
	ToolchainFile     string

	Execution local.Config
	Analysis  analyzer.Config
	Mentor    mentor.Config
}

// Toolchain is the layout of the YAML toolchain file.
type Toolchain struct {
	Execution local.Config    `yaml:"execution"`
	Analysis  analyzer.Config `yaml:"analysis"`
}

// Load builds a Config from defaults, the optional toolchain file and the
// variables visible through getenv.
func Load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:              defaultPort,
		DBPath:            defaultDBPath,
		LogLevel:          slog.LevelInfo,
		MaxCodeLength:     defaultMaxCodeLength,
		AnalysisCacheSize: analyzer.DefaultCacheSize,
		Execution:         local.DefaultConfig(),
		Analysis:          analyzer.DefaultConfig(),
		Mentor:            mentor.Config{Model: defaultModel},
	}

	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	if path := env("TOOLCHAIN_FILE"); path != "" {
		tc, err := LoadToolchain(path)
		if err != nil {
			return nil, err
		}
		cfg.ToolchainFile = path
		cfg.Execution = cfg.Execution.Merge(tc.Execution)
		cfg.Analysis = cfg.Analysis.Merge(tc.Analysis)
	}

	var err error
	if cfg.Port, err = intVar(env, "PORT", cfg.Port); err != nil {
		return nil, err
	}
	if cfg.MaxCodeLength, err = intVar(env, "MAX_CODE_LENGTH", cfg.MaxCodeLength); err != nil {
		return nil, err
	}
	if cfg.AnalysisCacheSize, err = intVar(env, "ANALYSIS_CACHE_SIZE", cfg.AnalysisCacheSize); err != nil {
		return nil, err
	}
	if cfg.Execution.Timeout, err = durationVar(env, "EXEC_TIMEOUT", cfg.Execution.Timeout); err != nil {
		return nil, err
	}
	if cfg.Analysis.Timeout, err = durationVar(env, "ANALYSIS_TIMEOUT", cfg.Analysis.Timeout); err != nil {
		return nil, err
	}
	if v := env("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("config: invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	if v := env("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	cfg.TempDir = env("TEMP_DIR")

	cfg.Mentor.APIKey = env("OPENAI_API_KEY")
	cfg.Mentor.BaseURL = env("OPENAI_BASE_URL")
	cfg.Mentor.Organization = env("OPENAI_ORG_ID")
	if v := env("OPENAI_MODEL"); v != "" {
		cfg.Mentor.Model = v
	}

	return cfg, nil
}

// LoadToolchain reads a toolchain YAML file.
func LoadToolchain(path string) (*Toolchain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading toolchain file: %w", err)
	}
	var tc Toolchain
	if err := yaml.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("config: parsing toolchain file %s: %w", path, err)
	}
	return &tc, nil
}

func intVar(env func(string) string, key string, def int) (int, error) {
	v := env(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: invalid %s %q: want a positive integer", key, v)
	}
	return n, nil
}

// durationVar accepts Go durations ("10s", "1m") or a bare number of seconds.
func durationVar(env func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := env(key)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: invalid %s %q: want a positive duration", key, v)
	}
	return d, nil
}
