// Command server runs the coding mentor HTTP API.
//
// Configuration comes from the environment (optionally seeded from a .env
// file) and an optional toolchain YAML file; see internal/config.
package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sakif/coding-mentor/internal/analyzer"
	"github.com/sakif/coding-mentor/internal/artifact"
	"github.com/sakif/coding-mentor/internal/config"
	"github.com/sakif/coding-mentor/internal/executor/local"
	"github.com/sakif/coding-mentor/internal/mentor"
	"github.com/sakif/coding-mentor/internal/process"
	"github.com/sakif/coding-mentor/internal/repository/sqlite"
	"github.com/sakif/coding-mentor/internal/server"
)

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env", slog.String("error", err.Error()))
	}

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The child-process environment is captured once, here.
	runner := process.NewOSRunner(os.Environ(), logger)
	artifacts := artifact.NewAllocator(cfg.TempDir)

	engine := local.New(cfg.Execution, runner, artifacts, logger)
	pipeline := analyzer.New(cfg.Analysis, runner, artifacts, logger)
	cached, err := analyzer.NewCache(pipeline, cfg.AnalysisCacheSize, logger)
	if err != nil {
		logger.Error("failed to create analysis cache", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var completer mentor.Completer
	if cfg.Mentor.Enabled() {
		completer = mentor.NewOpenAICompleter(cfg.Mentor, logger)
		logger.Info("language model enabled", slog.String("model", cfg.Mentor.Model))
	} else {
		logger.Warn("OPENAI_API_KEY not set, mentor answers will be offline")
	}

	srv, err := server.New(server.Config{
		Port:            cfg.Port,
		MaxCodeLength:   cfg.MaxCodeLength,
		ExecTimeout:     cfg.Execution.Timeout,
		AnalysisTimeout: cfg.Analysis.Timeout,
	}, server.Dependencies{
		Engine:   engine,
		Analyzer: cached,
		Tools:    pipeline,
		Mentor:   mentor.NewService(completer, cached, logger),
		DB:       db,
	}, logger)
	if err != nil {
		db.Close()
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
