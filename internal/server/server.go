// Package server wires handlers to routes and runs the HTTP server with
// graceful shutdown.
//
// The composition root is cmd/server: it builds the engine, analyzer, mentor
// and database and passes them in through Dependencies. New only assembles
// the HTTP layer on top.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/coding-mentor/internal/analyzer"
	"github.com/sakif/coding-mentor/internal/executor"
	"github.com/sakif/coding-mentor/internal/handler"
	"github.com/sakif/coding-mentor/internal/middleware"
	"github.com/sakif/coding-mentor/internal/repository/sqlite"
	"github.com/sakif/coding-mentor/internal/service"
)

const shutdownTimeout = 30 * time.Second

type Config struct {
	Port          int
	MaxCodeLength int
	// ExecTimeout and AnalysisTimeout bound single tool runs. The HTTP write
	// timeout is derived from them so slow requests are not cut off.
	ExecTimeout     time.Duration
	AnalysisTimeout time.Duration
}

// Engine is the execution backend the server needs.
type Engine interface {
	executor.Executor
	handler.RuntimeChecker
}

type Dependencies struct {
	Engine   Engine
	Analyzer analyzer.Analyzer
	Tools    handler.ToolChecker
	Mentor   handler.Mentor
	DB       *sqlite.DB
}

// Server owns the router and the database; Start closes the database on
// shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqlite.DB
}

func New(cfg Config, deps Dependencies, logger *slog.Logger) (*Server, error) {
	if deps.Engine == nil || deps.Analyzer == nil || deps.Mentor == nil || deps.DB == nil {
		return nil, errors.New("server: engine, analyzer, mentor and database are required")
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     deps.DB,
	}
	s.setupRoutes(deps)
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes registers:
//
//	POST   /api/execute
//	POST   /api/analyze
//	POST   /api/mentor
//	GET    /api/tools
//	GET    /api/languages
//	GET    /api/reports
//	POST   /api/reports
//	GET    /api/reports/{id}
//	DELETE /api/reports/{id}
//	GET    /healthz
func (s *Server) setupRoutes(deps Dependencies) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	executeHandler := handler.NewExecuteHandler(deps.Engine, deps.Engine.Languages(), s.config.MaxCodeLength, s.logger)
	analyzeHandler := handler.NewAnalyzeHandler(deps.Analyzer, s.config.MaxCodeLength, s.logger)
	mentorHandler := handler.NewMentorHandler(deps.Mentor, s.config.MaxCodeLength, s.logger)
	toolsHandler := handler.NewToolsHandler(deps.Engine, deps.Tools)

	reportService := service.NewReportService(s.db, s.config.MaxCodeLength, s.logger)
	reportHandler := handler.NewReportHandler(reportService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/execute", executeHandler.HandleExecute)
		r.Post("/analyze", analyzeHandler.HandleAnalyze)
		r.Post("/mentor", mentorHandler.HandleMentor)
		r.Get("/tools", toolsHandler.HandleTools)
		r.Get("/languages", toolsHandler.HandleLanguages)

		r.Get("/reports", reportHandler.HandleList)
		r.Post("/reports", reportHandler.HandleCreate)
		r.Get("/reports/{id}", reportHandler.HandleGetByID)
		r.Delete("/reports/{id}", reportHandler.HandleDelete)
	})
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for up
// to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.writeTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}

// writeTimeout covers a compile plus a run, or the six tool runs of one
// analysis, with slack for encoding the response.
func (s *Server) writeTimeout() time.Duration {
	const slack = 15 * time.Second
	return max(slack, 2*s.config.ExecTimeout+slack, 6*s.config.AnalysisTimeout+slack)
}
