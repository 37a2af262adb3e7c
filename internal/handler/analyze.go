package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/coding-mentor/internal/analyzer"
	"github.com/sakif/coding-mentor/internal/apperror"
	"github.com/sakif/coding-mentor/internal/executor"
)

// AnalyzeHandler runs static analysis on Python source.
type AnalyzeHandler struct {
	analyzer      analyzer.Analyzer
	maxCodeLength int
	logger        *slog.Logger
}

func NewAnalyzeHandler(an analyzer.Analyzer, maxCodeLength int, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: an, maxCodeLength: maxCodeLength, logger: logger}
}

type analyzeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid analysis request body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if err := checkCode(req.Code, h.maxCodeLength); err != nil {
		writeError(w, err)
		return
	}
	lang, err := parseLanguage(req.Language, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	if lang != executor.Python {
		writeError(w, apperror.Unsupported("language",
			fmt.Sprintf("static analysis is only available for python, not %s", lang)))
		return
	}

	result := h.analyzer.Analyze(r.Context(), req.Code)
	h.logger.Info("analysis finished",
		slog.Int("issues", len(result.LintIssues)),
		slog.Bool("degraded", result.Degraded()),
		slog.Duration("duration", result.Duration),
	)
	writeJSON(w, http.StatusOK, result)
}
