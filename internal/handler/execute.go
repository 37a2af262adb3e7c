package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/coding-mentor/internal/executor"
)

// ExecuteHandler handles code execution requests.
type ExecuteHandler struct {
	exec          executor.Executor
	languages     []executor.Language
	maxCodeLength int
	logger        *slog.Logger
}

// NewExecuteHandler creates an ExecuteHandler. languages lists the tags the
// executor was configured with beyond the built-in ones.
func NewExecuteHandler(exec executor.Executor, languages []executor.Language, maxCodeLength int, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		exec:          exec,
		languages:     languages,
		maxCodeLength: maxCodeLength,
		logger:        logger,
	}
}

type executeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// ExecuteResponse is the execution result plus its folded status.
type ExecuteResponse struct {
	*executor.ExecutionResult
	Status executor.FailureKind `json:"status"`
}

// HandleExecute runs the submitted program. Program and harness failures are
// reported in the 200 body; only malformed requests get a 4xx.
func (h *ExecuteHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid execution request body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if err := checkCode(req.Code, h.maxCodeLength); err != nil {
		writeError(w, err)
		return
	}
	lang, err := parseLanguage(req.Language, h.languages)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("executing code",
		slog.String("language", string(lang)),
		slog.Int("bytes", len(req.Code)),
	)

	result := h.exec.Execute(r.Context(), executor.ExecutionRequest{Code: req.Code, Language: lang})

	h.logger.Info("execution finished",
		slog.String("language", string(lang)),
		slog.String("status", string(result.Status())),
		slog.Duration("duration", result.Duration),
	)
	writeJSON(w, http.StatusOK, ExecuteResponse{ExecutionResult: result, Status: result.Status()})
}
