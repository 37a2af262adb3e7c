package handler

import (
	"context"
	"net/http"

	"github.com/sakif/coding-mentor/internal/executor"
)

// RuntimeChecker reports which language toolchains are installed.
type RuntimeChecker interface {
	Languages() []executor.Language
	CheckRuntimes(ctx context.Context) map[executor.Language]bool
}

// ToolChecker reports which analysis tools are installed.
type ToolChecker interface {
	CheckTools(ctx context.Context) map[string]bool
}

type ToolsHandler struct {
	runtimes RuntimeChecker
	tools    ToolChecker
}

func NewToolsHandler(runtimes RuntimeChecker, tools ToolChecker) *ToolsHandler {
	return &ToolsHandler{runtimes: runtimes, tools: tools}
}

// ToolsResponse maps each toolchain or tool to whether it answered a
// version probe.
type ToolsResponse struct {
	Runtimes map[executor.Language]bool `json:"runtimes"`
	Analysis map[string]bool            `json:"analysis"`
}

func (h *ToolsHandler) HandleTools(w http.ResponseWriter, r *http.Request) {
	resp := ToolsResponse{
		Runtimes: h.runtimes.CheckRuntimes(r.Context()),
		Analysis: map[string]bool{},
	}
	if h.tools != nil {
		resp.Analysis = h.tools.CheckTools(r.Context())
	}
	writeJSON(w, http.StatusOK, resp)
}

type LanguagesResponse struct {
	Languages []executor.Language `json:"languages"`
}

func (h *ToolsHandler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LanguagesResponse{Languages: h.runtimes.Languages()})
}
