package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/coding-mentor/internal/apperror"
	"github.com/sakif/coding-mentor/internal/model"
)

// ReportService is the report business logic the handler needs.
type ReportService interface {
	Create(ctx context.Context, in model.ReportInput) (*model.Report, error)
	GetByID(ctx context.Context, id string) (*model.Report, error)
	List(ctx context.Context, limit, offset int) ([]model.ReportSummary, error)
	Delete(ctx context.Context, id string) error
}

// ReportHandler exposes saved session reports.
//
//	POST   /api/reports       create
//	GET    /api/reports       list (?limit=&offset=)
//	GET    /api/reports/{id}  fetch one
//	DELETE /api/reports/{id}  delete
type ReportHandler struct {
	service ReportService
	logger  *slog.Logger
}

func NewReportHandler(svc ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{service: svc, logger: logger}
}

func (h *ReportHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.ReportInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	report, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (h *ReportHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, err)
		return
	}

	reports, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *ReportHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperror.ValidationFailed(key, key+" must be an integer")
	}
	return n, nil
}
