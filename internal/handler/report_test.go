package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/coding-mentor/internal/handler"
	"github.com/sakif/coding-mentor/internal/model"
	"github.com/sakif/coding-mentor/internal/repository/sqlite"
	"github.com/sakif/coding-mentor/internal/service"
)

func newReportHandler(t *testing.T) *handler.ReportHandler {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return handler.NewReportHandler(service.NewReportService(db, 1000, testLogger()), testLogger())
}

func withID(r *http.Request, id string) *http.Request {
	r.SetPathValue("id", id)
	return r
}

func TestReportHandler_Lifecycle(t *testing.T) {
	h := newReportHandler(t)

	rr := postJSON(t, h.HandleCreate, "/api/reports", `{
		"problem": "Reverse a string",
		"language": "python",
		"code": "# reverse\nprint('abc'[::-1])\n",
		"interactions": [{"kind": "hint", "content": "Slicing can step backwards.", "timestamp": "2026-03-01T12:00:00Z"}]
	}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created model.Report
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "AI Coding Mentor", created.Document.Metadata.Tool)
	assert.Equal(t, "No analysis performed", created.Document.CodeAnalysis.Status)
	assert.Equal(t, 1, created.Document.Assistance.TotalInteractions)
	assert.Equal(t, 1, created.Document.Session.Statistics.CommentLines)

	rr = httptest.NewRecorder()
	h.HandleGetByID(rr, withID(httptest.NewRequest(http.MethodGet, "/api/reports/"+created.ID, nil), created.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	var fetched model.Report
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Slicing can step backwards.", fetched.Document.Assistance.Interactions[0].FullContent)

	rr = httptest.NewRecorder()
	h.HandleList(rr, httptest.NewRequest(http.MethodGet, "/api/reports?limit=5", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var list []model.ReportSummary
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Reverse a string", list[0].Problem)

	rr = httptest.NewRecorder()
	h.HandleDelete(rr, withID(httptest.NewRequest(http.MethodDelete, "/api/reports/"+created.ID, nil), created.ID))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	h.HandleGetByID(rr, withID(httptest.NewRequest(http.MethodGet, "/api/reports/"+created.ID, nil), created.ID))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", decodeError(t, rr).Error)
}

func TestReportHandler_Rejects(t *testing.T) {
	h := newReportHandler(t)

	t.Run("unknown language", func(t *testing.T) {
		rr := postJSON(t, h.HandleCreate, "/api/reports", `{"language":"cobol","code":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "language", decodeError(t, rr).Field)
	})

	t.Run("bad limit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleList(rr, httptest.NewRequest(http.MethodGet, "/api/reports?limit=ten", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "limit", decodeError(t, rr).Field)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.HandleDelete(rr, withID(httptest.NewRequest(http.MethodDelete, "/api/reports/nope", nil), "nope"))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
