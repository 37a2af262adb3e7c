package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/coding-mentor/internal/apperror"
	"github.com/sakif/coding-mentor/internal/mentor"
)

// Mentor answers tutoring requests.
type Mentor interface {
	Respond(ctx context.Context, req mentor.Request) (*mentor.Response, error)
}

type MentorHandler struct {
	mentor        Mentor
	maxCodeLength int
	logger        *slog.Logger
}

func NewMentorHandler(m Mentor, maxCodeLength int, logger *slog.Logger) *MentorHandler {
	return &MentorHandler{mentor: m, maxCodeLength: maxCodeLength, logger: logger}
}

type mentorRequest struct {
	Kind     string `json:"kind"`
	Problem  string `json:"problem"`
	Code     string `json:"code"`
	Language string `json:"language"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

func (h *MentorHandler) HandleMentor(w http.ResponseWriter, r *http.Request) {
	var body mentorRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	kind, ok := mentor.ParseKind(body.Kind)
	if !ok {
		writeError(w, apperror.ValidationFailed("kind",
			fmt.Sprintf("unknown kind %q; want hint, next_steps or full_solution", body.Kind)))
		return
	}
	if strings.TrimSpace(body.Problem) == "" {
		writeError(w, apperror.ValidationFailed("problem", "a problem statement is required"))
		return
	}
	if h.maxCodeLength > 0 && len(body.Code) > h.maxCodeLength {
		writeError(w, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", h.maxCodeLength)))
		return
	}
	lang, err := parseLanguage(body.Language, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.mentor.Respond(r.Context(), mentor.Request{
		Kind:     kind,
		Problem:  body.Problem,
		Code:     body.Code,
		Language: lang,
		Stdout:   body.Stdout,
		Stderr:   body.Stderr,
	})
	if err != nil {
		if errors.Is(err, mentor.ErrUnknownKind) {
			writeError(w, apperror.ValidationFailed("kind", err.Error()))
			return
		}
		h.logger.Error("mentor request failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.logger.Info("mentor answered",
		slog.String("kind", string(resp.Kind)),
		slog.String("source", string(resp.Source)),
	)
	writeJSON(w, http.StatusOK, resp)
}
