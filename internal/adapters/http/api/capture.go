// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/liga/internal/adapters/repository"
	service "github.com/okian/liga/internal/app"
)

// CaptureDependencies defines the interface for capture submission.
type CaptureDependencies interface {
	SubmitCapture(ctx context.Context, sub service.Submission) (service.Receipt, error)
}

// CaptureHandler handles capture submissions.
type CaptureHandler struct {
	deps CaptureDependencies
}

// NewCaptureHandler creates a new capture handler.
func NewCaptureHandler(deps CaptureDependencies) *CaptureHandler {
	return &CaptureHandler{deps: deps}
}

// HandlePutCapture handles PUT /capture requests.
func (h *CaptureHandler) HandlePutCapture(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_capture"
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	receipt, err := h.deps.SubmitCapture(r.Context(), service.Submission{
		SubmissionID: req.SubmissionID,
		Team:         req.Team,
		Challenge:    req.Challenge,
		TargetTotal:  req.TargetTotal,
		FinishTime:   req.FinishTime,
		PlayerPoints: req.PlayerPoints,
		Revision:     repository.Revision(req.Revision),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownTeam):
			writeError(w, http.StatusNotFound, "unknown_team", err)
		case errors.Is(err, service.ErrWindowClosed):
			writeError(w, http.StatusConflict, "window_closed", err)
		case errors.Is(err, service.ErrChallengeRequired):
			writeError(w, http.StatusBadRequest, "challenge_required", err)
		case errors.Is(err, repository.ErrRevisionConflict):
			writeError(w, http.StatusConflict, "revision_conflict", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}

	writeJSON(w, http.StatusOK, captureResponse{
		Status:   receipt.Status,
		Key:      receipt.Key,
		Revision: string(receipt.Revision),
	})
}
