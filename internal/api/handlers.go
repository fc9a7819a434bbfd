// Package api exposes the results view over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/optimizer"
	"github.com/UnknownOlympus/waypoint/internal/view"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies; optimization requests carry a few hundred customers at most.
const maxBodyBytes = 1 << 20

// Session is the results view served by the handlers.
type Session interface {
	Refresh(ctx context.Context, req models.OptimizeRequest) (view.Snapshot, error)
	Snapshot() (view.Snapshot, error)
	Toggle(ctx context.Context, vehicleID int) (view.Snapshot, error)
	Clear(ctx context.Context) (view.Snapshot, error)
	Insights(ctx context.Context) ([]models.Insight, error)
	Ask(ctx context.Context, question string) (string, error)
}

// Handler serves the results view.
type Handler struct {
	session  Session
	validate *validator.Validate
	log      *slog.Logger
}

// NewHandler creates the API handlers for a session.
func NewHandler(session Session, log *slog.Logger) *Handler {
	return &Handler{
		session:  session,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// Refresh runs a new optimization and returns the resulting snapshot.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.OptimizeRequest
	if !h.decode(w, r, &req) {
		return
	}

	snap, err := h.session.Refresh(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, r, h.log, http.StatusOK, snap)
	case errors.Is(err, view.ErrSuperseded):
		writeError(w, r, h.log, http.StatusConflict, err.Error())
	default:
		writeError(w, r, h.log, http.StatusBadGateway, err.Error())
	}
}

// Model returns the current snapshot.
func (h *Handler) Model(w http.ResponseWriter, r *http.Request) {
	snap, err := h.session.Snapshot()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, snap)
}

// Toggle flips focus on the vehicle named in the path.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "vehicle id must be an integer")
		return
	}

	snap, err := h.session.Toggle(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, snap)
}

// Clear drops any focus.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	snap, err := h.session.Clear(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, snap)
}

// Insights returns remote explanations of the current result set.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.session.Insights(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, insightsResponse{Insights: insights})
}

// Ask forwards a question about the current result set.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !h.decode(w, r, &req) {
		return
	}

	answer, err := h.session.Ask(r.Context(), strings.TrimSpace(req.Question))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, askResponse{Answer: answer})
}

// decode reads a single JSON object into v and validates it, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, h.log, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, r, h.log, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	if err := h.validate.Struct(v); err != nil {
		writeJSON(w, r, h.log, http.StatusBadRequest, errorResponse{
			Error:   "validation failed",
			Details: validationDetails(err),
		})
		return false
	}

	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, view.ErrNoResult), errors.Is(err, view.ErrUnknownVehicle):
		writeError(w, r, h.log, http.StatusNotFound, err.Error())
	case errors.Is(err, optimizer.ErrUnsupported):
		writeError(w, r, h.log, http.StatusNotImplemented, err.Error())
	default:
		writeError(w, r, h.log, http.StatusBadGateway, err.Error())
	}
}
