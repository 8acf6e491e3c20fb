package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
	dErrors "finhabit/pkg/domain-errors"
	"finhabit/pkg/platform/httputil"
	"finhabit/pkg/requestcontext"
)

// Service defines the mission operations exposed over HTTP.
type Service interface {
	Today(ctx context.Context, ownerID id.UserID, now time.Time) (*models.Today, error)
	Check(ctx context.Context, ownerID id.UserID, assignmentID id.AssignmentID, now time.Time) (*models.AssignmentDetail, error)
	Uncheck(ctx context.Context, ownerID id.UserID, assignmentID id.AssignmentID, now time.Time) (*models.AssignmentDetail, error)
	GetCompletedByWeek(ctx context.Context, ownerID id.UserID) ([]*models.ArchiveWeek, error)
}

// Handler wires mission endpoints to the mission service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a mission handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts mission endpoints on the router. The router is expected to
// run the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/mission/today", h.HandleToday)
	r.Post("/api/mission/{assignmentID}/check", h.HandleCheck)
	r.Post("/api/mission/{assignmentID}/uncheck", h.HandleUncheck)
	r.Get("/api/mission/archive", h.HandleArchive)
}

// HandleToday handles GET /api/mission/today.
func (h *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	result, err := h.service.Today(ctx, ownerID, requestcontext.Now(ctx))
	if err != nil {
		h.logFailure(ctx, "today mission lookup failed", ownerID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromToday(result))
}

// HandleCheck handles POST /api/mission/{assignmentID}/check.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	h.handleProgress(w, r, "check", h.service.Check)
}

// HandleUncheck handles POST /api/mission/{assignmentID}/uncheck.
func (h *Handler) HandleUncheck(w http.ResponseWriter, r *http.Request) {
	h.handleProgress(w, r, "uncheck", h.service.Uncheck)
}

type progressFunc func(ctx context.Context, ownerID id.UserID, assignmentID id.AssignmentID, now time.Time) (*models.AssignmentDetail, error)

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request, action string, apply progressFunc) {
	ctx := r.Context()
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	assignmentID, err := id.ParseAssignmentID(chi.URLParam(r, "assignmentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	detail, err := apply(ctx, ownerID, assignmentID, requestcontext.Now(ctx))
	if err != nil {
		h.logFailure(ctx, "mission "+action+" failed", ownerID, err, "assignment_id", assignmentID)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "mission "+action,
		"request_id", requestcontext.RequestID(ctx),
		"user_id", ownerID,
		"assignment_id", assignmentID,
		"done_count", detail.Assignment.DoneCount,
		"completed", detail.Assignment.Completed,
	)
	httputil.WriteJSON(w, http.StatusOK, FromDetail(detail))
}

// HandleArchive handles GET /api/mission/archive.
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	weeks, err := h.service.GetCompletedByWeek(ctx, ownerID)
	if err != nil {
		h.logFailure(ctx, "mission archive failed", ownerID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromArchive(weeks))
}

func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	ownerID := requestcontext.UserID(r.Context())
	if ownerID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return ownerID, true
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, ownerID id.UserID, err error, attrs ...any) {
	args := append([]any{
		"request_id", requestcontext.RequestID(ctx),
		"user_id", ownerID,
		"error", err,
	}, attrs...)
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
