package leave

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/transport"
	"github.com/frahmantamala/employee-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Apply(ctx context.Context, principal *internal.User, dto ApplyLeaveDTO) (*LeaveRequest, error)
	Approve(ctx context.Context, id int64, principal *internal.User) (*LeaveRequest, error)
	Reject(ctx context.Context, id int64, principal *internal.User, reason *string) (*LeaveRequest, error)
	List(ctx context.Context, principal *internal.User) ([]*LeaveRequest, error)
	Delete(ctx context.Context, id int64, principal *internal.User) error
	MonthlyApprovedDates(ctx context.Context, principal *internal.User, month string) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// ListLeaves handles GET /leaves
func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	leaves, err := h.Service.List(r.Context(), principal)
	if err != nil {
		h.HandleError(w, r, "ListLeaves", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leaves": ToV1Slice(leaves),
		"count":  len(leaves),
	})
}

// ApplyLeave handles POST /leaves/apply
func (h *Handler) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ApplyLeaveDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	l, err := h.Service.Apply(r.Context(), principal, dto)
	if err != nil {
		h.HandleError(w, r, "ApplyLeave", err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, l.ToV1())
}

// ApproveLeave handles PUT /leaves/{id}/approve
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	l, err := h.Service.Approve(r.Context(), id, principal)
	if err != nil {
		h.HandleError(w, r, "ApproveLeave", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, l.ToV1())
}

// RejectLeave handles PUT /leaves/{id}/reject. The body is optional.
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto RejectLeaveDTO
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil && !errors.Is(err, io.EOF) {
			h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err))
			return
		}
	}

	l, err := h.Service.Reject(r.Context(), id, principal, dto.TrimmedReason())
	if err != nil {
		h.HandleError(w, r, "RejectLeave", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, l.ToV1())
}

// DeleteLeave handles DELETE /leaves/{id}
func (h *Handler) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id, principal); err != nil {
		h.HandleError(w, r, "DeleteLeave", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Leave request deleted", "leave_id": id})
}

// MonthlyLeaves handles GET /leaves/monthly/{month}
func (h *Handler) MonthlyLeaves(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	month := chi.URLParam(r, "month")
	dates, err := h.Service.MonthlyApprovedDates(r.Context(), principal, month)
	if err != nil {
		h.HandleError(w, r, "MonthlyLeaves", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"month": month,
		"dates": dates,
	})
}
