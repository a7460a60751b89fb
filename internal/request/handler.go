package request

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/transport"
	"github.com/frahmantamala/employee-management/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, principal *internal.User, dto RequestDTO) (*Request, error)
	ManagerApprove(ctx context.Context, id int64, principal *internal.User) (*Request, error)
	ManagerReject(ctx context.Context, id int64, principal *internal.User, dto RejectRequestDTO) (*Request, error)
	AdminApprove(ctx context.Context, id int64, principal *internal.User) (*Request, error)
	AdminReject(ctx context.Context, id int64, principal *internal.User, dto RejectRequestDTO) (*Request, error)
	Update(ctx context.Context, id int64, principal *internal.User, dto RequestDTO) (*Request, error)
	Delete(ctx context.Context, id int64, principal *internal.User) error
	List(ctx context.Context, principal *internal.User) ([]*Request, error)
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

// ListRequests handles GET /requests
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requests, err := h.Service.List(r.Context(), principal)
	if err != nil {
		h.HandleError(w, r, "ListRequests", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests": ToV1Slice(requests),
		"count":    len(requests),
	})
}

// CreateRequest handles POST /requests
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	req, err := h.Service.Create(r.Context(), principal, dto)
	if err != nil {
		h.HandleError(w, r, "CreateRequest", err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req.ToV1())
}

// ManagerApprove handles PUT /requests/{id}/manager/approve
func (h *Handler) ManagerApprove(w http.ResponseWriter, r *http.Request) {
	h.approve(w, r, "ManagerApprove", h.Service.ManagerApprove)
}

// ManagerReject handles PUT /requests/{id}/manager/reject
func (h *Handler) ManagerReject(w http.ResponseWriter, r *http.Request) {
	h.reject(w, r, "ManagerReject", h.Service.ManagerReject)
}

// AdminApprove handles PUT /requests/{id}/admin/approve
func (h *Handler) AdminApprove(w http.ResponseWriter, r *http.Request) {
	h.approve(w, r, "AdminApprove", h.Service.AdminApprove)
}

// AdminReject handles PUT /requests/{id}/admin/reject
func (h *Handler) AdminReject(w http.ResponseWriter, r *http.Request) {
	h.reject(w, r, "AdminReject", h.Service.AdminReject)
}

// UpdateRequest handles PUT /requests/{id}
func (h *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
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

	var dto RequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	req, err := h.Service.Update(r.Context(), id, principal, dto)
	if err != nil {
		h.HandleError(w, r, "UpdateRequest", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req.ToV1())
}

// DeleteRequest handles DELETE /requests/{id}
func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
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
		h.HandleError(w, r, "DeleteRequest", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Request deleted", "request_id": id})
}

type approveFunc func(ctx context.Context, id int64, principal *internal.User) (*Request, error)

type rejectFunc func(ctx context.Context, id int64, principal *internal.User, dto RejectRequestDTO) (*Request, error)

func (h *Handler) approve(w http.ResponseWriter, r *http.Request, op string, fn approveFunc) {
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

	req, err := fn(r.Context(), id, principal)
	if err != nil {
		h.HandleError(w, r, op, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req.ToV1())
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, op string, fn rejectFunc) {
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

	var dto RejectRequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, internal.ErrReasonRequired.WithCause(err))
		return
	}

	req, err := fn(r.Context(), id, principal, dto)
	if err != nil {
		h.HandleError(w, r, op, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req.ToV1())
}
