package employee

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/transport"
	"github.com/frahmantamala/employee-management/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *internal.User, dto CreateEmployeeDTO) (*Employee, error)
	Me(ctx context.Context, principal *internal.User) (*Employee, error)
	GetByID(ctx context.Context, employeeID int64) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	Update(ctx context.Context, actor *internal.User, employeeID int64, dto UpdateEmployeeDTO) (*Employee, error)
	Delete(ctx context.Context, actor *internal.User, employeeID int64) error
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

// CreateEmployee handles POST /employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	e, err := h.Service.Create(r.Context(), principal, dto)
	if err != nil {
		h.HandleError(w, r, "CreateEmployee", err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

// GetMyProfile handles GET /employees/me
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	e, err := h.Service.Me(r.Context(), principal)
	if err != nil {
		h.HandleError(w, r, "GetMyProfile", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

// ListEmployees handles GET /employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleError(w, r, "ListEmployees", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": employees,
		"count":     len(employees),
	})
}

// GetEmployee handles GET /employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	e, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleError(w, r, "GetEmployee", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

// UpdateEmployee handles PUT /employees/{id}
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
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

	var dto UpdateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	e, err := h.Service.Update(r.Context(), principal, id, dto)
	if err != nil {
		h.HandleError(w, r, "UpdateEmployee", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

// DeleteEmployee handles DELETE /employees/{id}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Service.Delete(r.Context(), principal, id); err != nil {
		h.HandleError(w, r, "DeleteEmployee", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Employee deleted", "employee_id": id})
}
