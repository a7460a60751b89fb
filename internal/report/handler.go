package report

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/employee-management/internal/transport"
	"github.com/frahmantamala/employee-management/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ServiceAPI interface {
	EmployeeExport(ctx context.Context) (*excelize.File, error)
	LeaveExport(ctx context.Context) (*excelize.File, error)
	RequestExport(ctx context.Context) (*excelize.File, error)
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

// ExportEmployees handles GET /reports/employees/export
func (h *Handler) ExportEmployees(w http.ResponseWriter, r *http.Request) {
	f, err := h.Service.EmployeeExport(r.Context())
	if err != nil {
		h.HandleError(w, r, "ExportEmployees", err)
		return
	}
	h.writeWorkbook(w, r, f, "employees")
}

// ExportLeaves handles GET /reports/leaves/export
func (h *Handler) ExportLeaves(w http.ResponseWriter, r *http.Request) {
	f, err := h.Service.LeaveExport(r.Context())
	if err != nil {
		h.HandleError(w, r, "ExportLeaves", err)
		return
	}
	h.writeWorkbook(w, r, f, "leaves")
}

// ExportRequests handles GET /reports/requests/export
func (h *Handler) ExportRequests(w http.ResponseWriter, r *http.Request) {
	f, err := h.Service.RequestExport(r.Context())
	if err != nil {
		h.HandleError(w, r, "ExportRequests", err)
		return
	}
	h.writeWorkbook(w, r, f, "requests")
}

func (h *Handler) writeWorkbook(w http.ResponseWriter, r *http.Request, f *excelize.File, name string) {
	defer f.Close()

	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := f.Write(w); err != nil {
		// headers are gone, all that is left is to log
		logger.From(r.Context()).Error("failed to stream workbook", "report", name, "error", err)
	}
}
