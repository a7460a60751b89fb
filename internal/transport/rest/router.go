package rest

import (
	"log/slog"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/department"
	"github.com/frahmantamala/employee-management/internal/employee"
	"github.com/frahmantamala/employee-management/internal/leave"
	"github.com/frahmantamala/employee-management/internal/notification"
	"github.com/frahmantamala/employee-management/internal/report"
	"github.com/frahmantamala/employee-management/internal/request"
	"github.com/frahmantamala/employee-management/internal/transport/middleware"
	"github.com/frahmantamala/employee-management/internal/transport/swagger"
	"github.com/frahmantamala/employee-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the HTTP handlers mounted by RegisterAllRoutes. A nil
// handler leaves its routes unmounted.
type Handlers struct {
	Health       *HealthHandler
	Auth         *auth.Handler
	User         *user.Handler
	Employee     *employee.Handler
	Department   *department.Handler
	Leave        *leave.Handler
	Request      *request.Handler
	Report       *report.Handler
	Notification *notification.Handler
}

type RouterConfig struct {
	AllowedOrigins string
	// OpenAPIPath is the OpenAPI document file; empty disables the docs routes.
	OpenAPIPath string
}

var (
	everyRole       = internal.AllRoles
	leaveApplicants = []internal.Role{internal.RoleEmployee, internal.RoleManager, internal.RoleHR}
	leaveDeciders   = []internal.Role{internal.RoleHR, internal.RoleManager, internal.RoleAdmin, internal.RoleSuperuser}
	requestCreators = []internal.Role{internal.RoleEmployee, internal.RoleManager, internal.RoleSuperuser}
	requestEditors  = []internal.Role{internal.RoleEmployee, internal.RoleManager, internal.RoleAdmin, internal.RoleSuperuser}
	peopleManagers  = []internal.Role{internal.RoleHR, internal.RoleAdmin, internal.RoleSuperuser}
	employeeReaders = []internal.Role{internal.RoleHR, internal.RoleAdmin, internal.RoleSuperuser, internal.RoleManager}
	userReaders     = employeeReaders
	departmentUsers = peopleManagers
	reportReaders   = []internal.Role{internal.RoleHR, internal.RoleAdmin, internal.RoleSuperuser}
)

func RegisterAllRoutes(router *chi.Mux, h Handlers, cfg RouterConfig, logger *slog.Logger) {
	rbac := auth.NewRBACAuthorization(logger)

	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if cfg.OpenAPIPath != "" {
		router.Get(swagger.DocumentPath, swagger.DocumentHandler(cfg.OpenAPIPath))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.Get("/me", h.User.GetCurrentUser)
					ur.With(rbac.RequireRoles(userReaders...)).Get("/", h.User.ListUsers)

					ur.Group(func(ar chi.Router) {
						ar.Use(rbac.RequireAdmin())
						ar.Post("/", h.User.CreateUser)
						ar.Put("/{id}", h.User.UpdateUser)
						ar.Delete("/{id}", h.User.DeleteUser)
					})
				})
			}

			if h.Employee != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.Get("/me", h.Employee.GetMyProfile)
					er.With(rbac.RequireRoles(employeeReaders...)).Get("/", h.Employee.ListEmployees)

					er.Group(func(mr chi.Router) {
						mr.Use(rbac.RequireRoles(peopleManagers...))
						mr.Post("/", h.Employee.CreateEmployee)
						mr.Get("/{id}", h.Employee.GetEmployee)
						mr.Put("/{id}", h.Employee.UpdateEmployee)
						mr.Delete("/{id}", h.Employee.DeleteEmployee)
					})
				})
			}

			if h.Department != nil {
				pr.Route("/departments", func(dr chi.Router) {
					dr.With(rbac.RequireRoles(departmentUsers...)).Get("/", h.Department.ListDepartments)

					dr.Group(func(ar chi.Router) {
						ar.Use(rbac.RequireAdmin())
						ar.Get("/{id}", h.Department.GetDepartment)
						ar.Post("/", h.Department.CreateDepartment)
						ar.Put("/{id}", h.Department.UpdateDepartment)
						ar.Delete("/{id}", h.Department.DeleteDepartment)
					})
				})
			}

			if h.Leave != nil {
				pr.Route("/leaves", func(lr chi.Router) {
					lr.With(rbac.RequireRoles(everyRole...)).Get("/", h.Leave.ListLeaves)
					lr.With(rbac.RequireRoles(leaveApplicants...)).Post("/apply", h.Leave.ApplyLeave)
					lr.With(rbac.RequireRoles(everyRole...)).Get("/monthly/{month}", h.Leave.MonthlyLeaves)

					lr.Group(func(dr chi.Router) {
						dr.Use(rbac.RequireRoles(leaveDeciders...))
						dr.Put("/{id}/approve", h.Leave.ApproveLeave)
						dr.Put("/{id}/reject", h.Leave.RejectLeave)
					})

					lr.Delete("/{id}", h.Leave.DeleteLeave)
				})
			}

			if h.Request != nil {
				pr.Route("/requests", func(rr chi.Router) {
					rr.Get("/", h.Request.ListRequests)
					rr.With(rbac.RequireRoles(requestCreators...)).Post("/", h.Request.CreateRequest)

					rr.Group(func(mr chi.Router) {
						mr.Use(rbac.RequireRoles(internal.RoleManager))
						mr.Put("/{id}/manager/approve", h.Request.ManagerApprove)
						mr.Put("/{id}/manager/reject", h.Request.ManagerReject)
					})

					rr.Group(func(ar chi.Router) {
						ar.Use(rbac.RequireAdmin())
						ar.Put("/{id}/admin/approve", h.Request.AdminApprove)
						ar.Put("/{id}/admin/reject", h.Request.AdminReject)
					})

					rr.Group(func(er chi.Router) {
						er.Use(rbac.RequireRoles(requestEditors...))
						er.Put("/{id}", h.Request.UpdateRequest)
						er.Delete("/{id}", h.Request.DeleteRequest)
					})
				})
			}

			if h.Report != nil {
				pr.Group(func(rr chi.Router) {
					rr.Use(rbac.RequireRoles(reportReaders...))
					rr.Get("/reports/employees/export", h.Report.ExportEmployees)
					rr.Get("/reports/leaves/export", h.Report.ExportLeaves)
					rr.Get("/reports/requests/export", h.Report.ExportRequests)
				})
			}

			if h.Notification != nil {
				pr.Get("/ws/notifications", h.Notification.Notifications)
			}
		})
	})
}
