package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/employee"
	"github.com/frahmantamala/employee-management/internal/leave"
	"github.com/frahmantamala/employee-management/internal/transport/rest"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// tokenAuth treats the bearer token as a role name.
type tokenAuth struct{}

var tokenUsers = map[string]*internal.User{
	"employee": {ID: 1, Email: "employee@example.com", Role: internal.RoleEmployee},
	"manager":  {ID: 2, Email: "manager@example.com", Role: internal.RoleManager},
	"hr":       {ID: 3, Email: "hr@example.com", Role: internal.RoleHR},
}

func (tokenAuth) Authenticate(ctx context.Context, dto auth.LoginDTO) (auth.AuthTokens, error) {
	return auth.AuthTokens{}, internal.ErrInvalidCredentials
}

func (tokenAuth) RefreshTokens(ctx context.Context, refreshToken string) (auth.AuthTokens, error) {
	return auth.AuthTokens{}, internal.ErrInvalidToken
}

func (tokenAuth) ValidateAccessToken(token string) (*auth.Claims, error) {
	u, ok := tokenUsers[token]
	if !ok {
		return nil, internal.ErrInvalidToken
	}
	return &auth.Claims{UserID: u.ID, Role: string(u.Role), TokenType: auth.TokenTypeAccess}, nil
}

func (tokenAuth) Principal(ctx context.Context, userID int64) (*internal.User, error) {
	for _, u := range tokenUsers {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, internal.ErrInvalidToken
}

type recordingLeaves struct {
	approved []int64
	panicked bool
}

func (s *recordingLeaves) Apply(ctx context.Context, principal *internal.User, dto leave.ApplyLeaveDTO) (*leave.LeaveRequest, error) {
	return &leave.LeaveRequest{ID: 1, Status: leave.StatusPending}, nil
}

func (s *recordingLeaves) Approve(ctx context.Context, id int64, principal *internal.User) (*leave.LeaveRequest, error) {
	s.approved = append(s.approved, id)
	return &leave.LeaveRequest{ID: id, Status: leave.StatusApproved}, nil
}

func (s *recordingLeaves) Reject(ctx context.Context, id int64, principal *internal.User, reason *string) (*leave.LeaveRequest, error) {
	return &leave.LeaveRequest{ID: id, Status: leave.StatusRejected}, nil
}

func (s *recordingLeaves) List(ctx context.Context, principal *internal.User) ([]*leave.LeaveRequest, error) {
	if s.panicked {
		panic("list exploded")
	}
	return nil, nil
}

func (s *recordingLeaves) Delete(ctx context.Context, id int64, principal *internal.User) error {
	return nil
}

func (s *recordingLeaves) MonthlyApprovedDates(ctx context.Context, principal *internal.User, month string) ([]string, error) {
	return []string{}, nil
}

type recordingEmployees struct {
	deleted []int64
}

func (s *recordingEmployees) Create(ctx context.Context, actor *internal.User, dto employee.CreateEmployeeDTO) (*employee.Employee, error) {
	return &employee.Employee{ID: 1}, nil
}

func (s *recordingEmployees) Me(ctx context.Context, principal *internal.User) (*employee.Employee, error) {
	return &employee.Employee{ID: 1, UserID: principal.ID}, nil
}

func (s *recordingEmployees) GetByID(ctx context.Context, employeeID int64) (*employee.Employee, error) {
	return &employee.Employee{ID: employeeID}, nil
}

func (s *recordingEmployees) List(ctx context.Context) ([]*employee.Employee, error) {
	return nil, nil
}

func (s *recordingEmployees) Update(ctx context.Context, actor *internal.User, employeeID int64, dto employee.UpdateEmployeeDTO) (*employee.Employee, error) {
	return &employee.Employee{ID: employeeID}, nil
}

func (s *recordingEmployees) Delete(ctx context.Context, actor *internal.User, employeeID int64) error {
	s.deleted = append(s.deleted, employeeID)
	return nil
}

var _ = Describe("Router", func() {
	var (
		leaves    *recordingLeaves
		employees *recordingEmployees
		router    *chi.Mux
	)

	BeforeEach(func() {
		leaves = &recordingLeaves{}
		employees = &recordingEmployees{}
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Handlers{
			Health:   rest.NewHealthHandler(nil),
			Auth:     auth.NewHandler(tokenAuth{}),
			Leave:    leave.NewHandler(leaves),
			Employee: employee.NewHandler(employees),
		}, rest.RouterConfig{AllowedOrigins: "http://localhost:3000"}, lg)
	})

	serve := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	errorCode := func(rec *httptest.ResponseRecorder) string {
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body.Error.Code
	}

	It("lets HR delete an employee", func() {
		rec := serve(http.MethodDelete, "/api/v1/employees/5", "hr")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(employees.deleted).To(Equal([]int64{5}))
	})

	It("keeps employee records away from managers and employees", func() {
		Expect(serve(http.MethodGet, "/api/v1/employees/5", "manager").Code).To(Equal(http.StatusForbidden))
		Expect(serve(http.MethodDelete, "/api/v1/employees/5", "employee").Code).To(Equal(http.StatusForbidden))
		Expect(employees.deleted).To(BeEmpty())
	})

	It("routes /employees/me ahead of the id route", func() {
		rec := serve(http.MethodGet, "/api/v1/employees/me", "employee")
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("serves ping without authentication", func() {
		rec := serve(http.MethodGet, "/api/v1/ping", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("reports an unconfigured database as unhealthy", func() {
		rec := serve(http.MethodGet, "/api/v1/health", "")
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("refuses protected routes without a token", func() {
		rec := serve(http.MethodGet, "/api/v1/leaves", "")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects roles outside the route guard before reaching the service", func() {
		rec := serve(http.MethodPut, "/api/v1/leaves/5/approve", "employee")
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(leaves.approved).To(BeEmpty())
	})

	It("lets HR reach the leave decision", func() {
		rec := serve(http.MethodPut, "/api/v1/leaves/5/approve", "hr")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(leaves.approved).To(Equal([]int64{5}))
	})

	It("echoes or mints a trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("X-Trace-ID", "trace-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Header().Get("X-Trace-ID")).To(Equal("trace-123"))

		Expect(serve(http.MethodGet, "/api/v1/ping", "").Header().Get("X-Trace-ID")).ToNot(BeEmpty())
	})

	It("answers CORS preflight for allowed origins only", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/leaves", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))

		req.Header.Set("Origin", "http://evil.example")
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("turns a handler panic into an internal error body", func() {
		leaves.panicked = true
		rec := serve(http.MethodGet, "/api/v1/leaves", "manager")
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(errorCode(rec)).To(Equal("INTERNAL_ERROR"))
	})
})
