package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/leave"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubLeaveService struct {
	leave        *leave.LeaveRequest
	err          error
	rejectReason *string
	month        string
}

func (s *stubLeaveService) Apply(ctx context.Context, principal *internal.User, dto leave.ApplyLeaveDTO) (*leave.LeaveRequest, error) {
	return s.leave, s.err
}

func (s *stubLeaveService) Approve(ctx context.Context, id int64, principal *internal.User) (*leave.LeaveRequest, error) {
	return s.leave, s.err
}

func (s *stubLeaveService) Reject(ctx context.Context, id int64, principal *internal.User, reason *string) (*leave.LeaveRequest, error) {
	s.rejectReason = reason
	return s.leave, s.err
}

func (s *stubLeaveService) List(ctx context.Context, principal *internal.User) ([]*leave.LeaveRequest, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*leave.LeaveRequest{s.leave}, nil
}

func (s *stubLeaveService) Delete(ctx context.Context, id int64, principal *internal.User) error {
	return s.err
}

func (s *stubLeaveService) MonthlyApprovedDates(ctx context.Context, principal *internal.User, month string) ([]string, error) {
	s.month = month
	return []string{"2024-02-01"}, s.err
}

var _ = Describe("Leave Handler", func() {
	var (
		stub   *stubLeaveService
		router chi.Router
	)

	BeforeEach(func() {
		stub = &stubLeaveService{leave: &leave.LeaveRequest{
			ID:        3,
			LeaveType: "Annual",
			StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
			Status:    leave.StatusPending,
		}}
		handler := leave.NewHandler(stub)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("X-Test-Anonymous") == "" {
					r = r.WithContext(internal.ContextWithUser(r.Context(), &internal.User{ID: 1, Role: internal.RoleManager}))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Get("/leaves", handler.ListLeaves)
		router.Post("/leaves/apply", handler.ApplyLeave)
		router.Put("/leaves/{id}/approve", handler.ApproveLeave)
		router.Put("/leaves/{id}/reject", handler.RejectLeave)
		router.Delete("/leaves/{id}", handler.DeleteLeave)
		router.Get("/leaves/monthly/{month}", handler.MonthlyLeaves)
	})

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("should render dates as YYYY-MM-DD", func() {
		payload, _ := json.Marshal(map[string]string{"leave_type": "Annual", "start_date": "2024-02-01", "end_date": "2024-02-02", "reason": "trip"})
		rec := serve(httptest.NewRequest(http.MethodPost, "/leaves/apply", bytes.NewReader(payload)))

		Expect(rec.Code).To(Equal(http.StatusCreated))
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["start_date"]).To(Equal("2024-02-01"))
		Expect(body["status"]).To(Equal("Pending"))
	})

	It("should accept a reject without a body", func() {
		rec := serve(httptest.NewRequest(http.MethodPut, "/leaves/3/reject", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.rejectReason).To(BeNil())
	})

	It("should pass a trimmed rejection reason", func() {
		rec := serve(httptest.NewRequest(http.MethodPut, "/leaves/3/reject", strings.NewReader(`{"reason":"  busy  "}`)))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(*stub.rejectReason).To(Equal("busy"))
	})

	It("should map a second decision to 400 INVALID_STATE", func() {
		stub.err = internal.ErrInvalidLeaveStatus
		rec := serve(httptest.NewRequest(http.MethodPut, "/leaves/3/approve", nil))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("INVALID_STATE"))
	})

	It("should map self approval to 403", func() {
		stub.err = internal.ErrSelfApproval
		rec := serve(httptest.NewRequest(http.MethodPut, "/leaves/3/approve", nil))
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("should map a missing leave to 404", func() {
		stub.err = internal.ErrLeaveNotFound
		rec := serve(httptest.NewRequest(http.MethodDelete, "/leaves/3", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should reject a non-numeric id", func() {
		rec := serve(httptest.NewRequest(http.MethodPut, "/leaves/abc/approve", nil))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should pass the month through", func() {
		rec := serve(httptest.NewRequest(http.MethodGet, "/leaves/monthly/2024-02", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.month).To(Equal("2024-02"))
		Expect(rec.Body.String()).To(ContainSubstring("2024-02-01"))
	})

	It("should answer 401 without a principal", func() {
		req := httptest.NewRequest(http.MethodGet, "/leaves", nil)
		req.Header.Set("X-Test-Anonymous", "1")
		Expect(serve(req).Code).To(Equal(http.StatusUnauthorized))
	})
})
