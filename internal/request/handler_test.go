package request_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/request"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubRequestService struct {
	request   *request.Request
	err       error
	rejectDTO request.RejectRequestDTO
}

func (s *stubRequestService) Create(ctx context.Context, principal *internal.User, dto request.RequestDTO) (*request.Request, error) {
	return s.request, s.err
}

func (s *stubRequestService) ManagerApprove(ctx context.Context, id int64, principal *internal.User) (*request.Request, error) {
	return s.request, s.err
}

func (s *stubRequestService) ManagerReject(ctx context.Context, id int64, principal *internal.User, dto request.RejectRequestDTO) (*request.Request, error) {
	s.rejectDTO = dto
	return s.request, s.err
}

func (s *stubRequestService) AdminApprove(ctx context.Context, id int64, principal *internal.User) (*request.Request, error) {
	return s.request, s.err
}

func (s *stubRequestService) AdminReject(ctx context.Context, id int64, principal *internal.User, dto request.RejectRequestDTO) (*request.Request, error) {
	s.rejectDTO = dto
	return s.request, s.err
}

func (s *stubRequestService) Update(ctx context.Context, id int64, principal *internal.User, dto request.RequestDTO) (*request.Request, error) {
	return s.request, s.err
}

func (s *stubRequestService) Delete(ctx context.Context, id int64, principal *internal.User) error {
	return s.err
}

func (s *stubRequestService) List(ctx context.Context, principal *internal.User) ([]*request.Request, error) {
	return []*request.Request{s.request}, s.err
}

var _ = Describe("Request Handler", func() {
	var (
		stub   *stubRequestService
		router chi.Router
	)

	BeforeEach(func() {
		stub = &stubRequestService{request: &request.Request{ID: 5, Items: "mouse", Description: "broken", Status: request.StatusPendingManager}}
		handler := request.NewHandler(stub)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUser(r.Context(), &internal.User{ID: 1, Role: internal.RoleManager})))
			})
		})
		router.Post("/requests", handler.CreateRequest)
		router.Put("/requests/{id}/manager/approve", handler.ManagerApprove)
		router.Put("/requests/{id}/manager/reject", handler.ManagerReject)
		router.Put("/requests/{id}/admin/reject", handler.AdminReject)
		router.Delete("/requests/{id}", handler.DeleteRequest)
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	It("should create with 201 and the status string", func() {
		rec := serve(http.MethodPost, "/requests", `{"items":"mouse","description":"broken"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(rec.Body.String()).To(ContainSubstring(`"status":"Pending Manager"`))
	})

	It("should forward the rejection reason", func() {
		rec := serve(http.MethodPut, "/requests/5/admin/reject", `{"reason":"budget"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.rejectDTO.Reason).To(Equal("budget"))
	})

	It("should answer 400 when a reject carries no body", func() {
		rec := serve(http.MethodPut, "/requests/5/manager/reject", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("REASON_REQUIRED"))
	})

	It("should map self approval to 403", func() {
		stub.err = internal.ErrSelfApproval
		rec := serve(http.MethodPut, "/requests/5/manager/approve", "")
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("should map a wrong stage to 400", func() {
		stub.err = internal.ErrInvalidRequestStage
		rec := serve(http.MethodDelete, "/requests/5", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("INVALID_REQUEST_STAGE"))
	})
})
