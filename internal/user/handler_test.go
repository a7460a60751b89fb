package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubUserService struct {
	user      *user.User
	err       error
	dto       user.CreateUserDTO
	updated   user.UpdateUserDTO
	deletedID int64
}

func (s *stubUserService) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	return s.user, s.err
}

func (s *stubUserService) List(ctx context.Context) ([]*user.User, error) {
	if s.user == nil {
		return nil, s.err
	}
	return []*user.User{s.user}, s.err
}

func (s *stubUserService) Update(ctx context.Context, actor *internal.User, userID int64, dto user.UpdateUserDTO) (*user.User, error) {
	s.updated = dto
	return s.user, s.err
}

func (s *stubUserService) Delete(ctx context.Context, actor *internal.User, userID int64) error {
	s.deletedID = userID
	return s.err
}

func (s *stubUserService) Create(ctx context.Context, actor *internal.User, dto user.CreateUserDTO) (*user.User, error) {
	s.dto = dto
	return s.user, s.err
}

var _ = Describe("User Handler", func() {
	var (
		stub    *stubUserService
		handler *user.Handler
	)

	BeforeEach(func() {
		stub = &stubUserService{user: &user.User{ID: 7, Email: "me@example.com", Role: internal.RoleEmployee, PasswordHash: "secret-hash"}}
		handler = user.NewHandler(stub)
	})

	withPrincipal := func(req *http.Request) *http.Request {
		return req.WithContext(internal.ContextWithUser(req.Context(), &internal.User{ID: 7, Role: internal.RoleAdmin}))
	}

	It("should return the current user without the password hash", func() {
		rec := httptest.NewRecorder()
		handler.GetCurrentUser(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).NotTo(ContainSubstring("secret-hash"))

		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["email"]).To(Equal("me@example.com"))
	})

	It("should answer 401 without a principal", func() {
		rec := httptest.NewRecorder()
		handler.GetCurrentUser(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should map a conflict to 409", func() {
		stub.err = internal.ErrEmailTaken
		payload, _ := json.Marshal(map[string]string{"username": "x", "email": "x@example.com", "password": "password123", "role": "Employee"})

		rec := httptest.NewRecorder()
		handler.CreateUser(rec, withPrincipal(httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(payload))))

		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(stub.dto.Email).To(Equal("x@example.com"))
		Expect(rec.Body.String()).To(ContainSubstring("EMAIL_TAKEN"))
	})

	It("should reject a malformed body", func() {
		rec := httptest.NewRecorder()
		handler.CreateUser(rec, withPrincipal(httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString("{"))))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should list users without password hashes", func() {
		rec := httptest.NewRecorder()
		handler.ListUsers(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).NotTo(ContainSubstring("secret-hash"))
		Expect(rec.Body.String()).To(ContainSubstring(`"count":1`))
	})

	It("should pass the id and partial body to Update", func() {
		router := chi.NewRouter()
		router.Put("/api/v1/users/{id}", handler.UpdateUser)

		rec := httptest.NewRecorder()
		req := withPrincipal(httptest.NewRequest(http.MethodPut, "/api/v1/users/7", bytes.NewBufferString(`{"is_active":false}`)))
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.updated.IsActive).NotTo(BeNil())
		Expect(*stub.updated.IsActive).To(BeFalse())
		Expect(stub.updated.Email).To(BeNil())
	})

	It("should map a profile conflict on delete to 409", func() {
		stub.err = internal.ErrUserHasProfile
		router := chi.NewRouter()
		router.Delete("/api/v1/users/{id}", handler.DeleteUser)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withPrincipal(httptest.NewRequest(http.MethodDelete, "/api/v1/users/12", nil)))

		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(stub.deletedID).To(Equal(int64(12)))
	})
})
