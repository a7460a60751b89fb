package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/frahmantamala/employee-management/internal"
	requestDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/request"
	"github.com/frahmantamala/employee-management/internal/core/datamodel/sqlitetest"
	userDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/user"
	"github.com/frahmantamala/employee-management/internal/user"
	userPostgres "github.com/frahmantamala/employee-management/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *user.Service
		admin   *internal.User
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		seeded, err := sqlitetest.SeedUser(db, "admin@example.com", "Admin")
		Expect(err).NotTo(HaveOccurred())
		admin = &internal.User{ID: seeded.ID, Email: seeded.Email, Role: internal.RoleAdmin}

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(userPostgres.NewUserRepository(db), bcrypt.MinCost, slogger)
	})

	Describe("Create", func() {
		It("should create an active user with a bcrypt hash and creator", func() {
			u, err := service.Create(ctx, admin, user.CreateUserDTO{
				Username: "hr.lead",
				Email:    "  HR@Example.com ",
				Password: "password123",
				Role:     "HR",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(u.Email).To(Equal("hr@example.com"))
			Expect(u.Role).To(Equal(internal.RoleHR))
			Expect(u.IsActive).To(BeTrue())
			Expect(*u.CreatedBy).To(Equal(admin.ID))
			Expect(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123"))).To(Succeed())
		})

		It("should reject an unknown role", func() {
			_, err := service.Create(ctx, admin, user.CreateUserDTO{
				Username: "intern",
				Email:    "intern@example.com",
				Password: "password123",
				Role:     "Intern",
			})
			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("should report a duplicate email as a conflict", func() {
			_, err := service.Create(ctx, admin, user.CreateUserDTO{
				Username: "dup",
				Email:    "admin@example.com",
				Password: "password123",
				Role:     "Employee",
			})
			Expect(errors.Is(err, internal.ErrEmailTaken)).To(BeTrue())
		})
	})

	Describe("GetByID", func() {
		It("should return the stored user", func() {
			u, err := service.GetByID(ctx, admin.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Email).To(Equal("admin@example.com"))
		})

		It("should return not found for a missing id", func() {
			_, err := service.GetByID(ctx, 999)
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})

	Describe("List", func() {
		It("should return every user in id order", func() {
			_, err := sqlitetest.SeedUser(db, "hr@example.com", "HR")
			Expect(err).NotTo(HaveOccurred())

			users, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
			Expect(users[0].Email).To(Equal("admin@example.com"))
			Expect(users[1].Role).To(Equal(internal.RoleHR))
		})
	})

	Describe("Update", func() {
		var target *userDatamodel.User

		BeforeEach(func() {
			var err error
			target, err = sqlitetest.SeedUser(db, "worker@example.com", "Employee")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should change only the fields that are set and record the updater", func() {
			role := "Manager"
			inactive := false
			u, err := service.Update(ctx, admin, target.ID, user.UpdateUserDTO{Role: &role, IsActive: &inactive})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal(internal.RoleManager))
			Expect(u.IsActive).To(BeFalse())
			Expect(u.Email).To(Equal("worker@example.com"))
			Expect(*u.UpdatedBy).To(Equal(admin.ID))

			stored, err := service.GetByID(ctx, target.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Role).To(Equal(internal.RoleManager))
			Expect(stored.IsActive).To(BeFalse())
		})

		It("should re-hash a new password", func() {
			password := "new-password-1"
			_, err := service.Update(ctx, admin, target.ID, user.UpdateUserDTO{Password: &password})
			Expect(err).NotTo(HaveOccurred())

			stored, err := service.GetByID(ctx, target.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password))).To(Succeed())
		})

		It("should refuse an email owned by someone else", func() {
			email := "ADMIN@example.com"
			_, err := service.Update(ctx, admin, target.ID, user.UpdateUserDTO{Email: &email})
			Expect(errors.Is(err, internal.ErrEmailTaken)).To(BeTrue())
		})

		It("should reject an unknown role", func() {
			role := "Intern"
			_, err := service.Update(ctx, admin, target.ID, user.UpdateUserDTO{Role: &role})
			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("should return not found for a missing id", func() {
			name := "ghost"
			_, err := service.Update(ctx, admin, 999, user.UpdateUserDTO{Username: &name})
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("should remove a profile-less user and their resource requests", func() {
			target, err := sqlitetest.SeedUser(db, "root2@example.com", "Superuser")
			Expect(err).NotTo(HaveOccurred())
			Expect(db.Create(&requestDatamodel.Request{
				RequesterID: target.ID, Items: "monitor", Description: "desk",
				Status: requestDatamodel.StatusPendingManager,
			}).Error).To(Succeed())

			Expect(service.Delete(ctx, admin, target.ID)).To(Succeed())

			_, err = service.GetByID(ctx, target.ID)
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
			var requests int64
			Expect(db.Table("requests").Count(&requests).Error).To(Succeed())
			Expect(requests).To(BeZero())
		})

		It("should refuse a user that still has an employee profile", func() {
			u, _, err := sqlitetest.SeedEmployee(db, "ana@example.com", "Employee", "Ana")
			Expect(err).NotTo(HaveOccurred())

			err = service.Delete(ctx, admin, u.ID)
			Expect(errors.Is(err, internal.ErrUserHasProfile)).To(BeTrue())

			_, err = service.GetByID(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should refuse to delete the caller's own account", func() {
			err := service.Delete(ctx, admin, admin.ID)
			Expect(internal.IsType(err, internal.ErrorTypeForbidden)).To(BeTrue())
		})

		It("should return not found for a missing id", func() {
			err := service.Delete(ctx, admin, 999)
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})
})
