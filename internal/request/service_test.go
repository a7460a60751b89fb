package request_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/core/datamodel/sqlitetest"
	"github.com/frahmantamala/employee-management/internal/core/events"
	"github.com/frahmantamala/employee-management/internal/request"
	requestPostgres "github.com/frahmantamala/employee-management/internal/request/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) last() events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

var _ = Describe("Request Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		repo      *requestPostgres.RequestRepository
		publisher *recordingPublisher
		service   *request.Service

		worker, otherWorker, manager, otherManager, hr, admin, superuser *internal.User
	)

	seed := func(email string, role internal.Role) *internal.User {
		u, err := sqlitetest.SeedUser(db, email, role.String())
		Expect(err).NotTo(HaveOccurred())
		return &internal.User{ID: u.ID, Email: u.Email, Role: role}
	}

	create := func(principal *internal.User) *request.Request {
		r, err := service.Create(ctx, principal, request.RequestDTO{Items: "mouse", Description: "broken"})
		Expect(err).NotTo(HaveOccurred())
		return r
	}

	reject := func(reason string) request.RejectRequestDTO {
		return request.RejectRequestDTO{Reason: reason}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = requestPostgres.NewRequestRepository(db)
		publisher = &recordingPublisher{}
		service = request.NewService(repo, auth.DefaultPolicy(), publisher, slogger)

		worker = seed("worker@example.com", internal.RoleEmployee)
		otherWorker = seed("other@example.com", internal.RoleEmployee)
		manager = seed("manager@example.com", internal.RoleManager)
		otherManager = seed("manager2@example.com", internal.RoleManager)
		hr = seed("hr@example.com", internal.RoleHR)
		admin = seed("admin@example.com", internal.RoleAdmin)
		superuser = seed("root@example.com", internal.RoleSuperuser)
	})

	Describe("Create", func() {
		It("should start employee requests at Pending Manager", func() {
			r := create(worker)
			Expect(r.Status).To(Equal(request.StatusPendingManager))
			Expect(publisher.last().EventType()).To(Equal(events.EventTypeRequestCreated))
		})

		It("should start manager requests at Pending Admin", func() {
			r := create(manager)
			Expect(r.Status).To(Equal(request.StatusPendingAdmin))
		})

		It("should start superuser requests at Pending Manager", func() {
			r := create(superuser)
			Expect(r.Status).To(Equal(request.StatusPendingManager))
		})

		It("should require items and description", func() {
			_, err := service.Create(ctx, worker, request.RequestDTO{Items: "  ", Description: "broken"})
			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())

			_, err = service.Create(ctx, worker, request.RequestDTO{Items: "mouse"})
			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})
	})

	Describe("two-stage approval", func() {
		It("should move through manager approval then admin rejection", func() {
			r := create(worker)

			r, err := service.ManagerApprove(ctx, r.ID, manager)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Status).To(Equal(request.StatusPendingAdmin))

			r, err = service.AdminReject(ctx, r.ID, admin, reject("budget"))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Status).To(Equal(request.StatusRejected))

			stored, err := repo.GetByID(ctx, r.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(request.StatusRejected))
			Expect(*stored.AdminReason).To(Equal("budget"))
			Expect(*stored.AdminApproved).To(BeFalse())
			Expect(*stored.AdminApprovedBy).To(Equal(admin.ID))
			Expect(stored.ManagerReason).To(BeNil())
			Expect(*stored.ManagerApproved).To(BeTrue())
			Expect(*stored.ManagerApprovedBy).To(Equal(manager.ID))
			Expect(publisher.last().EventType()).To(Equal(events.EventTypeRequestAdminRejected))
		})

		It("should approve at the admin stage", func() {
			r := create(manager)

			r, err := service.AdminApprove(ctx, r.ID, superuser)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Status).To(Equal(request.StatusApproved))
			Expect(r.ManagerApproved).To(BeNil())
		})

		It("should succeed once then fail with InvalidState on a second manager approval", func() {
			r := create(worker)

			_, err := service.ManagerApprove(ctx, r.ID, manager)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ManagerApprove(ctx, r.ID, otherManager)
			Expect(errors.Is(err, internal.ErrInvalidRequestStage)).To(BeTrue())
		})

		It("should store a trimmed manager rejection reason", func() {
			r := create(worker)

			r, err := service.ManagerReject(ctx, r.ID, manager, reject("  not needed "))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Status).To(Equal(request.StatusRejected))

			stored, err := repo.GetByID(ctx, r.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*stored.ManagerReason).To(Equal("not needed"))
			Expect(*stored.ManagerApproved).To(BeFalse())
			Expect(stored.AdminApproved).To(BeNil())
		})

		It("should require a rejection reason", func() {
			r := create(worker)

			_, err := service.ManagerReject(ctx, r.ID, manager, reject("   "))
			Expect(errors.Is(err, internal.ErrReasonRequired)).To(BeTrue())

			_, err = service.ManagerApprove(ctx, r.ID, manager)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.AdminReject(ctx, r.ID, admin, reject(""))
			Expect(errors.Is(err, internal.ErrReasonRequired)).To(BeTrue())
		})

		It("should refuse admin decisions before manager approval", func() {
			r := create(worker)

			_, err := service.AdminApprove(ctx, r.ID, admin)
			Expect(errors.Is(err, internal.ErrInvalidRequestStage)).To(BeTrue())
		})

		It("should refuse manager decisions at Pending Admin", func() {
			r := create(manager)

			_, err := service.ManagerApprove(ctx, r.ID, otherManager)
			Expect(errors.Is(err, internal.ErrInvalidRequestStage)).To(BeTrue())
		})

		It("should refuse a manager approving their own request", func() {
			// manager requests normally start at Pending Admin
			own := &request.Request{RequesterID: manager.ID, Items: "desk", Description: "new", Status: request.StatusPendingManager}
			Expect(repo.Create(ctx, own)).To(Succeed())

			_, err := service.ManagerApprove(ctx, own.ID, manager)
			Expect(errors.Is(err, internal.ErrSelfApproval)).To(BeTrue())

			_, err = service.ManagerReject(ctx, own.ID, manager, reject("no"))
			Expect(errors.Is(err, internal.ErrSelfApproval)).To(BeTrue())
		})

		It("should forbid HR from the manager stage", func() {
			r := create(worker)

			_, err := service.ManagerApprove(ctx, r.ID, hr)
			Expect(errors.Is(err, internal.ErrNotAuthorized)).To(BeTrue())

			_, err = service.ManagerReject(ctx, r.ID, hr, reject("no"))
			Expect(errors.Is(err, internal.ErrNotAuthorized)).To(BeTrue())
		})

		It("should forbid non administrators from the admin stage", func() {
			r := create(manager)

			for _, p := range []*internal.User{worker, otherManager, hr} {
				_, err := service.AdminApprove(ctx, r.ID, p)
				Expect(errors.Is(err, internal.ErrNotAuthorized)).To(BeTrue(), string(p.Role))
			}
		})

		It("should report a missing request", func() {
			_, err := service.AdminApprove(ctx, 999, admin)
			Expect(errors.Is(err, internal.ErrRequestNotFound)).To(BeTrue())
		})
	})

	Describe("Update", func() {
		It("should let an employee edit at Pending Manager only", func() {
			r := create(worker)

			updated, err := service.Update(ctx, r.ID, worker, request.RequestDTO{Items: "keyboard", Description: "sticky keys"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Items).To(Equal("keyboard"))

			_, err = service.ManagerApprove(ctx, r.ID, manager)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(ctx, r.ID, worker, request.RequestDTO{Items: "monitor", Description: "x"})
			Expect(errors.Is(err, internal.ErrInvalidRequestStage)).To(BeTrue())
		})

		It("should forbid editing someone else's request", func() {
			r := create(worker)

			_, err := service.Update(ctx, r.ID, otherWorker, request.RequestDTO{Items: "x", Description: "y"})
			Expect(errors.Is(err, internal.ErrNotAuthorized)).To(BeTrue())

			_, err = service.Update(ctx, r.ID, manager, request.RequestDTO{Items: "x", Description: "y"})
			Expect(errors.Is(err, internal.ErrNotAuthorized)).To(BeTrue())
		})

		It("should let administrators edit in any status", func() {
			r := create(worker)
			_, err := service.ManagerReject(ctx, r.ID, manager, reject("no"))
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.Update(ctx, r.ID, admin, request.RequestDTO{Items: "x", Description: "y"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(request.StatusRejected))
		})

		It("should fail when the status moved after it was read", func() {
			r := create(worker)
			_, err := service.ManagerApprove(ctx, r.ID, manager)
			Expect(err).NotTo(HaveOccurred())

			err = repo.Update(ctx, r.ID, request.StatusPendingManager, "x", "y", r.CreatedAt)
			Expect(errors.Is(err, request.ErrStatusChanged)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("should let an employee delete only while Pending Manager", func() {
			advanced := create(worker)
			_, err := service.ManagerApprove(ctx, advanced.ID, manager)
			Expect(err).NotTo(HaveOccurred())

			err = service.Delete(ctx, advanced.ID, worker)
			Expect(errors.Is(err, internal.ErrInvalidRequestStage)).To(BeTrue())

			fresh := create(worker)
			Expect(service.Delete(ctx, fresh.ID, worker)).To(Succeed())

			_, err = repo.GetByID(ctx, fresh.ID)
			Expect(errors.Is(err, internal.ErrRequestNotFound)).To(BeTrue())
			Expect(publisher.last().EventType()).To(Equal(events.EventTypeRequestDeleted))
		})

		It("should let a manager delete their own request only at Pending Admin", func() {
			r := create(manager)
			Expect(service.Delete(ctx, r.ID, manager)).To(Succeed())
		})

		It("should let administrators delete in any status", func() {
			r := create(worker)
			_, err := service.ManagerApprove(ctx, r.ID, manager)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.AdminApprove(ctx, r.ID, admin)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, r.ID, superuser)).To(Succeed())
		})

		It("should forbid HR", func() {
			r := create(worker)
			err := service.Delete(ctx, r.ID, hr)
			Expect(errors.Is(err, internal.ErrNotAuthorized)).To(BeTrue())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			create(worker)
			create(otherWorker)
			create(manager)
			create(otherManager)
		})

		It("should show employees only their own requests", func() {
			requests, err := service.List(ctx, worker)
			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].RequesterID).To(Equal(worker.ID))
		})

		It("should show managers their own plus employee requests", func() {
			requests, err := service.List(ctx, manager)
			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(3))
			for _, r := range requests {
				Expect(r.RequesterID).NotTo(Equal(otherManager.ID))
			}
		})

		It("should show HR every request, newest first", func() {
			requests, err := service.List(ctx, hr)
			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(4))
			Expect(requests[0].RequesterID).To(Equal(otherManager.ID))
		})
	})
})
