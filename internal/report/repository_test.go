package report_test

import (
	"context"
	"time"

	"github.com/frahmantamala/employee-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/employee-management/internal/core/datamodel/request"
	"github.com/frahmantamala/employee-management/internal/core/datamodel/sqlitetest"
	reportPostgres "github.com/frahmantamala/employee-management/internal/report/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ReportRepository", func() {
	var (
		ctx  context.Context
		repo *reportPostgres.ReportRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		u, e, err := sqlitetest.SeedEmployee(db, "ana@example.com", "Employee", "Ana")
		Expect(err).NotTo(HaveOccurred())
		dept, err := sqlitetest.SeedDepartment(db, "Engineering")
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Model(e).Update("department_id", dept.ID).Error).To(Succeed())
		_, _, err = sqlitetest.SeedEmployee(db, "bo@example.com", "Manager", "Bo")
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Create(&leave.LeaveRequest{
			EmployeeID: e.ID,
			LeaveType:  "Annual",
			StartDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
			Reason:     "trip",
			Status:     leave.StatusPending,
		}).Error).To(Succeed())

		approved := true
		Expect(db.Create(&request.Request{
			RequesterID:     u.ID,
			Items:           "mouse",
			Description:     "broken",
			Status:          request.StatusPendingAdmin,
			ManagerApproved: &approved,
		}).Error).To(Succeed())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		repo = reportPostgres.NewReportRepository(sqlx.NewDb(sqlDB, "sqlite3"))
	})

	It("should list employees with an optional department", func() {
		rows, err := repo.EmployeeRows(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].FirstName).To(Equal("Ana"))
		Expect(*rows[0].DepartmentName).To(Equal("Engineering"))
		Expect(rows[1].Role).To(Equal("Manager"))
		Expect(rows[1].DepartmentName).To(BeNil())
	})

	It("should join leaves with their employee and user", func() {
		rows, err := repo.LeaveRows(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].FirstName).To(Equal("Ana"))
		Expect(rows[0].Email).To(Equal("ana@example.com"))
		Expect(rows[0].Days()).To(Equal(3))
	})

	It("should join requests with their requester", func() {
		rows, err := repo.RequestRows(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].RequesterRole).To(Equal("Employee"))
		Expect(*rows[0].ManagerApproved).To(BeTrue())
		Expect(rows[0].AdminApproved).To(BeNil())
	})
})
