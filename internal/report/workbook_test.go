package report_test

import (
	"bytes"
	"time"

	"github.com/frahmantamala/employee-management/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

func readBack(f *excelize.File, sheet string) [][]string {
	var buf bytes.Buffer
	Expect(f.Write(&buf)).To(Succeed())
	Expect(f.Close()).To(Succeed())

	reopened, err := excelize.OpenReader(&buf)
	Expect(err).NotTo(HaveOccurred())
	defer reopened.Close()

	Expect(reopened.GetSheetList()).To(Equal([]string{sheet}))
	rows, err := reopened.GetRows(sheet)
	Expect(err).NotTo(HaveOccurred())
	return rows
}

var _ = Describe("Workbooks", func() {
	It("should list employees with their department", func() {
		dept := "Engineering"
		f, err := report.EmployeeWorkbook([]report.EmployeeRow{
			{
				EmployeeID:     3,
				UserID:         9,
				FirstName:      "Ana",
				LastName:       "Lopez",
				Email:          "ana@example.com",
				Role:           "Employee",
				DepartmentName: &dept,
				Designation:    "Engineer",
				Salary:         5000,
				Status:         "Active",
				CreatedAt:      time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
			},
			{EmployeeID: 4, UserID: 10, FirstName: "Bo", Email: "bo@example.com", Role: "Manager", Status: "Inactive"},
		})
		Expect(err).NotTo(HaveOccurred())

		rows := readBack(f, report.EmployeeSheet)
		Expect(rows).To(HaveLen(3))
		Expect(rows[0][5]).To(Equal("Department"))
		Expect(rows[1][2]).To(Equal("Ana Lopez"))
		Expect(rows[1][5]).To(Equal("Engineering"))
		Expect(rows[1][7]).To(Equal("5000"))
		Expect(rows[2][2]).To(Equal("Bo"))
		Expect(rows[2][5]).To(Equal(""))
	})

	It("should write one leave per row under a header", func() {
		reason := "short staffed"
		f, err := report.LeaveWorkbook([]report.LeaveRow{
			{
				LeaveID:    1,
				EmployeeID: 3,
				FirstName:  "Ana",
				LastName:   "Lopez",
				Email:      "ana@example.com",
				Role:       "Employee",
				LeaveType:  "Annual",
				StartDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
				EndDate:    time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
				Reason:     "trip",
				Status:     "Rejected",

				RejectionReason: &reason,
				CreatedAt:       time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
			},
		})
		Expect(err).NotTo(HaveOccurred())

		rows := readBack(f, report.LeaveSheet)
		Expect(rows).To(HaveLen(2))
		Expect(rows[0][0]).To(Equal("Leave ID"))
		Expect(rows[1][2]).To(Equal("Ana Lopez"))
		Expect(rows[1][6]).To(Equal("2025-06-10"))
		Expect(rows[1][8]).To(Equal("3"))
		Expect(rows[1][11]).To(Equal("short staffed"))
		Expect(rows[1][13]).To(Equal("2025-06-01 09:30"))
	})

	It("should spell out both approval slots of a request", func() {
		yes, no := true, false
		reason := "budget"
		f, err := report.RequestWorkbook([]report.RequestRow{
			{
				RequestID:       5,
				RequesterID:     21,
				RequesterEmail:  "worker@example.com",
				RequesterRole:   "Employee",
				Items:           "mouse",
				Description:     "broken",
				Status:          "Rejected",
				ManagerApproved: &yes,
				AdminApproved:   &no,
				AdminReason:     &reason,
				CreatedAt:       time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
			},
		})
		Expect(err).NotTo(HaveOccurred())

		rows := readBack(f, report.RequestSheet)
		Expect(rows).To(HaveLen(2))
		Expect(rows[1][4]).To(Equal("mouse"))
		Expect(rows[1][7]).To(Equal("Approved"))
		Expect(rows[1][9]).To(Equal("Rejected"))
		Expect(rows[1][10]).To(Equal("budget"))
	})

	It("should produce a header-only sheet when there is nothing to export", func() {
		f, err := report.RequestWorkbook(nil)
		Expect(err).NotTo(HaveOccurred())

		rows := readBack(f, report.RequestSheet)
		Expect(rows).To(HaveLen(1))
	})
})
