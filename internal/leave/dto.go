package leave

import (
	"strings"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/core/common/validation"
)

type ApplyLeaveDTO struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

// Validate checks the payload and returns the parsed inclusive date range.
func (d ApplyLeaveDTO) Validate() (time.Time, time.Time, *internal.AppError) {
	v := validation.NewValidator()
	v.Field("leave_type", d.LeaveType).Required().MaxLength(50)
	v.Field("start_date", d.StartDate).Required().Date()
	v.Field("end_date", d.EndDate).Required().Date()
	v.Field("reason", d.Reason).Required().MaxLength(1000)
	if err := v.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return validation.DateRange("start_date", d.StartDate, "end_date", d.EndDate)
}

// RejectLeaveDTO carries an optional rejection reason.
type RejectLeaveDTO struct {
	Reason string `json:"reason"`
}

func (d RejectLeaveDTO) TrimmedReason() *string {
	reason := strings.TrimSpace(d.Reason)
	if reason == "" {
		return nil
	}
	return &reason
}
