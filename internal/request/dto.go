package request

import (
	"strings"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/core/common/validation"
)

// RequestDTO is the body of both create and update.
type RequestDTO struct {
	Items       string `json:"items"`
	Description string `json:"description"`
}

func (d *RequestDTO) Normalize() {
	d.Items = strings.TrimSpace(d.Items)
	d.Description = strings.TrimSpace(d.Description)
}

func (d RequestDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("items", d.Items).Required().MaxLength(500)
	v.Field("description", d.Description).Required().MaxLength(2000)
	return v.Validate()
}

type RejectRequestDTO struct {
	Reason string `json:"reason"`
}

// TrimmedReason returns the reason or ErrReasonRequired when it is blank.
func (d RejectRequestDTO) TrimmedReason() (string, error) {
	reason := strings.TrimSpace(d.Reason)
	if reason == "" {
		return "", internal.ErrReasonRequired
	}
	return reason, nil
}
