package request

import (
	"errors"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	requestDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/request"
)

const (
	StatusPendingManager = requestDatamodel.StatusPendingManager
	StatusPendingAdmin   = requestDatamodel.StatusPendingAdmin
	StatusApproved       = requestDatamodel.StatusApproved
	StatusRejected       = requestDatamodel.StatusRejected
)

// ErrStatusChanged is returned by the repository when a conditional write
// matched no row.
var ErrStatusChanged = errors.New("request status changed concurrently")

// Stage names the approval slot a decision is recorded in.
type Stage string

const (
	StageManager Stage = "manager"
	StageAdmin   Stage = "admin"
)

// StageDecision is one approver's verdict on a request.
type StageDecision struct {
	Stage    Stage
	Approved bool
	Reason   *string
	By       int64
	At       time.Time
}

// NextStatus is the status a request moves to after the decision.
func (d StageDecision) NextStatus() string {
	switch {
	case !d.Approved:
		return StatusRejected
	case d.Stage == StageManager:
		return StatusPendingAdmin
	default:
		return StatusApproved
	}
}

// Request is a two-stage resource request. Requester fields come from users.
type Request struct {
	ID                int64
	RequesterID       int64
	Items             string
	Description       string
	Status            string
	ManagerApproved   *bool
	ManagerReason     *string
	ManagerApprovedBy *int64
	ManagerApprovedAt *time.Time
	AdminApproved     *bool
	AdminReason       *string
	AdminApprovedBy   *int64
	AdminApprovedAt   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	RequesterRole  internal.Role
	RequesterEmail string
}

// InitialStatus is where a new request starts. Managers skip their own review.
func InitialStatus(creator internal.Role) string {
	if creator == internal.RoleManager {
		return StatusPendingAdmin
	}
	return StatusPendingManager
}

// Apply records d in the matching approval slot and advances the status.
func (r *Request) Apply(d StageDecision) {
	approved := d.Approved
	by := d.By
	at := d.At
	switch d.Stage {
	case StageManager:
		r.ManagerApproved = &approved
		r.ManagerReason = d.Reason
		r.ManagerApprovedBy = &by
		r.ManagerApprovedAt = &at
	case StageAdmin:
		r.AdminApproved = &approved
		r.AdminReason = d.Reason
		r.AdminApprovedBy = &by
		r.AdminApprovedAt = &at
	}
	r.Status = d.NextStatus()
	r.UpdatedAt = at
}

type RequestV1 struct {
	ID                int64         `json:"request_id"`
	RequesterID       int64         `json:"requester_id"`
	RequesterRole     internal.Role `json:"requester_role,omitempty"`
	Items             string        `json:"items"`
	Description       string        `json:"description"`
	Status            string        `json:"status"`
	ManagerApproved   *bool         `json:"manager_approved"`
	ManagerReason     *string       `json:"manager_reason"`
	ManagerApprovedBy *int64        `json:"manager_approved_by"`
	ManagerApprovedAt *time.Time    `json:"manager_approved_at"`
	AdminApproved     *bool         `json:"admin_approved"`
	AdminReason       *string       `json:"admin_reason"`
	AdminApprovedBy   *int64        `json:"admin_approved_by"`
	AdminApprovedAt   *time.Time    `json:"admin_approved_at"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func (r *Request) ToV1() RequestV1 {
	return RequestV1{
		ID:                r.ID,
		RequesterID:       r.RequesterID,
		RequesterRole:     r.RequesterRole,
		Items:             r.Items,
		Description:       r.Description,
		Status:            r.Status,
		ManagerApproved:   r.ManagerApproved,
		ManagerReason:     r.ManagerReason,
		ManagerApprovedBy: r.ManagerApprovedBy,
		ManagerApprovedAt: r.ManagerApprovedAt,
		AdminApproved:     r.AdminApproved,
		AdminReason:       r.AdminReason,
		AdminApprovedBy:   r.AdminApprovedBy,
		AdminApprovedAt:   r.AdminApprovedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func ToV1Slice(requests []*Request) []RequestV1 {
	result := make([]RequestV1, len(requests))
	for i, r := range requests {
		result[i] = r.ToV1()
	}
	return result
}

func ToDataModel(r *Request) *requestDatamodel.Request {
	return &requestDatamodel.Request{
		ID:                r.ID,
		RequesterID:       r.RequesterID,
		Items:             r.Items,
		Description:       r.Description,
		Status:            r.Status,
		ManagerApproved:   r.ManagerApproved,
		ManagerReason:     r.ManagerReason,
		ManagerApprovedBy: r.ManagerApprovedBy,
		ManagerApprovedAt: r.ManagerApprovedAt,
		AdminApproved:     r.AdminApproved,
		AdminReason:       r.AdminReason,
		AdminApprovedBy:   r.AdminApprovedBy,
		AdminApprovedAt:   r.AdminApprovedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func FromDataModel(r *requestDatamodel.Request) *Request {
	return &Request{
		ID:                r.ID,
		RequesterID:       r.RequesterID,
		Items:             r.Items,
		Description:       r.Description,
		Status:            r.Status,
		ManagerApproved:   r.ManagerApproved,
		ManagerReason:     r.ManagerReason,
		ManagerApprovedBy: r.ManagerApprovedBy,
		ManagerApprovedAt: r.ManagerApprovedAt,
		AdminApproved:     r.AdminApproved,
		AdminReason:       r.AdminReason,
		AdminApprovedBy:   r.AdminApprovedBy,
		AdminApprovedAt:   r.AdminApprovedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
