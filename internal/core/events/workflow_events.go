package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveApplied  = "leave.applied"
	EventTypeLeaveApproved = "leave.approved"
	EventTypeLeaveRejected = "leave.rejected"

	EventTypeRequestCreated         = "request.created"
	EventTypeRequestManagerApproved = "request.manager_approved"
	EventTypeRequestManagerRejected = "request.manager_rejected"
	EventTypeRequestAdminApproved   = "request.admin_approved"
	EventTypeRequestAdminRejected   = "request.admin_rejected"
	EventTypeRequestUpdated         = "request.updated"
	EventTypeRequestDeleted         = "request.deleted"
)

var LeaveEventTypes = []string{
	EventTypeLeaveApplied,
	EventTypeLeaveApproved,
	EventTypeLeaveRejected,
}

var RequestEventTypes = []string{
	EventTypeRequestCreated,
	EventTypeRequestManagerApproved,
	EventTypeRequestManagerRejected,
	EventTypeRequestAdminApproved,
	EventTypeRequestAdminRejected,
	EventTypeRequestUpdated,
	EventTypeRequestDeleted,
}

// Actor identifies who triggered a transition.
type Actor struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

type LeaveEvent struct {
	BaseEvent
	LeaveID     int64  `json:"leave_id"`
	EmployeeID  int64  `json:"employee_id"`
	OwnerUserID int64  `json:"owner_user_id"`
	OwnerEmail  string `json:"owner_email"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
	Actor       Actor  `json:"actor"`
}

type LeaveEventParams struct {
	LeaveID     int64
	EmployeeID  int64
	OwnerUserID int64
	OwnerEmail  string
	StartDate   string
	EndDate     string
	Status      string
	Reason      string
	Actor       Actor
}

func NewLeaveEvent(eventType string, p LeaveEventParams) *LeaveEvent {
	return &LeaveEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"leave_id":      p.LeaveID,
				"employee_id":   p.EmployeeID,
				"owner_user_id": p.OwnerUserID,
				"start_date":    p.StartDate,
				"end_date":      p.EndDate,
				"status":        p.Status,
				"reason":        p.Reason,
				"actor_id":      p.Actor.ID,
				"actor_role":    p.Actor.Role,
			},
		},
		LeaveID:     p.LeaveID,
		EmployeeID:  p.EmployeeID,
		OwnerUserID: p.OwnerUserID,
		OwnerEmail:  p.OwnerEmail,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      p.Status,
		Reason:      p.Reason,
		Actor:       p.Actor,
	}
}

type RequestEvent struct {
	BaseEvent
	RequestID   int64  `json:"request_id"`
	RequesterID int64  `json:"requester_id"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
	Actor       Actor  `json:"actor"`
}

func NewRequestEvent(eventType string, requestID, requesterID int64, status, reason string, actor Actor) *RequestEvent {
	return &RequestEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":   requestID,
				"requester_id": requesterID,
				"status":       status,
				"reason":       reason,
				"actor_id":     actor.ID,
				"actor_role":   actor.Role,
			},
		},
		RequestID:   requestID,
		RequesterID: requesterID,
		Status:      status,
		Reason:      reason,
		Actor:       actor,
	}
}
