package leave

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/core/common/validation"
	"github.com/frahmantamala/employee-management/internal/core/events"
	"github.com/frahmantamala/employee-management/internal/employee"
)

// Repository interface defines the data access methods for leave requests
type Repository interface {
	Create(ctx context.Context, l *LeaveRequest) error
	// GetByID returns the leave with owner fields, or internal.ErrLeaveNotFound.
	GetByID(ctx context.Context, id int64) (*LeaveRequest, error)
	// List returns the leaves visible to viewerID under scope, newest first.
	List(ctx context.Context, viewerID int64, scope auth.Visibility) ([]*LeaveRequest, error)
	// ListByEmployeeInRange returns the employee's leaves with the given status
	// that overlap [from, to].
	ListByEmployeeInRange(ctx context.Context, employeeID int64, status string, from, to time.Time) ([]*LeaveRequest, error)
	// Decide moves a leave from one status to another in a single conditional
	// update, returning ErrStatusChanged when no row was in the from status.
	Decide(ctx context.Context, id int64, from, to string, decidedBy int64, decidedAt time.Time, rejectionReason *string) error
	Delete(ctx context.Context, id int64) error
}

// EmployeeLookup resolves the employee profile of a user.
type EmployeeLookup interface {
	GetByUserID(ctx context.Context, userID int64) (*employee.Employee, error)
}

type Service struct {
	repo      Repository
	employees EmployeeLookup
	policy    *auth.Policy
	events    events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, employees EmployeeLookup, policy *auth.Policy, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		policy:    policy,
		events:    publisher,
		logger:    logger,
	}
}

// Apply files a pending leave for the principal's own employee profile.
func (s *Service) Apply(ctx context.Context, principal *internal.User, dto ApplyLeaveDTO) (*LeaveRequest, error) {
	start, end, verr := dto.Validate()
	if verr != nil {
		s.logger.Warn("leave validation failed", "error", verr, "user_id", principal.ID)
		return nil, verr
	}

	emp, err := s.employees.GetByUserID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	l := &LeaveRequest{
		EmployeeID:   emp.ID,
		LeaveType:    strings.TrimSpace(dto.LeaveType),
		StartDate:    start,
		EndDate:      end,
		Reason:       strings.TrimSpace(dto.Reason),
		Status:       StatusPending,
		CreatedAt:    time.Now().UTC(),
		OwnerUserID:  principal.ID,
		OwnerRole:    principal.Role,
		OwnerEmail:   emp.Email,
		EmployeeName: emp.FullName(),
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("failed to create leave", "error", err, "employee_id", emp.ID)
		return nil, internal.NewInternalError("failed to create leave request", err)
	}

	s.logger.Info("leave applied",
		"leave_id", l.ID,
		"employee_id", emp.ID,
		"start_date", dto.StartDate,
		"end_date", dto.EndDate)

	s.publish(ctx, events.EventTypeLeaveApplied, l, principal)
	return l, nil
}

func (s *Service) Approve(ctx context.Context, id int64, principal *internal.User) (*LeaveRequest, error) {
	return s.decide(ctx, id, principal, StatusApproved, nil)
}

// Reject records an optional reason alongside the decision.
func (s *Service) Reject(ctx context.Context, id int64, principal *internal.User, reason *string) (*LeaveRequest, error) {
	return s.decide(ctx, id, principal, StatusRejected, reason)
}

func (s *Service) decide(ctx context.Context, id int64, principal *internal.User, to string, reason *string) (*LeaveRequest, error) {
	l, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	subject := auth.Subject{OwnerID: l.OwnerUserID, OwnerRole: l.OwnerRole, State: l.Status}
	switch s.policy.Evaluate(auth.ActionLeaveDecide, principal, subject) {
	case auth.Forbidden:
		s.logger.Warn("leave decision denied",
			"leave_id", id,
			"user_id", principal.ID,
			"role", principal.Role,
			"owner_role", l.OwnerRole)
		if principal.Is(l.OwnerUserID) {
			return nil, internal.ErrSelfApproval
		}
		return nil, internal.ErrNotAuthorized
	case auth.InvalidState:
		s.logger.Warn("cannot decide leave in current status", "leave_id", id, "current_status", l.Status)
		return nil, internal.ErrInvalidLeaveStatus
	}

	decidedAt := time.Now().UTC()
	if err := s.repo.Decide(ctx, id, StatusPending, to, principal.ID, decidedAt, reason); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			s.logger.Warn("leave decided concurrently", "leave_id", id)
			return nil, internal.ErrInvalidLeaveStatus
		}
		s.logger.Error("failed to update leave status", "error", err, "leave_id", id)
		return nil, internal.NewInternalError("failed to update leave request", err)
	}

	decidedBy := principal.ID
	l.Status = to
	l.DecidedBy = &decidedBy
	l.DecidedAt = &decidedAt
	l.RejectionReason = reason

	s.logger.Info("leave decided",
		"leave_id", id,
		"status", to,
		"decided_by", principal.ID,
		"role", principal.Role)

	eventType := events.EventTypeLeaveApproved
	if to == StatusRejected {
		eventType = events.EventTypeLeaveRejected
	}
	s.publish(ctx, eventType, l, principal)

	return l, nil
}

// List returns the leaves the principal may see. Employees must have a profile.
func (s *Service) List(ctx context.Context, principal *internal.User) ([]*LeaveRequest, error) {
	if principal.Role == internal.RoleEmployee {
		if _, err := s.employees.GetByUserID(ctx, principal.ID); err != nil {
			return nil, err
		}
	}

	leaves, err := s.repo.List(ctx, principal.ID, s.policy.LeaveScope(principal.Role))
	if err != nil {
		s.logger.Error("failed to list leaves", "error", err, "user_id", principal.ID)
		return nil, internal.NewInternalError("failed to list leave requests", err)
	}
	return leaves, nil
}

// Delete removes a leave regardless of its status.
func (s *Service) Delete(ctx context.Context, id int64, principal *internal.User) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, internal.ErrLeaveNotFound) {
			return internal.ErrLeaveNotFound
		}
		s.logger.Error("failed to delete leave", "error", err, "leave_id", id)
		return internal.NewInternalError("failed to delete leave request", err)
	}

	s.logger.Info("leave deleted", "leave_id", id, "deleted_by", principal.ID)
	return nil
}

// MonthlyApprovedDates lists the principal's approved leave days in month (YYYY-MM).
func (s *Service) MonthlyApprovedDates(ctx context.Context, principal *internal.User, month string) ([]string, error) {
	v := validation.NewValidator()
	v.Field("month", month).Required().Month()
	if err := v.Validate(); err != nil {
		return nil, err
	}
	first, last, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	emp, err := s.employees.GetByUserID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	leaves, err := s.repo.ListByEmployeeInRange(ctx, emp.ID, StatusApproved, first, last)
	if err != nil {
		s.logger.Error("failed to load approved leaves", "error", err, "employee_id", emp.ID, "month", month)
		return nil, internal.NewInternalError("failed to load approved leaves", err)
	}

	return ApprovedDatesInMonth(leaves, month)
}

func (s *Service) get(ctx context.Context, id int64) (*LeaveRequest, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrLeaveNotFound) {
			return nil, internal.ErrLeaveNotFound
		}
		s.logger.Error("failed to get leave", "error", err, "leave_id", id)
		return nil, internal.NewInternalError("failed to get leave request", err)
	}
	return l, nil
}

func (s *Service) publish(ctx context.Context, eventType string, l *LeaveRequest, actor *internal.User) {
	if s.events == nil {
		return
	}

	var reason string
	if l.RejectionReason != nil {
		reason = *l.RejectionReason
	}

	event := events.NewLeaveEvent(eventType, events.LeaveEventParams{
		LeaveID:     l.ID,
		EmployeeID:  l.EmployeeID,
		OwnerUserID: l.OwnerUserID,
		OwnerEmail:  l.OwnerEmail,
		StartDate:   l.StartDate.Format(validation.DateLayout),
		EndDate:     l.EndDate.Format(validation.DateLayout),
		Status:      l.Status,
		Reason:      reason,
		Actor:       events.Actor{ID: actor.ID, Role: string(actor.Role)},
	})
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish leave event", "error", err, "event_type", eventType, "leave_id", l.ID)
	}
}
