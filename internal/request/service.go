package request

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/core/events"
)

type Repository interface {
	Create(ctx context.Context, r *Request) error
	// GetByID returns the request with requester fields, or internal.ErrRequestNotFound.
	GetByID(ctx context.Context, id int64) (*Request, error)
	List(ctx context.Context, viewerID int64, scope auth.Visibility) ([]*Request, error)
	// Decide writes d into its approval slot while the request is still in
	// status from. ErrStatusChanged reports that no row matched.
	Decide(ctx context.Context, id int64, from string, d StageDecision) error
	// Update rewrites items and description while the request is still in status from.
	Update(ctx context.Context, id int64, from, items, description string, at time.Time) error
	// Delete removes the request while it is still in status from.
	Delete(ctx context.Context, id int64, from string) error
}

type Service struct {
	repo   Repository
	policy *auth.Policy
	events events.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, policy *auth.Policy, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		events: publisher,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, principal *internal.User, dto RequestDTO) (*Request, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &Request{
		RequesterID:    principal.ID,
		Items:          dto.Items,
		Description:    dto.Description,
		Status:         InitialStatus(principal.Role),
		CreatedAt:      now,
		UpdatedAt:      now,
		RequesterRole:  principal.Role,
		RequesterEmail: principal.Email,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("failed to create request", "error", err, "requester_id", principal.ID)
		return nil, internal.NewInternalError("failed to create request", err)
	}

	s.logger.Info("request created",
		"request_id", r.ID,
		"requester_id", principal.ID,
		"role", principal.Role,
		"status", r.Status)

	s.publish(ctx, events.EventTypeRequestCreated, r, "", principal)
	return r, nil
}

func (s *Service) ManagerApprove(ctx context.Context, id int64, principal *internal.User) (*Request, error) {
	return s.decide(ctx, id, principal, StageManager, true, nil)
}

func (s *Service) ManagerReject(ctx context.Context, id int64, principal *internal.User, dto RejectRequestDTO) (*Request, error) {
	reason, err := dto.TrimmedReason()
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, id, principal, StageManager, false, &reason)
}

func (s *Service) AdminApprove(ctx context.Context, id int64, principal *internal.User) (*Request, error) {
	return s.decide(ctx, id, principal, StageAdmin, true, nil)
}

func (s *Service) AdminReject(ctx context.Context, id int64, principal *internal.User, dto RejectRequestDTO) (*Request, error) {
	reason, err := dto.TrimmedReason()
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, id, principal, StageAdmin, false, &reason)
}

func (s *Service) decide(ctx context.Context, id int64, principal *internal.User, stage Stage, approved bool, reason *string) (*Request, error) {
	r, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	action := auth.ActionRequestManagerDecide
	if stage == StageAdmin {
		action = auth.ActionRequestAdminDecide
	}
	if err := s.authorize(action, principal, r); err != nil {
		if errors.Is(err, internal.ErrNotAuthorized) && s.policy.Allowed(action, principal.Role) && principal.Is(r.RequesterID) {
			return nil, internal.ErrSelfApproval
		}
		return nil, err
	}

	d := StageDecision{
		Stage:    stage,
		Approved: approved,
		Reason:   reason,
		By:       principal.ID,
		At:       time.Now().UTC(),
	}
	if err := s.repo.Decide(ctx, id, r.Status, d); err != nil {
		return nil, s.writeFailed(err, "decide", id)
	}
	r.Apply(d)

	s.logger.Info("request decided",
		"request_id", id,
		"stage", stage,
		"approved", approved,
		"status", r.Status,
		"decided_by", principal.ID)

	var reasonText string
	if reason != nil {
		reasonText = *reason
	}
	s.publish(ctx, decisionEventType(stage, approved), r, reasonText, principal)
	return r, nil
}

// Update rewrites items and description, for the creator at their own stage
// or for administrators at any stage.
func (s *Service) Update(ctx context.Context, id int64, principal *internal.User, dto RequestDTO) (*Request, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(auth.ActionRequestEdit, principal, r); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.Update(ctx, id, r.Status, dto.Items, dto.Description, now); err != nil {
		return nil, s.writeFailed(err, "update", id)
	}
	r.Items = dto.Items
	r.Description = dto.Description
	r.UpdatedAt = now

	s.logger.Info("request updated", "request_id", id, "updated_by", principal.ID)
	s.publish(ctx, events.EventTypeRequestUpdated, r, "", principal)
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id int64, principal *internal.User) error {
	r, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(auth.ActionRequestDelete, principal, r); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, r.Status); err != nil {
		return s.writeFailed(err, "delete", id)
	}

	s.logger.Info("request deleted", "request_id", id, "deleted_by", principal.ID)
	s.publish(ctx, events.EventTypeRequestDeleted, r, "", principal)
	return nil
}

// List returns the requests visible to the principal, newest first.
func (s *Service) List(ctx context.Context, principal *internal.User) ([]*Request, error) {
	requests, err := s.repo.List(ctx, principal.ID, s.policy.RequestScope(principal.Role))
	if err != nil {
		s.logger.Error("failed to list requests", "error", err, "user_id", principal.ID)
		return nil, internal.NewInternalError("failed to list requests", err)
	}
	return requests, nil
}

func (s *Service) authorize(action auth.Action, principal *internal.User, r *Request) error {
	subject := auth.Subject{OwnerID: r.RequesterID, OwnerRole: r.RequesterRole, State: r.Status}
	switch s.policy.Evaluate(action, principal, subject) {
	case auth.Forbidden:
		s.logger.Warn("request action denied",
			"action", action,
			"request_id", r.ID,
			"user_id", principal.ID,
			"role", principal.Role)
		return internal.ErrNotAuthorized
	case auth.InvalidState:
		s.logger.Warn("request action not allowed in current status",
			"action", action,
			"request_id", r.ID,
			"current_status", r.Status)
		return internal.ErrInvalidRequestStage
	}
	return nil
}

func (s *Service) get(ctx context.Context, id int64) (*Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrRequestNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		s.logger.Error("failed to get request", "error", err, "request_id", id)
		return nil, internal.NewInternalError("failed to get request", err)
	}
	return r, nil
}

func (s *Service) writeFailed(err error, op string, id int64) error {
	if errors.Is(err, ErrStatusChanged) {
		s.logger.Warn("request changed concurrently", "op", op, "request_id", id)
		return internal.ErrInvalidRequestStage
	}
	s.logger.Error("failed to write request", "error", err, "op", op, "request_id", id)
	return internal.NewInternalError("failed to "+op+" request", err)
}

func (s *Service) publish(ctx context.Context, eventType string, r *Request, reason string, actor *internal.User) {
	if s.events == nil {
		return
	}

	event := events.NewRequestEvent(eventType, r.ID, r.RequesterID, r.Status, reason,
		events.Actor{ID: actor.ID, Role: string(actor.Role)})
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish request event", "error", err, "event_type", eventType, "request_id", r.ID)
	}
}

func decisionEventType(stage Stage, approved bool) string {
	switch {
	case stage == StageManager && approved:
		return events.EventTypeRequestManagerApproved
	case stage == StageManager:
		return events.EventTypeRequestManagerRejected
	case approved:
		return events.EventTypeRequestAdminApproved
	default:
		return events.EventTypeRequestAdminRejected
	}
}
