package department

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/employee-management/internal"
)

type Repository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id int64) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
	Update(ctx context.Context, d *Department) error
	// Delete removes the department, or returns internal.ErrDepartmentInUse
	// while employees still reference it.
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, actor *internal.User, dto DepartmentDTO) (*Department, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d := &Department{Name: dto.Name, Description: dto.Description}
	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error("failed to create department", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create department", err)
	}

	s.logger.Info("department created", "department_id", d.ID, "created_by", actor.ID)
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Department, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupFailed(err, id)
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) ([]*Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewInternalError("failed to list departments", err)
	}
	return departments, nil
}

func (s *Service) Update(ctx context.Context, actor *internal.User, id int64, dto DepartmentDTO) (*Department, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Name = dto.Name
	d.Description = dto.Description

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, s.lookupFailed(err, id)
	}

	s.logger.Info("department updated", "department_id", id, "updated_by", actor.ID)
	return d, nil
}

func (s *Service) Delete(ctx context.Context, actor *internal.User, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, internal.ErrDepartmentInUse) {
			s.logger.Warn("department still in use", "department_id", id)
			return internal.ErrDepartmentInUse
		}
		return s.lookupFailed(err, id)
	}

	s.logger.Info("department deleted", "department_id", id, "deleted_by", actor.ID)
	return nil
}

func (s *Service) lookupFailed(err error, id int64) error {
	if errors.Is(err, internal.ErrDepartmentNotFound) {
		return internal.ErrDepartmentNotFound
	}
	s.logger.Error("department query failed", "error", err, "department_id", id)
	return internal.NewInternalError("failed to load department", err)
}
