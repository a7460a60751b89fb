package employee

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	employeeDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/employee-management/internal/user"
)

type Repository interface {
	// Create inserts u and e in one transaction and sets e.UserID.
	Create(ctx context.Context, u *user.User, e *Employee) error
	GetByID(ctx context.Context, employeeID int64) (*Employee, error)
	GetByUserID(ctx context.Context, userID int64) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	// Update rewrites the profile columns of e. A department that does not
	// exist yields internal.ErrDepartmentNotFound.
	Update(ctx context.Context, e *Employee) error
	// Delete removes the employee, its leave requests, its resource requests
	// and its user in one transaction.
	Delete(ctx context.Context, employeeID int64) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Create(ctx context.Context, actor *internal.User, dto CreateEmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	creatorID := actor.ID
	u := &user.User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         internal.Role(dto.Role),
		IsActive:     true,
		CreatedBy:    &creatorID,
		UpdatedBy:    &creatorID,
	}
	e := &Employee{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		DepartmentID: dto.DepartmentID,
		Designation:  dto.Designation,
		Salary:       dto.Salary,
		Status:       employeeDatamodel.StatusActive,
	}

	if err := s.repo.Create(ctx, u, e); err != nil {
		if errors.Is(err, internal.ErrEmailTaken) {
			return nil, internal.ErrEmailTaken
		}
		if errors.Is(err, internal.ErrDepartmentNotFound) {
			return nil, internal.ErrDepartmentNotFound
		}
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	e.Email = u.Email
	e.Role = u.Role

	s.logger.Info("employee created",
		"employee_id", e.ID,
		"user_id", e.UserID,
		"role", e.Role,
		"created_by", actor.ID)

	return e, nil
}

// GetByUserID returns the profile linked to a user, or ErrEmployeeNotFound.
func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Employee, error) {
	e, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, employeeID int64) (*Employee, error) {
	e, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to get employee", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, actor *internal.User, employeeID int64, dto UpdateEmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	dto.Apply(e)

	if err := s.repo.Update(ctx, e); err != nil {
		switch {
		case errors.Is(err, internal.ErrDepartmentNotFound):
			return nil, internal.ErrDepartmentNotFound
		case errors.Is(err, internal.ErrEmployeeNotFound):
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to update employee", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee updated", "employee_id", employeeID, "updated_by", actor.ID)
	return s.GetByID(ctx, employeeID)
}

func (s *Service) Me(ctx context.Context, principal *internal.User) (*Employee, error) {
	return s.GetByUserID(ctx, principal.ID)
}

func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	return employees, nil
}

func (s *Service) Delete(ctx context.Context, actor *internal.User, employeeID int64) error {
	if err := s.repo.Delete(ctx, employeeID); err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to delete employee", "error", err, "employee_id", employeeID)
		return internal.NewInternalError("failed to delete employee", err)
	}

	s.logger.Info("employee deleted", "employee_id", employeeID, "deleted_by", actor.ID)
	return nil
}
