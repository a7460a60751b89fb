package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
)

type Repository interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, u *User) error
	// Update rewrites the account columns of u, returning
	// internal.ErrEmailTaken when another user owns the email.
	Update(ctx context.Context, u *User) error
	// Delete removes a profile-less user and the resource requests they
	// raised. Users with an employee profile yield internal.ErrUserHasProfile.
	Delete(ctx context.Context, userID int64) error
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

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("failed to get user", err)
	}
	return u, nil
}

// Create registers a user on behalf of actor, recording actor as creator.
func (s *Service) Create(ctx context.Context, actor *internal.User, dto CreateUserDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	creatorID := actor.ID
	u := &User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         internal.Role(dto.Role),
		IsActive:     true,
		CreatedBy:    &creatorID,
		UpdatedBy:    &creatorID,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, internal.ErrEmailTaken) {
			return nil, internal.ErrEmailTaken
		}
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role, "created_by", actor.ID)
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// Update applies the set fields of dto, recording actor as the last updater.
func (s *Service) Update(ctx context.Context, actor *internal.User, userID int64, dto UpdateUserDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if dto.Username != nil {
		u.Username = *dto.Username
	}
	if dto.Email != nil {
		u.Email = *dto.Email
	}
	if dto.Role != nil {
		u.Role = internal.Role(*dto.Role)
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
	if dto.Password != nil {
		hash, err := auth.HashPassword(*dto.Password, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		u.PasswordHash = hash
	}
	updaterID := actor.ID
	u.UpdatedBy = &updaterID

	if err := s.repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, internal.ErrEmailTaken):
			return nil, internal.ErrEmailTaken
		case errors.Is(err, internal.ErrUserNotFound):
			return nil, internal.ErrUserNotFound
		}
		s.logger.Error("failed to update user", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", userID, "role", u.Role, "updated_by", actor.ID)
	return u, nil
}

// Delete removes another user's account. Deleting your own account is refused.
func (s *Service) Delete(ctx context.Context, actor *internal.User, userID int64) error {
	if actor.Is(userID) {
		return internal.ErrNotAuthorized.WithMessage("Cannot delete your own account")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		switch {
		case errors.Is(err, internal.ErrUserNotFound):
			return internal.ErrUserNotFound
		case errors.Is(err, internal.ErrUserHasProfile):
			return internal.ErrUserHasProfile
		}
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", userID, "deleted_by", actor.ID)
	return nil
}
