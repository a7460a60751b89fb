package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	employeeDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/employee"
	requestDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/request"
	userDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/user"
	"github.com/frahmantamala/employee-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	var rows []userDatamodel.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*user.User, len(rows))
	for i := range rows {
		result[i] = user.FromDataModel(&rows[i])
	}
	return result, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&userDatamodel.User{}).Where("email = ? AND id <> ?", u.Email, u.ID).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return internal.ErrEmailTaken
		}

		now := time.Now().UTC()
		res := tx.Model(&userDatamodel.User{}).
			Where("id = ?", u.ID).
			Updates(map[string]interface{}{
				"username":      u.Username,
				"email":         u.Email,
				"password_hash": u.PasswordHash,
				"role":          string(u.Role),
				"is_active":     u.IsActive,
				"updated_by":    u.UpdatedBy,
				"updated_at":    now,
			})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return internal.ErrEmailTaken
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrUserNotFound
		}
		u.UpdatedAt = now
		return nil
	})
}

func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u userDatamodel.User
		if err := tx.Where("id = ?", userID).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrUserNotFound
			}
			return err
		}

		var profiles int64
		if err := tx.Model(&employeeDatamodel.Employee{}).Where("user_id = ?", userID).Count(&profiles).Error; err != nil {
			return err
		}
		if profiles > 0 {
			return internal.ErrUserHasProfile
		}

		if err := tx.Where("requester_id = ?", userID).Delete(&requestDatamodel.Request{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&userDatamodel.User{}).Error
	})
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return CreateUser(tx, u)
	})
}

// CreateUser inserts u inside tx, mapping a duplicate email to ErrEmailTaken.
// It is shared with the employee repository, which creates a user and its
// profile in one transaction.
func CreateUser(tx *gorm.DB, u *user.User) error {
	var count int64
	if err := tx.Model(&userDatamodel.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return internal.ErrEmailTaken
	}

	dm := user.ToDataModel(u)
	if err := tx.Create(dm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrEmailTaken
		}
		return err
	}

	u.ID = dm.ID
	u.CreatedAt = dm.CreatedAt
	u.UpdatedAt = dm.UpdatedAt
	return nil
}
