package user

import (
	"strings"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/core/common/validation"
)

// CreateUserDTO registers an account without an employee profile.
type CreateUserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (d *CreateUserDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	v.Field("role", d.Role).Required().Role()
	return v.Validate()
}

// UpdateUserDTO changes account fields. Nil fields keep their value and a
// non-empty password is re-hashed.
type UpdateUserDTO struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (d *UpdateUserDTO) Normalize() {
	if d.Username != nil {
		*d.Username = strings.TrimSpace(*d.Username)
	}
	if d.Email != nil {
		*d.Email = strings.ToLower(strings.TrimSpace(*d.Email))
	}
	if d.Password != nil && *d.Password == "" {
		d.Password = nil
	}
}

func (d UpdateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Username != nil {
		v.Field("username", *d.Username).Required().MaxLength(100)
	}
	if d.Email != nil {
		v.Field("email", *d.Email).Required().Email().MaxLength(255)
	}
	if d.Password != nil {
		v.Field("password", *d.Password).MinLength(8).MaxLength(72)
	}
	if d.Role != nil {
		v.Field("role", *d.Role).Required().Role()
	}
	return v.Validate()
}
