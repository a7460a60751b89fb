package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/transport"
)

// RBACAuthorization guards routes by the principal's role. Finer ownership
// and state rules are evaluated by the services against the Policy.
type RBACAuthorization struct {
	*transport.BaseHandler
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		logger:      logger,
	}
}

func (ra *RBACAuthorization) RequireRoles(roles ...internal.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok {
				ra.logger.Warn("authorization check failed: user not found in context")
				ra.HandleServiceError(w, internal.ErrInvalidToken.WithMessage("unauthorized"))
				return
			}

			if !internal.RoleIn(user.Role, roles...) {
				ra.logger.WarnContext(r.Context(), "access denied: role not permitted",
					"user_id", user.ID,
					"role", user.Role,
					"required_roles", roles,
					"path", r.URL.Path)
				ra.HandleServiceError(w, internal.ErrNotAuthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleAdmin, internal.RoleSuperuser)
}
