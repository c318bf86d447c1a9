package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/user"
)

// UserGetter is the part of the user service the admin gate needs.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// RequireAdmin ensures the authenticated user is an active admin. The role in
// the token is not trusted alone; the stored account is checked so demoted or
// deactivated admins lose access before their token expires.
// It MUST be used after auth.AuthRequired middleware.
func RequireAdmin(users UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := auth.GetIdentity(c)
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !id.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin access required"})
			return
		}

		u, err := users.GetByID(c.Request.Context(), id.ID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
				return
			}
			slog.Error("admin check failed", "user_id", id.ID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if !u.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": user.ErrInactiveUser.Message})
			return
		}
		if u.Role != auth.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin access required"})
			return
		}

		c.Next()
	}
}

// LiveAdminCheck re-reads accounts whose token claims admin, so services that
// trust Identity.IsAdmin see the stored role. A demoted admin continues with
// the current role; a deactivated or deleted one is rejected.
func LiveAdminCheck(users UserGetter) auth.IdentityCheck {
	return func(ctx context.Context, id *auth.Identity) (*auth.Identity, error) {
		if !id.IsAdmin() {
			return id, nil
		}

		u, err := users.GetByID(ctx, id.ID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return nil, auth.ErrUnauthorized
			}
			return nil, err
		}
		if !u.IsActive {
			return nil, user.ErrInactiveUser
		}

		live := u.Identity()
		return &live, nil
	}
}
