package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/apperror"
)

// IdentityCheck runs after the token verified. It may return a replacement
// identity or reject the request.
type IdentityCheck func(ctx context.Context, id *Identity) (*Identity, error)

// TokenExtractor pulls the raw token from a request. The bearer header wins
// over the cookie when both are present.
type TokenExtractor struct {
	CookieName string
}

// Extract returns the token and whether one was present at all.
func (e TokenExtractor) Extract(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			// Present but unusable; Authenticate reports it as malformed.
			return "", true
		}
		return strings.TrimSpace(parts[1]), true
	}

	if e.CookieName != "" {
		if v, err := c.Cookie(e.CookieName); err == nil && v != "" {
			return v, true
		}
	}

	return "", false
}

// AuthRequired is a Gin middleware that rejects requests without a valid token.
func AuthRequired(jwtManager *JWTManager, extractor TokenExtractor, checks ...IdentityCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := extractor.Extract(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
			return
		}

		id, err := jwtManager.Authenticate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrUnauthorized.Message})
			return
		}

		id, err = runChecks(c.Request.Context(), id, checks)
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				c.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr.Message})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		SetIdentity(c, id)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is sent and lets
// anonymous or invalid-token requests through untouched. A rejected check
// also means anonymous.
func OptionalAuth(jwtManager *JWTManager, extractor TokenExtractor, checks ...IdentityCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := extractor.Extract(c); ok {
			if id, err := jwtManager.Authenticate(tokenStr); err == nil {
				if id, err = runChecks(c.Request.Context(), id, checks); err == nil {
					SetIdentity(c, id)
				}
			}
		}
		c.Next()
	}
}

func runChecks(ctx context.Context, id *Identity, checks []IdentityCheck) (*Identity, error) {
	for _, check := range checks {
		next, err := check(ctx, id)
		if err != nil {
			return nil, err
		}
		id = next
	}
	return id, nil
}
