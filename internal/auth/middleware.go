package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/go-shop-api/internal/errors"
	"github.com/allisson/go-shop-api/internal/httputil"
	userDomain "github.com/allisson/go-shop-api/internal/user/domain"
)

// UserResolver loads the token subject. Deactivated accounts are rejected by
// the resolver, not the middleware.
type UserResolver interface {
	GetActiveUser(ctx context.Context, id int64) (*userDomain.User, error)
}

// AuthenticationMiddleware authenticates requests via a Bearer token in the
// Authorization header and stores the resolved user in the request context
// for downstream handlers.
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer").
//
// Error handling:
//   - Missing/malformed header → 401 Unauthorized
//   - Invalid or expired token → 401 Unauthorized
//   - Unknown or inactive user → 401 Unauthorized
func AuthenticationMiddleware(
	tokenService *TokenService,
	userResolver UserResolver,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		tokenString := authHeader[len(bearerPrefix):]
		if tokenString == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		claims, err := tokenService.Validate(tokenString)
		if err != nil {
			logger.Debug("authentication failed: token validation", slog.Any("error", err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		user, err := userResolver.GetActiveUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				err = apperrors.ErrUnauthorized
			}
			logger.Debug("authentication failed: user resolution", slog.Any("error", err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
		c.Next()
	}
}
