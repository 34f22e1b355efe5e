package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tajoco/contacts/internal/constants"
	apperrors "github.com/tajoco/contacts/internal/errors"
	"github.com/tajoco/contacts/internal/service"
	ctxutil "github.com/tajoco/contacts/pkg/context"
	"github.com/tajoco/contacts/pkg/logger"
)

type JWTMiddleware struct {
	authService *service.AuthService
}

func NewJWTMiddleware(authService *service.AuthService) *JWTMiddleware {
	return &JWTMiddleware{
		authService: authService,
	}
}

// RequireAuth validates the Bearer access token, resolves the user and
// stores it for downstream handlers.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		user, err := m.authService.CurrentUser(c.Request.Context(), tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Access token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			// keep 401 for bad credentials but let infrastructure
			// failures surface as 500
			c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(
				apperrors.GetErrorMessage(err), nil))
			c.Abort()
			return
		}

		ctx := ctxutil.WithUserID(c.Request.Context(), user.ID)
		ctx = ctxutil.WithUserEmail(ctx, user.Email)
		c.Request = c.Request.WithContext(ctx)
		c.Set(constants.GinKeyCurrentUser, user)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(
		apperrors.GetErrorMessage(apperrors.ErrUnauthorized), nil))
	c.Abort()
}
