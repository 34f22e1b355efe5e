package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tajoco/contacts/internal/constants"
	"github.com/tajoco/contacts/internal/dto"
	apperrors "github.com/tajoco/contacts/internal/errors"
	"github.com/tajoco/contacts/internal/model"
	"github.com/tajoco/contacts/internal/service"
	ctxutil "github.com/tajoco/contacts/pkg/context"
	"github.com/tajoco/contacts/pkg/logger"
)

type UserHandler struct {
	authService *service.AuthService
}

func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// Me returns the authenticated user's profile
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(apperrors.GetErrorMessage(apperrors.ErrUnauthorized), nil))
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Confirmed: user.Confirmed,
		CreatedAt: user.CreatedAt,
	})
}

// UpdateAvatar replaces the authenticated user's avatar URL
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateAvatar")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(apperrors.GetErrorMessage(apperrors.ErrUnauthorized), nil))
		return
	}
	ctx = ctxutil.WithUserID(ctx, user.ID)

	var req dto.UpdateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.authService.UpdateAvatar(ctx, user.Email, req.Avatar)
	if err != nil {
		logger.ErrorWithContext(ctx, "Avatar update failed").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, updated)
}

// currentUser pulls the user the auth middleware resolved.
func currentUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(constants.GinKeyCurrentUser)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok
}
