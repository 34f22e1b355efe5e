package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tajoco/contacts/internal/constants"
	"github.com/tajoco/contacts/internal/dto"
	apperrors "github.com/tajoco/contacts/internal/errors"
	"github.com/tajoco/contacts/internal/service"
	ctxutil "github.com/tajoco/contacts/pkg/context"
	"github.com/tajoco/contacts/pkg/logger"
)

type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// List returns the user's contacts with optional name/secondname/email
// filters and limit/offset paging
func (h *ContactHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListContacts")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(apperrors.GetErrorMessage(apperrors.ErrUnauthorized), nil))
		return
	}
	ctx = ctxutil.WithUserID(ctx, user.ID)

	var filter dto.ContactFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	contacts, err := h.contactService.List(ctx, user.ID, filter)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list contacts").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// Get returns one contact by id
func (h *ContactHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetContact")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(apperrors.GetErrorMessage(apperrors.ErrUnauthorized), nil))
		return
	}
	ctx = ctxutil.WithUserID(ctx, user.ID)

	contactID, ok := contactIDParam(c)
	if !ok {
		return
	}

	contact, err := h.contactService.Get(ctx, user.ID, contactID)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, contact)
}

// Create adds a contact for the user
func (h *ContactHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateContact")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(apperrors.GetErrorMessage(apperrors.ErrUnauthorized), nil))
		return
	}
	ctx = ctxutil.WithUserID(ctx, user.ID)

	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contact, err := h.contactService.Create(ctx, user.ID, &req)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create contact").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// Update applies a partial update to a contact
func (h *ContactHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateContact")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(apperrors.GetErrorMessage(apperrors.ErrUnauthorized), nil))
		return
	}
	ctx = ctxutil.WithUserID(ctx, user.ID)

	contactID, ok := contactIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contact, err := h.contactService.Update(ctx, user.ID, contactID, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, contact)
}

// Delete removes a contact
func (h *ContactHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteContact")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(apperrors.GetErrorMessage(apperrors.ErrUnauthorized), nil))
		return
	}
	ctx = ctxutil.WithUserID(ctx, user.ID)

	contactID, ok := contactIDParam(c)
	if !ok {
		return
	}

	if err := h.contactService.Delete(ctx, user.ID, contactID); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.Status(http.StatusNoContent)
}

// UpcomingBirthdays lists contacts with a birthday in the next seven days
func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpcomingBirthdays")

	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(apperrors.GetErrorMessage(apperrors.ErrUnauthorized), nil))
		return
	}
	ctx = ctxutil.WithUserID(ctx, user.ID)

	contacts, err := h.contactService.UpcomingBirthdays(ctx, user.ID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list upcoming birthdays").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, contacts)
}

func contactIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, constants.BuildErrorResponse(
			apperrors.GetErrorMessage(apperrors.ErrValidation),
			"id must be a positive integer",
		))
		return 0, false
	}
	return uint(id), true
}
