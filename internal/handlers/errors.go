// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/luxe-clothing/storefront/internal/i18n"
	"github.com/luxe-clothing/storefront/internal/models"
	"github.com/luxe-clothing/storefront/internal/services"
	"github.com/luxe-clothing/storefront/internal/utils"
)

// respondError maps the service error taxonomy onto the response envelope.
// Anything unrecognised is logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		amountErr     *services.InvalidAmountError
		notFoundErr   *services.NotFoundError
		gatewayErr    *services.GatewayError
		authErr       *services.AuthError
		conflictErr   *services.ConflictError
	)

	switch {
	case errors.As(err, &amountErr):
		utils.ValidationErrorResponse(c, amountErr.Message, []utils.ValidationError{
			{Field: "amount", Tag: "amount", Message: amountErr.Message},
		})
	case errors.As(err, &validationErr):
		details := validationErr.Details
		if len(details) == 0 && validationErr.Field != "" {
			details = []utils.ValidationError{{Field: validationErr.Field, Message: validationErr.Message}}
		}
		utils.ValidationErrorResponse(c, validationErr.Message, details)
	case errors.As(err, &notFoundErr):
		utils.NotFoundResponse(c, notFoundErr.Resource)
	case errors.As(err, &gatewayErr):
		logrus.WithError(gatewayErr.Err).WithField("op", gatewayErr.Op).Warn("Payment processor call failed")
		utils.BadGatewayResponse(c, gatewayErr.Error())
	case errors.As(err, &authErr):
		utils.UnauthorizedResponse(c, authErr.Reason)
	case errors.As(err, &conflictErr):
		utils.ConflictResponse(c, conflictErr.Message)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON decodes the body and writes the 400 itself on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

// callerFrom rebuilds the identity AuthRequired placed on the context.
func callerFrom(c *gin.Context) (services.Identity, bool) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return services.Identity{}, false
	}
	role, _ := utils.GetUserRoleFromContext(c)
	return services.Identity{
		UserID: userID,
		Name:   c.GetString("name"),
		Email:  c.GetString("email"),
		Role:   models.UserRole(role),
	}, true
}

// pathUUID parses a UUID path parameter. A malformed id cannot name an
// existing record, so it is reported as not found.
func pathUUID(c *gin.Context, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.NotFoundResponse(c, resource)
		return uuid.Nil, false
	}
	return id, true
}
