package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foodconnect/internal/managers"
	"foodconnect/internal/middleware"
	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

// writeManagerError maps an error returned by a manager to its response.
// Errors of unknown kind are reported as a database failure.
func writeManagerError(c *gin.Context, err error) {
	var validationErr *managers.ValidationError
	var stateErr *managers.InvalidStateError

	switch {
	case errors.As(err, &validationErr):
		utils.WriteAndLogError(c, schemas.BadRequest.WithField(validationErr.Field), http.StatusBadRequest, err)
	case errors.As(err, &stateErr):
		utils.WriteAndLogError(c, schemas.DonationStateConflict.WithStatus(stateErr.Current), http.StatusConflict, err)
	case errors.Is(err, managers.ErrNotFound):
		utils.WriteAndLogError(c, schemas.DonationNotFound, http.StatusNotFound, err)
	case errors.Is(err, managers.ErrForbidden):
		utils.WriteAndLogError(c, schemas.Forbidden, http.StatusForbidden, err)
	case errors.Is(err, managers.ErrOtpMismatch):
		utils.WriteAndLogError(c, schemas.OtpMismatch, http.StatusBadRequest, err)
	case errors.Is(err, managers.ErrEmailTaken):
		utils.WriteAndLogError(c, schemas.EmailTaken, http.StatusConflict, err)
	case errors.Is(err, managers.ErrEmailUnreachable):
		utils.WriteAndLogError(c, schemas.EmailUnreachable, http.StatusUnprocessableEntity, err)
	case errors.Is(err, managers.ErrInvalidLogin):
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
	case errors.Is(err, managers.ErrUnauthenticated):
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, err)
	case errors.Is(err, managers.ErrInvalidCredential), errors.Is(err, managers.ErrUserNotFound):
		utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
	default:
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
	}
}

// principal returns the caller resolved by the JWT middleware and answers 401 if there is none.
func principal(c *gin.Context) (*managers.Principal, bool) {
	p, ok := managers.PrincipalFromContext(c)
	if !ok || p == nil {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, managers.ErrUnauthenticated)
		return nil, false
	}
	return p, true
}

// donationId parses the id path parameter. Malformed ids cannot name a donation and answer 404.
func donationId(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(utils.DonationIdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.DonationNotFound, http.StatusNotFound, err)
		return uuid.Nil, false
	}
	return id, true
}

// payload returns the validated request body and answers 400 if the route carries no validation middleware.
func payload[T any](c *gin.Context) (*T, bool) {
	request, ok := middleware.Payload[T](c)
	if !ok || request == nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, errors.New("request body was not validated"))
		return nil, false
	}
	return request, true
}
