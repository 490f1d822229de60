// Package handlers implements the handlers for the different routes of the server to handle the incoming HTTP requests.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodconnect/internal/managers"
	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

// UserHdl defines the interface for handling authentication requests.
type UserHdl interface {
	RegisterUser(c *gin.Context)
	LoginUser(c *gin.Context)
	GetMe(c *gin.Context)
}

type UserHandler struct {
	UserManager managers.UserMgr
}

func NewUserHandler(userManager managers.UserMgr) UserHdl {
	return &UserHandler{UserManager: userManager}
}

func newUserDTO(user *schemas.User) schemas.UserDTO {
	return schemas.UserDTO{
		Id:      user.ID.String(),
		Name:    user.Name,
		Email:   user.Email,
		Role:    string(user.Role),
		Contact: user.Contact,
	}
}

// RegisterUser creates an account and logs the new user in.
func (handler *UserHandler) RegisterUser(c *gin.Context) {
	request, ok := payload[schemas.RegistrationRequest](c)
	if !ok {
		return
	}

	user, token, err := handler.UserManager.Register(c, request)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.AuthDTO{Token: token, User: newUserDTO(user)}, http.StatusCreated)
}

// LoginUser exchanges email and password for a session token.
func (handler *UserHandler) LoginUser(c *gin.Context) {
	request, ok := payload[schemas.LoginRequest](c)
	if !ok {
		return
	}

	user, token, err := handler.UserManager.Login(c, request.Email, request.Password)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.AuthDTO{Token: token, User: newUserDTO(user)}, http.StatusOK)
}

// GetMe returns the authenticated user.
func (handler *UserHandler) GetMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := handler.UserManager.Get(c, p.UserID)
	if err != nil {
		writeManagerError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, newUserDTO(user), http.StatusOK)
}
