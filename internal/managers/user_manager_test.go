package managers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodconnect/internal/managers"
	"foodconnect/internal/repositories"
	"foodconnect/internal/schemas"
)

func newUserManager(t *testing.T, verifyEmail func(string) bool) (managers.UserMgr, managers.JWTMgr) {
	jwtMgr, err := managers.NewJWTManager([]byte("secret"), 0)
	require.NoError(t, err)
	return managers.NewUserManager(repositories.NewUserMemoryRepository(), jwtMgr, verifyEmail), jwtMgr
}

func TestRegisterAndLogin(t *testing.T) {
	userMgr, jwtMgr := newUserManager(t, nil)

	user, token, err := userMgr.Register(context.Background(), &schemas.RegistrationRequest{
		Name: " Asha ", Email: "Asha@Example.com", Password: "secret1", Role: "donor", Contact: "+49 123",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, "Asha", user.Name)
	assert.NotEqual(t, "secret1", user.Password)

	principal, err := jwtMgr.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, schemas.RoleDonor, principal.Role)

	loggedIn, _, err := userMgr.Login(context.Background(), "ASHA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, _, err = userMgr.Login(context.Background(), "asha@example.com", "wrong1")
	assert.ErrorIs(t, err, managers.ErrInvalidLogin)

	_, _, err = userMgr.Login(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, managers.ErrInvalidLogin)

	found, err := userMgr.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "+49 123", found.Contact)
}

func TestRegisterRejections(t *testing.T) {
	userMgr, _ := newUserManager(t, func(email string) bool { return email != "ghost@nowhere.invalid" })

	_, _, err := userMgr.Register(context.Background(), &schemas.RegistrationRequest{
		Name: "Asha", Email: "asha@example.com", Password: "secret1", Role: "donor",
	})
	require.NoError(t, err)

	_, _, err = userMgr.Register(context.Background(), &schemas.RegistrationRequest{
		Name: "Asha", Email: "ASHA@example.com", Password: "secret1", Role: "volunteer",
	})
	assert.ErrorIs(t, err, managers.ErrEmailTaken)

	_, _, err = userMgr.Register(context.Background(), &schemas.RegistrationRequest{
		Name: "Ghost", Email: "ghost@nowhere.invalid", Password: "secret1", Role: "donor",
	})
	assert.ErrorIs(t, err, managers.ErrEmailUnreachable)

	_, _, err = userMgr.Register(context.Background(), &schemas.RegistrationRequest{
		Name: "Chef", Email: "chef@example.com", Password: "secret1", Role: "chef",
	})
	var validationErr *managers.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
