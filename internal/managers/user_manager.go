package managers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"foodconnect/internal/repositories"
	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

// UserMgr registers and authenticates users.
type UserMgr interface {
	Register(ctx context.Context, req *schemas.RegistrationRequest) (*schemas.User, string, error)
	Login(ctx context.Context, email, password string) (*schemas.User, string, error)
	Get(ctx context.Context, id uuid.UUID) (*schemas.User, error)
}

// UserManager implements UserMgr with bcrypt password hashes and JWT sessions.
type UserManager struct {
	users       repositories.UserRepository
	jwtMgr      JWTMgr
	verifyEmail func(email string) bool
}

// NewUserManager creates a UserManager. verifyEmail, when not nil, rejects addresses that cannot receive mail.
func NewUserManager(users repositories.UserRepository, jwtMgr JWTMgr, verifyEmail func(email string) bool) UserMgr {
	utils.LogMessage("info", "Initializing user manager")
	return &UserManager{users: users, jwtMgr: jwtMgr, verifyEmail: verifyEmail}
}

// Register creates the user and returns it together with a session token.
func (um *UserManager) Register(ctx context.Context, req *schemas.RegistrationRequest) (*schemas.User, string, error) {
	role, ok := schemas.ParseRole(req.Role)
	if !ok {
		return nil, "", &ValidationError{Field: "role", Reason: "must be donor, volunteer or admin"}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if um.verifyEmail != nil && !um.verifyEmail(email) {
		return nil, "", ErrEmailUnreachable
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &schemas.User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  string(hashedPassword),
		Role:      role,
		Contact:   strings.TrimSpace(req.Contact),
		CreatedAt: SystemClock{}.Now(),
	}
	if err := um.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := um.jwtMgr.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}

	utils.LogMessageWithFields(ctx, "info", "User "+user.ID.String()+" registered as "+string(role))
	return user, token, nil
}

// Login checks the credentials and returns the user with a fresh token.
// An unknown email and a wrong password both yield ErrInvalidLogin.
func (um *UserManager) Login(ctx context.Context, email, password string) (*schemas.User, string, error) {
	user, err := um.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNoRecord) {
			return nil, "", ErrInvalidLogin
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidLogin
	}

	token, err := um.jwtMgr.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Get returns the user with the given id.
func (um *UserManager) Get(ctx context.Context, id uuid.UUID) (*schemas.User, error) {
	user, err := um.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRecord) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
