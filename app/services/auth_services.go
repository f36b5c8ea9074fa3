package services

import (
	"context"
	"errors"
	"strings"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/repositories"
	"github.com/bazinga/storefront/pkg/apperror"
	"github.com/bazinga/storefront/pkg/auth"
	"github.com/bazinga/storefront/pkg/logger"
)

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput is the body of POST /api/auth/login. Email may also hold a
// username. Blank fields fail as INVALID_CREDENTIALS, like any other
// mismatch.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is a freshly issued token together with its identity.
type AuthResult struct {
	Token string
	User  *models.User
}

type AuthService struct {
	users  *repositories.UserRepository
	tokens *auth.TokenService
}

func NewAuthService(users *repositories.UserRepository, tokens *auth.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a USER on the Free tier and logs it in. An email or a
// username already in use is DUPLICATE_IDENTITY.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.DuplicateIdentity("email is already registered")
	}
	taken, err = s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.DuplicateIdentity("username is already taken")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:         username,
		Email:            email,
		Password:         hash,
		Role:             models.RoleUser,
		SubscriptionType: models.TierFree,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login verifies the credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Authenticate looks the identity up by email, then by username, and checks
// the password. Every mismatch is the same INVALID_CREDENTIALS.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	if strings.TrimSpace(login) == "" || password == "" {
		return nil, apperror.InvalidCredentials("invalid email or password")
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(login))
	if apperror.IsCode(err, apperror.CodeNotFound) {
		user, err = s.users.FindByUsername(ctx, strings.TrimSpace(login))
	}
	if apperror.IsCode(err, apperror.CodeNotFound) {
		return nil, apperror.InvalidCredentials("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, apperror.InvalidCredentials("invalid email or password")
	}
	return user, nil
}

// Resolve maps a token subject back to its identity. A subject whose
// account no longer exists is INVALID_TOKEN.
func (s *AuthService) Resolve(ctx context.Context, subject string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, subject)
	if apperror.IsCode(err, apperror.CodeNotFound) {
		return nil, apperror.InvalidToken("unknown subject", err)
	}
	return user, err
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, apperror.Internal(err, "issue token")
	}
	return &AuthResult{Token: token, User: user}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", apperror.InvalidRequest("password is too long")
	}
	if err != nil {
		return "", apperror.Internal(err, "hash password")
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
