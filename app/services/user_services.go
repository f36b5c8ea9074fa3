package services

import (
	"context"
	"strings"
	"time"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/repositories"
	"github.com/bazinga/storefront/pkg/apperror"
	"github.com/bazinga/storefront/pkg/logger"
)

// AdminUserInput is the body of the admin user endpoints. On update a blank
// password keeps the current one.
type AdminUserInput struct {
	Email                  string `json:"email"                  validate:"required,email,max=255"`
	Username               string `json:"username"               validate:"required,min=3,max=50"`
	Password               string `json:"password"               validate:"omitempty,min=6,max=72"`
	Role                   string `json:"role"`
	FirstName              string `json:"firstName"              validate:"max=100"`
	LastName               string `json:"lastName"               validate:"max=100"`
	SubscriptionType       string `json:"subscriptionType"`
	SubscriptionExpiration string `json:"subscriptionExpiration" validate:"omitempty,datetime=2006-01-02"`
}

type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, query string) ([]models.User, error) {
	return s.users.Search(ctx, query)
}

func (s *UserService) Create(ctx context.Context, in AdminUserInput) (*models.User, error) {
	if in.Password == "" {
		return nil, apperror.InvalidRequest("password is required")
	}

	user := &models.User{}
	if err := s.apply(ctx, user, in); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("user created by admin", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in AdminUserInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, user, in); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("user updated by admin", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *UserService) apply(ctx context.Context, user *models.User, in AdminUserInput) error {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return apperror.InvalidRequestf("invalid role %q", in.Role)
	}

	tier := user.SubscriptionType
	if in.SubscriptionType != "" {
		if tier, err = models.ParseTier(in.SubscriptionType); err != nil {
			return apperror.InvalidRequestf("invalid subscription type %q", in.SubscriptionType)
		}
	}
	if tier == "" {
		tier = models.TierFree
	}

	var expires *time.Time
	if in.SubscriptionExpiration != "" {
		t, err := time.Parse(time.DateOnly, in.SubscriptionExpiration)
		if err != nil {
			return apperror.InvalidRequestf("invalid subscription expiration %q", in.SubscriptionExpiration)
		}
		expires = &t
	} else if tier == user.SubscriptionType {
		expires = user.SubscriptionExpiration
	}

	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if err := s.ensureUnique(ctx, user.ID, email, username); err != nil {
		return err
	}

	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return err
		}
		user.Password = hash
	}

	user.Email = email
	user.Username = username
	user.Role = role
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.SubscriptionType = tier
	user.SubscriptionExpiration = expires
	return nil
}

// ensureUnique rejects an email or username held by a different user.
func (s *UserService) ensureUnique(ctx context.Context, selfID uint, email, username string) error {
	if other, err := s.users.FindByEmail(ctx, email); err == nil && other.ID != selfID {
		return apperror.DuplicateIdentity("email is already registered")
	} else if err != nil && !apperror.IsCode(err, apperror.CodeNotFound) {
		return err
	}

	if other, err := s.users.FindByUsername(ctx, username); err == nil && other.ID != selfID {
		return apperror.DuplicateIdentity("username is already taken")
	} else if err != nil && !apperror.IsCode(err, apperror.CodeNotFound) {
		return err
	}
	return nil
}
