package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danuarta/dompetku/pkg/logger"
)

// Service handles account lifecycle and plan state. Everything that
// consumes entitlements (category quotas, tracker lookback) reads them
// through here.
type Service struct {
	repo Repository
	log  *logger.Logger
}

// NewService creates a new user service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Register creates a Starter account. The email is normalized so the
// same address can never register twice under different casing.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)

	candidate := &User{Email: email}
	if err := candidate.ValidateEmail(); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check if user exists: %w", err)
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	now := time.Now()
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Plan:      PlanStarter,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user with email and password. An unknown email
// and a wrong password fail identically so the endpoint never confirms
// which addresses have accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := user.CheckPassword(password); err != nil {
		return nil, err
	}

	// Best effort: a failed timestamp write must not block the login.
	user.UpdateLastLogin()
	if err := s.repo.Update(ctx, user); err != nil {
		s.log.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// ChangePlan moves the user onto a new plan. Subscription tiers carry
// an expiry in the future; Starter and Lifetime carry none. Downgrading
// never touches existing data, only future entitlement checks.
func (s *Service) ChangePlan(ctx context.Context, userID uuid.UUID, plan Plan, until *time.Time) (*User, error) {
	if !plan.IsValid() {
		return nil, ErrInvalidPlan
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch plan {
	case PlanStarter, PlanLifetime:
		user.SubscriptionUntil = nil
	default:
		if until == nil || !until.After(time.Now()) {
			return nil, ErrInvalidSubscription
		}
		user.SubscriptionUntil = until
	}
	user.Plan = plan
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to change plan: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
