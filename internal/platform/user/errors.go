package user

import "errors"

var (
	// Credential validation
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidPasswordHash = errors.New("invalid password hash")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")

	// Account state
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")
	ErrUnauthorized      = errors.New("unauthorized")

	// Plan state
	ErrInvalidPlan         = errors.New("unknown subscription plan")
	ErrInvalidSubscription = errors.New("subscription expiry must be in the future")
)
