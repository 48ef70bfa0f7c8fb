package domain

import "errors"

// Authentication / authorization.
var (
	// ErrInvalidCredentials is returned for every sign-in failure mode
	// (unknown email, wrong password, missing hash) so callers cannot
	// tell whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrTooManyAttempts    = errors.New("too many failed attempts, try again later")
)

// Not found.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrTrainingNotFound = errors.New("training not found")
	ErrCategoryNotFound = errors.New("training category not found")
	ErrStackNotFound    = errors.New("stack not found")
	ErrLocationNotFound = errors.New("location not found")
)

// Conflicts.
var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrNameTaken     = errors.New("name already in use")
	ErrHasDependents = errors.New("cannot delete: dependent records exist")
)

// Validation.
var (
	ErrPersonalEmailDomain = errors.New("organization email must use a corporate domain")
	ErrEmptyBulkSet        = errors.New("bulk action requires at least one id")
	ErrUnknownBulkAction   = errors.New("unknown bulk action")
	ErrPasswordMismatch    = errors.New("password confirmation does not match")
	ErrSamePassword        = errors.New("new password must differ from the current one")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidRole         = errors.New("invalid role")
)
