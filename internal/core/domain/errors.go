package domain

import "errors"

// Authentication.
var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrExpiredCredential = errors.New("credential expired")
	ErrInvalidLogin      = errors.New("invalid email or password")
)

// Authorization and targeting.
var (
	ErrForbidden     = errors.New("access forbidden")
	ErrInvalidTarget = errors.New("target account does not satisfy the required role")
)

// State and persistence.
var (
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrDuplicateRating   = errors.New("veterinarian already rated by this farmer")
	ErrAccountExists     = errors.New("account already exists")
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource was modified concurrently")
	ErrValidation        = errors.New("validation failed")
	ErrUnavailable       = errors.New("storage unavailable")
)
