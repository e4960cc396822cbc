package services

import (
	"errors"
	"fmt"
)

// Error classes. Specific errors wrap one of these so callers can match
// either the class or the exact failure with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("account not found")
	ErrDuplicate  = errors.New("account already exists")
	ErrDownstream = errors.New("downstream service unavailable")
)

var (
	ErrMissingField    = fmt.Errorf("%w: one or more fields are missing", ErrValidation)
	ErrInvalidFormat   = fmt.Errorf("%w: phone number, email or password does not meet the required criteria", ErrValidation)
	ErrInvalidID       = fmt.Errorf("%w: invalid account id", ErrValidation)
	ErrEmptyUsername   = fmt.Errorf("%w: username is empty", ErrValidation)
	ErrSelfFollow      = fmt.Errorf("%w: an account cannot follow itself", ErrValidation)
	ErrInvalidDistance = fmt.Errorf("%w: distance must be a positive number of meters", ErrValidation)

	ErrConfirmationMismatch = fmt.Errorf("%w: password or email confirmation does not match", ErrAuth)
	ErrInvalidCredentials   = fmt.Errorf("%w: wrong username or password", ErrAuth)
)

// ErrPhoneLoginUnsupported is returned for usernames that look like phone
// numbers. Signing in by phone is not available.
var ErrPhoneLoginUnsupported = errors.New("phone number login is not supported")
