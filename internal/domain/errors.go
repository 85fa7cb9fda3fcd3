package domain

import "errors"

// Domain errors
var (
	ErrInvalidDay          = errors.New("day outside the challenge range")
	ErrChallengeNotStarted = errors.New("challenge has not started yet")
	ErrFutureDay           = errors.New("cannot log an activity for a future day")
	ErrDuplicateEntry      = errors.New("activity already logged for this day")
	ErrEventNotFound       = errors.New("no event configured for day")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("username already registered")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInternalError       = errors.New("internal server error")
)

// IsRejection checks if an error is a rejected-submission error that the
// caller can correct, as opposed to an infrastructure failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrChallengeNotStarted) ||
		errors.Is(err, ErrFutureDay) ||
		errors.Is(err, ErrDuplicateEntry) ||
		errors.Is(err, ErrInvalidRequest)
}

// IsNotFoundError checks if an error is a not-found type error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrEventNotFound)
}
