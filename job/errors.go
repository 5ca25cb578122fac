package job

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrJobNotFound is returned when no stored job has the requested id.
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidID is returned when an id is not a well-formed identifier.
	ErrInvalidID = errors.New("invalid job id")

	// ErrStoreUnavailable is returned by a JobDB whose connection could not
	// be established at startup.
	ErrStoreUnavailable = errors.New("job store unavailable")
)

// ValidationError describes a request body that does not have the shape of
// a job.
type ValidationError struct {
	Problems []string
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Problems: []string{fmt.Sprintf(format, args...)}}
}

func (e *ValidationError) Error() string {
	return "invalid job: " + strings.Join(e.Problems, "; ")
}

// Unavailable wraps cause so that errors.Is(err, ErrStoreUnavailable) holds.
func Unavailable(cause error) error {
	if cause == nil {
		return ErrStoreUnavailable
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, cause)
}
