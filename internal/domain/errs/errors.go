package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest means the caller violated a precondition. Nothing was written.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound means a material or result id no longer resolves.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration means required external configuration is missing.
	ErrConfiguration = errors.New("configuration error")
	// ErrMalformedResponse means the backend answered 2xx with an unusable body.
	ErrMalformedResponse = errors.New("unexpected backend response format")
	// ErrGenerationFailed means the language-generation call failed; the turn may be retried.
	ErrGenerationFailed = errors.New("failed to generate response, please try again")
)

// BackendError is a non-2xx reply from the analysis backend.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("backend error: %d", e.StatusCode)
}

// Invalid wraps ErrInvalidRequest with a reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
