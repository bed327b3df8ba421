package httperr

import (
	"errors"
	"net/http"

	domain "github.com/BruksfildServices01/ninsaude-scheduler/internal/domain/booking"
)

// AuthorizationError is a webhook call without the configured secret.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "unauthorized: " + e.Reason
}

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// Status maps the error taxonomy to an HTTP status. Unknown errors are 500.
func Status(err error) int {
	var (
		verr *domain.ValidationError
		aerr *AuthorizationError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &aerr):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the remote payload carried by an upstream error, or the error text.
func Detail(err error) any {
	if err == nil {
		return nil
	}

	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) {
		if d := upErr.Detail(); d != nil {
			return d
		}
	}
	return err.Error()
}
