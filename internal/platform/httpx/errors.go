package httpx

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors classifying domain failures at the HTTP boundary.
var (
	ErrNotFound       = errors.New("user not found")
	ErrMissingParam   = errors.New("missing request parameter")
	ErrAuthentication = errors.New("authentication failed")
	ErrDuplicate      = errors.New("duplicate entry")
)

// ValidationError carries one detail string per violated field.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Details))
}

// MissingParamError reports a required query parameter that was absent.
func MissingParamError(name string) error {
	return fmt.Errorf("%w: required parameter '%s' is not present", ErrMissingParam, name)
}

// RespondError is the single point where raised failures become wire
// responses. Unclassified errors are rendered as a generic 500 with no
// internal detail; callers are expected to log them before handing off.
func RespondError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		Error(w, http.StatusBadRequest, "Validation Failed", ve.Details...)
	case errors.Is(err, ErrMissingParam):
		Error(w, http.StatusBadRequest, "Missing Params", err.Error())
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, "User not found", err.Error())
	case errors.Is(err, ErrAuthentication):
		Error(w, http.StatusBadRequest, "Authentication Failed", err.Error())
	case errors.Is(err, ErrDuplicate):
		Error(w, http.StatusConflict, "Email has taken", err.Error())
	default:
		Error(w, http.StatusInternalServerError, "Server Error")
	}
}
