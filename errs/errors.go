package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer  = http.StatusInternalServerError
	ErrStatusClient          = http.StatusBadRequest
	ErrStatusUnauthorized    = http.StatusUnauthorized
	ErrStatusNoPermission    = http.StatusForbidden
	ErrStatusNotFound        = http.StatusNotFound
	ErrStatusPayloadTooLarge = http.StatusRequestEntityTooLarge
)

var (
	ErrInternalServer     = errors.New("Internal server error")
	ErrValidation         = errors.New("Bad request")
	ErrDuplicateEmail     = errors.New("Email has already been used")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUnauthorized       = errors.New("Not authorized")
	ErrInvalidToken       = errors.New("Invalid token")
	ErrExpiredToken       = errors.New("Token has expired")
	ErrForbidden          = errors.New("Forbidden access")
	ErrNotFound           = errors.New("Resource not found")
	ErrPayloadTooLarge    = errors.New("Request body is too large")
)

var errorMap = map[error]int{
	ErrInternalServer:     ErrStatusInternalServer,
	ErrValidation:         ErrStatusClient,
	ErrDuplicateEmail:     ErrStatusClient,
	ErrInvalidCredentials: ErrStatusClient,
	ErrUnauthorized:       ErrStatusUnauthorized,
	ErrInvalidToken:       ErrStatusUnauthorized,
	ErrExpiredToken:       ErrStatusUnauthorized,
	ErrForbidden:          ErrStatusNoPermission,
	ErrNotFound:           ErrStatusNotFound,
	ErrPayloadTooLarge:    ErrStatusPayloadTooLarge,
}

// Error carries a client-facing message on top of one of the sentinel
// errors above. errors.Is(err, kind) keeps working through it.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error of the given kind with a custom message.
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// GetErrorStatusCode maps err onto an HTTP status. Anything outside the
// taxonomy is an internal error.
func GetErrorStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if code, ok := errorMap[err]; ok {
		return code
	}
	for kind, code := range errorMap {
		if errors.Is(err, kind) {
			return code
		}
	}
	return errorMap[ErrInternalServer]
}

// Message returns the text that is safe to show a client.
func Message(err error) string {
	if GetErrorStatusCode(err) == ErrStatusInternalServer {
		return ErrInternalServer.Error()
	}
	return err.Error()
}
