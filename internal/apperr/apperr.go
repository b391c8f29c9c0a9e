// Package apperr defines the error taxonomy the API surfaces and the
// single Fiber handler that maps errors to HTTP responses.
package apperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	KindValidation Kind = iota
	KindConflict
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindUpstream
	KindInternal
)

// Error is an API-visible error. Field is set for validation failures so
// clients can highlight the offending input.
type Error struct {
	Kind    Kind
	Message string
	Field   string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Field: field}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Upstream(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: message, cause: cause}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

type response struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Handler returns the Fiber error handler. Classified errors map to their
// status; everything else is logged in full and normalized to a generic
// 500, with the underlying message exposed only in dev.
func Handler(dev bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *Error
		if errors.As(err, &appErr) {
			if appErr.Kind == KindInternal || appErr.Kind == KindUpstream {
				log.Printf("%s %s: %v", c.Method(), c.Path(), err)
			}
			return c.Status(appErr.Status()).JSON(response{
				Message: appErr.Message,
				Field:   appErr.Field,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(response{Message: fiberErr.Message})
		}

		log.Printf("%s %s: unhandled error: %v", c.Method(), c.Path(), err)
		msg := "Internal server error"
		if dev {
			msg = err.Error()
		}
		return c.Status(http.StatusInternalServerError).JSON(response{Message: msg})
	}
}
