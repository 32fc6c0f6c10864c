package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// NetworkError means no response came back from the backend
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError is a 401 that the one-shot refresh could not resolve.
// Err holds the refresh failure when there was one.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unauthorized: %s (refresh: %v)", e.Message, e.Err)
	}
	return "unauthorized: " + e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError is a client-side form check failure. Nothing was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ServerError is a non-401 error status with whatever message the backend sent
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// IsAuthError reports whether err is, or wraps, an *AuthError
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsNotFound reports whether the backend answered 404
func IsNotFound(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// Message extracts the text to show a user. Server and validation messages are passed through verbatim.
func Message(err error) string {
	var (
		se *ServerError
		ve *ValidationError
		ne *NetworkError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &se):
		return se.Message
	case errors.As(err, &ne):
		return "The store is unreachable right now. Please try again."
	case IsAuthError(err):
		return "Your session has expired. Please log in again."
	}
	return err.Error()
}

// messageFrom pulls a human message out of an error body. The backend answers
// with {"message": ...}, {"error": ...}, a JSON string or plain text.
func messageFrom(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(status)
	}
	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		if obj.Error != "" {
			return obj.Error
		}
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil && s != "" {
		return s
	}
	return text
}
