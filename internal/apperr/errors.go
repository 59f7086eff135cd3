// Package apperr classifies pipeline failures and maps them onto the HTTP
// error contract shared by the gateway and the processing endpoint.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Kind buckets an error for status mapping.
type Kind int

const (
	// KindInternal covers any unexpected collaborator failure.
	KindInternal Kind = iota
	// KindBadRequest means the caller's input was missing or malformed.
	KindBadRequest
	// KindMisconfigured means required deployment configuration is absent.
	KindMisconfigured
	// KindTimeout means an external blocking call exceeded its bound.
	KindTimeout
)

// Error carries a kind, a caller-safe message and an optional cause.
// The cause is preserved for wrapping and server-side logs; only the
// flattened message crosses the HTTP boundary.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// E constructs a classified error. Cause may be nil.
func E(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// KindOf extracts the kind from an error chain, defaulting to KindInternal
// for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the response status of the error contract.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes err as the standard `{"error": "..."}` body with the
// mapped status code.
func WriteJSON(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
