package sdk

import (
	"errors"
	"fmt"
)

// ErrorKind is the internal (never serialized to the wire) error
// classification a handler branches on. The wire only ever sees one
// of the five JSON-RPC codes in envelope.go; ErrorKind lets SDK code
// and provider implementations reason about *why* before it gets
// collapsed to a code at the dispatcher boundary.
type ErrorKind string

const (
	KindProvider         ErrorKind = "provider"
	KindValidation       ErrorKind = "validation"
	KindProtocol         ErrorKind = "protocol"
	KindAuthentication   ErrorKind = "authentication"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindConfig           ErrorKind = "config"
	KindInternal         ErrorKind = "internal"
	KindIO               ErrorKind = "io"
	KindSerialization    ErrorKind = "serialization"
)

// Error is the SDK's internal error type: a classified error with an
// optional wrapped cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Message, e.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error, for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func newKindError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewProviderError wraps a failure returned by a user-supplied provider.
func NewProviderError(message string, err error) *Error { return newKindError(KindProvider, message, err) }

// NewValidationError wraps a schema/policy validation failure.
func NewValidationError(message string, err error) *Error {
	return newKindError(KindValidation, message, err)
}

// NewProtocolError wraps a framing/decoding failure at the RPC boundary.
func NewProtocolError(message string, err error) *Error { return newKindError(KindProtocol, message, err) }

// NewAuthenticationError wraps a credential/identity failure.
func NewAuthenticationError(message string, err error) *Error {
	return newKindError(KindAuthentication, message, err)
}

// NewPermissionDeniedError wraps an authorization failure.
func NewPermissionDeniedError(message string, err error) *Error {
	return newKindError(KindPermissionDenied, message, err)
}

// NewConfigError wraps a malformed configuration or spec.
func NewConfigError(message string, err error) *Error { return newKindError(KindConfig, message, err) }

// NewInternalError wraps an unexpected internal failure.
func NewInternalError(message string, err error) *Error { return newKindError(KindInternal, message, err) }

// NewIOError wraps a filesystem/network I/O failure.
func NewIOError(message string, err error) *Error { return newKindError(KindIO, message, err) }

// NewSerializationError wraps a JSON marshal/unmarshal failure.
func NewSerializationError(message string, err error) *Error {
	return newKindError(KindSerialization, message, err)
}

// KindOf returns the ErrorKind of err if it is (or wraps) an *Error,
// and ok=false otherwise.
func KindOf(err error) (kind ErrorKind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
