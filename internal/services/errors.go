package services

import "errors"

// Kind classifies a service failure. The HTTP boundary maps each kind to a
// status code exactly once; services never deal in transport codes.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindPayloadTooLarge
	KindUnsupportedMedia
)

// Error is the closed error type returned by all service operations. Message
// is safe to expose to clients; Detail optionally carries a structured payload
// (e.g. password policy violations).
type Error struct {
	Kind    Kind
	Message string
	Detail  any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError builds a service error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorWithDetail builds a service error carrying a structured detail
// payload.
func NewErrorWithDetail(kind Kind, message string, detail any) *Error {
	return &Error{Kind: kind, Message: message, Detail: detail}
}

// internalError wraps an unexpected store failure. The cause is preserved for
// logs; only Message crosses the API boundary.
func internalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf extracts the Kind from err, defaulting to KindInternal for anything
// that is not a service error.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}
