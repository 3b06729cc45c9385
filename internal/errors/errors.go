// Package errors provides coded domain errors for the blackjack module.
//
// Every failure a caller can act on carries a machine-readable Code. Adapters
// translate codes into transport status codes; the domain never deals with
// transport concerns directly.
package errors

import (
	stderrors "errors"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unclassified failure.
	CodeUnknown Code = "UNKNOWN"
	// CodeNotFound means a match or player id did not resolve.
	CodeNotFound Code = "NOT_FOUND"
	// CodeInvalidBet means the bet amount is not positive or exceeds the balance.
	CodeInvalidBet Code = "INVALID_BET"
	// CodeInvalidMove means the move is outside the supported set.
	CodeInvalidMove Code = "INVALID_MOVE"
	// CodeInvalidState means the match or player state does not allow the operation.
	CodeInvalidState Code = "INVALID_STATE"
	// CodeInvalidArgument means a request payload could not be interpreted.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeUnauthenticated means a seat token was missing or did not verify.
	CodeUnauthenticated Code = "UNAUTHENTICATED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeNotFound:
		return codes.NotFound
	case CodeInvalidBet, CodeInvalidMove, CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeInvalidState:
		return codes.FailedPrecondition
	case CodeUnauthenticated:
		return codes.Unauthenticated
	default:
		return codes.Internal
	}
}

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message, safe to return to clients
	Metadata map[string]string // Additional context (ids, amounts)
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata attached.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, CodeUnknown otherwise.
func CodeOf(err error) Code {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}
