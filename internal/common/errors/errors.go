package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

type ValidationError struct {
	fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for field := range e.fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, field := range keys {
		parts[i] = fmt.Sprintf("%s: %s", field, e.fields[field])
	}
	return "validation errors: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Fields() map[string]string {
	return e.fields
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{fields}
}

// TransportError means no response was received: dial, dns, timeout or a
// connection dropped before the body was read.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransportError(operation string, err error) *TransportError {
	return &TransportError{operation, err}
}

// ApplicationError carries a response whose status is outside the
// operation's success set. Body is kept verbatim.
type ApplicationError struct {
	Operation string
	Status    int
	Body      []byte
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Operation, e.Status, e.Body)
}

func NewApplicationError(operation string, status int, body []byte) *ApplicationError {
	return &ApplicationError{operation, status, body}
}

// ProtocolError means a payload expected to be json could not be decoded.
type ProtocolError struct {
	Operation string
	Body      []byte
	Err       error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: malformed payload: %v", e.Operation, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func NewProtocolError(operation string, body []byte, err error) *ProtocolError {
	return &ProtocolError{operation, body, err}
}

type ListenerError struct {
	State string
	Err   error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener: failed while %s: %v", e.State, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

func NewListenerError(state string, err error) *ListenerError {
	return &ListenerError{state, err}
}

const (
	KIND_TRANSPORT   = "transport"
	KIND_APPLICATION = "application"
	KIND_PROTOCOL    = "protocol"
	KIND_LISTENER    = "listener"
	KIND_VALIDATION  = "validation"
)

// Kind names the failure class of err, or "" when err is nil or none of
// the package's types.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	errTransport := new(TransportError)
	errApplication := new(ApplicationError)
	errProtocol := new(ProtocolError)
	errListener := new(ListenerError)
	errValidation := new(ValidationError)
	switch {
	case stderrors.As(err, &errApplication):
		return KIND_APPLICATION
	case stderrors.As(err, &errProtocol):
		return KIND_PROTOCOL
	case stderrors.As(err, &errTransport):
		return KIND_TRANSPORT
	case stderrors.As(err, &errListener):
		return KIND_LISTENER
	case stderrors.As(err, &errValidation):
		return KIND_VALIDATION
	}
	return ""
}
