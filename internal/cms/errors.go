package cms

import "errors"

// Kind classifies a failed call so callers can pick the right user
// message and recovery affordance without inspecting raw errors.
type Kind string

const (
	// KindValidation is raised before any network call is made.
	KindValidation Kind = "validation"
	// KindTransport means no response was received at all.
	KindTransport Kind = "transport"
	// KindServer means the backend answered with a non-2xx status.
	KindServer Kind = "server"
	// KindPaymentProvider marks verify/confirm failures reported by the
	// payment provider through the backend.
	KindPaymentProvider Kind = "payment_provider"
)

// TransportMessage is shown when the request never reached the backend.
const TransportMessage = "No response received from the server. Check your network connection."

const genericMessage = "An error occurred"

// Error is the normalized error shape for every CMS call. Message is
// always presentable to the user: the server-supplied message when one
// exists, a transport message otherwise.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func newTransportError(cause error) *Error {
	return &Error{Kind: KindTransport, Message: TransportMessage, cause: cause}
}

func newServerError(status int, message string) *Error {
	if message == "" {
		message = genericMessage
	}
	return &Error{Kind: KindServer, StatusCode: status, Message: message}
}

// AsError extracts the normalized *Error, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the error class, defaulting to transport for anything
// that escaped normalization.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindTransport
}

// UserMessage returns the message safe to surface in the UI.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := AsError(err); ok {
		return e.Message
	}
	return genericMessage
}
