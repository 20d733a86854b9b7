package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error codes as sent by the remote API in the "code" field.
const (
	CodeValidationError    = "ValidationError"
	CodeAuthorizationError = "AuthorizationError"
	CodeServerError        = "ServerError"
)

// DefaultServerMessage is used when a failure carries no usable message.
const DefaultServerMessage = "Internal server error"

// ErrorPayload is the failure half of an ActionResult. The set of
// implementations is closed: *ValidationError, *AuthorizationError and
// *ServerError. Use MatchError to branch on it.
type ErrorPayload interface {
	error
	Code() string
	sealed()
}

// FieldViolation is a single field-level validation failure.
type FieldViolation struct {
	Msg  string `json:"msg"`
	Path string `json:"path"`
}

// ValidationError reports one or more field-level violations keyed by
// field path.
type ValidationError struct {
	Errors map[string]FieldViolation `json:"errors"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Errors))
}

func (*ValidationError) Code() string { return CodeValidationError }
func (*ValidationError) sealed() {}

// AuthorizationError is a credential or permission failure.
type AuthorizationError struct {
	Message string `json:"message"`
}

func (e *AuthorizationError) Error() string { return e.Message }
func (*AuthorizationError) Code() string { return CodeAuthorizationError }
func (*AuthorizationError) sealed() {}

// ServerError is a transport failure or an unexpected response.
type ServerError struct {
	Message string `json:"message"`
}

func (e *ServerError) Error() string { return e.Message }
func (*ServerError) Code() string { return CodeServerError }
func (*ServerError) sealed() {}

// MatchError dispatches p to the handler of its variant. Every variant
// must be handled; a nil payload is treated as a generic server error.
func MatchError[R any](
	p ErrorPayload,
	onValidation func(*ValidationError) R,
	onAuthorization func(*AuthorizationError) R,
	onServer func(*ServerError) R,
) R {
	switch e := p.(type) {
	case *ValidationError:
		return onValidation(e)
	case *AuthorizationError:
		return onAuthorization(e)
	case *ServerError:
		return onServer(e)
	default:
		return onServer(&ServerError{Message: DefaultServerMessage})
	}
}

type payloadEnvelope struct {
	Code    string                    `json:"code"`
	Message string                    `json:"message,omitempty"`
	Errors  map[string]FieldViolation `json:"errors,omitempty"`
}

var ErrUnknownErrorCode = errors.New("unknown error code")

// DecodeErrorPayload parses a remote error body, discriminating on "code".
func DecodeErrorPayload(body []byte) (ErrorPayload, error) {
	var env payloadEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode error payload: %w", err)
	}
	switch env.Code {
	case CodeValidationError:
		if len(env.Errors) == 0 {
			return nil, fmt.Errorf("decode error payload: validation error without fields")
		}
		return &ValidationError{Errors: env.Errors}, nil
	case CodeAuthorizationError:
		return &AuthorizationError{Message: env.Message}, nil
	case CodeServerError:
		msg := env.Message
		if msg == "" {
			msg = DefaultServerMessage
		}
		return &ServerError{Message: msg}, nil
	default:
		return nil, fmt.Errorf("decode error payload: %w %q", ErrUnknownErrorCode, env.Code)
	}
}

// MarshalErrorPayload renders p in the wire shape, including its code.
func MarshalErrorPayload(p ErrorPayload) ([]byte, error) {
	env := MatchError(p,
		func(e *ValidationError) payloadEnvelope {
			return payloadEnvelope{Code: e.Code(), Errors: e.Errors}
		},
		func(e *AuthorizationError) payloadEnvelope {
			return payloadEnvelope{Code: e.Code(), Message: e.Message}
		},
		func(e *ServerError) payloadEnvelope {
			return payloadEnvelope{Code: e.Code(), Message: e.Message}
		},
	)
	return json.Marshal(env)
}

// ActionResult is the outcome of every network action: either data or an
// error payload, never both.
type ActionResult[T any] struct {
	ok   bool
	data T
	err  ErrorPayload
}

// Success wraps data in a successful result.
func Success[T any](data T) ActionResult[T] {
	return ActionResult[T]{ok: true, data: data}
}

// Failure wraps p in a failed result. A nil payload becomes a ServerError.
func Failure[T any](p ErrorPayload) ActionResult[T] {
	if p == nil {
		p = &ServerError{Message: DefaultServerMessage}
	}
	return ActionResult[T]{err: p}
}

func (r ActionResult[T]) OK() bool { return r.ok }

// Data returns the payload of a successful result.
func (r ActionResult[T]) Data() (T, bool) { return r.data, r.ok }

// Err returns the error payload of a failed result, nil on success.
func (r ActionResult[T]) Err() ErrorPayload { return r.err }

type resultEnvelope[T any] struct {
	OK   bool            `json:"ok"`
	Data *T              `json:"data,omitempty"`
	Err  json.RawMessage `json:"err,omitempty"`
}

func (r ActionResult[T]) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(resultEnvelope[T]{OK: true, Data: &r.data})
	}
	raw, err := MarshalErrorPayload(r.err)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resultEnvelope[T]{Err: raw})
}

func (r *ActionResult[T]) UnmarshalJSON(b []byte) error {
	var env resultEnvelope[T]
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	if env.OK {
		if env.Data == nil {
			return errors.New("action result: ok without data")
		}
		*r = Success(*env.Data)
		return nil
	}
	p, err := DecodeErrorPayload(env.Err)
	if err != nil {
		return err
	}
	*r = Failure[T](p)
	return nil
}
