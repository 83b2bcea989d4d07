package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorConfigurationInvalid = "SOCIALAUTH_CONFIGURATION_INVALID"
	ErrorUserDenied           = "SOCIALAUTH_USER_DENIED"
	ErrorProviderStateInvalid = "SOCIALAUTH_PROVIDER_STATE_INVALID"
	ErrorAuthenticationFailed = "SOCIALAUTH_AUTHENTICATION_FAILED"
	ErrorServerDataInvalid    = "SOCIALAUTH_SERVER_DATA_INVALID"
	ErrorStateInvalid         = "SOCIALAUTH_STATE_INVALID"
	ErrorBadInput             = "SOCIALAUTH_BAD_INPUT"
	ErrorInternal             = "SOCIALAUTH_INTERNAL_ERROR"
)

type ErrorKind string

const (
	ErrorKindConfiguration  ErrorKind = "configuration"
	ErrorKindUserDenied     ErrorKind = "user_denied"
	ErrorKindProviderState  ErrorKind = "provider_state"
	ErrorKindAuthentication ErrorKind = "authentication"
	ErrorKindServerData     ErrorKind = "server_data"
	ErrorKindState          ErrorKind = "state"
)

var (
	ErrConfiguration  = errors.New("socialauth: invalid provider configuration")
	ErrUserDenied     = errors.New("socialauth: user denied permission")
	ErrProviderState  = errors.New("socialauth: provider state is not active")
	ErrAuthentication = errors.New("socialauth: authentication failed")
	ErrServerData     = errors.New("socialauth: unexpected provider response")
	ErrState          = errors.New("socialauth: operation requires a verified session")
)

// Error is the typed failure returned by provider adapters. It matches its
// kind sentinel with errors.Is and keeps the transport cause reachable.
type Error struct {
	Kind       ErrorKind
	Message    string
	Endpoint   string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	message := strings.TrimSpace(e.Message)
	if message == "" {
		message = e.sentinel().Error()
	}
	if e.Endpoint != "" && !strings.Contains(message, e.Endpoint) {
		message += " (" + e.Endpoint + ")"
	}
	if e.StatusCode > 0 {
		message += fmt.Sprintf(" [status %d]", e.StatusCode)
	}
	if e.Cause != nil {
		message += ": " + e.Cause.Error()
	}
	return message
}

// Unwrap exposes the kind sentinel and the cause. User denial and provider
// state failures are handshake failures, so they also match
// ErrAuthentication.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	chain := []error{e.sentinel()}
	if e.Kind == ErrorKindUserDenied || e.Kind == ErrorKindProviderState {
		chain = append(chain, ErrAuthentication)
	}
	if e.Cause != nil {
		chain = append(chain, e.Cause)
	}
	if len(chain) == 1 {
		return chain[0]
	}
	return errors.Join(chain...)
}

func (e *Error) sentinel() error {
	if e == nil {
		return ErrAuthentication
	}
	switch e.Kind {
	case ErrorKindConfiguration:
		return ErrConfiguration
	case ErrorKindUserDenied:
		return ErrUserDenied
	case ErrorKindProviderState:
		return ErrProviderState
	case ErrorKindServerData:
		return ErrServerData
	case ErrorKindState:
		return ErrState
	default:
		return ErrAuthentication
	}
}

func (e *Error) TextCode() string {
	if e == nil {
		return ErrorInternal
	}
	switch e.Kind {
	case ErrorKindConfiguration:
		return ErrorConfigurationInvalid
	case ErrorKindUserDenied:
		return ErrorUserDenied
	case ErrorKindProviderState:
		return ErrorProviderStateInvalid
	case ErrorKindServerData:
		return ErrorServerDataInvalid
	case ErrorKindState:
		return ErrorStateInvalid
	default:
		return ErrorAuthenticationFailed
	}
}

func (e *Error) ToServiceError() *goerrors.Error {
	if e == nil {
		return nil
	}
	category, code := kindEnvelope(e.Kind)
	var rich *goerrors.Error
	if e.Cause != nil {
		rich = goerrors.Wrap(e.Cause, category, e.Error())
	} else {
		rich = goerrors.New(e.Error(), category)
	}
	rich = rich.WithCode(code).WithTextCode(e.TextCode())
	metadata := map[string]any{"kind": string(e.Kind)}
	if e.Endpoint != "" {
		metadata["endpoint"] = e.Endpoint
	}
	if e.StatusCode > 0 {
		metadata["status_code"] = e.StatusCode
	}
	rich.WithMetadata(metadata)
	return rich
}

func kindEnvelope(kind ErrorKind) (goerrors.Category, int) {
	switch kind {
	case ErrorKindConfiguration:
		return goerrors.CategoryInternal, http.StatusInternalServerError
	case ErrorKindUserDenied:
		return goerrors.CategoryAuthz, http.StatusForbidden
	case ErrorKindProviderState:
		return goerrors.CategoryAuth, http.StatusUnauthorized
	case ErrorKindServerData:
		return goerrors.CategoryExternal, http.StatusBadGateway
	case ErrorKindState:
		return goerrors.CategoryConflict, http.StatusConflict
	default:
		return goerrors.CategoryAuth, http.StatusUnauthorized
	}
}

func ConfigurationError(message string, cause error) error {
	return &Error{Kind: ErrorKindConfiguration, Message: message, Cause: cause}
}

func UserDeniedError() error {
	return &Error{Kind: ErrorKindUserDenied, Message: "socialauth: user denied permission"}
}

func ProviderStateError() error {
	return &Error{
		Kind:    ErrorKindProviderState,
		Message: "socialauth: provider state is not active; call GetLoginRedirectURL first",
	}
}

func AuthenticationError(message string, endpoint string, cause error) error {
	return &Error{Kind: ErrorKindAuthentication, Message: message, Endpoint: endpoint, Cause: cause}
}

func AuthenticationStatusError(message string, endpoint string, statusCode int) error {
	return &Error{Kind: ErrorKindAuthentication, Message: message, Endpoint: endpoint, StatusCode: statusCode}
}

func ServerDataError(message string, endpoint string) error {
	return &Error{Kind: ErrorKindServerData, Message: message, Endpoint: endpoint}
}

func StateError(message string) error {
	if strings.TrimSpace(message) == "" {
		message = "socialauth: call VerifyResponse first to obtain an access token"
	}
	return &Error{Kind: ErrorKindState, Message: message}
}

// KindOf returns the kind of a provider error, or "" when err does not carry
// one.
func KindOf(err error) ErrorKind {
	var typed *Error
	if errors.As(err, &typed) && typed != nil {
		return typed.Kind
	}
	return ""
}

// MapError converts any error into a go-errors envelope.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) && typed != nil {
		return typed.ToServiceError()
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return ensureErrorEnvelope(rich)
	}
	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureErrorEnvelope(mapped)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = categoryHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorBadInput
	case goerrors.CategoryAuth:
		return ErrorAuthenticationFailed
	case goerrors.CategoryAuthz:
		return ErrorUserDenied
	case goerrors.CategoryConflict:
		return ErrorStateInvalid
	case goerrors.CategoryExternal:
		return ErrorServerDataInvalid
	default:
		return ErrorInternal
	}
}

func categoryHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
