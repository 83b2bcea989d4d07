package core

import (
	"context"
	"net/http"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

func (r TransportResponse) Success() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// OAuthConsumer performs the OAuth 1.0a token dance and signs resource
// requests on behalf of a provider adapter.
type OAuthConsumer interface {
	RequestToken(ctx context.Context, requestTokenURL string, returnTo string) (Token, error)
	AuthorizationURL(authorizeURL string, requestToken Token, returnTo string) (string, error)
	AccessToken(ctx context.Context, accessTokenURL string, requestToken Token) (Token, error)
	Get(ctx context.Context, endpoint string, params map[string]string, accessToken Token) (TransportResponse, error)
	Put(
		ctx context.Context,
		endpoint string,
		params map[string]string,
		headers map[string]string,
		body []byte,
		accessToken Token,
	) (TransportResponse, error)
}

// AuthProvider is the stateful, single-owner surface of a provider adapter.
type AuthProvider interface {
	ID() string
	GetLoginRedirectURL(ctx context.Context, returnTo string) (string, error)
	VerifyResponse(ctx context.Context, params map[string]string) (Profile, error)
	GetContactList(ctx context.Context) ([]Contact, error)
	UpdateStatus(ctx context.Context, message string) error
	SetPermission(permission Permission)
	Logout()
}

// SessionProvider is the stateless surface: every step takes the session it
// operates on and returns the updated value.
type SessionProvider interface {
	ID() string
	BeginAuth(ctx context.Context, session Session, returnTo string) (Session, string, error)
	CompleteAuth(ctx context.Context, session Session, params map[string]string) (Session, Profile, error)
	Profile(ctx context.Context, session Session) (Profile, error)
	ContactList(ctx context.Context, session Session) ([]Contact, error)
	UpdateStatus(ctx context.Context, session Session, message string) error
	Logout(session Session) Session
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type ActivitySink interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

type ActivityReader interface {
	Get(ctx context.Context, id string) (ActivityEntry, error)
	List(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
}
