package myspace

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-socialauth/consumer"
	"github.com/goliatone/go-socialauth/core"
)

const (
	ProviderID     = "myspace"
	PropertyDomain = "api.myspace.com"

	RequestTokenURL = "http://api.myspace.com/request_token"
	AuthorizeURL    = "http://api.myspace.com/authorize"
	AccessTokenURL  = "http://api.myspace.com/access_token"
	ProfileURL      = "http://api.myspace.com/1.0/people/@me/@self"
	ContactsURL     = "http://api.myspace.com/1.0/people/@me/@all"
	StatusURL       = "http://api.myspace.com/1.0/statusmood/@me/@self"

	PermissionsParam = "myspaceid.permissions"

	DefaultPermissions          = "VIEWER_FULL_PROFILE_INFO|ViewFullProfileInfo|UpdateMoodStatus"
	AuthenticateOnlyPermissions = "VIEWER_FULL_PROFILE_INFO|ViewFullProfileInfo"
)

func DefaultEndpoints() core.EndpointConfig {
	return core.EndpointConfig{
		RequestTokenURL: RequestTokenURL,
		AuthorizeURL:    AuthorizeURL,
		AccessTokenURL:  AccessTokenURL,
		ProfileURL:      ProfileURL,
		ContactsURL:     ContactsURL,
		StatusURL:       StatusURL,
	}
}

func DefaultConfig() core.ProviderConfig {
	return core.ProviderConfig{
		Domain:     PropertyDomain,
		Permission: string(core.PermissionDefault),
		Endpoints:  DefaultEndpoints(),
	}
}

type Option func(*Provider)

// WithConsumer replaces the dghubble/oauth1 backed consumer.
func WithConsumer(c core.OAuthConsumer) Option {
	return func(p *Provider) {
		if c != nil {
			p.consumer = c
		}
	}
}

func WithLogger(logger core.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(p *Provider) {
		p.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(p *Provider) {
		if recorder != nil {
			p.metrics = recorder
		}
	}
}

func WithActivitySink(sink core.ActivitySink) Option {
	return func(p *Provider) {
		p.activity = sink
	}
}

// WithPermission sets the scope used by sessions that do not carry one.
func WithPermission(permission core.Permission) Option {
	return func(p *Provider) {
		p.permission = core.ParsePermission(string(permission))
	}
}

// WithTimeout bounds each call made by the default consumer.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Provider) {
		p.timeout = timeout
	}
}

// Provider is the stateless MySpace adapter. Handshake state travels in the
// core.Session values passed to and returned from each call, so one Provider
// serves any number of concurrent logins.
type Provider struct {
	config            core.ProviderConfig
	endpoints         core.EndpointConfig
	permission        core.Permission
	customPermissions string
	consumer          core.OAuthConsumer
	logger            core.Logger
	loggerProvider    core.LoggerProvider
	metrics           core.MetricsRecorder
	activity          core.ActivitySink
	timeout           time.Duration
	observer          core.Observer
}

func New(cfg core.ProviderConfig, opts ...Option) (*Provider, error) {
	cfg = cfg.Normalized()
	if cfg.Domain == "" {
		cfg.Domain = PropertyDomain
	}
	if err := cfg.Validate(); err != nil {
		return nil, core.ConfigurationError(err.Error(), nil)
	}
	endpoints := cfg.Endpoints.WithDefaults(DefaultEndpoints())
	if err := endpoints.Validate(); err != nil {
		return nil, core.ConfigurationError("myspace: invalid endpoints", err)
	}
	for _, raw := range []string{
		endpoints.RequestTokenURL,
		endpoints.AuthorizeURL,
		endpoints.AccessTokenURL,
		endpoints.ProfileURL,
		endpoints.ContactsURL,
		endpoints.StatusURL,
	} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return nil, core.ConfigurationError("myspace: invalid endpoint url "+raw, err)
		}
	}
	cfg.Endpoints = endpoints

	p := &Provider{
		config:            cfg,
		endpoints:         endpoints,
		permission:        cfg.ResolvedPermission(),
		customPermissions: cfg.CustomPermissions,
		metrics:           core.NopMetricsRecorder{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.consumer == nil {
		c, err := consumer.New(consumer.Config{
			ConsumerKey:    cfg.ConsumerKey,
			ConsumerSecret: cfg.ConsumerSecret,
			Timeout:        p.timeout,
		})
		if err != nil {
			return nil, err
		}
		p.consumer = c
	}
	p.observer = core.NewObserver("socialauth.myspace", p.loggerProvider, p.logger)
	p.observer.Metrics = p.metrics
	p.observer.Activity = p.activity
	return p, nil
}

// NewFromProperties reads "api.myspace.com.*" keys from properties, layered
// over DefaultConfig.
func NewFromProperties(ctx context.Context, properties map[string]string, opts ...Option) (*Provider, error) {
	cfg, err := core.LoadProviderConfig(
		ctx,
		core.PropertiesLoader{Domain: PropertyDomain, Properties: properties},
		DefaultConfig(),
		core.ProviderConfig{},
	)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

func (p *Provider) ID() string {
	return ProviderID
}

func (p *Provider) Config() core.ProviderConfig {
	if p == nil {
		return core.ProviderConfig{}
	}
	return p.config
}

func (p *Provider) Endpoints() core.EndpointConfig {
	if p == nil {
		return core.EndpointConfig{}
	}
	return p.endpoints
}

// Permission is the default scope for sessions that do not pick one.
func (p *Provider) Permission() core.Permission {
	if p == nil {
		return core.PermissionDefault
	}
	return p.permission
}

// NewSession starts an unstarted session bound to this provider.
func (p *Provider) NewSession(id string) core.Session {
	session := core.NewSession(id, ProviderID)
	session.Permission = p.Permission()
	return session
}

// PermissionScope resolves the myspaceid.permissions value for permission.
func (p *Provider) PermissionScope(permission core.Permission) string {
	switch core.ParsePermission(string(permission)) {
	case core.PermissionAuthenticateOnly:
		return AuthenticateOnlyPermissions
	case core.PermissionCustom:
		if p != nil && strings.TrimSpace(p.customPermissions) != "" {
			return strings.TrimSpace(p.customPermissions)
		}
		return DefaultPermissions
	default:
		return DefaultPermissions
	}
}

func (p *Provider) authorizeURL(permission core.Permission) (string, error) {
	parsed, err := url.Parse(p.endpoints.AuthorizeURL)
	if err != nil {
		return "", core.ConfigurationError("myspace: invalid authorize url", err)
	}
	query := parsed.Query()
	query.Set(PermissionsParam, p.PermissionScope(permission))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

var _ core.SessionProvider = (*Provider)(nil)
