// Package socialauth wires the MySpace OAuth 1.0a provider into a
// command/query facade. Lower level building blocks live in core,
// providers/myspace, consumer and store/sql.
package socialauth

import (
	"github.com/goliatone/go-socialauth/core"
	"github.com/goliatone/go-socialauth/providers/myspace"
)

type ProviderConfig = core.ProviderConfig
type EndpointConfig = core.EndpointConfig

type Session = core.Session
type Token = core.Token
type Profile = core.Profile
type Contact = core.Contact
type Permission = core.Permission

type ActivityEntry = core.ActivityEntry
type ActivityFilter = core.ActivityFilter
type ActivityPage = core.ActivityPage

const (
	PermissionDefault          = core.PermissionDefault
	PermissionAuthenticateOnly = core.PermissionAuthenticateOnly
	PermissionAll              = core.PermissionAll
	PermissionCustom           = core.PermissionCustom
)

var (
	WithConsumer        = myspace.WithConsumer
	WithLogger          = myspace.WithLogger
	WithLoggerProvider  = myspace.WithLoggerProvider
	WithMetricsRecorder = myspace.WithMetricsRecorder
	WithActivitySink    = myspace.WithActivitySink
	WithPermission      = myspace.WithPermission
	WithTimeout         = myspace.WithTimeout
)

func DefaultConfig() ProviderConfig {
	return myspace.DefaultConfig()
}

// NewProvider returns the stateless, session-passing MySpace provider.
func NewProvider(cfg ProviderConfig, opts ...myspace.Option) (*myspace.Provider, error) {
	return myspace.New(cfg, opts...)
}

// NewAdapter returns a single-owner adapter holding its own session.
func NewAdapter(cfg ProviderConfig, opts ...myspace.Option) (*myspace.Adapter, error) {
	return myspace.NewAdapterFromConfig(cfg, opts...)
}
