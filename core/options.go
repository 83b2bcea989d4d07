package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
)

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type StaticRawConfigLoader struct {
	Values map[string]any
}

func (l StaticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	return copyAnyMap(l.Values), nil
}

// PropertiesLoader reads a flat properties bundle such as
// "api.myspace.com.consumer_key=..." and keeps the keys that belong to Domain.
type PropertiesLoader struct {
	Domain     string
	Properties map[string]string
}

func (l PropertiesLoader) LoadRaw(context.Context) (map[string]any, error) {
	domain := strings.TrimSpace(strings.ToLower(l.Domain))
	if domain == "" {
		return nil, fmt.Errorf("core: properties domain is required")
	}
	return PropertiesToRaw(l.Properties, domain), nil
}

var endpointPropertyKeys = map[string]struct{}{
	"request_token_url": {},
	"authorize_url":     {},
	"access_token_url":  {},
	"profile_url":       {},
	"contacts_url":      {},
	"status_url":        {},
}

func PropertiesToRaw(properties map[string]string, domain string) map[string]any {
	prefix := strings.TrimSpace(strings.ToLower(domain)) + "."
	raw := map[string]any{"domain": strings.TrimSpace(strings.ToLower(domain))}
	endpoints := map[string]any{}
	for key, value := range properties {
		normalized := strings.TrimSpace(strings.ToLower(key))
		if !strings.HasPrefix(normalized, prefix) {
			continue
		}
		field := strings.TrimPrefix(normalized, prefix)
		if field == "" {
			continue
		}
		if _, ok := endpointPropertyKeys[field]; ok {
			endpoints[field] = strings.TrimSpace(value)
			continue
		}
		raw[field] = strings.TrimSpace(value)
	}
	if len(endpoints) > 0 {
		raw["endpoints"] = endpoints
	}
	return raw
}

// LoadProviderConfig resolves a provider configuration from three layers:
// defaults, then whatever the loader returns, then non-empty runtime values.
func LoadProviderConfig(
	ctx context.Context,
	loader RawConfigLoader,
	defaults ProviderConfig,
	runtime ProviderConfig,
) (ProviderConfig, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if loader == nil {
		loader = StaticRawConfigLoader{}
	}
	loaded, err := loader.LoadRaw(ctx)
	if err != nil {
		return ProviderConfig{}, ConfigurationError("core: load provider configuration", err)
	}

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			providerConfigLayer(defaults, true),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loaded,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			providerConfigLayer(runtime, false),
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return ProviderConfig{}, ConfigurationError("core: options stack build failed", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return ProviderConfig{}, ConfigurationError("core: options merge failed", err)
	}

	resolved, err := cfgx.Build[ProviderConfig](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[ProviderConfig]((*ProviderConfig).Validate),
	)
	if err != nil {
		return ProviderConfig{}, ConfigurationError("core: invalid provider configuration", err)
	}
	resolved = resolved.Normalized()
	if err := resolved.Validate(); err != nil {
		return ProviderConfig{}, ConfigurationError(err.Error(), nil)
	}
	return resolved, nil
}

func providerConfigLayer(cfg ProviderConfig, includeZero bool) map[string]any {
	cfg = cfg.Normalized()
	layer := map[string]any{}
	set := func(key, value string) {
		if includeZero || value != "" {
			layer[key] = value
		}
	}
	set("domain", cfg.Domain)
	set("consumer_key", cfg.ConsumerKey)
	set("consumer_secret", cfg.ConsumerSecret)
	set("permission", cfg.Permission)
	set("custom_permissions", cfg.CustomPermissions)

	endpoints := map[string]any{}
	setEndpoint := func(key, value string) {
		if includeZero || value != "" {
			endpoints[key] = value
		}
	}
	setEndpoint("request_token_url", cfg.Endpoints.RequestTokenURL)
	setEndpoint("authorize_url", cfg.Endpoints.AuthorizeURL)
	setEndpoint("access_token_url", cfg.Endpoints.AccessTokenURL)
	setEndpoint("profile_url", cfg.Endpoints.ProfileURL)
	setEndpoint("contacts_url", cfg.Endpoints.ContactsURL)
	setEndpoint("status_url", cfg.Endpoints.StatusURL)
	if len(endpoints) > 0 {
		layer["endpoints"] = endpoints
	}
	return layer
}
