package core

import (
	"fmt"
	"strings"
)

type EndpointConfig struct {
	RequestTokenURL string `koanf:"request_token_url" mapstructure:"request_token_url"`
	AuthorizeURL    string `koanf:"authorize_url" mapstructure:"authorize_url"`
	AccessTokenURL  string `koanf:"access_token_url" mapstructure:"access_token_url"`
	ProfileURL      string `koanf:"profile_url" mapstructure:"profile_url"`
	ContactsURL     string `koanf:"contacts_url" mapstructure:"contacts_url"`
	StatusURL       string `koanf:"status_url" mapstructure:"status_url"`
}

// WithDefaults fills every empty endpoint from defaults.
func (e EndpointConfig) WithDefaults(defaults EndpointConfig) EndpointConfig {
	out := e.Trimmed()
	defaults = defaults.Trimmed()
	if out.RequestTokenURL == "" {
		out.RequestTokenURL = defaults.RequestTokenURL
	}
	if out.AuthorizeURL == "" {
		out.AuthorizeURL = defaults.AuthorizeURL
	}
	if out.AccessTokenURL == "" {
		out.AccessTokenURL = defaults.AccessTokenURL
	}
	if out.ProfileURL == "" {
		out.ProfileURL = defaults.ProfileURL
	}
	if out.ContactsURL == "" {
		out.ContactsURL = defaults.ContactsURL
	}
	if out.StatusURL == "" {
		out.StatusURL = defaults.StatusURL
	}
	return out
}

func (e EndpointConfig) Trimmed() EndpointConfig {
	return EndpointConfig{
		RequestTokenURL: strings.TrimSpace(e.RequestTokenURL),
		AuthorizeURL:    strings.TrimSpace(e.AuthorizeURL),
		AccessTokenURL:  strings.TrimSpace(e.AccessTokenURL),
		ProfileURL:      strings.TrimSpace(e.ProfileURL),
		ContactsURL:     strings.TrimSpace(e.ContactsURL),
		StatusURL:       strings.TrimSpace(e.StatusURL),
	}
}

func (e EndpointConfig) Validate() error {
	required := map[string]string{
		"request_token_url": e.RequestTokenURL,
		"authorize_url":     e.AuthorizeURL,
		"access_token_url":  e.AccessTokenURL,
		"profile_url":       e.ProfileURL,
		"contacts_url":      e.ContactsURL,
		"status_url":        e.StatusURL,
	}
	for _, name := range []string{
		"request_token_url",
		"authorize_url",
		"access_token_url",
		"profile_url",
		"contacts_url",
		"status_url",
	} {
		if strings.TrimSpace(required[name]) == "" {
			return fmt.Errorf("core: endpoint %s is required", name)
		}
	}
	return nil
}

type ProviderConfig struct {
	Domain            string         `koanf:"domain" mapstructure:"domain"`
	ConsumerKey       string         `koanf:"consumer_key" mapstructure:"consumer_key"`
	ConsumerSecret    string         `koanf:"consumer_secret" mapstructure:"consumer_secret"`
	Permission        string         `koanf:"permission" mapstructure:"permission"`
	CustomPermissions string         `koanf:"custom_permissions" mapstructure:"custom_permissions"`
	Endpoints         EndpointConfig `koanf:"endpoints" mapstructure:"endpoints"`
}

func (c ProviderConfig) Normalized() ProviderConfig {
	return ProviderConfig{
		Domain:            strings.TrimSpace(strings.ToLower(c.Domain)),
		ConsumerKey:       strings.TrimSpace(c.ConsumerKey),
		ConsumerSecret:    strings.TrimSpace(c.ConsumerSecret),
		Permission:        strings.TrimSpace(c.Permission),
		CustomPermissions: strings.TrimSpace(c.CustomPermissions),
		Endpoints:         c.Endpoints.Trimmed(),
	}
}

// Validate reports missing credentials. Endpoints are checked by the provider
// once its defaults have been applied.
func (c ProviderConfig) Validate() error {
	domain := strings.TrimSpace(c.Domain)
	if domain == "" {
		domain = "provider"
	}
	if strings.TrimSpace(c.ConsumerKey) == "" {
		return fmt.Errorf("core: %s.consumer_key value is required", domain)
	}
	if strings.TrimSpace(c.ConsumerSecret) == "" {
		return fmt.Errorf("core: %s.consumer_secret value is required", domain)
	}
	return nil
}

func (c ProviderConfig) ResolvedPermission() Permission {
	return ParsePermission(c.Permission)
}
