package myspace

import (
	"context"
	"sync"

	"github.com/goliatone/go-socialauth/core"
	"github.com/google/uuid"
)

// Adapter owns one login session and exposes the classic single-user flow on
// top of Provider. Calls are serialized; a failed step does not advance the
// handshake.
type Adapter struct {
	mu       sync.Mutex
	provider *Provider
	session  core.Session
}

func NewAdapter(provider *Provider) *Adapter {
	return &Adapter{
		provider: provider,
		session:  provider.NewSession(uuid.NewString()),
	}
}

// NewAdapterFromConfig builds the provider and wraps it in one step.
func NewAdapterFromConfig(cfg core.ProviderConfig, opts ...Option) (*Adapter, error) {
	provider, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return NewAdapter(provider), nil
}

func (a *Adapter) ID() string {
	return ProviderID
}

func (a *Adapter) Provider() *Provider {
	return a.provider
}

// Session returns a copy of the current session.
func (a *Adapter) Session() core.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Clone()
}

func (a *Adapter) GetLoginRedirectURL(ctx context.Context, returnTo string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// The provider state is marked active before the request token is
	// fetched, even when the fetch fails.
	a.session.ProviderStateActive = true
	next, redirectURL, err := a.provider.BeginAuth(ctx, a.session, returnTo)
	if err != nil {
		return "", err
	}
	a.session = next
	return redirectURL, nil
}

func (a *Adapter) VerifyResponse(ctx context.Context, params map[string]string) (core.Profile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, profile, err := a.provider.CompleteAuth(ctx, a.session, params)
	if err != nil {
		return core.Profile{}, err
	}
	a.session = next
	return profile, nil
}

// Profile refetches the profile with the held access token.
func (a *Adapter) Profile(ctx context.Context) (core.Profile, error) {
	session := a.Session()
	return a.provider.Profile(ctx, session)
}

func (a *Adapter) GetContactList(ctx context.Context) ([]core.Contact, error) {
	session := a.Session()
	return a.provider.ContactList(ctx, session)
}

func (a *Adapter) UpdateStatus(ctx context.Context, message string) error {
	session := a.Session()
	return a.provider.UpdateStatus(ctx, session, message)
}

// SetPermission selects the scope requested by the next login redirect.
func (a *Adapter) SetPermission(permission core.Permission) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.Permission = core.ParsePermission(string(permission))
}

func (a *Adapter) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = a.provider.Logout(a.session)
}

var _ core.AuthProvider = (*Adapter)(nil)
