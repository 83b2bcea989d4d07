package myspace

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-socialauth/core"
)

// BeginAuth marks the provider state active, fetches a fresh request token
// and returns the authorization URL the user must visit. Any request token or
// access token held by session is replaced.
func (p *Provider) BeginAuth(ctx context.Context, session core.Session, returnTo string) (next core.Session, redirectURL string, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		p.observe(ctx, session, core.ActionLoginRedirect, startedAt, err, map[string]any{"return_to": returnTo})
	}()
	if p == nil || p.consumer == nil {
		return session, "", core.ConfigurationError("myspace: provider is not configured", nil)
	}
	session = p.bind(session)
	permission := session.Permission
	if permission == "" {
		permission = p.permission
	}

	p.observer.Debug(ctx, "fetching request token", map[string]any{"endpoint": p.endpoints.RequestTokenURL})
	requestToken, err := p.consumer.RequestToken(ctx, p.endpoints.RequestTokenURL, returnTo)
	if err != nil {
		return session, "", asAuthenticationError("myspace: failed to obtain request token", p.endpoints.RequestTokenURL, err)
	}
	authorizeURL, err := p.authorizeURL(permission)
	if err != nil {
		return session, "", err
	}
	redirectURL, err = p.consumer.AuthorizationURL(authorizeURL, requestToken, returnTo)
	if err != nil {
		return session, "", asAuthenticationError("myspace: failed to build authorization url", authorizeURL, err)
	}

	next = session.WithRedirectIssued(requestToken, returnTo)
	next.Permission = permission
	return next, redirectURL, nil
}

// CompleteAuth handles the provider callback. The denial check runs first,
// then the provider state and request token checks. On success the returned
// session is verified and holds only the access token.
func (p *Provider) CompleteAuth(ctx context.Context, session core.Session, params map[string]string) (next core.Session, profile core.Profile, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		fields := map[string]any{}
		if profile.ValidatedID != "" {
			fields["validated_id"] = profile.ValidatedID
		}
		p.observe(ctx, session, core.ActionVerifyResponse, startedAt, err, fields)
	}()
	if p == nil || p.consumer == nil {
		return session, core.Profile{}, core.ConfigurationError("myspace: provider is not configured", nil)
	}

	if strings.TrimSpace(params[core.OAuthProblemParam]) == core.OAuthProblemUserRefused {
		return session, core.Profile{}, core.UserDeniedError()
	}
	if !session.ProviderStateActive {
		return session, core.Profile{}, core.ProviderStateError()
	}
	if session.RequestToken == nil {
		return session, core.Profile{}, core.AuthenticationError("myspace: missing request token", "", nil)
	}

	requestToken := session.RequestToken.Clone()
	if verifier, ok := params[core.OAuthVerifierParam]; ok {
		requestToken = requestToken.WithAttribute(core.OAuthVerifierParam, verifier)
	}

	p.observer.Debug(ctx, "exchanging request token", map[string]any{"endpoint": p.endpoints.AccessTokenURL})
	accessToken, err := p.consumer.AccessToken(ctx, p.endpoints.AccessTokenURL, requestToken)
	if err != nil {
		return session, core.Profile{}, asAuthenticationError("myspace: access token exchange failed", p.endpoints.AccessTokenURL, err)
	}

	profile, err = p.fetchProfile(ctx, accessToken)
	if err != nil {
		return session, core.Profile{}, err
	}
	return session.WithVerified(accessToken), profile, nil
}

// Profile refetches the profile of a verified session.
func (p *Provider) Profile(ctx context.Context, session core.Session) (profile core.Profile, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		p.observe(ctx, session, core.ActionProfile, startedAt, err, nil)
	}()
	accessToken, err := p.verifiedToken(session)
	if err != nil {
		return core.Profile{}, err
	}
	return p.fetchProfile(ctx, accessToken)
}

func (p *Provider) ContactList(ctx context.Context, session core.Session) (contacts []core.Contact, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		p.observe(ctx, session, core.ActionContactList, startedAt, err, map[string]any{"count": len(contacts)})
	}()
	accessToken, err := p.verifiedToken(session)
	if err != nil {
		return nil, err
	}

	endpoint := p.endpoints.ContactsURL
	p.observer.Debug(ctx, "fetching contacts", map[string]any{"endpoint": endpoint})
	res, err := p.consumer.Get(ctx, endpoint, nil, accessToken)
	if err != nil {
		return nil, asAuthenticationError("myspace: failed to retrieve the contacts", endpoint, err)
	}
	contacts, err = parseContacts(res.Body, endpoint)
	if err != nil {
		p.debugBody(ctx, endpoint, res.Body)
		return nil, err
	}
	return contacts, nil
}

func (p *Provider) UpdateStatus(ctx context.Context, session core.Session, message string) (err error) {
	startedAt := time.Now().UTC()
	statusCode := 0
	defer func() {
		p.observe(ctx, session, core.ActionUpdateStatus, startedAt, err, map[string]any{"status_code": statusCode})
	}()
	accessToken, err := p.verifiedToken(session)
	if err != nil {
		return err
	}
	if strings.TrimSpace(message) == "" {
		return core.ServerDataError("myspace: status cannot be blank", "")
	}
	body, err := statusBody(message)
	if err != nil {
		return core.ServerDataError(fmt.Sprintf("myspace: encode status: %v", err), "")
	}

	endpoint := p.endpoints.StatusURL
	res, err := p.consumer.Put(
		ctx,
		endpoint,
		map[string]string{},
		map[string]string{"Content-Type": "application/json"},
		body,
		accessToken,
	)
	if err != nil {
		return asAuthenticationError("myspace: failed to update status", endpoint, err)
	}
	statusCode = res.StatusCode
	if !res.Success() {
		return core.AuthenticationStatusError("myspace: failed to update status", endpoint, res.StatusCode)
	}
	return nil
}

// Logout drops both tokens and returns the session to the unstarted state, so
// authenticated calls fail until a new handshake completes.
func (p *Provider) Logout(session core.Session) core.Session {
	next := session.LoggedOut()
	if p != nil {
		p.observe(context.Background(), session, core.ActionLogout, time.Now().UTC(), nil, nil)
	}
	return next
}

func (p *Provider) fetchProfile(ctx context.Context, accessToken core.Token) (core.Profile, error) {
	endpoint := p.endpoints.ProfileURL
	p.observer.Debug(ctx, "fetching profile", map[string]any{"endpoint": endpoint})
	res, err := p.consumer.Get(ctx, endpoint, nil, accessToken)
	if err != nil {
		return core.Profile{}, asAuthenticationError("myspace: failed to retrieve the user profile", endpoint, err)
	}
	if res.StatusCode != http.StatusOK {
		return core.Profile{}, core.AuthenticationStatusError("myspace: failed to retrieve the user profile", endpoint, res.StatusCode)
	}
	profile, err := parseProfile(res.Body, endpoint)
	if err != nil {
		p.debugBody(ctx, endpoint, res.Body)
		return core.Profile{}, err
	}
	profile.ProviderID = ProviderID
	return profile, nil
}

// debugBody logs an excerpt of an unparseable response. Profile bodies carry
// personal data, so the excerpt stays out of error messages.
func (p *Provider) debugBody(ctx context.Context, endpoint string, body []byte) {
	p.observer.Debug(ctx, "unparseable response body", map[string]any{
		"endpoint":     endpoint,
		"body_bytes":   len(body),
		"body_excerpt": excerpt(body, responseExcerptLimit),
	})
}

func (p *Provider) verifiedToken(session core.Session) (core.Token, error) {
	if p == nil || p.consumer == nil {
		return core.Token{}, core.ConfigurationError("myspace: provider is not configured", nil)
	}
	if !session.Verified() || session.AccessToken == nil {
		return core.Token{}, core.StateError("")
	}
	return session.AccessToken.Clone(), nil
}

func (p *Provider) bind(session core.Session) core.Session {
	if session.ProviderID == "" {
		session.ProviderID = ProviderID
	}
	return session
}

func (p *Provider) observe(
	ctx context.Context,
	session core.Session,
	operation string,
	startedAt time.Time,
	err error,
	fields map[string]any,
) {
	if p == nil {
		return
	}
	p.observer.Observe(ctx, core.Observation{
		ProviderID: ProviderID,
		SessionID:  session.ID,
		Operation:  operation,
		StartedAt:  startedAt,
		Err:        err,
		Fields:     fields,
	})
}

// asAuthenticationError keeps authentication errors from the consumer and
// wraps anything else, naming the endpoint.
func asAuthenticationError(message string, endpoint string, err error) error {
	if core.KindOf(err) == core.ErrorKindAuthentication {
		return err
	}
	return core.AuthenticationError(message, endpoint, err)
}
