package core

import (
	"strings"
	"time"
)

const (
	OAuthVerifierParam = "oauth_verifier"
	OAuthProblemParam  = "oauth_problem"
	OAuthTokenParam    = "oauth_token"
	OAuthCallbackParam = "oauth_callback"

	OAuthProblemUserRefused = "user_refused"
)

type Permission string

const (
	PermissionAuthenticateOnly Permission = "authenticate_only"
	PermissionDefault          Permission = "default"
	PermissionAll              Permission = "all"
	PermissionCustom           Permission = "custom"
)

// ParsePermission normalizes a permission name; unknown or empty values
// resolve to PermissionDefault.
func ParsePermission(value string) Permission {
	normalized := strings.TrimSpace(strings.ToLower(value))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch Permission(normalized) {
	case PermissionAuthenticateOnly, PermissionAll, PermissionCustom:
		return Permission(normalized)
	default:
		return PermissionDefault
	}
}

func (p Permission) String() string {
	return string(ParsePermission(string(p)))
}

type Token struct {
	Key        string
	Secret     string
	Attributes map[string]string
}

func NewToken(key, secret string) Token {
	return Token{
		Key:        strings.TrimSpace(key),
		Secret:     strings.TrimSpace(secret),
		Attributes: map[string]string{},
	}
}

func (t Token) Attribute(name string) string {
	if len(t.Attributes) == 0 {
		return ""
	}
	return t.Attributes[name]
}

func (t Token) WithAttribute(name, value string) Token {
	cloned := t.Clone()
	cloned.Attributes[name] = value
	return cloned
}

func (t Token) Verifier() string {
	return t.Attribute(OAuthVerifierParam)
}

func (t Token) Clone() Token {
	cloned := t
	cloned.Attributes = make(map[string]string, len(t.Attributes))
	for key, value := range t.Attributes {
		cloned.Attributes[key] = value
	}
	return cloned
}

func cloneTokenPointer(token *Token) *Token {
	if token == nil {
		return nil
	}
	cloned := token.Clone()
	return &cloned
}

type HandshakeState string

const (
	HandshakeUnstarted      HandshakeState = "unstarted"
	HandshakeRedirectIssued HandshakeState = "redirect_issued"
	HandshakeVerified       HandshakeState = "verified"
)

// Session carries the handshake state of a single login between calls.
// Sessions are values: provider operations return an updated copy and never
// mutate the one they receive.
type Session struct {
	ID                  string
	ProviderID          string
	State               HandshakeState
	ProviderStateActive bool
	Permission          Permission
	ReturnTo            string
	RequestToken        *Token
	AccessToken         *Token
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func NewSession(id, providerID string) Session {
	now := time.Now().UTC()
	return Session{
		ID:         strings.TrimSpace(id),
		ProviderID: strings.TrimSpace(strings.ToLower(providerID)),
		State:      HandshakeUnstarted,
		Permission: PermissionDefault,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s Session) Verified() bool {
	return s.State == HandshakeVerified
}

func (s Session) Clone() Session {
	cloned := s
	cloned.RequestToken = cloneTokenPointer(s.RequestToken)
	cloned.AccessToken = cloneTokenPointer(s.AccessToken)
	return cloned
}

func (s Session) touch() Session {
	s.UpdatedAt = time.Now().UTC()
	return s
}

// WithRedirectIssued returns a copy holding a fresh request token.
func (s Session) WithRedirectIssued(requestToken Token, returnTo string) Session {
	next := s.Clone()
	next.State = HandshakeRedirectIssued
	next.ProviderStateActive = true
	next.ReturnTo = strings.TrimSpace(returnTo)
	next.RequestToken = cloneTokenPointer(&requestToken)
	next.AccessToken = nil
	return next.touch()
}

// WithVerified returns a copy holding the access token; the request token is
// single use and is dropped.
func (s Session) WithVerified(accessToken Token) Session {
	next := s.Clone()
	next.State = HandshakeVerified
	next.RequestToken = nil
	next.AccessToken = cloneTokenPointer(&accessToken)
	return next.touch()
}

// LoggedOut clears both tokens and returns the session to the unstarted
// state.
func (s Session) LoggedOut() Session {
	next := s.Clone()
	next.State = HandshakeUnstarted
	next.ProviderStateActive = false
	next.RequestToken = nil
	next.AccessToken = nil
	return next.touch()
}

type Profile struct {
	ProviderID      string
	ValidatedID     string
	DisplayName     string
	FirstName       string
	LastName        string
	Location        string
	Language        string
	DOB             string
	ProfileImageURL string
}

func (p Profile) Map() map[string]any {
	return map[string]any{
		"provider_id":       p.ProviderID,
		"validated_id":      p.ValidatedID,
		"display_name":      p.DisplayName,
		"first_name":        p.FirstName,
		"last_name":         p.LastName,
		"location":          p.Location,
		"language":          p.Language,
		"dob":               p.DOB,
		"profile_image_url": p.ProfileImageURL,
	}
}

type Contact struct {
	DisplayName string
	FirstName   string
	LastName    string
	ProfileURL  string
}

// LoginRedirect is the outcome of starting a login.
type LoginRedirect struct {
	Session Session
	URL     string
}

// CallbackCompletion is the outcome of a verified callback.
type CallbackCompletion struct {
	Session Session
	Profile Profile
}
