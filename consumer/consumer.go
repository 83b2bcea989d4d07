package consumer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/goliatone/go-socialauth/core"
	"github.com/goliatone/go-socialauth/transport"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	ConsumerKey    string
	ConsumerSecret string
	HTTPClient     *http.Client
	Timeout        time.Duration
}

// Consumer implements core.OAuthConsumer on top of dghubble/oauth1. Every call
// builds its own oauth1 configuration, so a Consumer can be shared between
// sessions.
type Consumer struct {
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	transport      *transport.RESTAdapter
	timeout        time.Duration
}

func New(cfg Config) (*Consumer, error) {
	key := strings.TrimSpace(cfg.ConsumerKey)
	secret := strings.TrimSpace(cfg.ConsumerSecret)
	if key == "" || secret == "" {
		return nil, core.ConfigurationError("consumer: consumer key and secret are required", nil)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Consumer{
		consumerKey:    key,
		consumerSecret: secret,
		httpClient:     client,
		transport:      transport.NewRESTAdapter(client),
		timeout:        timeout,
	}, nil
}

func (c *Consumer) config(ctx context.Context, endpoint oauth1.Endpoint, callbackURL string) *oauth1.Config {
	return &oauth1.Config{
		ConsumerKey:    c.consumerKey,
		ConsumerSecret: c.consumerSecret,
		CallbackURL:    strings.TrimSpace(callbackURL),
		Endpoint:       endpoint,
		HTTPClient:     c.contextClient(ctx),
	}
}

// contextClient binds ctx to the token exchange requests, which oauth1 builds
// without a context.
func (c *Consumer) contextClient(ctx context.Context) *http.Client {
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   c.httpClient.Timeout,
		Transport: contextRoundTripper{ctx: ctx, base: base},
	}
}

type contextRoundTripper struct {
	ctx  context.Context
	base http.RoundTripper
}

func (rt contextRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt.base.RoundTrip(req.WithContext(rt.ctx))
}

func (c *Consumer) RequestToken(ctx context.Context, requestTokenURL string, returnTo string) (core.Token, error) {
	if c == nil {
		return core.Token{}, core.ConfigurationError("consumer: consumer is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := c.config(ctx, oauth1.Endpoint{RequestTokenURL: requestTokenURL}, returnTo)
	token, secret, err := cfg.RequestToken()
	if err != nil {
		return core.Token{}, core.AuthenticationError("consumer: request token failed", requestTokenURL, err)
	}
	return core.NewToken(token, secret), nil
}

// AuthorizationURL adds oauth_token and, when returnTo is set, oauth_callback
// to authorizeURL. Query values already present on authorizeURL are kept.
func (c *Consumer) AuthorizationURL(authorizeURL string, requestToken core.Token, returnTo string) (string, error) {
	if strings.TrimSpace(requestToken.Key) == "" {
		return "", core.AuthenticationError("consumer: request token is required", authorizeURL, nil)
	}
	parsed, err := url.Parse(strings.TrimSpace(authorizeURL))
	if err != nil {
		return "", core.ConfigurationError(fmt.Sprintf("consumer: invalid authorize url %q", authorizeURL), err)
	}
	query := parsed.Query()
	query.Set(core.OAuthTokenParam, requestToken.Key)
	if returnTo = strings.TrimSpace(returnTo); returnTo != "" {
		query.Set(core.OAuthCallbackParam, returnTo)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (c *Consumer) AccessToken(ctx context.Context, accessTokenURL string, requestToken core.Token) (core.Token, error) {
	if c == nil {
		return core.Token{}, core.ConfigurationError("consumer: consumer is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := c.config(ctx, oauth1.Endpoint{AccessTokenURL: accessTokenURL}, "")
	token, secret, err := cfg.AccessToken(requestToken.Key, requestToken.Secret, requestToken.Verifier())
	if err != nil {
		return core.Token{}, core.AuthenticationError("consumer: access token exchange failed", accessTokenURL, err)
	}
	return core.NewToken(token, secret), nil
}

func (c *Consumer) Get(
	ctx context.Context,
	endpoint string,
	params map[string]string,
	accessToken core.Token,
) (core.TransportResponse, error) {
	return c.do(ctx, core.TransportRequest{
		Method: http.MethodGet,
		URL:    endpoint,
		Query:  params,
	}, accessToken)
}

func (c *Consumer) Put(
	ctx context.Context,
	endpoint string,
	params map[string]string,
	headers map[string]string,
	body []byte,
	accessToken core.Token,
) (core.TransportResponse, error) {
	return c.do(ctx, core.TransportRequest{
		Method:  http.MethodPut,
		URL:     endpoint,
		Query:   params,
		Headers: headers,
		Body:    body,
	}, accessToken)
}

func (c *Consumer) do(ctx context.Context, req core.TransportRequest, accessToken core.Token) (core.TransportResponse, error) {
	if c == nil {
		return core.TransportResponse{}, core.ConfigurationError("consumer: consumer is nil", nil)
	}
	if strings.TrimSpace(accessToken.Key) == "" {
		return core.TransportResponse{}, core.AuthenticationError("consumer: access token is required", req.URL, nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req.Timeout = c.timeout

	cfg := c.config(ctx, oauth1.Endpoint{}, "")
	signingCtx := context.WithValue(ctx, oauth1.HTTPClient, c.httpClient)
	signed := cfg.Client(signingCtx, oauth1.NewToken(accessToken.Key, accessToken.Secret))
	signed.Timeout = c.httpClient.Timeout

	res, err := c.transport.WithClient(signed).Do(ctx, req)
	if err != nil {
		return core.TransportResponse{}, core.AuthenticationError(
			fmt.Sprintf("consumer: %s request failed", strings.ToLower(req.Method)),
			req.URL,
			err,
		)
	}
	return res, nil
}

var _ core.OAuthConsumer = (*Consumer)(nil)
