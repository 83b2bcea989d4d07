package devkit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-socialauth/core"
)

// ConsumerScript is the scripted result for one signed resource call.
type ConsumerScript struct {
	Response core.TransportResponse
	Err      error
}

// ConsumerCall records one invocation on FakeConsumer.
type ConsumerCall struct {
	Operation string
	URL       string
	ReturnTo  string
	Token     core.Token
	Params    map[string]string
	Headers   map[string]string
	Body      []byte
}

// FakeConsumer is a scripted core.OAuthConsumer. Token calls answer with the
// configured tokens; Get and Put consume Resources by URL in order, repeating
// the last script once a URL runs out.
type FakeConsumer struct {
	mu sync.Mutex

	RequestTokenValue core.Token
	RequestTokenErr   error
	AccessTokenValue  core.Token
	AccessTokenErr    error
	Resources         map[string][]ConsumerScript

	calls []ConsumerCall
	used  map[string]int
}

func NewFakeConsumer() *FakeConsumer {
	return &FakeConsumer{
		RequestTokenValue: core.NewToken("request-token", "request-secret"),
		AccessTokenValue:  core.NewToken("access-token", "access-secret"),
		Resources:         map[string][]ConsumerScript{},
		used:              map[string]int{},
	}
}

// Script appends responses for endpoint.
func (c *FakeConsumer) Script(endpoint string, scripts ...ConsumerScript) *FakeConsumer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Resources == nil {
		c.Resources = map[string][]ConsumerScript{}
	}
	c.Resources[endpoint] = append(c.Resources[endpoint], scripts...)
	return c
}

// JSON scripts a response with the given status and body for endpoint.
func (c *FakeConsumer) JSON(endpoint string, status int, body string) *FakeConsumer {
	return c.Script(endpoint, ConsumerScript{Response: core.TransportResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(body),
	}})
}

func (c *FakeConsumer) RequestToken(_ context.Context, requestTokenURL string, returnTo string) (core.Token, error) {
	if c == nil {
		return core.Token{}, fmt.Errorf("devkit: fake consumer is nil")
	}
	c.record(ConsumerCall{Operation: "request_token", URL: requestTokenURL, ReturnTo: returnTo})
	if c.RequestTokenErr != nil {
		return core.Token{}, c.RequestTokenErr
	}
	return c.RequestTokenValue.Clone(), nil
}

func (c *FakeConsumer) AuthorizationURL(authorizeURL string, requestToken core.Token, returnTo string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("devkit: fake consumer is nil")
	}
	c.record(ConsumerCall{Operation: "authorization_url", URL: authorizeURL, ReturnTo: returnTo, Token: requestToken})
	separator := "?"
	if strings.Contains(authorizeURL, "?") {
		separator = "&"
	}
	return authorizeURL + separator + core.OAuthTokenParam + "=" + requestToken.Key, nil
}

func (c *FakeConsumer) AccessToken(_ context.Context, accessTokenURL string, requestToken core.Token) (core.Token, error) {
	if c == nil {
		return core.Token{}, fmt.Errorf("devkit: fake consumer is nil")
	}
	c.record(ConsumerCall{Operation: "access_token", URL: accessTokenURL, Token: requestToken})
	if c.AccessTokenErr != nil {
		return core.Token{}, c.AccessTokenErr
	}
	return c.AccessTokenValue.Clone(), nil
}

func (c *FakeConsumer) Get(
	_ context.Context,
	endpoint string,
	params map[string]string,
	accessToken core.Token,
) (core.TransportResponse, error) {
	if c == nil {
		return core.TransportResponse{}, fmt.Errorf("devkit: fake consumer is nil")
	}
	c.record(ConsumerCall{Operation: "get", URL: endpoint, Token: accessToken, Params: cloneStrings(params)})
	return c.next(endpoint)
}

func (c *FakeConsumer) Put(
	_ context.Context,
	endpoint string,
	params map[string]string,
	headers map[string]string,
	body []byte,
	accessToken core.Token,
) (core.TransportResponse, error) {
	if c == nil {
		return core.TransportResponse{}, fmt.Errorf("devkit: fake consumer is nil")
	}
	c.record(ConsumerCall{
		Operation: "put",
		URL:       endpoint,
		Token:     accessToken,
		Params:    cloneStrings(params),
		Headers:   cloneStrings(headers),
		Body:      append([]byte(nil), body...),
	})
	return c.next(endpoint)
}

// Calls returns a copy of the recorded calls.
func (c *FakeConsumer) Calls() []ConsumerCall {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ConsumerCall(nil), c.calls...)
}

// CallsFor returns the recorded calls with the given operation name.
func (c *FakeConsumer) CallsFor(operation string) []ConsumerCall {
	out := []ConsumerCall{}
	for _, call := range c.Calls() {
		if call.Operation == operation {
			out = append(out, call)
		}
	}
	return out
}

func (c *FakeConsumer) record(call ConsumerCall) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *FakeConsumer) next(endpoint string) (core.TransportResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.used == nil {
		c.used = map[string]int{}
	}
	scripts := c.Resources[endpoint]
	if len(scripts) == 0 {
		return core.TransportResponse{StatusCode: 200, Headers: map[string]string{}}, nil
	}
	index := c.used[endpoint]
	if index >= len(scripts) {
		index = len(scripts) - 1
	}
	c.used[endpoint]++
	script := scripts[index]
	return cloneTransportResponse(script.Response), script.Err
}

func cloneStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cloneTransportResponse(in core.TransportResponse) core.TransportResponse {
	out := core.TransportResponse{
		StatusCode: in.StatusCode,
		Headers:    cloneStrings(in.Headers),
		Body:       append([]byte(nil), in.Body...),
		Metadata:   map[string]any{},
	}
	for key, value := range in.Metadata {
		out.Metadata[key] = value
	}
	return out
}

var _ core.OAuthConsumer = (*FakeConsumer)(nil)
