package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-socialauth/core"
)

func TestRESTAdapter_DoSendsMethodHeadersAndQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("expected PUT method, got %s", r.Method)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Fatalf("expected query value, got %q", got)
		}
		if got := r.URL.Query().Get("existing"); got != "1" {
			t.Fatalf("expected existing query to be preserved, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("expected content type header, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Fatalf("expected default accept header, got %q", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if string(body) != `{"status":"hi"}` {
			t.Fatalf("unexpected request body %q", string(body))
		}
		w.Header().Set("X-Server", "ok")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("done"))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.Client())
	result, err := adapter.Do(context.Background(), core.TransportRequest{
		Method:   "put",
		URL:      server.URL + "/status?existing=1",
		Query:    map[string]string{"format": "json"},
		Headers:  map[string]string{"Content-Type": "application/json"},
		Body:     []byte(`{"status":"hi"}`),
		Timeout:  5 * time.Second,
		Metadata: map[string]any{"operation": "update_status"},
	})
	if err != nil {
		t.Fatalf("perform rest request: %v", err)
	}
	if result.StatusCode != http.StatusAccepted || !result.Success() {
		t.Fatalf("expected accepted status, got %d", result.StatusCode)
	}
	if string(result.Body) != "done" {
		t.Fatalf("unexpected response body: %q", string(result.Body))
	}
	if result.Headers["X-Server"] != "ok" {
		t.Fatalf("expected response header")
	}
	if result.Metadata["operation"] != "update_status" || result.Metadata["kind"] != KindREST {
		t.Fatalf("unexpected metadata %#v", result.Metadata)
	}
}

func TestNewRESTAdapter_DefaultClientTimeout(t *testing.T) {
	adapter := NewRESTAdapter(nil)
	httpClient, ok := adapter.Client.(*http.Client)
	if !ok {
		t.Fatalf("expected default http client implementation")
	}
	if httpClient.Timeout != defaultRESTClientTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultRESTClientTimeout, httpClient.Timeout)
	}
	if adapter.MaxResponseBodyBytes != defaultRESTResponseBodyLimit {
		t.Fatalf("expected default response body limit %d, got %d", defaultRESTResponseBodyLimit, adapter.MaxResponseBodyBytes)
	}
}

type recordingDoer struct {
	calls int
	next  core.HTTPDoer
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	return d.next.Do(req)
}

func TestRESTAdapter_WithClientLeavesReceiverUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	base := NewRESTAdapter(server.Client())
	doer := &recordingDoer{next: server.Client()}
	bound := base.WithClient(doer)
	bound.DefaultHeaders["X-Bound"] = "1"

	if _, err := bound.Do(context.Background(), core.TransportRequest{URL: server.URL}); err != nil {
		t.Fatalf("bound request: %v", err)
	}
	if doer.calls != 1 {
		t.Fatalf("expected bound client to be used once, got %d", doer.calls)
	}
	if base.Client == core.HTTPDoer(doer) {
		t.Fatalf("expected base adapter client to be unchanged")
	}
	if _, ok := base.DefaultHeaders["X-Bound"]; ok {
		t.Fatalf("expected base default headers to be unchanged")
	}
}

func TestRESTAdapter_DoFailsOnResponseBodyOverLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("12345"))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.Client())
	adapter.MaxResponseBodyBytes = 1024

	_, err := adapter.Do(context.Background(), core.TransportRequest{
		URL:                  server.URL,
		MaxResponseBodyBytes: 4,
	})
	if err == nil {
		t.Fatalf("expected response body limit error")
	}
	if !strings.Contains(err.Error(), "response body exceeds limit of 4 bytes") {
		t.Fatalf("unexpected error: %v", err)
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryExternal {
		t.Fatalf("expected external category, got %q", rich.Category)
	}
	if rich.TextCode != core.ErrorAuthenticationFailed {
		t.Fatalf("expected %q text code, got %q", core.ErrorAuthenticationFailed, rich.TextCode)
	}
	if rich.Code != http.StatusBadGateway {
		t.Fatalf("expected %d code, got %d", http.StatusBadGateway, rich.Code)
	}
}

func TestRESTAdapter_NilAndMissingURLReturnRichErrors(t *testing.T) {
	var adapter *RESTAdapter
	_, err := adapter.Do(context.Background(), core.TransportRequest{URL: "http://example.test"})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.TextCode != core.ErrorInternal {
		t.Fatalf("expected internal envelope for nil adapter, got %v", err)
	}

	_, err = NewRESTAdapter(nil).Do(context.Background(), core.TransportRequest{URL: "  "})
	if !goerrors.As(err, &rich) || rich.TextCode != core.ErrorBadInput {
		t.Fatalf("expected bad input envelope for empty url, got %v", err)
	}
	if rich.Code != http.StatusBadRequest {
		t.Fatalf("expected %d code, got %d", http.StatusBadRequest, rich.Code)
	}
}

func TestRESTAdapter_NetworkFailureIsExternal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	target := server.URL
	server.Close()

	_, err := NewRESTAdapter(&http.Client{Timeout: time.Second}).Do(context.Background(), core.TransportRequest{URL: target})
	if err == nil {
		t.Fatalf("expected network error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryExternal {
		t.Fatalf("expected external envelope, got %v", err)
	}
}
