package core

import "testing"

func TestRedactSensitiveMap_MasksOAuthMaterial(t *testing.T) {
	redacted := RedactSensitiveMap(map[string]any{
		"session_id":         "sess-1",
		"oauth_token":        "rt",
		"oauth_token_secret": "rs",
		"oauth_verifier":     "v",
		"endpoint":           "http://api.myspace.com/access_token",
		"headers":            map[string]string{"Authorization": "OAuth oauth_signature=x", "Accept": "application/json"},
		"calls":              []any{map[string]any{"access_token": "at"}},
	})

	if redacted["session_id"] != "sess-1" || redacted["endpoint"] == RedactedValue {
		t.Fatalf("expected identifiers to remain visible, got %#v", redacted)
	}
	for _, key := range []string{"oauth_token", "oauth_token_secret", "oauth_verifier"} {
		if redacted[key] != RedactedValue {
			t.Fatalf("expected %s to be redacted, got %#v", key, redacted[key])
		}
	}
	headers, ok := redacted["headers"].(map[string]any)
	if !ok || headers["Authorization"] != RedactedValue || headers["Accept"] != "application/json" {
		t.Fatalf("expected nested header redaction, got %#v", redacted["headers"])
	}
	calls, ok := redacted["calls"].([]any)
	if !ok || calls[0].(map[string]any)["access_token"] != RedactedValue {
		t.Fatalf("expected slice redaction, got %#v", redacted["calls"])
	}
}

func TestRedactSensitiveMap_EmptyInput(t *testing.T) {
	if out := RedactSensitiveMap(nil); out == nil || len(out) != 0 {
		t.Fatalf("expected empty map, got %#v", out)
	}
}
