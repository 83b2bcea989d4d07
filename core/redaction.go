package core

import "strings"

const RedactedValue = "[REDACTED]"

var sensitiveKeyFragments = []string{
	"token",
	"secret",
	"verifier",
	"signature",
	"authorization",
	"password",
}

// RedactSensitiveMap returns a copy of metadata with OAuth material masked,
// descending into nested maps and slices.
func RedactSensitiveMap(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(metadata))
	for key, value := range metadata {
		if IsSensitiveKey(key) {
			out[key] = RedactedValue
			continue
		}
		out[key] = redactValue(value)
	}
	return out
}

func redactValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return RedactSensitiveMap(typed)
	case map[string]string:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = item
		}
		return RedactSensitiveMap(out)
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = redactValue(typed[i])
		}
		return out
	default:
		return value
	}
}

// IsSensitiveKey reports whether a metadata key names token material.
// Identifier keys such as session_id stay visible.
func IsSensitiveKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	switch key {
	case "", "provider_id", "session_id", "request_id", "validated_id", "error_code":
		return false
	}
	for _, fragment := range sensitiveKeyFragments {
		if strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}
