package core

import (
	"strings"
	"time"
)

type ActivityStatus string

const (
	ActivityStatusOK    ActivityStatus = "ok"
	ActivityStatusError ActivityStatus = "error"
)

const (
	ActionLoginRedirect  = "login_redirect"
	ActionVerifyResponse = "verify_response"
	ActionProfile        = "profile"
	ActionContactList    = "contact_list"
	ActionUpdateStatus   = "update_status"
	ActionLogout         = "logout"
)

type ActivityEntry struct {
	ID         string
	ProviderID string
	SessionID  string
	Action     string
	Status     ActivityStatus
	ErrorCode  string
	Message    string
	Metadata   map[string]any
	CreatedAt  time.Time
}

type ActivityFilter struct {
	ProviderID string
	SessionID  string
	Action     string
	Status     ActivityStatus
	From       *time.Time
	To         *time.Time
	Page       int
	PerPage    int
}

type ActivityPage struct {
	Items   []ActivityEntry
	Page    int
	PerPage int
	Total   int
	HasNext bool
}

func (e ActivityEntry) Normalized() ActivityEntry {
	out := e
	out.ID = strings.TrimSpace(e.ID)
	out.ProviderID = strings.TrimSpace(strings.ToLower(e.ProviderID))
	out.SessionID = strings.TrimSpace(e.SessionID)
	out.Action = strings.TrimSpace(strings.ToLower(e.Action))
	out.ErrorCode = strings.TrimSpace(e.ErrorCode)
	if out.Status == "" {
		out.Status = ActivityStatusOK
	}
	out.Metadata = copyAnyMap(e.Metadata)
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	} else {
		out.CreatedAt = out.CreatedAt.UTC()
	}
	return out
}

func copyAnyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
