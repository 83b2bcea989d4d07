package sqlstore

import (
	"strings"
	"time"

	"github.com/goliatone/go-socialauth/core"
	"github.com/uptrace/bun"
)

const activityTable = "socialauth_activity_entries"

type activityEntryRecord struct {
	bun.BaseModel `bun:"table:socialauth_activity_entries,alias:sae"`

	ID         string         `bun:"id,pk"`
	ProviderID string         `bun:"provider_id,notnull"`
	SessionID  string         `bun:"session_id,notnull"`
	Action     string         `bun:"action,notnull"`
	Status     string         `bun:"status,notnull"`
	ErrorCode  string         `bun:"error_code,notnull"`
	Message    string         `bun:"message,notnull"`
	Metadata   map[string]any `bun:"metadata,type:jsonb,notnull"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func newActivityEntryRecord(entry core.ActivityEntry) *activityEntryRecord {
	normalized := entry.Normalized()
	return &activityEntryRecord{
		ID:         normalized.ID,
		ProviderID: normalized.ProviderID,
		SessionID:  normalized.SessionID,
		Action:     normalized.Action,
		Status:     string(normalized.Status),
		ErrorCode:  normalized.ErrorCode,
		Message:    strings.TrimSpace(normalized.Message),
		Metadata:   core.RedactSensitiveMap(normalized.Metadata),
		CreatedAt:  normalized.CreatedAt,
	}
}

func (r *activityEntryRecord) toDomain() core.ActivityEntry {
	if r == nil {
		return core.ActivityEntry{}
	}
	return core.ActivityEntry{
		ID:         r.ID,
		ProviderID: r.ProviderID,
		SessionID:  r.SessionID,
		Action:     r.Action,
		Status:     core.ActivityStatus(r.Status),
		ErrorCode:  r.ErrorCode,
		Message:    r.Message,
		Metadata:   copyAnyMap(r.Metadata),
		CreatedAt:  r.CreatedAt.UTC(),
	}
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
