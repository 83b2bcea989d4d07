package query

import (
	"context"
	"strings"

	"github.com/goliatone/go-socialauth/core"
)

type SessionReader interface {
	ContactList(ctx context.Context, session core.Session) ([]core.Contact, error)
	Profile(ctx context.Context, session core.Session) (core.Profile, error)
}

type ContactListQuery struct {
	reader SessionReader
}

func NewContactListQuery(reader SessionReader) *ContactListQuery {
	return &ContactListQuery{reader: reader}
}

func (q *ContactListQuery) Query(ctx context.Context, msg ContactListMessage) ([]core.Contact, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: session reader is required")
	}
	return q.reader.ContactList(ctx, msg.Session)
}

type ProfileQuery struct {
	reader SessionReader
}

func NewProfileQuery(reader SessionReader) *ProfileQuery {
	return &ProfileQuery{reader: reader}
}

func (q *ProfileQuery) Query(ctx context.Context, msg ProfileMessage) (core.Profile, error) {
	if q == nil || q.reader == nil {
		return core.Profile{}, queryDependencyError("query: session reader is required")
	}
	return q.reader.Profile(ctx, msg.Session)
}

type ListActivityQuery struct {
	reader core.ActivityReader
}

func NewListActivityQuery(reader core.ActivityReader) *ListActivityQuery {
	return &ListActivityQuery{reader: reader}
}

func (q *ListActivityQuery) Query(ctx context.Context, msg ListActivityMessage) (core.ActivityPage, error) {
	if q == nil || q.reader == nil {
		return core.ActivityPage{}, queryDependencyError("query: activity reader is required")
	}
	filter := msg.Filter
	filter.ProviderID = strings.TrimSpace(strings.ToLower(filter.ProviderID))
	filter.Action = strings.TrimSpace(strings.ToLower(filter.Action))
	return q.reader.List(ctx, filter)
}

type GetActivityQuery struct {
	reader core.ActivityReader
}

func NewGetActivityQuery(reader core.ActivityReader) *GetActivityQuery {
	return &GetActivityQuery{reader: reader}
}

func (q *GetActivityQuery) Query(ctx context.Context, msg GetActivityMessage) (core.ActivityEntry, error) {
	if q == nil || q.reader == nil {
		return core.ActivityEntry{}, queryDependencyError("query: activity reader is required")
	}
	return q.reader.Get(ctx, strings.TrimSpace(msg.ID))
}
