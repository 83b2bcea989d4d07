package query

import (
	"strings"

	"github.com/goliatone/go-socialauth/core"
)

const (
	TypeContactList  = "socialauth.query.contacts.list"
	TypeProfile      = "socialauth.query.profile.get"
	TypeActivityList = "socialauth.query.activity.list"
	TypeActivityGet  = "socialauth.query.activity.get"

	maxPerPage = 200
)

type ContactListMessage struct {
	Session core.Session
}

func (ContactListMessage) Type() string { return TypeContactList }

func (m ContactListMessage) Validate() error {
	if strings.TrimSpace(m.Session.ID) == "" {
		return queryValidationError("session.id", "session id is required")
	}
	return nil
}

type ProfileMessage struct {
	Session core.Session
}

func (ProfileMessage) Type() string { return TypeProfile }

func (m ProfileMessage) Validate() error {
	if strings.TrimSpace(m.Session.ID) == "" {
		return queryValidationError("session.id", "session id is required")
	}
	return nil
}

type ListActivityMessage struct {
	Filter core.ActivityFilter
}

func (ListActivityMessage) Type() string { return TypeActivityList }

func (m ListActivityMessage) Validate() error {
	if m.Filter.Page < 0 {
		return queryValidationError("page", "page must be >= 0")
	}
	if m.Filter.PerPage < 0 || m.Filter.PerPage > maxPerPage {
		return queryValidationError("per_page", "per_page must be between 0 and 200")
	}
	if m.Filter.From != nil && m.Filter.To != nil && m.Filter.To.Before(*m.Filter.From) {
		return queryValidationError("to", "to must not be before from")
	}
	return nil
}

type GetActivityMessage struct {
	ID string
}

func (GetActivityMessage) Type() string { return TypeActivityGet }

func (m GetActivityMessage) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return queryValidationError("id", "activity id is required")
	}
	return nil
}
