package myspace

import (
	"unicode/utf8"

	"github.com/goliatone/go-socialauth/core"
	"github.com/tidwall/gjson"
)

const responseExcerptLimit = 256

type profileField struct {
	path  string
	apply func(*core.Profile, string)
}

// profileFields maps paths under "person" onto the profile. Order matters:
// nickname comes after displayName and wins when both are present.
var profileFields = []profileField{
	{path: "displayName", apply: func(p *core.Profile, v string) { p.DisplayName = v }},
	{path: "id", apply: func(p *core.Profile, v string) { p.ValidatedID = v }},
	{path: "name.familyName", apply: func(p *core.Profile, v string) { p.LastName = v }},
	{path: "name.givenName", apply: func(p *core.Profile, v string) { p.FirstName = v }},
	{path: "location", apply: func(p *core.Profile, v string) { p.Location = v }},
	{path: "nickname", apply: func(p *core.Profile, v string) { p.DisplayName = v }},
	{path: "lang", apply: func(p *core.Profile, v string) { p.Language = v }},
	{path: "birthdate", apply: func(p *core.Profile, v string) { p.DOB = v }},
	{path: "thumbnailUrl", apply: func(p *core.Profile, v string) { p.ProfileImageURL = v }},
}

type contactField struct {
	path  string
	apply func(*core.Contact, string)
}

var contactFields = []contactField{
	{path: "displayName", apply: func(c *core.Contact, v string) { c.DisplayName = v }},
	{path: "name.familyName", apply: func(c *core.Contact, v string) { c.LastName = v }},
	{path: "name.givenName", apply: func(c *core.Contact, v string) { c.FirstName = v }},
	{path: "profileUrl", apply: func(c *core.Contact, v string) { c.ProfileURL = v }},
}

func parseProfile(body []byte, endpoint string) (core.Profile, error) {
	if !gjson.ValidBytes(body) {
		return core.Profile{}, core.ServerDataError(
			"myspace: failed to parse the user profile json",
			endpoint,
		)
	}
	person := gjson.GetBytes(body, "person")
	if !person.Exists() || !person.IsObject() {
		return core.Profile{}, core.ServerDataError(
			"myspace: failed to parse the user profile json",
			endpoint,
		)
	}
	profile := core.Profile{}
	for _, field := range profileFields {
		if value := person.Get(field.path); present(value) {
			field.apply(&profile, value.String())
		}
	}
	return profile, nil
}

func parseContacts(body []byte, endpoint string) ([]core.Contact, error) {
	if !gjson.ValidBytes(body) {
		return nil, core.ServerDataError(
			"myspace: failed to parse the user contacts json",
			endpoint,
		)
	}
	entries := gjson.GetBytes(body, "entry")
	if !entries.Exists() || !entries.IsArray() {
		return nil, core.ServerDataError(
			"myspace: failed to parse the user contacts json",
			endpoint,
		)
	}
	contacts := []core.Contact{}
	for _, entry := range entries.Array() {
		person := entry.Get("person")
		if !person.IsObject() {
			continue
		}
		contact := core.Contact{}
		for _, field := range contactFields {
			if value := person.Get(field.path); present(value) {
				field.apply(&contact, value.String())
			}
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

func present(value gjson.Result) bool {
	return value.Exists() && value.Type != gjson.Null
}

// excerpt returns at most limit bytes of body, cut back to a rune boundary.
func excerpt(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
