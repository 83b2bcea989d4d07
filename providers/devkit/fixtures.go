package devkit

import (
	"context"
	"sync"

	"github.com/goliatone/go-socialauth/core"
)

const (
	ProfileFixture = `{
  "person": {
    "id": "myspace.com.person.42",
    "displayName": "Bob",
    "nickname": "Bobby",
    "name": {"givenName": "Robert", "familyName": "Smith"},
    "location": "Austin, TX",
    "lang": "en-US",
    "birthdate": "1980-04-01",
    "thumbnailUrl": "http://c1.ac-images.myspacecdn.com/images/42.jpg"
  }
}`

	ContactsFixture = `{
  "entry": [
    {"person": {"displayName": "Alice", "profileUrl": "http://www.myspace.com/alice"}},
    {"person": {"displayName": "Carol", "name": {"givenName": "Carol", "familyName": "Jones"}, "profileUrl": "http://www.myspace.com/carol"}},
    {"id": "no-person"}
  ]
}`
)

// ActivitySinkFixture keeps activity entries in memory.
type ActivitySinkFixture struct {
	mu      sync.Mutex
	entries []core.ActivityEntry
	Err     error
}

func NewActivitySinkFixture() *ActivitySinkFixture {
	return &ActivitySinkFixture{}
}

func (s *ActivitySinkFixture) Record(_ context.Context, entry core.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.entries = append(s.entries, entry.Normalized())
	return nil
}

func (s *ActivitySinkFixture) Entries() []core.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ActivityEntry(nil), s.entries...)
}

// Actions lists the recorded actions in order.
func (s *ActivitySinkFixture) Actions() []string {
	out := []string{}
	for _, entry := range s.Entries() {
		out = append(out, entry.Action)
	}
	return out
}

var _ core.ActivitySink = (*ActivitySinkFixture)(nil)
