package socialauth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	gocmd "github.com/goliatone/go-command"
	socialcommand "github.com/goliatone/go-socialauth/command"
	"github.com/goliatone/go-socialauth/core"
	"github.com/goliatone/go-socialauth/providers/devkit"
	"github.com/goliatone/go-socialauth/providers/myspace"
	socialquery "github.com/goliatone/go-socialauth/query"
)

type stubFacadeActivityReader struct {
	lastFilter core.ActivityFilter
}

func (s *stubFacadeActivityReader) Get(_ context.Context, id string) (core.ActivityEntry, error) {
	return core.ActivityEntry{ID: id, Action: core.ActionLogout}, nil
}

func (s *stubFacadeActivityReader) List(_ context.Context, filter core.ActivityFilter) (core.ActivityPage, error) {
	s.lastFilter = filter
	return core.ActivityPage{Total: 3}, nil
}

func newFacadeProvider(t *testing.T, fake *devkit.FakeConsumer) *myspace.Provider {
	t.Helper()
	provider, err := NewProvider(ProviderConfig{ConsumerKey: "key", ConsumerSecret: "secret"}, WithConsumer(fake))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return provider
}

func TestNewFacade_WiresCommandsAndQueries(t *testing.T) {
	facade, err := NewFacade(newFacadeProvider(t, devkit.NewFakeConsumer()), WithActivityReader(&stubFacadeActivityReader{}))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	commands := facade.Commands()
	if commands.BeginLogin == nil || commands.CompleteCallback == nil || commands.UpdateStatus == nil || commands.Logout == nil {
		t.Fatalf("expected command handlers to be wired")
	}
	queries := facade.Queries()
	if queries.ContactList == nil || queries.Profile == nil || queries.ListActivity == nil || queries.GetActivity == nil {
		t.Fatalf("expected query handlers to be wired")
	}
	if facade.Service() == nil {
		t.Fatalf("expected service to be exposed")
	}
}

func TestNewFacade_RequiresService(t *testing.T) {
	if _, err := NewFacade(nil); err == nil {
		t.Fatalf("expected error for nil service")
	}
}

func TestFacade_HandshakeThroughCommandsAndQueries(t *testing.T) {
	fake := devkit.NewFakeConsumer().
		JSON(myspace.ProfileURL, http.StatusOK, devkit.ProfileFixture).
		JSON(myspace.ContactsURL, http.StatusOK, devkit.ContactsFixture).
		JSON(myspace.StatusURL, http.StatusOK, `{}`)
	provider := newFacadeProvider(t, fake)
	reader := &stubFacadeActivityReader{}
	facade, err := NewFacade(provider, WithActivityReader(reader))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	ctx := context.Background()
	session := provider.NewSession("sess-1")

	redirect := gocmd.NewResult[core.LoginRedirect]()
	if err := facade.Commands().BeginLogin.Execute(gocmd.ContextWithResult(ctx, redirect), socialcommand.BeginLoginMessage{
		Session:  session,
		ReturnTo: "http://app.test/callback",
	}); err != nil {
		t.Fatalf("begin login: %v", err)
	}
	issued, ok := redirect.Load()
	if !ok || issued.URL == "" {
		t.Fatalf("expected login redirect result, got %#v", issued)
	}

	completion := gocmd.NewResult[core.CallbackCompletion]()
	if err := facade.Commands().CompleteCallback.Execute(gocmd.ContextWithResult(ctx, completion), socialcommand.CompleteCallbackMessage{
		Session: issued.Session,
		Params:  map[string]string{core.OAuthVerifierParam: "v-1"},
	}); err != nil {
		t.Fatalf("complete callback: %v", err)
	}
	completed, ok := completion.Load()
	if !ok || !completed.Session.Verified() {
		t.Fatalf("expected verified session, got %#v", completed)
	}

	contacts, err := facade.Queries().ContactList.Query(ctx, socialquery.ContactListMessage{Session: completed.Session})
	if err != nil || len(contacts) != 2 {
		t.Fatalf("expected two contacts, got %#v (%v)", contacts, err)
	}
	if err := facade.Commands().UpdateStatus.Execute(ctx, socialcommand.UpdateStatusMessage{
		Session: completed.Session,
		Status:  "hello",
	}); err != nil {
		t.Fatalf("update status: %v", err)
	}

	loggedOut := gocmd.NewResult[core.Session]()
	if err := facade.Commands().Logout.Execute(gocmd.ContextWithResult(ctx, loggedOut), socialcommand.LogoutMessage{
		Session: completed.Session,
	}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	after, _ := loggedOut.Load()
	_, err = facade.Queries().ContactList.Query(ctx, socialquery.ContactListMessage{Session: after})
	if !errors.Is(err, core.ErrState) {
		t.Fatalf("expected state error after logout, got %v", err)
	}

	page, err := facade.Queries().ListActivity.Query(ctx, socialquery.ListActivityMessage{
		Filter: core.ActivityFilter{SessionID: "sess-1"},
	})
	if err != nil || page.Total != 3 || reader.lastFilter.SessionID != "sess-1" {
		t.Fatalf("unexpected activity page %#v (%v)", page, err)
	}
}

func TestFacade_ActivityQueriesWithoutReaderFail(t *testing.T) {
	facade, err := NewFacade(newFacadeProvider(t, devkit.NewFakeConsumer()))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	if _, err := facade.Queries().ListActivity.Query(context.Background(), socialquery.ListActivityMessage{}); err == nil {
		t.Fatalf("expected dependency error without activity reader")
	}
}
