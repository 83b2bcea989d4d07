package sqlstore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-socialauth/core"
	sqlstore "github.com/goliatone/go-socialauth/store/sql"
)

func TestMigrationSmokeApplySQLite(t *testing.T) {
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	var tableName string
	if err := client.DB().NewRaw(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
		"socialauth_activity_entries",
	).Scan(context.Background(), &tableName); err != nil {
		t.Fatalf("query sqlite master: %v", err)
	}
	if tableName != "socialauth_activity_entries" {
		t.Fatalf("expected socialauth_activity_entries table, got %q", tableName)
	}
}

func TestActivityStore_RecordGetAndList(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.ActivityStore()
	if store == nil {
		t.Fatalf("expected activity store from factory")
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []core.ActivityEntry{
		{ProviderID: "myspace", SessionID: "sess-1", Action: core.ActionLoginRedirect, CreatedAt: base},
		{ProviderID: "myspace", SessionID: "sess-1", Action: core.ActionVerifyResponse, CreatedAt: base.Add(time.Minute)},
		{
			ProviderID: "myspace",
			SessionID:  "sess-2",
			Action:     core.ActionVerifyResponse,
			Status:     core.ActivityStatusError,
			ErrorCode:  core.ErrorUserDenied,
			Message:    "user denied permission",
			Metadata:   map[string]any{"oauth_token": "must-not-persist"},
			CreatedAt:  base.Add(2 * time.Minute),
		},
		{ProviderID: "myspace", SessionID: "sess-1", Action: core.ActionContactList, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("record %s: %v", entry.Action, err)
		}
	}

	page, err := store.List(ctx, core.ActivityFilter{SessionID: "sess-1", PerPage: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 2 || !page.HasNext {
		t.Fatalf("unexpected first page: total=%d items=%d has_next=%v", page.Total, len(page.Items), page.HasNext)
	}
	if page.Items[0].Action != core.ActionContactList {
		t.Fatalf("expected newest entry first, got %q", page.Items[0].Action)
	}

	failed, err := store.List(ctx, core.ActivityFilter{Status: core.ActivityStatusError})
	if err != nil {
		t.Fatalf("list failed entries: %v", err)
	}
	if failed.Total != 1 {
		t.Fatalf("expected one failed entry, got %d", failed.Total)
	}
	denied := failed.Items[0]
	if denied.ErrorCode != core.ErrorUserDenied || denied.SessionID != "sess-2" {
		t.Fatalf("unexpected failed entry %#v", denied)
	}
	if denied.Metadata["oauth_token"] != core.RedactedValue {
		t.Fatalf("expected token metadata to be redacted, got %#v", denied.Metadata)
	}

	fetched, err := store.Get(ctx, denied.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Action != core.ActionVerifyResponse || fetched.Status != core.ActivityStatusError {
		t.Fatalf("unexpected fetched entry %#v", fetched)
	}

	from := base.Add(90 * time.Second)
	windowed, err := store.List(ctx, core.ActivityFilter{From: &from})
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if windowed.Total != 2 {
		t.Fatalf("expected two entries after window start, got %d", windowed.Total)
	}
}

func TestActivityStore_ListTimeWindow(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	store, err := sqlstore.NewActivityStore(client.DB())
	if err != nil {
		t.Fatalf("new activity store: %v", err)
	}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := core.ActivityEntry{
			ProviderID: "myspace",
			Action:     core.ActionProfile,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	at := func(offset time.Duration) *time.Time {
		value := base.Add(offset)
		return &value
	}
	offsetZone := time.FixedZone("UTC-5", -5*60*60)
	inZone := base.Add(30 * time.Minute).In(offsetZone)

	cases := []struct {
		name   string
		filter core.ActivityFilter
		want   int
	}{
		{name: "from before all", filter: core.ActivityFilter{From: at(-time.Hour)}, want: 3},
		{name: "to after all", filter: core.ActivityFilter{To: at(10 * time.Hour)}, want: 3},
		{name: "from inclusive", filter: core.ActivityFilter{From: at(time.Hour)}, want: 2},
		{name: "to inclusive", filter: core.ActivityFilter{To: at(time.Hour)}, want: 2},
		{name: "bounded", filter: core.ActivityFilter{From: at(30 * time.Minute), To: at(90 * time.Minute)}, want: 1},
		{name: "non utc bound", filter: core.ActivityFilter{From: &inZone}, want: 2},
		{name: "empty window", filter: core.ActivityFilter{From: at(3 * time.Hour)}, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := store.List(ctx, tc.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if page.Total != tc.want || len(page.Items) != tc.want {
				t.Fatalf("expected %d entries, got total=%d items=%d", tc.want, page.Total, len(page.Items))
			}
		})
	}
}

func TestActivityStore_RecordRequiresProviderAndAction(t *testing.T) {
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	store, err := sqlstore.NewActivityStore(client.DB())
	if err != nil {
		t.Fatalf("new activity store: %v", err)
	}
	if err := store.Record(context.Background(), core.ActivityEntry{Action: core.ActionLogout}); err == nil {
		t.Fatalf("expected provider id validation error")
	}
	if err := store.Record(context.Background(), core.ActivityEntry{ProviderID: "myspace"}); err == nil {
		t.Fatalf("expected action validation error")
	}
}

func TestActivityStore_Prune(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	store, err := sqlstore.NewActivityStore(client.DB())
	if err != nil {
		t.Fatalf("new activity store: %v", err)
	}
	now := time.Now().UTC()
	for i, createdAt := range []time.Time{now.Add(-72 * time.Hour), now.Add(-48 * time.Hour), now} {
		entry := core.ActivityEntry{
			ProviderID: "myspace",
			SessionID:  fmt.Sprintf("sess-%d", i),
			Action:     core.ActionLogout,
			CreatedAt:  createdAt,
		}
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	deleted, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected two pruned entries, got %d", deleted)
	}
	page, err := store.List(ctx, core.ActivityFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected one surviving entry, got %d", page.Total)
	}
}

func TestOpenDB_RejectsUnknownDriver(t *testing.T) {
	if _, err := sqlstore.OpenDB(sqlstore.Config{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	if _, err := sqlstore.OpenDB(sqlstore.Config{Driver: "sqlite"}); err == nil {
		t.Fatalf("expected missing dsn error")
	}
	db, err := sqlstore.OpenDB(sqlstore.Config{Driver: "sqlite", DSN: "file:opendb-smoke?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() { _ = db.Close() }()
	if db.Dialect().Name().String() != "sqlite" {
		t.Fatalf("expected sqlite dialect, got %s", db.Dialect().Name())
	}
}

func newSQLiteClient(t *testing.T) (*persistence.Client, func()) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:socialauth-test-%d?mode=memory&cache=shared&_foreign_keys=on",
		time.Now().UnixNano(),
	)
	client, err := sqlstore.Open(context.Background(), sqlstore.Config{
		Driver:      "sqlite3",
		DSN:         dsn,
		PingTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("open persistence client: %v", err)
	}
	return client, func() {
		_ = client.Close()
	}
}
