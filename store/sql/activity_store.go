package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-socialauth/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	defaultActivityPerPage = 25
	maxActivityPerPage     = 200
)

type ActivityStore struct {
	db   *bun.DB
	repo repository.Repository[*activityEntryRecord]
}

func NewActivityStore(db *bun.DB) (*ActivityStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*activityEntryRecord](db, activityHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid activity repository wiring: %w", err)
		}
	}
	return &ActivityStore{db: db, repo: repo}, nil
}

func (s *ActivityStore) Record(ctx context.Context, entry core.ActivityEntry) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: activity store is not configured")
	}
	record := newActivityEntryRecord(entry)
	if record.ProviderID == "" {
		return fmt.Errorf("sqlstore: activity entry requires provider_id")
	}
	if record.Action == "" {
		return fmt.Errorf("sqlstore: activity entry requires action")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	_, err := s.repo.Create(ctx, record)
	return err
}

func (s *ActivityStore) Get(ctx context.Context, id string) (core.ActivityEntry, error) {
	if s == nil || s.repo == nil {
		return core.ActivityEntry{}, fmt.Errorf("sqlstore: activity store is not configured")
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return core.ActivityEntry{}, fmt.Errorf("sqlstore: activity id is required")
	}
	record, err := s.repo.GetByID(ctx, trimmed)
	if err != nil {
		return core.ActivityEntry{}, err
	}
	return record.toDomain(), nil
}

func (s *ActivityStore) List(ctx context.Context, filter core.ActivityFilter) (core.ActivityPage, error) {
	if s == nil || s.repo == nil {
		return core.ActivityPage{}, fmt.Errorf("sqlstore: activity store is not configured")
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = defaultActivityPerPage
	}
	if perPage > maxActivityPerPage {
		perPage = maxActivityPerPage
	}
	offset := (page - 1) * perPage

	selectors := []repository.SelectCriteria{
		repository.OrderBy("created_at DESC"),
		repository.SelectPaginate(perPage, offset),
	}
	if providerID := strings.TrimSpace(strings.ToLower(filter.ProviderID)); providerID != "" {
		selectors = append(selectors, repository.SelectBy("provider_id", "=", providerID))
	}
	if sessionID := strings.TrimSpace(filter.SessionID); sessionID != "" {
		selectors = append(selectors, repository.SelectBy("session_id", "=", sessionID))
	}
	if action := strings.TrimSpace(strings.ToLower(filter.Action)); action != "" {
		selectors = append(selectors, repository.SelectBy("action", "=", action))
	}
	if status := strings.TrimSpace(string(filter.Status)); status != "" {
		selectors = append(selectors, repository.SelectBy("status", "=", status))
	}
	if filter.From != nil {
		selectors = append(selectors, createdAtBound(">=", *filter.From))
	}
	if filter.To != nil {
		selectors = append(selectors, createdAtBound("<=", *filter.To))
	}

	records, total, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return core.ActivityPage{}, err
	}
	items := make([]core.ActivityEntry, 0, len(records))
	for _, record := range records {
		items = append(items, record.toDomain())
	}
	return core.ActivityPage{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		HasNext: offset+len(items) < total,
	}, nil
}

// createdAtBound binds the time value itself so the dialect formats it the
// same way it formatted created_at on insert.
func createdAtBound(operator string, value time.Time) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.created_at "+operator+" ?", value.UTC())
	}
}

// Prune removes entries created before cutoff and returns the deleted count.
func (s *ActivityStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: activity store is not configured")
	}
	if cutoff.IsZero() {
		return 0, nil
	}
	res, err := s.db.NewDelete().
		Model((*activityEntryRecord)(nil)).
		Where("created_at < ?", cutoff.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}
