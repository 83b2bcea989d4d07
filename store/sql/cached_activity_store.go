package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-socialauth/core"
)

const activityCacheKeyPrefix = "go-socialauth::activity_entry::v1"

type activityStore interface {
	core.ActivitySink
	core.ActivityReader
}

// CachedActivityStore serves entry lookups from cache. Entries are immutable
// once recorded so only Get is cached; List always reads through.
type CachedActivityStore struct {
	base  activityStore
	cache repositorycache.CacheService
}

func NewCachedActivityStore(base activityStore, cacheService repositorycache.CacheService) (*CachedActivityStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base activity store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: activity cache service is required")
	}
	return &CachedActivityStore{base: base, cache: cacheService}, nil
}

// ActivityCacheKey returns go-socialauth::activity_entry::v1::<id> with the id
// URL-path escaped.
func ActivityCacheKey(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", fmt.Errorf("sqlstore: activity id is required")
	}
	return activityCacheKeyPrefix + "::" + url.PathEscape(trimmed), nil
}

func (s *CachedActivityStore) Record(ctx context.Context, entry core.ActivityEntry) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached activity store is not configured")
	}
	if err := s.base.Record(ctx, entry); err != nil {
		return err
	}
	if strings.TrimSpace(entry.ID) == "" {
		return nil
	}
	cacheKey, err := ActivityCacheKey(entry.ID)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

func (s *CachedActivityStore) Get(ctx context.Context, id string) (core.ActivityEntry, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.ActivityEntry{}, fmt.Errorf("sqlstore: cached activity store is not configured")
	}
	cacheKey, err := ActivityCacheKey(id)
	if err != nil {
		return core.ActivityEntry{}, err
	}
	entry, err := repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (core.ActivityEntry, error) {
		return s.base.Get(ctx, strings.TrimSpace(id))
	})
	if err != nil {
		return core.ActivityEntry{}, err
	}
	entry.Metadata = copyAnyMap(entry.Metadata)
	return entry, nil
}

func (s *CachedActivityStore) List(ctx context.Context, filter core.ActivityFilter) (core.ActivityPage, error) {
	if s == nil || s.base == nil {
		return core.ActivityPage{}, fmt.Errorf("sqlstore: cached activity store is not configured")
	}
	return s.base.List(ctx, filter)
}
