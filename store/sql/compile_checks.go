package sqlstore

import "github.com/goliatone/go-socialauth/core"

var (
	_ core.ActivitySink   = (*ActivityStore)(nil)
	_ core.ActivityReader = (*ActivityStore)(nil)
	_ core.ActivitySink   = (*CachedActivityStore)(nil)
	_ core.ActivityReader = (*CachedActivityStore)(nil)
)
