package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-socialauth/core"
)

var (
	_ gocmd.Querier[ContactListMessage, []core.Contact]     = (*ContactListQuery)(nil)
	_ gocmd.Querier[ProfileMessage, core.Profile]           = (*ProfileQuery)(nil)
	_ gocmd.Querier[ListActivityMessage, core.ActivityPage] = (*ListActivityQuery)(nil)
	_ gocmd.Querier[GetActivityMessage, core.ActivityEntry] = (*GetActivityQuery)(nil)
)
