package socialauth

import (
	"fmt"

	socialcommand "github.com/goliatone/go-socialauth/command"
	"github.com/goliatone/go-socialauth/core"
	socialquery "github.com/goliatone/go-socialauth/query"
)

// SessionService is the session-passing surface the facade drives.
// *myspace.Provider satisfies it.
type SessionService interface {
	socialcommand.AuthService
	socialquery.SessionReader
}

type Commands struct {
	BeginLogin       *socialcommand.BeginLoginCommand
	CompleteCallback *socialcommand.CompleteCallbackCommand
	UpdateStatus     *socialcommand.UpdateStatusCommand
	Logout           *socialcommand.LogoutCommand
}

type Queries struct {
	ContactList  *socialquery.ContactListQuery
	Profile      *socialquery.ProfileQuery
	ListActivity *socialquery.ListActivityQuery
	GetActivity  *socialquery.GetActivityQuery
}

type Facade struct {
	service  SessionService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	activityReader core.ActivityReader
}

func WithActivityReader(reader core.ActivityReader) FacadeOption {
	return func(options *facadeOptions) {
		options.activityReader = reader
	}
}

func NewFacade(service SessionService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("socialauth: session service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.activityReader
	if reader == nil {
		reader, _ = service.(core.ActivityReader)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		BeginLogin:       socialcommand.NewBeginLoginCommand(service),
		CompleteCallback: socialcommand.NewCompleteCallbackCommand(service),
		UpdateStatus:     socialcommand.NewUpdateStatusCommand(service),
		Logout:           socialcommand.NewLogoutCommand(service),
	}
	facade.queries = Queries{
		ContactList:  socialquery.NewContactListQuery(service),
		Profile:      socialquery.NewProfileQuery(service),
		ListActivity: socialquery.NewListActivityQuery(reader),
		GetActivity:  socialquery.NewGetActivityQuery(reader),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() SessionService {
	if f == nil {
		return nil
	}
	return f.service
}
