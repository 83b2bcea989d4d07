package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-socialauth/core"
)

// AuthService is the session-passing provider surface the commands drive.
type AuthService interface {
	BeginAuth(ctx context.Context, session core.Session, returnTo string) (core.Session, string, error)
	CompleteAuth(ctx context.Context, session core.Session, params map[string]string) (core.Session, core.Profile, error)
	UpdateStatus(ctx context.Context, session core.Session, message string) error
	Logout(session core.Session) core.Session
}

type BeginLoginCommand struct {
	service AuthService
}

func NewBeginLoginCommand(service AuthService) *BeginLoginCommand {
	return &BeginLoginCommand{service: service}
}

// Execute stores a core.LoginRedirect in the context result collector.
func (c *BeginLoginCommand) Execute(ctx context.Context, msg BeginLoginMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: auth service is required")
	}
	session, redirectURL, err := c.service.BeginAuth(ctx, msg.Session, msg.ReturnTo)
	if err != nil {
		return err
	}
	storeResult(ctx, core.LoginRedirect{Session: session, URL: redirectURL})
	return nil
}

type CompleteCallbackCommand struct {
	service AuthService
}

func NewCompleteCallbackCommand(service AuthService) *CompleteCallbackCommand {
	return &CompleteCallbackCommand{service: service}
}

// Execute stores a core.CallbackCompletion in the context result collector.
func (c *CompleteCallbackCommand) Execute(ctx context.Context, msg CompleteCallbackMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: auth service is required")
	}
	session, profile, err := c.service.CompleteAuth(ctx, msg.Session, msg.Params)
	if err != nil {
		return err
	}
	storeResult(ctx, core.CallbackCompletion{Session: session, Profile: profile})
	return nil
}

type UpdateStatusCommand struct {
	service AuthService
}

func NewUpdateStatusCommand(service AuthService) *UpdateStatusCommand {
	return &UpdateStatusCommand{service: service}
}

func (c *UpdateStatusCommand) Execute(ctx context.Context, msg UpdateStatusMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: auth service is required")
	}
	return c.service.UpdateStatus(ctx, msg.Session, msg.Status)
}

type LogoutCommand struct {
	service AuthService
}

func NewLogoutCommand(service AuthService) *LogoutCommand {
	return &LogoutCommand{service: service}
}

// Execute stores the logged out core.Session in the context result collector.
func (c *LogoutCommand) Execute(ctx context.Context, msg LogoutMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: auth service is required")
	}
	storeResult(ctx, c.service.Logout(msg.Session))
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
