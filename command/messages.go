package command

import (
	"strings"

	"github.com/goliatone/go-socialauth/core"
)

const (
	TypeBeginLogin       = "socialauth.command.login.begin"
	TypeCompleteCallback = "socialauth.command.callback.complete"
	TypeUpdateStatus     = "socialauth.command.status.update"
	TypeLogout           = "socialauth.command.logout"
)

type BeginLoginMessage struct {
	Session  core.Session
	ReturnTo string
}

func (BeginLoginMessage) Type() string { return TypeBeginLogin }

func (m BeginLoginMessage) Validate() error {
	if strings.TrimSpace(m.Session.ID) == "" {
		return commandValidationError("session.id", "session id is required")
	}
	return nil
}

type CompleteCallbackMessage struct {
	Session core.Session
	Params  map[string]string
}

func (CompleteCallbackMessage) Type() string { return TypeCompleteCallback }

func (m CompleteCallbackMessage) Validate() error {
	if strings.TrimSpace(m.Session.ID) == "" {
		return commandValidationError("session.id", "session id is required")
	}
	return nil
}

// UpdateStatusMessage leaves blank status checks to the provider, which
// reports them as server data errors.
type UpdateStatusMessage struct {
	Session core.Session
	Status  string
}

func (UpdateStatusMessage) Type() string { return TypeUpdateStatus }

func (m UpdateStatusMessage) Validate() error {
	if strings.TrimSpace(m.Session.ID) == "" {
		return commandValidationError("session.id", "session id is required")
	}
	return nil
}

type LogoutMessage struct {
	Session core.Session
}

func (LogoutMessage) Type() string { return TypeLogout }

func (m LogoutMessage) Validate() error {
	if strings.TrimSpace(m.Session.ID) == "" {
		return commandValidationError("session.id", "session id is required")
	}
	return nil
}
