package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[BeginLoginMessage]       = (*BeginLoginCommand)(nil)
	_ gocmd.Commander[CompleteCallbackMessage] = (*CompleteCallbackCommand)(nil)
	_ gocmd.Commander[UpdateStatusMessage]     = (*UpdateStatusCommand)(nil)
	_ gocmd.Commander[LogoutMessage]           = (*LogoutCommand)(nil)
)
