// Package gocommand registers the socialauth facade handlers with a
// go-command registry and the process-wide dispatcher.
package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	socialauth "github.com/goliatone/go-socialauth"
	socialcommand "github.com/goliatone/go-socialauth/command"
	"github.com/goliatone/go-socialauth/core"
	socialquery "github.com/goliatone/go-socialauth/query"
)

// ValidateMessageContract enforces Type() plus optional Validate().
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) Register(handler any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(handler)
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func Dispatch[T any](ctx context.Context, msg T) error {
	if err := ValidateMessageContract(msg); err != nil {
		return err
	}
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	if err := ValidateMessageContract(msg); err != nil {
		var zero R
		return zero, err
	}
	return commanddispatcher.Query[T, R](ctx, msg)
}

// Subscriptions tracks dispatcher subscriptions so they can be released
// together.
type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, subscription := range s {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

func subscribeCommand[T any](
	adapter *RegistryAdapter,
	subs *Subscriptions,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) error {
	if cmd == nil {
		return fmt.Errorf("gocommand: command is required")
	}
	subscription := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	*subs = append(*subs, subscription)
	return adapter.Register(cmd)
}

func subscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	subs *Subscriptions,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) error {
	if qry == nil {
		return fmt.Errorf("gocommand: query is required")
	}
	subscription := commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	*subs = append(*subs, subscription)
	return adapter.Register(qry)
}

// RegisterFacade subscribes every facade command and query. On failure the
// subscriptions made so far are released.
func RegisterFacade(adapter *RegistryAdapter, facade *socialauth.Facade, runnerOpts ...runner.Option) (Subscriptions, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if facade == nil {
		return nil, fmt.Errorf("gocommand: facade is required")
	}
	commands := facade.Commands()
	queries := facade.Queries()

	subs := Subscriptions{}
	steps := []func() error{
		func() error {
			return subscribeCommand[socialcommand.BeginLoginMessage](adapter, &subs, commands.BeginLogin, runnerOpts...)
		},
		func() error {
			return subscribeCommand[socialcommand.CompleteCallbackMessage](adapter, &subs, commands.CompleteCallback, runnerOpts...)
		},
		func() error {
			return subscribeCommand[socialcommand.UpdateStatusMessage](adapter, &subs, commands.UpdateStatus, runnerOpts...)
		},
		func() error {
			return subscribeCommand[socialcommand.LogoutMessage](adapter, &subs, commands.Logout, runnerOpts...)
		},
		func() error {
			return subscribeQuery[socialquery.ContactListMessage, []core.Contact](adapter, &subs, queries.ContactList, runnerOpts...)
		},
		func() error {
			return subscribeQuery[socialquery.ProfileMessage, core.Profile](adapter, &subs, queries.Profile, runnerOpts...)
		},
		func() error {
			return subscribeQuery[socialquery.ListActivityMessage, core.ActivityPage](adapter, &subs, queries.ListActivity, runnerOpts...)
		},
		func() error {
			return subscribeQuery[socialquery.GetActivityMessage, core.ActivityEntry](adapter, &subs, queries.GetActivity, runnerOpts...)
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			subs.Unsubscribe()
			return nil, err
		}
	}
	return subs, nil
}
