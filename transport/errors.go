package transport

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-socialauth/core"
)

func transportError(
	message string,
	category goerrors.Category,
	code int,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(transportTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func transportWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	metadata map[string]any,
) error {
	if source == nil {
		return transportError(message, category, code, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(transportTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// transportTextCode maps a category onto the socialauth text codes. Network
// failures surface as authentication failures because every call the
// adapters make is part of an OAuth exchange or a signed resource request.
func transportTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return core.ErrorBadInput
	case goerrors.CategoryAuth, goerrors.CategoryExternal:
		return core.ErrorAuthenticationFailed
	default:
		return core.ErrorInternal
	}
}
