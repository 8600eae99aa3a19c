// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
)

// TrC translates source within the named context using the locale carried by
// ctx. Args, if any, replace the %N markers of the result; see [Arg].
//
// If a translation is not found, TrC returns source unchanged, or visibly
// wrapped if strict mode is enabled for the locale's bundle.
func TrC(ctx context.Context, contextName, source string, args ...string) string {
	text := LocaleFrom(ctx).Resolve(contextName, source)
	if len(args) == 0 {
		return text
	}

	return Arg(text, args...)
}

// NewUserError creates a new UserError with a translated message.
func NewUserError(ctx context.Context, contextName, source string, args ...string) *UserError {
	return &UserError{
		key: Key{Context: contextName, Source: source},
		msg: TrC(ctx, contextName, source, args...),
	}
}

// UserError is an error type whose message is a translated string.
// It is intended for errors that can be shown directly to the end user.
type UserError struct {
	key Key
	msg string
}

// Error returns the translated error message.
func (e *UserError) Error() string {
	return e.msg
}

// Key returns the untranslated key of the message.
func (e *UserError) Key() Key {
	return e.key
}
