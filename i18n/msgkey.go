// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"
)

// Translatable is a value that can translate itself using a context.
// Types such as [Key] implement Translatable.
type Translatable interface {
	Tr(ctx context.Context) string
}

// Key is a (context, source) lookup key.
//
// Source should be the original English UI text, not an invented key.
// Declaring keys as Key literals lets cmd/tsextract find them.
type Key struct {
	Context string
	Source  string
}

// Tr translates this key within the locale in ctx.
// It is equivalent to calling [TrC] with the same context and source.
// The ctx may be nil, in which case the source text is returned.
func (k Key) Tr(ctx context.Context) string {
	return TrC(ctx, k.Context, k.Source)
}

func (k Key) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, k.Tr(ctx))

	return err
}

// String returns the key in gettext "context<EOT>source" form.
func (k Key) String() string {
	return buildLogKey(k.Context, k.Source)
}
