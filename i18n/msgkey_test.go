// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/tscatalog/i18n"
)

func TestKeyAsComponent(t *testing.T) {
	var _ templ.Component = i18n.Key{}
}

func TestKey_Render(t *testing.T) {
	t.Parallel()

	zh, err := loadBundle(t).Load("zh_CN")
	require.NoError(t, err)

	ctx := i18n.WithLocale(context.Background(), zh)
	key := i18n.Key{Context: "qfw::EditMenu", Source: "Copy"}

	var buf bytes.Buffer
	require.NoError(t, key.Render(ctx, &buf))

	assert.Equal(t, "复制", buf.String())
	assert.Equal(t, "Copy", key.Tr(context.Background()))
	assert.Equal(t, "qfw::EditMenu"+gotext.EotSeparator+"Copy", key.String())
}

func TestTrC(t *testing.T) {
	t.Parallel()

	zh, err := loadBundle(t).Load("zh_CN")
	require.NoError(t, err)

	ctx := i18n.WithLocale(context.Background(), zh)

	assert.Same(t, zh, i18n.LocaleFrom(ctx))
	assert.Nil(t, i18n.LocaleFrom(context.Background()))

	assert.Equal(t, "硝子酱一级棒卡哇伊×3", i18n.TrC(ctx, "qfw::TabInterface", "硝子酱一级棒卡哇伊×%1", "3"))
	assert.Equal(t, "白金之星", i18n.TrC(ctx, "qfw::BasicInputInterface", "Star Platinum"))
	assert.Equal(t, "Star Platinum", i18n.TrC(context.Background(), "qfw::BasicInputInterface", "Star Platinum"))
}

func TestUserError(t *testing.T) {
	t.Parallel()

	zh, err := loadBundle(t).Load("zh_CN")
	require.NoError(t, err)

	ctx := i18n.WithLocale(context.Background(), zh)

	uerr := i18n.NewUserError(ctx, "qfw::BasicInputInterface", "Star Platinum")

	var target *i18n.UserError
	require.ErrorAs(t, error(uerr), &target)
	assert.Equal(t, "白金之星", target.Error())
	assert.Equal(t, i18n.Key{Context: "qfw::BasicInputInterface", Source: "Star Platinum"}, target.Key())
}
