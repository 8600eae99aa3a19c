// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n_test

import (
	"context"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/tscatalog/catalog"
	"codeberg.org/pixivfe/tscatalog/config"
	"codeberg.org/pixivfe/tscatalog/i18n"
)

func i18nConfig(language string) config.I18nConfig {
	cfg := config.Config{}
	cfg.SetDefaults()
	cfg.I18n.Language = language

	return cfg.I18n
}

func TestSetup(t *testing.T) {
	t.Parallel()

	reg, err := i18n.Setup(context.Background(), os.DirFS(resourcesDir), i18nConfig("zh_CN"))
	require.NoError(t, err)

	assert.Equal(t, "zh_CN", reg.CurrentLocale())
	assert.Equal(t, []string{"qfluentwidgets", "gallery", "tscatalog"}, reg.Locale().Domains())
	assert.Equal(t, "选择 ", reg.Resolve("qfw::ColorPickerButton", "Choose "))
	assert.Equal(t, "入门指南", reg.Resolve("qfw::BannerWidget", "Getting started"))
}

func TestSetup_UnknownLanguage(t *testing.T) {
	t.Parallel()

	_, err := i18n.Setup(context.Background(), os.DirFS(resourcesDir), i18nConfig("fr"))
	require.ErrorIs(t, err, i18n.ErrLocaleNotFound)
}

func TestSetup_Auto(t *testing.T) {
	t.Parallel()

	reg, err := i18n.Setup(context.Background(), os.DirFS(resourcesDir), i18nConfig(i18n.AutoLanguage))
	require.NoError(t, err)

	// The result depends on the host; it is always one of the loaded locales.
	assert.Contains(t, []string{"en", "zh_CN"}, reg.CurrentLocale())
}

func TestSetup_Options(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"i18n/app.zh_CN.ts": {Data: []byte(`<TS version="2.1" language="zh_CN"><context><name>Main</name>
<message><location filename="main.go" line="3"/><source>Open</source><translation type="unfinished">打开</translation></message>
<message><source>Close</source><translation>关闭</translation></message>
</context></TS>`)},
	}

	cfg := i18nConfig("zh_CN")
	cfg.Dir = "i18n"
	cfg.Domains = []string{"app"}
	cfg.SkipUnfinished = true
	cfg.StripLocations = true
	cfg.StrictMissingKeys = true
	cfg.LoadTimeout = time.Minute

	reg, err := i18n.Setup(context.Background(), fsys, cfg)
	require.NoError(t, err)

	assert.Equal(t, "关闭", reg.Resolve("Main", "Close"))
	assert.Equal(t, "⟦Open⟧", reg.Resolve("Main", "Open"))

	c, ok := reg.Locale().Catalog("app")
	require.True(t, ok)
	assert.Empty(t, c.Contexts()[0].Messages[0].Locations)
	assert.Equal(t, catalog.Unfinished, c.Contexts()[0].Messages[0].Type)
}

func TestSetup_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := i18n.Setup(ctx, os.DirFS(resourcesDir), i18nConfig("zh_CN"))
	require.ErrorIs(t, err, context.Canceled)
}
