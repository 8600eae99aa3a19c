// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/tscatalog/catalog"
)

const previousTS = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="zh_CN" sourcelanguage="en">
<context>
    <name>HomeInterface</name>
    <message>
        <source>Gallery</source>
        <translation>画廊</translation>
    </message>
    <message>
        <source>Removed</source>
        <translation>已删除</translation>
    </message>
    <message>
        <source>Back again</source>
        <translation type="vanished">又回来了</translation>
    </message>
    <message>
        <source>Long gone</source>
        <translation type="obsolete">早就没了</translation>
    </message>
</context>
</TS>
`

func TestBuildCatalog_Fresh(t *testing.T) {
	t.Parallel()

	refs := map[key][]ref{
		{ctx: "HomeInterface", source: "Gallery"}: {{file: "home.go", line: 20}, {file: "home.go", line: 10}, {file: "home.go", line: 10}},
		{ctx: "HomeInterface", source: "About"}:   {{file: "home.go", line: 15}},
		{ctx: "AboutInterface", source: "Close"}:  {{file: "about.go", line: 3}},
		{ctx: "", source: "No context"}:           {{file: "misc.go", line: 1}},
	}

	c, stats := buildCatalog(refs, nil, "zh_CN", "gallery")

	assert.Equal(t, mergeStats{New: 3, Skipped: 1}, stats)
	assert.Equal(t, "zh_CN", c.Locale())
	assert.Equal(t, "gallery", c.Domain())

	ctxs := c.Contexts()
	require.Len(t, ctxs, 2)
	assert.Equal(t, "AboutInterface", ctxs[0].Name)
	assert.Equal(t, "HomeInterface", ctxs[1].Name)

	home := ctxs[1].Messages
	require.Len(t, home, 2)
	assert.Equal(t, "Gallery", home[0].Source)
	assert.Equal(t, catalog.Unfinished, home[0].Type)
	assert.Equal(t, []catalog.Location{{Filename: "home.go", Line: 10}, {Filename: "home.go", Line: 20}}, home[0].Locations)
	assert.Equal(t, "About", home[1].Source)

	// Nothing is translated yet, so lookups fall back to the source.
	assert.Equal(t, "Gallery", c.Resolve("HomeInterface", "Gallery"))
}

func TestBuildCatalog_Merge(t *testing.T) {
	t.Parallel()

	previous, err := catalog.Parse(strings.NewReader(previousTS))
	require.NoError(t, err)

	refs := map[key][]ref{
		{ctx: "HomeInterface", source: "Gallery"}:    {{file: "home.go", line: 1}},
		{ctx: "HomeInterface", source: "Back again"}: {{file: "home.go", line: 2}},
		{ctx: "HomeInterface", source: "Brand new"}:  {{file: "home.go", line: 3}},
	}

	c, stats := buildCatalog(refs, previous, "", "gallery")

	assert.Equal(t, mergeStats{Kept: 2, New: 1, Vanished: 2}, stats)
	assert.Equal(t, "zh_CN", c.Locale())
	assert.Equal(t, "en", c.SourceLocale())

	ctxs := c.Contexts()
	require.Len(t, ctxs, 1)

	got := make(map[string]catalog.Message)
	for _, m := range ctxs[0].Messages {
		got[m.Source] = m
	}

	require.Len(t, got, 5)

	assert.Equal(t, catalog.Finished, got["Gallery"].Type)
	assert.Equal(t, "画廊", got["Gallery"].Translation)

	assert.Equal(t, catalog.Unfinished, got["Back again"].Type)
	assert.Equal(t, "又回来了", got["Back again"].Translation)

	assert.Equal(t, catalog.Unfinished, got["Brand new"].Type)
	assert.Empty(t, got["Brand new"].Translation)

	assert.Equal(t, catalog.Vanished, got["Removed"].Type)
	assert.Equal(t, "已删除", got["Removed"].Translation)
	assert.Equal(t, catalog.Obsolete, got["Long gone"].Type)

	assert.Equal(t, "画廊", c.Resolve("HomeInterface", "Gallery"))
	assert.Equal(t, "Removed", c.Resolve("HomeInterface", "Removed"))
}

func TestBuildCatalog_RoundTrip(t *testing.T) {
	t.Parallel()

	refs := map[key][]ref{
		{ctx: "SettingInterface", source: "Language & region"}: {{file: "setting.go", line: 7}},
	}

	c, _ := buildCatalog(refs, nil, "zh_CN", "gallery")

	var sb strings.Builder
	require.NoError(t, catalog.WriteTS(&sb, c))
	assert.Contains(t, sb.String(), "Language &amp; region")

	back, err := catalog.Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)

	ctxs := back.Contexts()
	require.Len(t, ctxs, 1)
	require.Len(t, ctxs[0].Messages, 1)
	assert.Equal(t, "Language & region", ctxs[0].Messages[0].Source)
	assert.Equal(t, []catalog.Location{{Filename: "setting.go", Line: 7}}, ctxs[0].Messages[0].Locations)
}

func TestToLocations(t *testing.T) {
	t.Parallel()

	rs := []ref{{file: "b.go", line: 2}, {file: "a.go", line: 9}, {file: "a.go", line: 9}}
	sortRefs(rs)

	assert.Equal(t, []catalog.Location{{Filename: "a.go", Line: 9}, {Filename: "b.go", Line: 2}}, toLocations(rs))
}

func TestMergeStats_Check(t *testing.T) {
	t.Parallel()

	gallery, err := catalog.ParseFS(os.DirFS("../../resources/i18n"), "gallery.zh_CN.ts")
	require.NoError(t, err)

	refs := map[key][]ref{
		{ctx: "LookupService", source: "Translation catalogs"}: {{file: "index.go", line: 20}},
	}

	_, stats := buildCatalog(refs, gallery, "", "gallery")
	assert.Zero(t, stats.Kept)
	assert.Positive(t, stats.Vanished)

	require.ErrorIs(t, stats.check(false), errAllVanished)
	require.NoError(t, stats.check(true))

	_, stats = buildCatalog(refs, nil, "zh_CN", "tscatalog")
	require.NoError(t, stats.check(false))

	assert.NoError(t, mergeStats{Kept: 1, Vanished: 40}.check(false))
}

func TestDefaultOutput(t *testing.T) {
	t.Parallel()

	domain, locale, ok := catalog.SplitName(defaultOutput)
	require.True(t, ok)
	assert.Equal(t, "tscatalog", domain)
	assert.Equal(t, "zh_CN", locale)

	shipped, err := catalog.ParseFS(os.DirFS("../../resources/i18n"), filepath.Base(defaultOutput))
	require.NoError(t, err)
	assert.Equal(t, "翻译目录", shipped.Resolve("LookupService", "Translation catalogs"))
}
