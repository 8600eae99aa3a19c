// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/klauspost/compress/zstd"
	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/tscatalog/catalog"
)

func TestWriteTS_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"gallery.zh_CN.ts", "qfluentwidgets.zh_CN.ts"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			original, err := catalog.ParseFS(os.DirFS(bundleDir), name)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, catalog.WriteTS(&buf, original))

			assert.True(t, strings.HasPrefix(buf.String(), `<?xml version="1.0" encoding="utf-8"?>`))

			reparsed, err := catalog.Parse(&buf)
			require.NoError(t, err)

			assert.Equal(t, original.Locale(), reparsed.Locale())
			assert.Equal(t, original.Version(), reparsed.Version())
			assert.Equal(t, original.Len(), reparsed.Len())
			assert.Equal(t, original.Triples(), reparsed.Triples())
			assert.Equal(t, original.Contexts()[0].Messages[0].Locations, reparsed.Contexts()[0].Messages[0].Locations)
		})
	}
}

func TestWriteTS_KeepsStates(t *testing.T) {
	t.Parallel()

	original, err := catalog.Parse(strings.NewReader(duplicatesTS))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, catalog.WriteTS(&buf, original))

	out := buf.String()
	assert.Contains(t, out, `type="obsolete"`)
	assert.Contains(t, out, `numerus="yes"`)
	assert.Contains(t, out, `<numerusform>%n 个文件</numerusform>`)

	reparsed, err := catalog.Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, original.Stats(), reparsed.Stats())
}

func TestWritePO_ResolvesThroughGettext(t *testing.T) {
	t.Parallel()

	c := loadGallery(t)

	var buf bytes.Buffer
	require.NoError(t, catalog.WritePO(&buf, c))

	assert.Contains(t, buf.String(), `msgctxt "qfw::DialogInterface"`)
	assert.Contains(t, buf.String(), "#: ../../view/basic_input_interface.cpp:98 ../../view/basic_input_interface.cpp:166")

	po := gotext.NewPo()
	po.Parse(buf.Bytes())

	for _, tr := range c.Triples() {
		assert.Equal(t, tr.Translation, po.GetC(tr.Source, tr.Context), "context %q source %q", tr.Context, tr.Source)
	}
}

func TestWritePO_Escapes(t *testing.T) {
	t.Parallel()

	b := catalog.NewBuilder("zh_CN")
	require.NoError(t, b.Add("Main", catalog.Message{
		Source:      "Say \"hi\"\tnow\u00a0and\u200bthen\\",
		Translation: "说\u00a0“你好”\n再见",
	}))

	var buf bytes.Buffer
	require.NoError(t, catalog.WritePO(&buf, b.Build()))

	out := buf.String()
	assert.Contains(t, out, "msgid \"Say \\\"hi\\\"\\tnow\u00a0and\u200bthen\\\\\"\n")
	assert.Contains(t, out, "msgstr \"说\u00a0“你好”\\n再见\"\n")
	assert.NotContains(t, out, `\u`)

	po := gotext.NewPo()
	po.Parse(buf.Bytes())
	assert.Equal(t, "说\u00a0“你好”\n再见", po.GetC("Say \"hi\"\tnow\u00a0and\u200bthen\\", "Main"))
}

func TestYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	const input = `<TS version="2.1" language="zh_CN">
<context>
    <name>qfw::ColorPickerButton</name>
    <message>
        <location filename="setting_card.cpp" line="270"/>
        <source>Choose </source>
        <translation>选择 </translation>
    </message>
    <message>
        <source>Heaven&apos;s Door</source>
        <translation>天堂之门</translation>
    </message>
    <message>
        <source>Killer Queen</source>
        <translation type="unfinished">杀手皇后</translation>
    </message>
</context>
</TS>`

	original, err := catalog.Parse(strings.NewReader(input), catalog.WithDomain("demo"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, catalog.WriteYAML(&buf, original))

	reparsed, err := catalog.ParseYAML(&buf)
	require.NoError(t, err)

	assert.Equal(t, "demo", reparsed.Domain())
	assert.Equal(t, original.Triples(), reparsed.Triples())
	assert.Equal(t, original.Stats(), reparsed.Stats())
	assert.Equal(t, original.Contexts()[0].Messages[0].Locations, reparsed.Contexts()[0].Messages[0].Locations)
}

func TestParseYAML_Malformed(t *testing.T) {
	t.Parallel()

	_, err := catalog.ParseYAML(strings.NewReader("contexts: [\n"))
	require.ErrorIs(t, err, catalog.ErrMalformed)
}

func TestParseFS_Zstd(t *testing.T) {
	t.Parallel()

	raw, err := os.ReadFile(bundleDir + "/qfluentwidgets.zh_CN.ts")
	require.NoError(t, err)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)

	compressed := enc.EncodeAll(raw, nil)
	require.NoError(t, enc.Close())

	fsys := fstest.MapFS{
		"i18n/qfluentwidgets.zh_CN.ts.zst": &fstest.MapFile{Data: compressed},
		"i18n/qfluentwidgets.zh_CN.ts":     &fstest.MapFile{Data: raw},
	}

	packed, err := catalog.ParseFS(fsys, "i18n/qfluentwidgets.zh_CN.ts.zst")
	require.NoError(t, err)

	plain, err := catalog.ParseFS(fsys, "i18n/qfluentwidgets.zh_CN.ts")
	require.NoError(t, err)

	assert.Equal(t, "qfluentwidgets", packed.Domain())
	assert.Equal(t, plain.Triples(), packed.Triples())
	assert.Equal(t, "上午", packed.Resolve("qfw::AMPMFormatter", "AM"))
}

func TestParseFS_YAML(t *testing.T) {
	t.Parallel()

	gallery := loadGallery(t)

	var buf bytes.Buffer
	require.NoError(t, catalog.WriteYAML(&buf, gallery))

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)

	compressed := enc.EncodeAll(buf.Bytes(), nil)
	require.NoError(t, enc.Close())

	fsys := fstest.MapFS{
		"i18n/gallery.zh_TW.yaml":    &fstest.MapFile{Data: buf.Bytes()},
		"i18n/gallery.zh_TW.yml.zst": &fstest.MapFile{Data: compressed},
		"i18n/broken.zh_TW.yml":      &fstest.MapFile{Data: []byte("contexts: [\n")},
	}

	for _, name := range []string{"i18n/gallery.zh_TW.yaml", "i18n/gallery.zh_TW.yml.zst"} {
		c, err := catalog.ParseFS(fsys, name)
		require.NoError(t, err, name)

		assert.Equal(t, "gallery", c.Domain())
		assert.Equal(t, gallery.Triples(), c.Triples())
		assert.Equal(t, "入门指南", c.Resolve("qfw::BannerWidget", "Getting started"))
	}

	_, err = catalog.ParseFS(fsys, "i18n/broken.zh_TW.yml")
	require.ErrorIs(t, err, catalog.ErrMalformed)

	var loadErr *catalog.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "i18n/broken.zh_TW.yml", loadErr.Path)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want catalog.Format
	}{
		{"ts", catalog.FormatTS},
		{" PO ", catalog.FormatPO},
		{"yml", catalog.FormatYAML},
		{"yaml", catalog.FormatYAML},
	}

	for _, tt := range tests {
		got, err := catalog.ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := catalog.ParseFormat("json")
	require.ErrorIs(t, err, catalog.ErrUnknownFormat)
}

func TestEncode(t *testing.T) {
	t.Parallel()

	c := loadGallery(t)

	for _, f := range []catalog.Format{catalog.FormatTS, catalog.FormatPO, catalog.FormatYAML} {
		var buf bytes.Buffer
		require.NoError(t, catalog.Encode(&buf, c, f), f)
		assert.NotEmpty(t, buf.String())
		assert.Contains(t, f.ContentType(), "charset=utf-8")
	}

	require.ErrorIs(t, catalog.Encode(io.Discard, c, "json"), catalog.ErrUnknownFormat)
}
