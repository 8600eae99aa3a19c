// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvExample(t *testing.T) {
	t.Parallel()

	out := envExample()

	assert.Contains(t, out, "## I18n\n")
	assert.Contains(t, out, "\nTSCATALOG_LANGUAGE=\"auto\"\n")
	assert.Contains(t, out, "# TSCATALOG_DOMAINS=qfluentwidgets,gallery,tscatalog\n")
	assert.Contains(t, out, "# TSCATALOG_LOAD_TIMEOUT=10s\n")
	assert.Contains(t, out, "# TSCATALOG_TRACE_FILE=\n")
	assert.Contains(t, out, "## Server\nTSCATALOG_HOST=\"localhost\"\nTSCATALOG_PORT=\"8282\"\n")
	assert.Contains(t, out, "# TSCATALOG_RATE_LIMIT=20\n")
	assert.NotContains(t, out, "Build")
}

func TestYAMLExample(t *testing.T) {
	t.Parallel()

	out, err := yamlExample()
	require.NoError(t, err)

	assert.Contains(t, out, "\ni18n:\n")
	assert.Contains(t, out, "  language: auto\n")

	// Only the uncommented lines remain once comments are stripped.
	var doc struct {
		I18n struct {
			Language string `yaml:"language"`
		} `yaml:"i18n"`
	}

	var kept []string

	for line := range strings.SplitSeq(out, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "#") {
			kept = append(kept, line)
		}
	}

	require.NoError(t, yaml.Unmarshal([]byte(strings.Join(kept, "\n")), &doc))
	assert.Equal(t, "auto", doc.I18n.Language)
}
