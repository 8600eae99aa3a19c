// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes example configuration files for tscatalog.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/tscatalog/audit"
	"codeberg.org/pixivfe/tscatalog/config"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	envFileHeader = `# tscatalog configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# tscatalog configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	languageYAMLComment = `  # -- "auto" follows the system locale; otherwise a locale id such as zh_CN`
)

// essentialEnv lists the variables written uncommented in the env example.
var essentialEnv = map[string]bool{
	"TSCATALOG_LANGUAGE": true,
	"TSCATALOG_HOST":     true,
	"TSCATALOG_PORT":     true,
}

func main() {
	outDir := flag.String("dir", "deploy", "directory the example files are written to")
	flag.Parse()

	audit.SetDefaultLogger()

	if err := os.MkdirAll(*outDir, dirPerm); err != nil {
		log.Fatal().Err(err).Str("dir", *outDir).Msg("Failed to create output directory")
	}

	content, err := yamlExample()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	writeFile(filepath.Join(*outDir, ".env.example"), envExample())
	writeFile(filepath.Join(*outDir, "config.yaml.example"), content)
}

func writeFile(path, content string) {
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Successfully generated example file")
}

// envExample renders every env-tagged field with its default value, one
// section per top-level config struct.
func envExample() string {
	cfg := &config.Config{}
	cfg.SetDefaults()

	var sb strings.Builder
	sb.WriteString(envFileHeader)

	fmt.Fprintf(&sb, "## Configuration file\n# %s=./config.yaml\n\n", config.ConfigFileEnv)

	root := reflect.ValueOf(cfg).Elem()

	for i := range root.NumField() {
		section := root.Field(i)
		if section.Kind() != reflect.Struct || root.Type().Field(i).Tag.Get("yaml") == "-" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", root.Type().Field(i).Name)

		for j := range section.NumField() {
			if tag, ok := section.Type().Field(j).Tag.Lookup("env"); ok {
				name, _, _ := strings.Cut(tag, ",")
				writeEnvLine(&sb, name, section.Field(j))
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func writeEnvLine(sb *strings.Builder, name string, value reflect.Value) {
	var rendered string

	switch {
	case value.Kind() == reflect.Slice:
		items := make([]string, value.Len())
		for k := range value.Len() {
			items[k] = fmt.Sprint(value.Index(k).Interface())
		}

		rendered = strings.Join(items, ",")
	case value.Kind() == reflect.String:
		rendered = value.String()
	default:
		rendered = fmt.Sprint(value.Interface())
	}

	if essentialEnv[name] {
		fmt.Fprintf(sb, "%s=%q\n", name, rendered)

		return
	}

	fmt.Fprintf(sb, "# %s=%s\n", name, rendered)
}

// yamlExample renders the default configuration as a commented YAML template.
func yamlExample() (string, error) {
	cfg := &config.Config{}
	cfg.SetDefaults()

	var yamlContent strings.Builder

	encoderOpts := []yaml.EncodeOption{
		config.GetDurationEncoderOption(),
		yaml.Indent(2),
	}
	if err := yaml.NewEncoder(&yamlContent, encoderOpts...).Encode(cfg); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	// Process the marshaled YAML line-by-line to create a clean template.
	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys (e.g., "i18n:") are treated as section headers.
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		// Keep the language field uncommented.
		if strings.HasPrefix(trimmed, "language:") {
			sb.WriteString(languageYAMLComment + "\n")
			sb.WriteString(line + "\n")

			continue
		}

		// By default, comment out the line.
		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String(), nil
}
