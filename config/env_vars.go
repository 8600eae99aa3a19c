// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const dotEnvName = ".env"

var (
	errExpectedPointerToStruct = errors.New("expected a pointer to a struct")
	errUnsupportedFieldType    = errors.New("unsupported field type")
	errInvalidDotEnvLine       = errors.New("invalid line in .env file")
)

var durationType = reflect.TypeFor[time.Duration]()

// envTag is a parsed `env:"NAME[,overwrite]"` struct tag.
//
// Without overwrite, a variable only fills a field that is still zero,
// so values from the YAML file win over the environment.
type envTag struct {
	name      string
	overwrite bool
}

func parseEnvTag(raw string) envTag {
	name, opts, _ := strings.Cut(raw, ",")

	return envTag{
		name:      name,
		overwrite: slices.Contains(strings.Split(opts, ","), "overwrite"),
	}
}

// readEnv fills the tagged fields of the struct pointed to by target from
// the environment. Untagged struct fields are descended into.
func readEnv(target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", errExpectedPointerToStruct, target)
	}

	return readEnvStruct(ptr.Elem())
}

func readEnvStruct(v reflect.Value) error {
	for i := range v.NumField() {
		field, sf := v.Field(i), v.Type().Field(i)
		if !field.CanSet() {
			continue
		}

		raw, tagged := sf.Tag.Lookup("env")
		if !tagged {
			if field.Kind() == reflect.Struct {
				if err := readEnvStruct(field); err != nil {
					return err
				}
			}

			continue
		}

		tag := parseEnvTag(raw)

		value, set := os.LookupEnv(tag.name)
		if !set || (!tag.overwrite && !field.IsZero()) {
			continue
		}

		if err := decodeEnvValue(field, value); err != nil {
			return fmt.Errorf("%s from env var %s (%q): %w", sf.Name, tag.name, value, err)
		}
	}

	return nil
}

// decodeEnvValue parses value into field according to the field's type.
// Slices are comma-separated lists of strings; empty items are dropped.
func decodeEnvValue(field reflect.Value, value string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}

		field.SetInt(int64(d))

	case field.Kind() == reflect.String:
		field.SetString(value)

	case field.CanInt():
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}

		field.SetInt(n)

	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}

		field.SetBool(b)

	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		var items []string

		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}

		field.Set(reflect.ValueOf(items))

	default:
		return fmt.Errorf("%w: %s", errUnsupportedFieldType, field.Type())
	}

	return nil
}

// useDotEnv exports the variables of a .env file found in the working
// directory or, failing that, next to the binary. Variables already set in
// the environment are left alone. A missing file is not an error.
func useDotEnv() error {
	for _, dir := range dotEnvDirs() {
		path := filepath.Join(dir, dotEnvName)

		// #nosec G304 - path is built from the working or binary directory
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Could not read .env file")

			return nil
		}

		vars, err := parseDotEnv(f)
		_ = f.Close()

		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		for key, value := range vars {
			if os.Getenv(key) != "" {
				continue
			}

			if err := os.Setenv(key, value); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Could not set environment variable")
			}
		}

		log.Info().Str("path", path).Int("vars", len(vars)).Msg("Loaded configuration from .env file")

		return nil
	}

	log.Debug().Msg("No .env file found, skipping")

	return nil
}

func dotEnvDirs() []string {
	var dirs []string

	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	} else {
		log.Warn().Err(err).Msg("Could not get current working directory")
	}

	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}

	return dirs
}

// parseDotEnv reads KEY=value lines. Blank lines and # comments are
// skipped, an optional "export " prefix is dropped, and one pair of
// matching quotes around the value is removed.
func parseDotEnv(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	scanner := bufio.NewScanner(r)

	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")

		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w %d: %q", errInvalidDotEnvLine, lineNumber, line)
		}

		vars[key] = unquote(strings.TrimSpace(value))
	}

	return vars, scanner.Err()
}

func unquote(value string) string {
	if len(value) >= 2 && value[0] == value[len(value)-1] && (value[0] == '"' || value[0] == '\'') {
		return value[1 : len(value)-1]
	}

	return value
}
