// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

var errInvalidConfigFile = errors.New("invalid configuration file")

func (cfg *Config) readYAML(configFilePath string) error {
	if configFilePath == "" {
		return nil
	}

	data, err := os.ReadFile(configFilePath) // #nosec G304 -- Only loading a config file
	if errors.Is(err, os.ErrNotExist) {
		log.Info().
			Str("path", configFilePath).
			Msg("No YAML configuration file found, skipping")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", configFilePath, err)
	}

	if err := decodeYAML(data, cfg); err != nil {
		return fmt.Errorf("%s: %w", configFilePath, err)
	}

	log.Info().
		Str("path", configFilePath).
		Str("language", cfg.I18n.Language).
		Strs("domains", cfg.I18n.Domains).
		Msg("Successfully loaded configuration")

	return nil
}

// decodeYAML decodes a configuration document into cfg. Unknown keys are
// rejected so that a misspelt catalog option does not silently fall back
// to its default. The error carries the offending source lines.
func decodeYAML(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return fmt.Errorf("%w:\n%s", errInvalidConfigFile, yaml.FormatError(err, false, true))
	}

	return nil
}
