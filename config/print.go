// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func (cfg *Config) print() {
	log.Debug().
		Str("version", cfg.Build.Version()).
		Str("revision", cfg.Build.Revision()).
		Str("go", cfg.Build.GoVersion).
		Str("gotext", cfg.Build.Dep("gotext")).
		Msg("Starting tscatalog")

	// The configuration dump is only useful when debugging.
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}

	configYAML, err := yaml.MarshalWithOptions(
		cfg,
		GetDurationEncoderOption(),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Debug().
		Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}
