// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// validation errors.
var (
	errInvalidLanguage     = errors.New("invalid I18n.Language")
	errEmptyI18nDir        = errors.New("I18n.Dir cannot be empty")
	errEmptyDomain         = errors.New("I18n.Domains cannot contain an empty name")
	errDuplicateDomain     = errors.New("I18n.Domains lists a domain twice")
	errInvalidLogLevel     = errors.New("invalid Log.Level")
	errInvalidLogFormat    = errors.New("invalid Log.Format")
	errNegativeLoadTimeout = errors.New("I18n.LoadTimeout cannot be negative")
	errInvalidPort         = errors.New("invalid Server.Port")
	errNegativeRateLimit   = errors.New("Server.RateLimit and Server.RateBurst cannot be negative")
)

// validateAndSet validates the configuration and normalises some fields.
func (cfg *Config) validateAndSet() error {
	lang := strings.TrimSpace(cfg.I18n.Language)
	switch {
	case lang == "" || strings.EqualFold(lang, "auto"):
		cfg.I18n.Language = "auto"
	default:
		// Accept both underscore and hyphen.
		if _, err := language.Parse(strings.ReplaceAll(lang, "_", "-")); err != nil {
			return fmt.Errorf("%w %q: %w", errInvalidLanguage, lang, err)
		}

		cfg.I18n.Language = lang
	}

	if cfg.I18n.Dir == "" {
		return errEmptyI18nDir
	}

	seen := make(map[string]bool, len(cfg.I18n.Domains))
	for _, d := range cfg.I18n.Domains {
		if d == "" {
			return errEmptyDomain
		}

		if seen[d] {
			return fmt.Errorf("%w: %q", errDuplicateDomain, d)
		}

		seen[d] = true
	}

	if len(cfg.I18n.Domains) == 0 {
		log.Info().
			Msg("No catalog domains configured, installing domains by name")
	}

	if cfg.I18n.LoadTimeout < 0 {
		return errNegativeLoadTimeout
	}

	if err := cfg.validateServer(); err != nil {
		return err
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
		// valid
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}

func (cfg *Config) validateServer() error {
	if cfg.Server.UnixSocket != "" {
		if cfg.Server.Host != "" || cfg.Server.Port != "" {
			log.Info().
				Str("socket", cfg.Server.UnixSocket).
				Msg("Unix socket configured, ignoring Server.Host and Server.Port")
		}
	} else {
		if cfg.Server.Host == "" {
			cfg.Server.Host = "localhost"
			log.Info().
				Str("host", cfg.Server.Host).
				Msg("Binding to default host")
		}

		port, err := strconv.Atoi(cfg.Server.Port)
		if err != nil || port < 0 || port > 65535 {
			return fmt.Errorf("%w: %q", errInvalidPort, cfg.Server.Port)
		}
	}

	if cfg.Server.RateLimit < 0 || cfg.Server.RateBurst < 0 {
		return errNegativeRateLimit
	}

	// A limiter with a zero burst rejects every request.
	if cfg.Server.RateLimit > 0 && cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = cfg.Server.RateLimit
	}

	return nil
}
