// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Global exposes the application configuration.
var Global Config

// ConfigFileEnv names the environment variable that points at the YAML configuration file.
const ConfigFileEnv = "TSCATALOG_CONFIGFILE"

// Config holds the application configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	I18n I18nConfig `yaml:"i18n"`

	// Server configures the HTTP lookup service started by "tscatalog serve".
	Server struct {
		Host       string `env:"TSCATALOG_HOST,overwrite" yaml:"host"`
		Port       string `env:"TSCATALOG_PORT,overwrite" yaml:"port"`
		UnixSocket string `env:"TSCATALOG_UNIXSOCKET" yaml:"unixSocket"`
		// RateLimit is the number of requests per second allowed per client address.
		// Zero disables rate limiting.
		RateLimit int `env:"TSCATALOG_RATE_LIMIT,overwrite" yaml:"rateLimit"`
		RateBurst int `env:"TSCATALOG_RATE_BURST,overwrite" yaml:"rateBurst"`
	} `yaml:"server"`

	Log struct {
		Level   string   `env:"TSCATALOG_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"TSCATALOG_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"TSCATALOG_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Development struct {
		InDevelopment bool `env:"TSCATALOG_DEV" yaml:"inDevelopment"`
		// TraceFile receives a runtime/trace of the process, including catalog load tasks.
		TraceFile string `env:"TSCATALOG_TRACE_FILE,overwrite" yaml:"traceFile"`
	} `yaml:"development"`
}

// I18nConfig selects and tunes the translation catalogs.
type I18nConfig struct {
	// Language is a locale id such as "zh_CN", or "auto" for the system locale.
	Language string `env:"TSCATALOG_LANGUAGE,overwrite" yaml:"language"`

	// Dir is the catalog directory inside the bundled resources.
	Dir string `env:"TSCATALOG_I18N_DIR,overwrite" yaml:"dir"`

	// Domains lists the install order of catalog domains, library first.
	Domains []string `env:"TSCATALOG_DOMAINS,overwrite" yaml:"domains"`

	// Strict mode for missing keys.
	//
	// When enabled, missing keys are logged (deduplicated per locale+key) and
	// visibly wrapped using markers.
	StrictMissingKeys bool `env:"TSCATALOG_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`

	// SkipUnfinished stops translations marked unfinished from resolving.
	SkipUnfinished bool `env:"TSCATALOG_SKIP_UNFINISHED" yaml:"skipUnfinished"`

	// StripLocations drops source location hints at load time.
	StripLocations bool `env:"TSCATALOG_STRIP_LOCATIONS" yaml:"stripLocations"`

	// LoadTimeout bounds the time spent loading all catalogs. Zero means no limit.
	LoadTimeout time.Duration `env:"TSCATALOG_LOAD_TIMEOUT,overwrite" yaml:"loadTimeout"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *Config) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (TSCATALOG_CONFIGFILE)
	// 3. Default path with fallback check
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv(ConfigFileEnv); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		// Then, perform a fallback check for "./config.yml".
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
