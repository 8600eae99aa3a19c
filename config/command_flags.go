// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

// parseCommandLineArgs defines and parses flags, returning the value of the "config" flag.
// Arguments after the flags are left in flag.Args for the subcommand.
func parseCommandLineArgs() string {
	var configFilePath string

	if f := flag.Lookup("config"); f == nil {
		flag.StringVar(&configFilePath, "config", "./config.yaml", "Path to a tscatalog configuration file in YAML format.")
	} else {
		configFilePath = f.Value.String()
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	return configFilePath
}
