// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
tscatalog resolves UI strings against the bundled translation catalogs.

Usage:

	tscatalog [-config path] <command> [arguments]

Commands:

	resolve [-locale id] <context> <source>   print the translation of one key
	export [-locale id] -domain d [-format ts|po|yaml] [-o file]
	locales                                   list loaded locales
	stats [-locale id]                        count messages per catalog
	check                                     verify placeholders of every translation
	serve                                     run the HTTP lookup service
	version                                   print build and catalog format versions
*/
package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/trace"
	"syscall"

	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/tscatalog/assets"
	"codeberg.org/pixivfe/tscatalog/audit"
	"codeberg.org/pixivfe/tscatalog/config"
	"codeberg.org/pixivfe/tscatalog/i18n"
)

// embeddedContent holds the bundled translation catalogs.
//
//go:embed resources/i18n
var embeddedContent embed.FS

// init assigns the embedded filesystem to the exported assets.FS variable.
//
//nolint:gochecknoinits // this is a good use of init()
func init() {
	assets.FS = embeddedContent
}

// main is the entry point of the application.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

// run loads the configuration and catalogs, then dispatches the subcommand.
// Without args, the command line left after flag parsing is used.
func run(args ...string) error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	stopTrace, err := startTrace(config.Global.Development.TraceFile)
	if err != nil {
		return err
	}
	defer stopTrace()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := i18n.Setup(ctx, assets.FS, config.Global.I18n)
	if err != nil {
		return fmt.Errorf("failed to initialize i18n engine: %w", err)
	}

	log.Debug().
		Str("locale", reg.CurrentLocale()).
		Msg("Initialized i18n engine")

	app := &app{registry: reg, cfg: &config.Global, stdout: os.Stdout}

	if len(args) == 0 {
		args = flag.Args()
	}

	return app.dispatch(ctx, args)
}

// startTrace writes a runtime/trace to path until the returned function is called.
// An empty path disables tracing.
func startTrace(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}

	if err := trace.Start(f); err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("failed to start trace: %w", err)
	}

	log.Info().Str("path", path).Msg("Writing execution trace")

	return func() {
		trace.Stop()

		if err := f.Close(); err != nil {
			log.Err(err).Str("path", path).Msg("Failed to close trace file")
		}
	}, nil
}
