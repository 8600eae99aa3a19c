// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command tsextract scans the Go sources of the module for translatable
// strings and writes them to a TS catalog.
//
// It recognises i18n.TrC, i18n.NewUserError, Resolve calls on i18n values and
// i18n.Key literals whose context and source are constant strings.
// When the output file already exists, its translations are merged in. A
// merge that would mark every existing message vanished is refused unless
// -force is given, since it usually means -o names a catalog whose strings
// do not come from this module.
//
// Usage:
//
//	go run ./cmd/tsextract -o resources/i18n/tscatalog.zh_CN.ts
package main

import (
	"bytes"
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"

	"codeberg.org/pixivfe/tscatalog/audit"
	"codeberg.org/pixivfe/tscatalog/catalog"
)

const (
	filePerm = 0o644

	defaultOutput = "resources/i18n/tscatalog.zh_CN.ts"
)

func main() {
	outPath := flag.String("o", defaultOutput, "output file")
	mergePath := flag.String("merge", "", "catalog to take existing translations from (defaults to the output file)")
	language := flag.String("language", "", "locale written to the catalog (defaults to the one in the file name)")
	force := flag.Bool("force", false, "write the catalog even when no existing message is referenced any more")
	flag.Parse()

	audit.SetDefaultLogger()

	domain, locale, ok := catalog.SplitName(*outPath)
	if !ok {
		log.Fatal().Str("path", *outPath).Msg("Output file must be named <domain>.<locale>.ts")
	}

	if *language == "" {
		*language = locale
	}

	if *mergePath == "" {
		*mergePath = *outPath
	}

	previous, err := loadPrevious(*mergePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read existing catalog")
	}

	absOut, err := filepath.Abs(*outPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve output path")
	}

	// We scan all buildable packages, including templ-generated Go sources.
	// templ-generated files must exist on disk before this runs.
	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Tests: false}, "./...")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load packages")
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal().Msg("Failed to load packages due to errors")
	}

	// Locations in TS files are relative to the catalog itself.
	refs := extractRefs(pkgs, filepath.Dir(absOut), findI18nPkgPaths(pkgs))

	c, stats := buildCatalog(refs, previous, *language, domain)

	if err := stats.check(*force); err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("Refusing to write catalog")
	}

	var buf bytes.Buffer
	if err := catalog.WriteTS(&buf, c); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode catalog")
	}

	if err := os.WriteFile(*outPath, buf.Bytes(), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("Failed to write catalog")
	}

	log.Info().
		Str("path", *outPath).
		Int("kept", stats.Kept).
		Int("new", stats.New).
		Int("vanished", stats.Vanished).
		Int("skipped", stats.Skipped).
		Msg("Wrote catalog")
}

// loadPrevious parses the catalog at path. A missing file is not an error.
func loadPrevious(path string) (*catalog.Catalog, error) {
	c, err := catalog.ParseFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	return c, err
}
