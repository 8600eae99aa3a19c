// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language/display"

	"codeberg.org/pixivfe/tscatalog/catalog"
	"codeberg.org/pixivfe/tscatalog/config"
	"codeberg.org/pixivfe/tscatalog/i18n"
	"codeberg.org/pixivfe/tscatalog/server"
)

var (
	errUsage          = errors.New("usage")
	errUnknownCommand = errors.New("unknown command")
	errUnknownDomain  = errors.New("unknown domain")
	errCheckFailed    = errors.New("catalog check failed")
)

const usage = `usage: tscatalog [-config path] <command> [arguments]

commands:
  resolve [-locale id] <context> <source>
  export [-locale id] -domain d [-format ts|po|yaml] [-o file]
  locales
  stats [-locale id]
  check
  serve
  version
`

// app holds what every subcommand needs.
type app struct {
	registry *i18n.Registry
	cfg      *config.Config
	stdout   io.Writer
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		_, _ = io.WriteString(a.stdout, usage)

		return fmt.Errorf("%w: missing command", errUsage)
	}

	name, rest := args[0], args[1:]

	switch name {
	case "resolve":
		return a.resolve(rest)
	case "export":
		return a.export(rest)
	case "locales":
		return a.locales()
	case "stats":
		return a.stats(rest)
	case "check":
		return a.check()
	case "serve":
		return a.serve(ctx)
	case "version":
		return a.version()
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, name)
	}
}

// locale returns the locale named id, or the active locale when id is empty.
func (a *app) locale(id string) (*i18n.Locale, error) {
	if id == "" {
		return a.registry.Locale(), nil
	}

	return a.registry.Bundle().Load(id)
}

func (a *app) resolve(args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	localeID := fs.String("locale", "", "locale to resolve in (defaults to the configured language)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 2 {
		return fmt.Errorf("%w: resolve [-locale id] <context> <source>", errUsage)
	}

	if *localeID != "" {
		if err := a.registry.SetLocale(*localeID); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(a.stdout, a.registry.Resolve(fs.Arg(0), fs.Arg(1)))

	return err
}

func (a *app) export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	localeID := fs.String("locale", "", "locale to export (defaults to the configured language)")
	domain := fs.String("domain", "", "catalog domain to export")
	rawFormat := fs.String("format", string(catalog.FormatTS), "output format: ts, po or yaml")
	outPath := fs.String("o", "", "output file (defaults to standard output)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := catalog.ParseFormat(*rawFormat)
	if err != nil {
		return err
	}

	loc, err := a.locale(*localeID)
	if err != nil {
		return err
	}

	c, ok := loc.Catalog(*domain)
	if !ok {
		return fmt.Errorf("%w %q for %s, have %s", errUnknownDomain, *domain, loc.ID(), strings.Join(loc.Domains(), ", "))
	}

	if *outPath == "" {
		return catalog.Encode(a.stdout, c, format)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}

	if err := catalog.Encode(f, c, format); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

func (a *app) locales() error {
	b := a.registry.Bundle()
	active := a.registry.CurrentLocale()

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tENGLISH\tDOMAINS\tMESSAGES")

	for _, tag := range b.Locales() {
		loc, err := b.Load(tag.String())
		if err != nil {
			return err
		}

		mark := ""
		if loc.ID() == active {
			mark = "*"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			mark,
			loc.ID(),
			display.Self.Name(tag),
			display.English.Tags().Name(tag),
			strings.Join(loc.Domains(), ","),
			loc.Len(),
		)
	}

	return tw.Flush()
}

func (a *app) stats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	localeID := fs.String("locale", "", "only this locale (defaults to all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var locs []*i18n.Locale

	if *localeID != "" {
		loc, err := a.registry.Bundle().Load(*localeID)
		if err != nil {
			return err
		}

		locs = append(locs, loc)
	} else {
		for _, tag := range a.registry.Bundle().Locales() {
			loc, err := a.registry.Bundle().Load(tag.String())
			if err != nil {
				return err
			}

			locs = append(locs, loc)
		}
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "LOCALE\tDOMAIN\tCONTEXTS\tMESSAGES\tFINISHED\tUNFINISHED\tOBSOLETE\tRESOLVABLE\t")

	for _, loc := range locs {
		for _, domain := range loc.Domains() {
			c, ok := loc.Catalog(domain)
			if !ok {
				continue
			}

			s := c.Stats()
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
				loc.ID(), domain, s.Contexts, s.Messages, s.Finished, s.Unfinished, s.Obsolete, s.Resolvable)
		}
	}

	return tw.Flush()
}

// check reports translations whose %N placeholders differ from their source.
func (a *app) check() error {
	b := a.registry.Bundle()
	problems := 0

	for _, tag := range b.Locales() {
		loc, err := b.Load(tag.String())
		if err != nil {
			return err
		}

		for _, domain := range loc.Domains() {
			c, ok := loc.Catalog(domain)
			if !ok {
				continue
			}

			for _, tr := range c.Triples() {
				want, got := i18n.Placeholders(tr.Source), i18n.Placeholders(tr.Translation)
				if slices.Equal(want, got) {
					continue
				}

				problems++

				fmt.Fprintf(a.stdout, "%s/%s: %s: %q: placeholders %v, translation has %v\n",
					loc.ID(), domain, tr.Context, tr.Source, want, got)
			}
		}
	}

	if problems > 0 {
		return fmt.Errorf("%w: %d problems", errCheckFailed, problems)
	}

	_, err := fmt.Fprintln(a.stdout, "ok")

	return err
}

// version prints the build, then the versions that decide how catalogs
// are parsed and which locales are available.
func (a *app) version() error {
	build := &a.cfg.Build

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "tscatalog\t%s (%s)\n", build.Version(), build.Revision())
	fmt.Fprintf(tw, "go\t%s\n", cmp.Or(build.GoVersion, "unknown"))
	fmt.Fprintf(tw, "ts format\t%s\n", catalog.DefaultVersion)

	for _, dep := range []string{"gotext", "x/text", "go-yaml"} {
		fmt.Fprintf(tw, "%s\t%s\n", dep, build.Dep(dep))
	}

	var ids []string
	for _, tag := range a.registry.Bundle().Locales() {
		ids = append(ids, tag.String())
	}

	fmt.Fprintf(tw, "locales\t%s\n", strings.Join(ids, ","))

	return tw.Flush()
}

func (a *app) serve(ctx context.Context) error {
	sc := a.cfg.Server

	l, err := server.Listen(ctx, sc.Host, sc.Port, sc.UnixSocket)
	if err != nil {
		return err
	}

	router := server.NewRouter(a.registry, server.Options{
		RateLimit: sc.RateLimit,
		RateBurst: sc.RateBurst,
	})

	return server.Serve(ctx, l, router)
}
