// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"sort"

	"codeberg.org/pixivfe/tscatalog/catalog"
)

// mergeStats counts what happened to each message during a merge.
type mergeStats struct {
	Kept     int
	New      int
	Vanished int
	Skipped  int
}

var errAllVanished = errors.New("every existing message would be marked vanished")

// check rejects a merge that kept nothing from a non-empty previous catalog.
func (s mergeStats) check(force bool) error {
	if force || s.Kept > 0 || s.Vanished == 0 {
		return nil
	}

	return fmt.Errorf("%w (%d messages); pass -force to write anyway", errAllVanished, s.Vanished)
}

// buildCatalog assembles a catalog from extracted references, keeping the
// translations of previous, which may be nil.
//
// Messages found in the sources keep their previous translation and state.
// A message that was vanished or obsolete and is used again becomes unfinished.
// New messages are unfinished with an empty translation. Messages of previous
// that are no longer used are kept as vanished, or obsolete if they already were.
// References without a context cannot be written to a TS file and are skipped.
func buildCatalog(refs map[key][]ref, previous *catalog.Catalog, language, domain string) (*catalog.Catalog, mergeStats) {
	var stats mergeStats

	old := previousMessages(previous)

	if language == "" && previous != nil {
		language = previous.Locale()
	}

	b := catalog.NewBuilder(language, catalog.WithDomain(domain))
	if previous != nil {
		b.SetVersion(previous.Version())
		b.SetSourceLocale(previous.SourceLocale())
	}

	byContext := make(map[string][]key)

	for k := range refs {
		if k.ctx == "" {
			stats.Skipped++

			continue
		}

		byContext[k.ctx] = append(byContext[k.ctx], k)
	}

	// Contexts of the previous catalog keep their order; new ones follow by name.
	var contexts []string

	seen := make(map[string]bool)

	if previous != nil {
		for _, c := range previous.Contexts() {
			contexts = append(contexts, c.Name)
			seen[c.Name] = true
		}
	}

	var added []string

	for name := range byContext {
		if !seen[name] {
			added = append(added, name)
		}
	}

	sort.Strings(added)
	contexts = append(contexts, added...)

	for _, name := range contexts {
		keys := byContext[name]
		for _, k := range keys {
			sortRefs(refs[k])
		}

		// Messages are ordered by their first use.
		sort.Slice(keys, func(i, j int) bool {
			ri, rj := refs[keys[i]][0], refs[keys[j]][0]
			if ri.file != rj.file {
				return ri.file < rj.file
			}

			if ri.line != rj.line {
				return ri.line < rj.line
			}

			return keys[i].source < keys[j].source
		})

		_ = b.AddContext(name)

		used := make(map[string]bool, len(keys))

		for _, k := range keys {
			used[k.source] = true

			m := catalog.Message{
				Source:    k.source,
				Type:      catalog.Unfinished,
				Locations: toLocations(refs[k]),
			}

			if prev, ok := old[k]; ok {
				m.Translation = prev.Translation
				m.Comment = prev.Comment
				m.Forms = prev.Forms

				if prev.Type == catalog.Finished || prev.Type == catalog.Unfinished {
					m.Type = prev.Type
				}

				stats.Kept++
			} else {
				stats.New++
			}

			_ = b.Add(name, m)
		}

		if previous == nil {
			continue
		}

		for _, prev := range previousContext(previous, name) {
			if used[prev.Source] {
				continue
			}

			// Only the first occurrence of a duplicated source is carried over.
			used[prev.Source] = true

			m := old[key{ctx: name, source: prev.Source}]
			if m.Type != catalog.Obsolete {
				m.Type = catalog.Vanished
			}

			stats.Vanished++

			_ = b.Add(name, m)
		}
	}

	return b.Build(), stats
}

// previousMessages indexes the messages of c by key. For duplicated keys the
// last message with a non-empty translation wins.
func previousMessages(c *catalog.Catalog) map[key]catalog.Message {
	out := make(map[key]catalog.Message)
	if c == nil {
		return out
	}

	for _, ctx := range c.Contexts() {
		for _, m := range ctx.Messages {
			k := key{ctx: ctx.Name, source: m.Source}
			if prev, ok := out[k]; ok && m.Translation == "" && prev.Translation != "" {
				continue
			}

			out[k] = m
		}
	}

	return out
}

func previousContext(c *catalog.Catalog, name string) []catalog.Message {
	for _, ctx := range c.Contexts() {
		if ctx.Name == name {
			return ctx.Messages
		}
	}

	return nil
}

func sortRefs(rs []ref) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].file != rs[j].file {
			return rs[i].file < rs[j].file
		}

		return rs[i].line < rs[j].line
	})
}

// toLocations converts sorted refs, dropping adjacent duplicates.
func toLocations(rs []ref) []catalog.Location {
	out := make([]catalog.Location, 0, len(rs))

	for _, r := range rs {
		l := catalog.Location{Filename: r.file, Line: r.line}
		if len(out) > 0 && out[len(out)-1] == l {
			continue
		}

		out = append(out, l)
	}

	return out
}
