// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"runtime/debug"
	"strings"
)

// BuildVersion is the latest tagged release of tscatalog.
const BuildVersion string = "v0.4.0"

const unknownBuild = "unknown"

// catalogModules are the dependencies whose versions change how catalogs
// parse or how locales match.
var catalogModules = map[string]string{
	"github.com/leonelquinteros/gotext": "gotext",
	"golang.org/x/text":                 "x/text",
	"github.com/goccy/go-yaml":          "go-yaml",
}

// buildInfo describes the running binary.
type buildInfo struct {
	ModuleVersion string
	GoVersion     string
	VcsRevision   string
	VcsTime       string
	VcsModified   bool

	// Deps maps the short names of catalogModules to their versions.
	Deps map[string]string
}

// Version is the module version the binary was built at, or BuildVersion
// for local builds.
func (b *buildInfo) Version() string {
	if b.ModuleVersion == "" || b.ModuleVersion == "(devel)" {
		return BuildVersion
	}

	return b.ModuleVersion
}

// Revision is "<commit date>-<short hash>", with "+dirty" for modified trees.
func (b *buildInfo) Revision() string {
	if b.VcsRevision == "" {
		return unknownBuild
	}

	hash := b.VcsRevision
	if len(hash) > 8 {
		hash = hash[:8]
	}

	s := hash
	if date, _, _ := strings.Cut(b.VcsTime, "T"); date != "" {
		s = date + "-" + hash
	}

	if b.VcsModified {
		s += "+dirty"
	}

	return s
}

// Dep returns the version of a catalog dependency by its short name.
func (b *buildInfo) Dep(name string) string {
	if v, ok := b.Deps[name]; ok {
		return v
	}

	return unknownBuild
}

func (b *buildInfo) load() {
	if info, ok := debug.ReadBuildInfo(); ok {
		*b = newBuildInfo(info)
	}
}

func newBuildInfo(info *debug.BuildInfo) buildInfo {
	b := buildInfo{
		ModuleVersion: info.Main.Version,
		GoVersion:     info.GoVersion,
		VcsRevision:   getBuildSetting(info.Settings, "vcs.revision"),
		VcsTime:       getBuildSetting(info.Settings, "vcs.time"),
		VcsModified:   getBuildSetting(info.Settings, "vcs.modified") == "true",
		Deps:          make(map[string]string, len(catalogModules)),
	}

	for _, dep := range info.Deps {
		name, ok := catalogModules[dep.Path]
		if !ok {
			continue
		}

		if dep.Replace != nil {
			dep = dep.Replace
		}

		b.Deps[name] = dep.Version
	}

	return b
}

func getBuildSetting(settings []debug.BuildSetting, key string) string {
	for _, kv := range settings {
		if key == kv.Key {
			return kv.Value
		}
	}

	return ""
}
