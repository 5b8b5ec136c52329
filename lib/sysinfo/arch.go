// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package sysinfo answers questions about the host that the CLI's
// informational flags expose: the default architecture, the list of
// architectures the host can run, and the active GL drivers.
package sysinfo

import (
	"os"
	"runtime"
	"strings"
)

// archNames maps Go architecture names to the names used in refs.
// Anything not listed passes through unchanged, so refs built on an
// unusual host are still well formed.
var archNames = map[string]string{
	"amd64": "x86_64",
	"386":   "i386",
	"arm64": "aarch64",
	"arm":   "arm",
}

// compatArches lists, per primary architecture, the additional
// architectures whose builds the host can execute. The primary
// architecture is always reported first by SupportedArches.
var compatArches = map[string][]string{
	"x86_64":  {"i386"},
	"aarch64": {"arm"},
}

// DefaultArch returns the architecture name used when a ref does not
// specify one. Overridable with FLATPAK_ARCH for cross-installs.
func DefaultArch() string {
	if arch := os.Getenv("FLATPAK_ARCH"); arch != "" {
		return arch
	}
	if name, ok := archNames[runtime.GOARCH]; ok {
		return name
	}
	return runtime.GOARCH
}

// SupportedArches returns every architecture the host can run,
// default architecture first. The result is a fresh slice the caller
// may modify.
func SupportedArches() []string {
	primary := DefaultArch()
	arches := []string{primary}
	arches = append(arches, compatArches[primary]...)
	return arches
}

// GLDrivers returns the active GL driver names, most specific first.
// FLATPAK_GL_DRIVERS overrides detection entirely (colon-separated).
// Otherwise an installed nvidia kernel module contributes a versioned
// entry, and the generic "default" and "host" drivers are always
// present last.
func GLDrivers() []string {
	if env := os.Getenv("FLATPAK_GL_DRIVERS"); env != "" {
		return strings.Split(env, ":")
	}

	var drivers []string
	if data, err := os.ReadFile("/sys/module/nvidia/version"); err == nil {
		version := strings.TrimSpace(string(data))
		if version != "" {
			drivers = append(drivers, "nvidia-"+strings.ReplaceAll(version, ".", "-"))
		}
	}
	return append(drivers, "default", "host")
}
