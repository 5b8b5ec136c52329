// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package sysinfo

import (
	"slices"
	"testing"
)

func TestDefaultArch_EnvOverride(t *testing.T) {
	t.Setenv("FLATPAK_ARCH", "riscv64")
	if arch := DefaultArch(); arch != "riscv64" {
		t.Errorf("DefaultArch() = %q, want %q", arch, "riscv64")
	}
}

func TestSupportedArches_PrimaryFirst(t *testing.T) {
	t.Setenv("FLATPAK_ARCH", "x86_64")
	arches := SupportedArches()
	if len(arches) == 0 || arches[0] != "x86_64" {
		t.Fatalf("SupportedArches() = %v, want x86_64 first", arches)
	}
	if !slices.Contains(arches, "i386") {
		t.Errorf("SupportedArches() = %v, want i386 compat entry", arches)
	}
}

func TestGLDrivers_EnvOverride(t *testing.T) {
	t.Setenv("FLATPAK_GL_DRIVERS", "nvidia-550-78:default")
	drivers := GLDrivers()
	want := []string{"nvidia-550-78", "default"}
	if !slices.Equal(drivers, want) {
		t.Errorf("GLDrivers() = %v, want %v", drivers, want)
	}
}

func TestGLDrivers_AlwaysEndsWithFallbacks(t *testing.T) {
	t.Setenv("FLATPAK_GL_DRIVERS", "")
	drivers := GLDrivers()
	if len(drivers) < 2 {
		t.Fatalf("GLDrivers() = %v, want at least default and host", drivers)
	}
	tail := drivers[len(drivers)-2:]
	if tail[0] != "default" || tail[1] != "host" {
		t.Errorf("GLDrivers() tail = %v, want [default host]", tail)
	}
}
