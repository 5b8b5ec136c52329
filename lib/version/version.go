// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the version of the flatpak tool. The number
// is a build-time constant; release automation rewrites it when
// tagging.
package version

// Number is the bare version number, without the program name.
const Number = "1.1.0"

// Full returns the program name and version as printed by --version
// and recorded in operation log entries.
func Full() string {
	return "flatpak " + Number
}
