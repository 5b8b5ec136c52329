// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package dir locates and opens installations: the independent roots
// (system-wide, per-user, extra system-wide) a command operates
// against. A Locator resolves which installations exist on the host;
// an Installation hands out its repository and deploy state once the
// repository has been verified or created.
//
// Extra system installations are declared in installations.d yaml
// files under the config directory. All base paths are overridable
// through FLATPAK_SYSTEM_DIR, FLATPAK_USER_DIR, and
// FLATPAK_CONFIG_DIR, which is also how tests point the locator at
// temporary directories.
package dir
