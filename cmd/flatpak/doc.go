// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

// Flatpak is the command-line tool for managing applications and
// runtimes across system and per-user installations. It provides
// subcommands for deployment (install, update, uninstall), inspection
// (list, info, search, history), and remote repository management
// (remotes, remote-add, remote-delete), plus a hidden completion
// entry point used by the shell integration.
package main
