// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the flatpak command registry: the
// builtin commands in their help sections, plus the thin builtin
// implementations themselves.
package commands

import (
	"io"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
	"github.com/matthiasclasen/flatpak/cmd/flatpak/history"
	"github.com/matthiasclasen/flatpak/lib/dir"
)

// Registry builds the full command registry. Streams may be nil, in
// which case the process streams are used.
func Registry(locator *dir.Locator, stdout, stderr io.Writer) *cli.Registry {
	return &cli.Registry{
		Prog:    "flatpak",
		Locator: locator,
		Stdout:  stdout,
		Stderr:  stderr,
		Sections: []cli.Section{
			{
				Title: "Manage installed applications and runtimes",
				Commands: []*cli.Command{
					installCommand(),
					updateCommand(),
					uninstallCommand(),
					removeCommand(),
					listCommand(),
					infoCommand(),
					history.Command(),
				},
			},
			{
				Title: "Find applications and runtimes",
				Commands: []*cli.Command{
					searchCommand(),
				},
			},
			{
				Title: "Manage remote repositories",
				Commands: []*cli.Command{
					remotesCommand(),
					remoteListCommand(),
					remoteAddCommand(),
					remoteDeleteCommand(),
				},
			},
		},
	}
}
