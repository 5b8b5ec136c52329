// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:        "search",
		Summary:     "Search for installed apps/runtimes",
		Description: "Search installed applications and runtimes by ID substring.",
		Usage:       "flatpak search TEXT",
		Placement:   cli.NoTargets,
		Run: func(ctx context.Context, inv *cli.Invocation) error {
			if len(inv.Args) != 1 {
				return inv.Usagef("TEXT must be specified")
			}
			needle := strings.ToLower(inv.Args[0])

			system, err := inv.Locator.SystemList()
			if err != nil {
				return err
			}
			installations := append(system, inv.Locator.User())

			tw := tabwriter.NewWriter(inv.Stdout, 2, 0, 3, ' ', 0)
			found := 0
			for _, installation := range installations {
				deploys, err := installation.Deploys()
				if err != nil {
					return err
				}
				for _, deploy := range deploys {
					if !strings.Contains(strings.ToLower(deploy.Ref.ID), needle) {
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n",
						deploy.Ref.ID, deploy.Ref.Branch, installation.LogID())
					found++
				}
			}
			if found == 0 {
				fmt.Fprintf(inv.Stdout, "No matches found\n")
				return &cli.ExitError{Code: 1}
			}
			return tw.Flush()
		},
	}
}
