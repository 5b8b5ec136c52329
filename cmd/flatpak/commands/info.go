// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:         "info",
		Summary:      "Show info for installed app or runtime",
		Usage:        "flatpak info [OPTION…] NAME",
		Placement:    cli.StandardTargets,
		OptionalRepo: true,
		Run: func(ctx context.Context, inv *cli.Invocation) error {
			if len(inv.Args) != 1 {
				return inv.Usagef("NAME must be specified")
			}
			name := inv.Args[0]

			for _, installation := range inv.Installations {
				deploys, err := installation.Deploys()
				if err != nil {
					return err
				}
				for _, deploy := range deploys {
					if deploy.Ref.ID != name && deploy.Ref.String() != name {
						continue
					}
					fmt.Fprintf(inv.Stdout, "Ref: %s\n", deploy.Ref)
					fmt.Fprintf(inv.Stdout, "ID: %s\n", deploy.Ref.ID)
					fmt.Fprintf(inv.Stdout, "Arch: %s\n", deploy.Ref.Arch)
					fmt.Fprintf(inv.Stdout, "Branch: %s\n", deploy.Ref.Branch)
					fmt.Fprintf(inv.Stdout, "Origin: %s\n", deploy.Origin)
					fmt.Fprintf(inv.Stdout, "Commit: %s\n", deploy.Commit)
					fmt.Fprintf(inv.Stdout, "Installation: %s\n", installation.LogID())
					fmt.Fprintf(inv.Stdout, "Date: %s\n", deploy.Deployed.Local().Format("2006-01-02 15:04:05"))
					return nil
				}
			}
			return fmt.Errorf("%s is not installed", name)
		},
		Complete: func(comp *cli.Completion) error {
			completeInstalledRefs(comp)
			comp.CompleteOptions(cli.TargetFlags())
			comp.CompleteOptions(cli.GlobalFlags())
			return nil
		},
	}
}
