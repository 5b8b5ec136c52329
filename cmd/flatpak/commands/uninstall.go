// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
	"github.com/matthiasclasen/flatpak/lib/oplog"
)

func uninstallCommand() *cli.Command {
	return &cli.Command{
		Name:      "uninstall",
		Summary:   "Uninstall an installed application or runtime",
		Usage:     "flatpak uninstall [OPTION…] REF…",
		Placement: cli.StandardTargets,
		Run:       runUninstall,
		Complete:  completeUninstall,
	}
}

// removeCommand is the compatibility alias for uninstall. Hidden from
// help and typo suggestions but still dispatchable.
func removeCommand() *cli.Command {
	return &cli.Command{
		Name:       "remove",
		Deprecated: true,
		Usage:      "flatpak remove [OPTION…] REF…",
		Placement:  cli.StandardTargets,
		Run:        runUninstall,
		Complete:   completeUninstall,
	}
}

func runUninstall(ctx context.Context, inv *cli.Invocation) error {
	if len(inv.Args) == 0 {
		return inv.Usagef("REF must be specified")
	}

	for _, arg := range inv.Args {
		removed := false
		for _, installation := range inv.Installations {
			deploys, err := installation.Deploys()
			if err != nil {
				return err
			}
			for _, deploy := range deploys {
				if deploy.Ref.ID != arg && deploy.Ref.String() != arg {
					continue
				}
				if err := installation.Undeploy(deploy.Ref); err != nil {
					return err
				}
				recordOperation(ctx, inv, oplog.Entry{
					Operation:    "uninstall",
					Installation: installation.LogID(),
					Ref:          deploy.Ref.String(),
					Remote:       deploy.Origin,
					Commit:       deploy.Commit,
					Result:       "0",
				})
				fmt.Fprintf(inv.Stdout, "Uninstalled %s\n", deploy.Ref)
				removed = true
			}
		}
		if !removed {
			return fmt.Errorf("%s is not installed", arg)
		}
	}
	return nil
}

func completeUninstall(comp *cli.Completion) error {
	completeInstalledRefs(comp)
	comp.CompleteOptions(cli.TargetFlags())
	comp.CompleteOptions(cli.GlobalFlags())
	return nil
}
