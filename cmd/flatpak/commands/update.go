// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
	"github.com/matthiasclasen/flatpak/lib/dir"
	"github.com/matthiasclasen/flatpak/lib/oplog"
)

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:        "update",
		Summary:     "Update an installed application or runtime",
		Description: "Update installed applications or runtimes. With no REF, everything is updated.",
		Usage:       "flatpak update [OPTION…] [REF…]",
		Placement:   cli.StandardTargets,
		Run: func(ctx context.Context, inv *cli.Invocation) error {
			requested := make(map[string]bool, len(inv.Args))
			for _, arg := range inv.Args {
				requested[arg] = true
			}

			matched := make(map[string]bool, len(requested))
			updated := 0
			for _, installation := range inv.Installations {
				deploys, err := installation.Deploys()
				if err != nil {
					return err
				}
				for _, deploy := range deploys {
					if len(requested) > 0 && !requested[deploy.Ref.ID] {
						continue
					}
					if err := redeploy(ctx, inv, installation, deploy); err != nil {
						return err
					}
					matched[deploy.Ref.ID] = true
					updated++
				}
			}

			for _, arg := range inv.Args {
				if !matched[arg] {
					return fmt.Errorf("%s is not installed", arg)
				}
			}
			if updated == 0 {
				fmt.Fprintln(inv.Stdout, "Nothing to update.")
			}
			return nil
		},
		Complete: func(comp *cli.Completion) error {
			completeInstalledRefs(comp)
			comp.CompleteOptions(cli.TargetFlags())
			comp.CompleteOptions(cli.GlobalFlags())
			return nil
		},
	}
}

func redeploy(ctx context.Context, inv *cli.Invocation, installation *dir.Installation, deploy dir.Deploy) error {
	commit := newCommit()
	if err := installation.Deploy(deploy.Ref, deploy.Origin, commit); err != nil {
		return err
	}
	recordOperation(ctx, inv, oplog.Entry{
		Operation:    "update",
		Installation: installation.LogID(),
		Ref:          deploy.Ref.String(),
		Remote:       deploy.Origin,
		Commit:       commit,
		Result:       "0",
	})
	fmt.Fprintf(inv.Stdout, "Updated %s\n", deploy.Ref)
	return nil
}
