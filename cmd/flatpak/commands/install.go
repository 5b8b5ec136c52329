// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
	"github.com/matthiasclasen/flatpak/lib/oplog"
	"github.com/matthiasclasen/flatpak/lib/ref"
	"github.com/matthiasclasen/flatpak/lib/sysinfo"
)

type installParams struct {
	Arch string `flag:"arch" desc:"Arch to install for"`
}

func installCommand() *cli.Command {
	var params installParams

	return &cli.Command{
		Name:        "install",
		Summary:     "Install an application or runtime",
		Description: "Install applications or runtimes from a configured remote.",
		Usage:       "flatpak install [OPTION…] REMOTE REF…",
		Placement:   cli.OneTarget,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("install", &params)
		},
		Run: func(ctx context.Context, inv *cli.Invocation) error {
			if len(inv.Args) < 2 {
				return inv.Usagef("REMOTE and REF must be specified")
			}
			remoteName, refArgs := inv.Args[0], inv.Args[1:]

			installation := inv.Installations[0]
			remote, ok := installation.Repo().Remote(remoteName)
			if !ok {
				return fmt.Errorf("remote %q not found in the %s installation", remoteName, installation.LogID())
			}

			arch := params.Arch
			if arch == "" {
				arch = sysinfo.DefaultArch()
			}

			for _, arg := range refArgs {
				r, err := ref.Complete(arg, arch)
				if err != nil {
					return err
				}
				commit := newCommit()
				if err := installation.Deploy(r, remote.Name, commit); err != nil {
					return err
				}
				recordOperation(ctx, inv, oplog.Entry{
					Operation:    "install",
					Installation: installation.LogID(),
					Ref:          r.String(),
					Remote:       remote.Name,
					Commit:       commit,
					Result:       "0",
				})
				fmt.Fprintf(inv.Stdout, "Installed %s from %s\n", r, remote.Name)
			}
			return nil
		},
		Complete: func(comp *cli.Completion) error {
			switch positionalCount(comp) {
			case 0:
				completeRemotes(comp)
			default:
				// Completing refs would need the remote's index;
				// offer nothing rather than guesses.
			}
			comp.CompleteOptions(cli.TargetFlags())
			var params installParams
			comp.CompleteOptions(cli.FlagsFromParams("install", &params))
			return nil
		},
	}
}
