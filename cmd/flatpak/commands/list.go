// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
	"github.com/matthiasclasen/flatpak/lib/ref"
)

type listParams struct {
	App     bool `flag:"app" desc:"List applications"`
	Runtime bool `flag:"runtime" desc:"List runtimes"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:         "list",
		Summary:      "List installed apps and/or runtimes",
		Usage:        "flatpak list [OPTION…]",
		Placement:    cli.AllTargets,
		OptionalRepo: true,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(ctx context.Context, inv *cli.Invocation) error {
			// Neither filter set means both kinds.
			wantApp := params.App || !params.Runtime
			wantRuntime := params.Runtime || !params.App

			tw := tabwriter.NewWriter(inv.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "Application ID\tArch\tBranch\tOrigin\tInstallation")
			for _, installation := range inv.Installations {
				deploys, err := installation.Deploys()
				if err != nil {
					return err
				}
				for _, deploy := range deploys {
					if deploy.Ref.Kind == ref.App && !wantApp {
						continue
					}
					if deploy.Ref.Kind == ref.Runtime && !wantRuntime {
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						deploy.Ref.ID, deploy.Ref.Arch, deploy.Ref.Branch,
						deploy.Origin, installation.LogID())
				}
			}
			return tw.Flush()
		},
	}
}
