// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
	"github.com/matthiasclasen/flatpak/lib/dir"
)

func remotesCommand() *cli.Command {
	return &cli.Command{
		Name:         "remotes",
		Summary:      "List all configured remotes",
		Usage:        "flatpak remotes [OPTION…]",
		Placement:    cli.StandardTargets,
		OptionalRepo: true,
		Run:          runRemotes,
	}
}

// remoteListCommand is the compatibility alias for remotes.
func remoteListCommand() *cli.Command {
	return &cli.Command{
		Name:         "remote-list",
		Deprecated:   true,
		Usage:        "flatpak remote-list [OPTION…]",
		Placement:    cli.StandardTargets,
		OptionalRepo: true,
		Run:          runRemotes,
	}
}

func runRemotes(ctx context.Context, inv *cli.Invocation) error {
	tw := tabwriter.NewWriter(inv.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "Name\tURL\tInstallation")
	for _, installation := range inv.Installations {
		if installation.Repo() == nil {
			continue
		}
		for _, remote := range installation.Repo().Remotes() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", remote.Name, remote.URL, installation.LogID())
		}
	}
	return tw.Flush()
}

type remoteAddParams struct {
	Title string `flag:"title" desc:"A nice name to use for this remote"`
}

func remoteAddCommand() *cli.Command {
	var params remoteAddParams

	return &cli.Command{
		Name:      "remote-add",
		Summary:   "Add a new remote repository (by URL)",
		Usage:     "flatpak remote-add [OPTION…] NAME URL",
		Placement: cli.OneTarget,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("remote-add", &params)
		},
		Run: func(ctx context.Context, inv *cli.Invocation) error {
			if len(inv.Args) != 2 {
				return inv.Usagef("NAME and URL must be specified")
			}
			installation := inv.Installations[0]
			return installation.Repo().AddRemote(dir.Remote{
				Name:  inv.Args[0],
				URL:   inv.Args[1],
				Title: params.Title,
			})
		},
	}
}

func remoteDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "remote-delete",
		Summary:   "Delete a configured remote",
		Usage:     "flatpak remote-delete [OPTION…] NAME",
		Placement: cli.OneTarget,
		Run: func(ctx context.Context, inv *cli.Invocation) error {
			if len(inv.Args) != 1 {
				return inv.Usagef("NAME must be specified")
			}
			return inv.Installations[0].Repo().RemoveRemote(inv.Args[0])
		},
		Complete: func(comp *cli.Completion) error {
			completeRemotes(comp)
			comp.CompleteOptions(cli.TargetFlags())
			comp.CompleteOptions(cli.GlobalFlags())
			return nil
		},
	}
}
