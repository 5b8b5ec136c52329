// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package history implements the history command: a reverse
// chronological report over the operation log, filtered by
// installation and time range and projected into a configurable
// column set.
package history

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
	"github.com/matthiasclasen/flatpak/lib/oplog"
)

type historyParams struct {
	Since       string `flag:"since" desc:"Show entries newer than TIME"`
	Until       string `flag:"until" desc:"Show entries older than TIME"`
	Columns     string `flag:"columns" desc:"What information to show"`
	ShowColumns bool   `flag:"show-columns" desc:"Show available columns"`
}

// Command returns the history command.
func Command() *cli.Command {
	var params historyParams

	return &cli.Command{
		Name:    "history",
		Summary: "Show history",
		Description: `Show the history of changes to installations: installs,
updates and removals, newest first.

By default entries from every installation are shown. Use the
installation options to restrict the report, and --since/--until
to bound the time range. TIME accepts a clock time (10:00), a
date (2026-08-01), a date and time, or a relative offset such as
"2d" or "1 hour 30 minutes".`,
		Usage:        "flatpak history [OPTION…]",
		Placement:    cli.AllTargets,
		OptionalRepo: true,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("history", &params)
		},
		Run: func(ctx context.Context, inv *cli.Invocation) error {
			return run(ctx, inv, params)
		},
		Complete: complete,
	}
}

func run(ctx context.Context, inv *cli.Invocation, params historyParams) error {
	if params.ShowColumns {
		return showColumns(inv)
	}

	selected, err := selectColumns(params.Columns)
	if err != nil {
		return inv.Usagef("%s", err)
	}

	now := time.Now()
	var since, until time.Time
	if params.Since != "" {
		if since, err = parseTime(params.Since, now); err != nil {
			return inv.Usagef("%s", err)
		}
	}
	if params.Until != "" {
		if until, err = parseTime(params.Until, now); err != nil {
			return inv.Usagef("%s", err)
		}
	}

	included := make(map[string]bool, len(inv.Installations))
	for _, installation := range inv.Installations {
		included[installation.LogID()] = true
	}

	store, err := oplog.Open(oplog.DefaultPath(inv.Locator.User().Path()), inv.RepoLogger)
	if err != nil {
		return err
	}
	defer store.Close()

	// Static matches restrict the scan in the store: only entries
	// written by this tool's transaction layer are ours to report.
	var query oplog.Query
	if err := query.AddMatch(oplog.FieldMessageID, oplog.TransactionMessageID.String()); err != nil {
		return err
	}
	if err := query.AddMatch(oplog.FieldTool, "flatpak"); err != nil {
		return err
	}

	headers := make([]string, len(selected))
	for i, column := range selected {
		headers[i] = column.Title
	}

	var rows [][]string
	err = store.Reverse(ctx, query, func(record oplog.Record) error {
		installation, _ := record.Field(oplog.FieldInstallation)
		if !included[installation] {
			return nil
		}

		if micros, ok := record.Field(oplog.FieldTimestamp); ok {
			at, ok := parseTimestamp(micros)
			if ok {
				// Inclusive at since, exclusive at until.
				if !since.IsZero() && at.Before(since) {
					return nil
				}
				if !until.IsZero() && !at.Before(until) {
					return nil
				}
			}
		}

		row := make([]string, len(selected))
		for i, column := range selected {
			row[i] = column.Cell(record)
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return err
	}

	renderTable(inv.Stdout, headers, rows)
	return nil
}

func showColumns(inv *cli.Invocation) error {
	tw := tabwriter.NewWriter(inv.Stdout, 2, 0, 2, ' ', 0)
	for _, column := range columns {
		fmt.Fprintf(tw, "%s\t%s\n", column.ID, column.Description)
	}
	return tw.Flush()
}

func complete(comp *cli.Completion) error {
	if strings.HasPrefix(comp.Cur, "--columns=") {
		for _, column := range columns {
			comp.CompleteWord("--columns=" + column.ID)
		}
		comp.CompleteWord("--columns=all")
		return nil
	}

	var params historyParams
	comp.CompleteOptions(cli.FlagsFromParams("history", &params))
	comp.CompleteOptions(cli.TargetFlags())
	comp.CompleteOptions(cli.GlobalFlags())
	return nil
}
