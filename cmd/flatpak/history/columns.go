// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"fmt"
	"strings"

	"github.com/matthiasclasen/flatpak/lib/oplog"
	"github.com/matthiasclasen/flatpak/lib/ref"
)

// Column is one entry in the static column table. Cell projects a
// log record into the column's display value; fields absent from the
// record project to the empty string.
type Column struct {
	ID          string
	Title       string
	Description string

	// Default marks columns shown without an explicit --columns.
	Default bool

	Cell func(r oplog.Record) string
}

// columns is the full table, in display order. The order here drives
// both the default report layout and the --show-columns listing.
var columns = []Column{
	{
		ID: "time", Title: "Time", Default: true,
		Description: "Show when the change happened",
		Cell: func(r oplog.Record) string {
			value, ok := r.Field(oplog.FieldTimestamp)
			if !ok {
				return ""
			}
			return formatTimestamp(value)
		},
	},
	{
		ID: "change", Title: "Change", Default: true,
		Description: "Show the kind of change",
		Cell:        fieldCell(oplog.FieldOperation),
	},
	{
		ID: "installation", Title: "Installation", Default: true,
		Description: "Show the affected installation",
		Cell:        fieldCell(oplog.FieldInstallation),
	},
	{
		ID: "application", Title: "Application", Default: true,
		Description: "Show the application/runtime ID",
		Cell: func(r oplog.Record) string {
			return refPart(r, func(parsed ref.Ref) string { return parsed.ID })
		},
	},
	{
		ID: "arch", Title: "Arch", Default: true,
		Description: "Show the architecture",
		Cell: func(r oplog.Record) string {
			return refPart(r, func(parsed ref.Ref) string { return parsed.Arch })
		},
	},
	{
		ID: "branch", Title: "Branch", Default: true,
		Description: "Show the branch",
		Cell: func(r oplog.Record) string {
			return refPart(r, func(parsed ref.Ref) string { return parsed.Branch })
		},
	},
	{
		ID: "remote", Title: "Remote", Default: true,
		Description: "Show the remote",
		Cell:        fieldCell(oplog.FieldRemote),
	},
	{
		ID: "commit", Title: "Commit", Default: true,
		Description: "Show the active commit",
		Cell: func(r oplog.Record) string {
			value, _ := r.Field(oplog.FieldCommit)
			return truncateCommit(value)
		},
	},
	{
		ID: "success", Title: "Success", Default: true,
		Description: "Show whether the change succeeded",
		Cell: func(r oplog.Record) string {
			// The log producer records "0" for a completed
			// transaction. Anything else, including an absent
			// field, renders empty.
			if value, _ := r.Field(oplog.FieldResult); value == "0" {
				return "✓"
			}
			return ""
		},
	},
	{
		ID: "user", Title: "User",
		Description: "Show the user doing the change",
		Cell: func(r oplog.Record) string {
			value, ok := r.Field(oplog.FieldUID)
			if !ok {
				return ""
			}
			return userName(value)
		},
	},
	{
		ID: "tool", Title: "Tool",
		Description: "Show the tool that was used",
		Cell:        fieldCell(oplog.FieldTool),
	},
	{
		ID: "version", Title: "Version",
		Description: "Show the Flatpak version",
		Cell:        fieldCell(oplog.FieldVersion),
	},
}

func fieldCell(field string) func(oplog.Record) string {
	return func(r oplog.Record) string {
		value, _ := r.Field(field)
		return value
	}
}

// refPart decomposes the record's ref string and projects one part.
// A malformed ref is not an error here; the cell is left empty.
func refPart(r oplog.Record, part func(ref.Ref) string) string {
	value, ok := r.Field(oplog.FieldRef)
	if !ok {
		return ""
	}
	parsed, err := ref.Parse(value)
	if err != nil {
		return ""
	}
	return part(parsed)
}

// selectColumns resolves the --columns option into an ordered list.
// Empty selects the defaults, "all" selects everything, otherwise a
// comma-separated list of ids in the requested order. Unknown ids
// fail here, before any log I/O.
func selectColumns(spec string) ([]Column, error) {
	if spec == "" {
		var selected []Column
		for _, column := range columns {
			if column.Default {
				selected = append(selected, column)
			}
		}
		return selected, nil
	}

	if spec == "all" {
		return columns, nil
	}

	var selected []Column
	for _, id := range strings.Split(spec, ",") {
		id = strings.TrimSpace(id)
		column, ok := columnByID(id)
		if !ok {
			return nil, fmt.Errorf("unknown column %q, see --show-columns", id)
		}
		selected = append(selected, column)
	}
	return selected, nil
}

func columnByID(id string) (Column, bool) {
	for _, column := range columns {
		if column.ID == id {
			return column, true
		}
	}
	return Column{}, false
}
