// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"strings"
	"testing"

	"github.com/matthiasclasen/flatpak/lib/oplog"
)

func TestSelectColumns_Defaults(t *testing.T) {
	selected, err := selectColumns("")
	if err != nil {
		t.Fatalf("selectColumns(\"\") error: %v", err)
	}

	wantIDs := []string{"time", "change", "installation", "application",
		"arch", "branch", "remote", "commit", "success"}
	if len(selected) != len(wantIDs) {
		t.Fatalf("default columns = %d, want %d", len(selected), len(wantIDs))
	}
	for i, column := range selected {
		if column.ID != wantIDs[i] {
			t.Errorf("column[%d] = %q, want %q", i, column.ID, wantIDs[i])
		}
	}
}

func TestSelectColumns_ExplicitOrder(t *testing.T) {
	selected, err := selectColumns("commit,time")
	if err != nil {
		t.Fatalf("selectColumns() error: %v", err)
	}
	if len(selected) != 2 || selected[0].ID != "commit" || selected[1].ID != "time" {
		t.Fatalf("selected = %v, want [commit time] in request order", selected)
	}
}

func TestSelectColumns_All(t *testing.T) {
	selected, err := selectColumns("all")
	if err != nil {
		t.Fatalf("selectColumns(all) error: %v", err)
	}
	if len(selected) != len(columns) {
		t.Errorf("all = %d columns, want %d", len(selected), len(columns))
	}
}

func TestSelectColumns_Unknown(t *testing.T) {
	_, err := selectColumns("time,bogus")
	if err == nil {
		t.Fatal("selectColumns() = nil, want error for unknown id")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error = %q, should name the unknown column", err.Error())
	}
}

func recordWith(fields map[string]string) oplog.Record {
	return oplog.MakeRecord(fields)
}

func TestSuccessColumn_Polarity(t *testing.T) {
	success, ok := columnByID("success")
	if !ok {
		t.Fatal("no success column")
	}

	tests := []struct {
		result string
		want   string
	}{
		{"0", "✓"},
		{"1", ""},
		{"error", ""},
		{"", ""},
	}

	for _, test := range tests {
		record := recordWith(map[string]string{oplog.FieldResult: test.result})
		if test.result == "" {
			record = recordWith(map[string]string{})
		}
		if got := success.Cell(record); got != test.want {
			t.Errorf("success cell for result %q = %q, want %q", test.result, got, test.want)
		}
	}
}

func TestRefColumns_Decomposition(t *testing.T) {
	record := recordWith(map[string]string{
		oplog.FieldRef: "app/org.gnome.Maps/x86_64/stable",
	})

	tests := []struct {
		id   string
		want string
	}{
		{"application", "org.gnome.Maps"},
		{"arch", "x86_64"},
		{"branch", "stable"},
	}
	for _, test := range tests {
		column, ok := columnByID(test.id)
		if !ok {
			t.Fatalf("no %s column", test.id)
		}
		if got := column.Cell(record); got != test.want {
			t.Errorf("%s cell = %q, want %q", test.id, got, test.want)
		}
	}
}

func TestRefColumns_MalformedRefIsEmpty(t *testing.T) {
	record := recordWith(map[string]string{oplog.FieldRef: "not-a-ref"})

	for _, id := range []string{"application", "arch", "branch"} {
		column, _ := columnByID(id)
		if got := column.Cell(record); got != "" {
			t.Errorf("%s cell for malformed ref = %q, want empty", id, got)
		}
	}
}

func TestCommitColumn_Truncates(t *testing.T) {
	column, _ := columnByID("commit")
	record := recordWith(map[string]string{
		oplog.FieldCommit: "fedcba9876543210fedcba9876543210",
	})
	if got := column.Cell(record); got != "fedcba987654" {
		t.Errorf("commit cell = %q, want 12-char prefix", got)
	}
}
