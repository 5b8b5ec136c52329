// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
	"github.com/matthiasclasen/flatpak/lib/dir"
	"github.com/matthiasclasen/flatpak/lib/oplog"
)

// newTestRegistry wires the history command against temp directories
// and a temp operation log, and returns the output buffer.
func newTestRegistry(t *testing.T) (*cli.Registry, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("FLATPAK_SYSTEM_DIR", filepath.Join(root, "system"))
	t.Setenv("FLATPAK_USER_DIR", filepath.Join(root, "user"))
	t.Setenv("FLATPAK_CONFIG_DIR", filepath.Join(root, "config"))
	t.Setenv("FLATPAK_OPLOG_PATH", filepath.Join(root, "oplog.db"))

	var out bytes.Buffer
	registry := &cli.Registry{
		Prog:     "flatpak",
		Sections: []cli.Section{{Commands: []*cli.Command{Command()}}},
		Locator:  dir.NewLocator(),
		Stdout:   &out,
		Stderr:   &out,
	}
	return registry, &out
}

func recordEntries(t *testing.T, entries []oplog.Entry) {
	t.Helper()
	store, err := oplog.Open(oplog.DefaultPath(""), nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer store.Close()
	for _, entry := range entries {
		if entry.Tool == "" {
			entry.Tool = "flatpak"
		}
		if err := store.Record(context.Background(), entry); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}
}

func TestHistory_TimeRangeFilter(t *testing.T) {
	registry, out := newTestRegistry(t)
	now := time.Now()

	recordEntries(t, []oplog.Entry{
		{Time: now.AddDate(0, 0, -3), Operation: "install", Installation: "user",
			Ref: "app/org.older.App/x86_64/stable", Result: "0"},
		{Time: now.AddDate(0, 0, -1), Operation: "update", Installation: "user",
			Ref: "app/org.wanted.App/x86_64/stable", Result: "0"},
		{Time: now.AddDate(0, 0, 1), Operation: "uninstall", Installation: "user",
			Ref: "app/org.future.App/x86_64/stable", Result: "0"},
	})

	err := registry.Dispatch(context.Background(),
		[]string{"history", "--since=2d", "--until=0s", "--columns=change,application"})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "org.wanted.App") {
		t.Errorf("output missing the in-range record:\n%s", output)
	}
	if strings.Contains(output, "org.older.App") || strings.Contains(output, "org.future.App") {
		t.Errorf("output includes out-of-range records:\n%s", output)
	}
}

func TestHistory_InstallationFilter(t *testing.T) {
	registry, out := newTestRegistry(t)
	now := time.Now().Add(-time.Hour)

	recordEntries(t, []oplog.Entry{
		{Time: now, Operation: "install", Installation: "user",
			Ref: "app/org.user.App/x86_64/stable", Result: "0"},
		{Time: now, Operation: "install", Installation: "system",
			Ref: "app/org.system.App/x86_64/stable", Result: "0"},
	})

	err := registry.Dispatch(context.Background(),
		[]string{"history", "--user", "--columns=application"})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "org.user.App") {
		t.Errorf("output missing user-installation record:\n%s", output)
	}
	if strings.Contains(output, "org.system.App") {
		t.Errorf("output includes filtered-out installation:\n%s", output)
	}
}

func TestHistory_ForeignToolEntriesExcluded(t *testing.T) {
	registry, out := newTestRegistry(t)
	now := time.Now().Add(-time.Hour)

	recordEntries(t, []oplog.Entry{
		{Time: now, Operation: "install", Installation: "user",
			Ref: "app/org.mine.App/x86_64/stable", Result: "0"},
		{Time: now, Operation: "install", Installation: "user", Tool: "gnome-software",
			Ref: "app/org.foreign.App/x86_64/stable", Result: "0"},
	})

	err := registry.Dispatch(context.Background(),
		[]string{"history", "--columns=application"})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "org.mine.App") {
		t.Errorf("output missing this tool's record:\n%s", output)
	}
	if strings.Contains(output, "org.foreign.App") {
		t.Errorf("output includes another tool's record:\n%s", output)
	}
}

func TestHistory_ColumnSelection(t *testing.T) {
	registry, out := newTestRegistry(t)

	recordEntries(t, []oplog.Entry{
		{Time: time.Now().Add(-time.Hour), Operation: "install",
			Installation: "user", Ref: "app/org.x.App/x86_64/stable", Result: "0"},
	})

	err := registry.Dispatch(context.Background(),
		[]string{"history", "--columns=time,change"})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) < 2 {
		t.Fatalf("output = %q, want header plus one row", out.String())
	}
	header := strings.Fields(lines[0])
	if len(header) != 2 || header[0] != "Time" || header[1] != "Change" {
		t.Errorf("header = %v, want [Time Change]", header)
	}
	if !strings.Contains(lines[1], "install") {
		t.Errorf("row = %q, want change cell 'install'", lines[1])
	}
	if strings.Contains(out.String(), "org.x.App") {
		t.Errorf("unselected column leaked into output:\n%s", out.String())
	}
}

func TestHistory_UnknownColumnRejectedBeforeIO(t *testing.T) {
	registry, _ := newTestRegistry(t)

	// No log has been written; a store open would create one. The
	// unknown column must fail before that.
	err := registry.Dispatch(context.Background(),
		[]string{"history", "--columns=bogus"})
	if err == nil {
		t.Fatal("Dispatch() = nil, want error for unknown column")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error = %q, should name the unknown column", err.Error())
	}
}

func TestHistory_ShowColumns(t *testing.T) {
	registry, out := newTestRegistry(t)

	err := registry.Dispatch(context.Background(), []string{"history", "--show-columns"})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	output := out.String()
	for _, id := range []string{"time", "change", "installation", "application",
		"arch", "branch", "remote", "commit", "success", "user", "tool", "version"} {
		if !strings.Contains(output, id) {
			t.Errorf("--show-columns output missing %q:\n%s", id, output)
		}
	}
}

func TestHistory_BadTimeIsUsageError(t *testing.T) {
	registry, _ := newTestRegistry(t)

	err := registry.Dispatch(context.Background(),
		[]string{"history", "--since=yesterday"})
	if err == nil {
		t.Fatal("Dispatch() = nil, want parse error")
	}
	if !strings.Contains(err.Error(), "yesterday") {
		t.Errorf("error = %q, should quote the bad input", err.Error())
	}
}
