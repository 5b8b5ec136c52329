// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matthiasclasen/flatpak/lib/dir"
)

// newTestLocator points a Locator at temporary directories via the
// same environment overrides production uses.
func newTestLocator(t *testing.T) *dir.Locator {
	t.Helper()
	root := t.TempDir()
	t.Setenv("FLATPAK_SYSTEM_DIR", filepath.Join(root, "system"))
	t.Setenv("FLATPAK_USER_DIR", filepath.Join(root, "user"))
	t.Setenv("FLATPAK_CONFIG_DIR", filepath.Join(root, "config"))
	return dir.NewLocator()
}

func newTestRegistry(t *testing.T, sections []Section) (*Registry, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &Registry{
		Prog:     "flatpak",
		Sections: sections,
		Locator:  newTestLocator(t),
		Stdout:   &out,
		Stderr:   &out,
	}, &out
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantName string
		wantRest []string
	}{
		{
			name:     "empty",
			args:     nil,
			wantName: "",
			wantRest: []string{},
		},
		{
			name:     "bare command",
			args:     []string{"history"},
			wantName: "history",
			wantRest: []string{},
		},
		{
			name:     "flags before command",
			args:     []string{"-v", "history", "--since=1d"},
			wantName: "history",
			wantRest: []string{"-v", "--since=1d"},
		},
		{
			name:     "positional args keep order",
			args:     []string{"install", "flathub", "org.gnome.Maps", "--user"},
			wantName: "install",
			wantRest: []string{"flathub", "org.gnome.Maps", "--user"},
		},
		{
			name:     "only flags",
			args:     []string{"--version"},
			wantName: "",
			wantRest: []string{"--version"},
		},
		{
			name:     "second non-flag token stays positional",
			args:     []string{"info", "history"},
			wantName: "info",
			wantRest: []string{"history"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			name, rest := SplitCommand(test.args)
			if name != test.wantName {
				t.Errorf("name = %q, want %q", name, test.wantName)
			}
			if !reflect.DeepEqual(rest, test.wantRest) {
				t.Errorf("rest = %v, want %v", rest, test.wantRest)
			}
		})
	}
}

func TestDispatch_RoutesToCommand(t *testing.T) {
	var called string
	var gotArgs []string

	registry, _ := newTestRegistry(t, []Section{{
		Title: "Manage installed applications",
		Commands: []*Command{
			{
				Name: "list",
				Run: func(ctx context.Context, inv *Invocation) error {
					called = "list"
					return nil
				},
			},
			{
				Name: "search",
				Run: func(ctx context.Context, inv *Invocation) error {
					called = "search"
					gotArgs = inv.Args
					return nil
				},
			},
		},
	}})

	if err := registry.Dispatch(context.Background(), []string{"search", "maps"}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if called != "search" {
		t.Errorf("dispatched to %q, want %q", called, "search")
	}
	if len(gotArgs) != 1 || gotArgs[0] != "maps" {
		t.Errorf("args = %v, want [maps]", gotArgs)
	}
}

func TestDispatch_FlagsBeforeCommand(t *testing.T) {
	var since string

	registry, _ := newTestRegistry(t, []Section{{
		Commands: []*Command{
			{
				Name: "history",
				Flags: func() *pflag.FlagSet {
					flags := pflag.NewFlagSet("history", pflag.ContinueOnError)
					flags.StringVar(&since, "since", "", "start of range")
					return flags
				},
				Run: func(ctx context.Context, inv *Invocation) error { return nil },
			},
		},
	}})

	// A command flag appearing before the command token parses the
	// same as after it.
	if err := registry.Dispatch(context.Background(), []string{"--since=2d", "history"}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if since != "2d" {
		t.Errorf("since = %q, want %q", since, "2d")
	}
}

func TestDispatch_UnknownCommandSuggestion(t *testing.T) {
	registry, _ := newTestRegistry(t, []Section{{
		Commands: []*Command{
			{Name: "history", Run: func(ctx context.Context, inv *Invocation) error { return nil }},
			{Name: "install", Run: func(ctx context.Context, inv *Invocation) error { return nil }},
		},
	}})

	err := registry.Dispatch(context.Background(), []string{"hstory"})
	if err == nil {
		t.Fatal("Dispatch() = nil, want error for unknown command")
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error type = %T, want *NotFoundError", err)
	}
	if !strings.Contains(err.Error(), `Did you mean "history"?`) {
		t.Errorf("error = %q, want suggestion for 'history'", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestDispatch_UnknownCommandNoSuggestion(t *testing.T) {
	registry, _ := newTestRegistry(t, []Section{{
		Commands: []*Command{
			{Name: "history", Run: func(ctx context.Context, inv *Invocation) error { return nil }},
		},
	}})

	err := registry.Dispatch(context.Background(), []string{"zzzzzzzzz"})
	if err == nil {
		t.Fatal("Dispatch() = nil, want error for unknown command")
	}
	if strings.Contains(err.Error(), "Did you mean") {
		t.Errorf("error = %q, should not suggest for distant input", err.Error())
	}
}

func TestDispatch_DeprecatedAliasStillRuns(t *testing.T) {
	var called string

	registry, _ := newTestRegistry(t, []Section{{
		Commands: []*Command{
			{
				Name: "uninstall",
				Run: func(ctx context.Context, inv *Invocation) error {
					called = "uninstall"
					return nil
				},
			},
			{
				Name:       "remove",
				Deprecated: true,
				Run: func(ctx context.Context, inv *Invocation) error {
					called = "remove"
					return nil
				},
			},
		},
	}})

	if err := registry.Dispatch(context.Background(), []string{"remove"}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if called != "remove" {
		t.Errorf("dispatched to %q, want %q", called, "remove")
	}
}

func TestSuggest_SkipsDeprecated(t *testing.T) {
	registry, _ := newTestRegistry(t, []Section{{
		Commands: []*Command{
			{Name: "uninstall"},
			{Name: "remove", Deprecated: true},
		},
	}})

	// "remov" is one edit from the deprecated alias but must resolve
	// to nothing rather than teach users the old name.
	if got := registry.Suggest("remov"); got != "" {
		t.Errorf("Suggest(%q) = %q, want no suggestion", "remov", got)
	}
	if got := registry.Suggest("uninstal"); got != "uninstall" {
		t.Errorf("Suggest(%q) = %q, want %q", "uninstal", got, "uninstall")
	}
}

func TestDispatch_NoCommandIsUsageError(t *testing.T) {
	registry, _ := newTestRegistry(t, nil)

	err := registry.Dispatch(context.Background(), nil)
	if err == nil {
		t.Fatal("Dispatch() = nil, want error for empty invocation")
	}
	var usage *UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("error type = %T, want *UsageError", err)
	}
	if !strings.Contains(err.Error(), "No command specified") {
		t.Errorf("error = %q, want 'No command specified'", err.Error())
	}
}

func TestDispatch_VersionFlagExitsEarly(t *testing.T) {
	registry, out := newTestRegistry(t, []Section{{
		Commands: []*Command{
			{Name: "history", Run: func(ctx context.Context, inv *Invocation) error {
				t.Fatal("command ran despite --version")
				return nil
			}},
		},
	}})

	if err := registry.Dispatch(context.Background(), []string{"--version"}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "flatpak ") {
		t.Errorf("output = %q, want version line", out.String())
	}
}

func TestDispatch_VersionNotRecognizedWithCommand(t *testing.T) {
	registry, _ := newTestRegistry(t, []Section{{
		Commands: []*Command{
			{Name: "list", Run: func(ctx context.Context, inv *Invocation) error { return nil }},
		},
	}})

	// Informational flags only exist on the no-command parse.
	err := registry.Dispatch(context.Background(), []string{"list", "--version"})
	if err == nil {
		t.Fatal("Dispatch() = nil, want unknown-flag error")
	}
	if !strings.Contains(err.Error(), "version") {
		t.Errorf("error = %q, should name the rejected flag", err.Error())
	}
}

func TestDispatch_HelpPrintsUsage(t *testing.T) {
	registry, out := newTestRegistry(t, []Section{{
		Title: "Manage installed applications",
		Commands: []*Command{
			{Name: "install", Summary: "Install an application or runtime"},
			{Name: "remove", Summary: "", Deprecated: true},
		},
	}})

	if err := registry.Dispatch(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	output := out.String()

	for _, want := range []string{
		"Usage:",
		"Builtin Commands:",
		"Manage installed applications",
		"install",
		"Install an application or runtime",
		"Global Options:",
		"--verbose",
		"Informational Options:",
		"--default-arch",
		"Installation Options:",
		"--installation",
		"Run 'flatpak COMMAND --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("usage output missing %q\n\nFull output:\n%s", want, output)
		}
	}

	if strings.Contains(output, "remove") {
		t.Errorf("usage output lists deprecated command:\n%s", output)
	}
}

func TestDispatch_CommandHelp(t *testing.T) {
	registry, out := newTestRegistry(t, []Section{{
		Commands: []*Command{
			{
				Name:        "history",
				Summary:     "Show history",
				Description: "Show the history of changes to installations.",
				Usage:       "flatpak history [OPTION…]",
				Placement:   AllTargets,
				Flags: func() *pflag.FlagSet {
					flags := pflag.NewFlagSet("history", pflag.ContinueOnError)
					flags.String("since", "", "Only show changes after TIME")
					return flags
				},
				Run: func(ctx context.Context, inv *Invocation) error { return nil },
			},
		},
	}})

	if err := registry.Dispatch(context.Background(), []string{"history", "--help"}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	output := out.String()

	for _, want := range []string{
		"Show the history of changes to installations.",
		"flatpak history [OPTION…]",
		"--since",
		"Installation Options:",
		"--user",
		"Global Options:",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestDispatch_ResolvesTargets(t *testing.T) {
	var got []*dir.Installation

	registry, _ := newTestRegistry(t, []Section{{
		Commands: []*Command{
			{
				Name:      "list",
				Placement: StandardTargets,
				Run: func(ctx context.Context, inv *Invocation) error {
					got = inv.Installations
					return nil
				},
			},
		},
	}})

	if err := registry.Dispatch(context.Background(), []string{"list", "--user"}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if len(got) != 1 || !got[0].IsUser() {
		t.Fatalf("installations = %v, want single user installation", got)
	}
	if got[0].Repo() == nil {
		t.Error("repo not initialized for resolved installation")
	}
}

func TestMergeFlags_PanicsOnDuplicate(t *testing.T) {
	dst := pflag.NewFlagSet("dst", pflag.ContinueOnError)
	dst.Bool("user", false, "")
	src := pflag.NewFlagSet("src", pflag.ContinueOnError)
	src.Bool("user", false, "")

	defer func() {
		if recover() == nil {
			t.Fatal("mergeFlags did not panic on duplicate flag")
		}
	}()
	mergeFlags(dst, src)
}
