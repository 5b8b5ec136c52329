// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
	"github.com/matthiasclasen/flatpak/lib/dir"
	"github.com/matthiasclasen/flatpak/lib/oplog"
	"github.com/matthiasclasen/flatpak/lib/version"
)

// recordOperation appends one entry to the operation log. Failures
// here are logged and swallowed: a full disk must not turn a
// completed install into a reported failure.
func recordOperation(ctx context.Context, inv *cli.Invocation, entry oplog.Entry) {
	entry.UID = os.Getuid()
	entry.Tool = "flatpak"
	entry.Version = version.Number

	store, err := oplog.Open(oplog.DefaultPath(inv.Locator.User().Path()), inv.RepoLogger)
	if err != nil {
		inv.Logger.Warn("operation log unavailable", "error", err)
		return
	}
	defer store.Close()

	if err := store.Record(ctx, entry); err != nil {
		inv.Logger.Warn("operation not recorded", "error", err)
	}
}

// newCommit fabricates a commit id for a deploy. Content-addressed
// commits come with a real transaction backend; until then an opaque
// unique id keeps the deploy metadata shaped right.
func newCommit() string {
	a := uuid.New()
	b := uuid.New()
	return strings.ReplaceAll(a.String()+b.String(), "-", "")
}

// completeRemotes offers the configured remote names of every
// resolvable installation.
func completeRemotes(comp *cli.Completion) {
	for _, installation := range completionInstallations(comp) {
		if installation.Repo() == nil {
			continue
		}
		for _, remote := range installation.Repo().Remotes() {
			comp.CompleteWord(remote.Name)
		}
	}
}

// completeInstalledRefs offers the ids of installed refs.
func completeInstalledRefs(comp *cli.Completion) {
	for _, installation := range completionInstallations(comp) {
		deploys, err := installation.Deploys()
		if err != nil {
			continue
		}
		for _, deploy := range deploys {
			comp.CompleteWord(deploy.Ref.ID)
		}
	}
}

// completionInstallations enumerates every installation with its
// repository opened if present. Errors yield a shorter candidate
// list, never a failed completion.
func completionInstallations(comp *cli.Completion) []*dir.Installation {
	var installations []*dir.Installation
	system, err := comp.Locator.SystemList()
	if err == nil {
		installations = system
	}
	installations = append(installations, comp.Locator.User())
	for _, installation := range installations {
		_ = installation.MaybeEnsureRepo()
	}
	return installations
}

// positionalCount returns how many committed positional arguments
// follow the command token, excluding the word being completed. It
// drives position-sensitive completion ("flatpak install <remote>
// <ref>").
func positionalCount(comp *cli.Completion) int {
	count := 0
	seenCommand := false
	for _, arg := range comp.Argv {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if !seenCommand {
			seenCommand = true
			continue
		}
		count++
	}
	if comp.Cur != "" && count > 0 {
		count--
	}
	return count
}
