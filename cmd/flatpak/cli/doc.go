// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command-line framework for the flatpak tool: the
// command registry and dispatcher, the layered option parsing that
// resolves which installations a command targets, and the hidden
// shell-completion protocol.
//
// Commands are plain structs registered in a flat, sectioned
// [Registry] (assembled in cmd/flatpak/commands). [Registry.Dispatch]
// separates the command token from the argument vector, composes the
// command's flags with the target-selection and global flags into a
// single [pflag.FlagSet] parse pass, resolves the target
// installations, and hands the command an [Invocation] carrying
// everything it needs: positional arguments, resolved installations,
// and a logger. No option state lives in package-level variables.
//
// When a user types an unknown command, the dispatcher computes
// Levenshtein edit distance against the dispatchable command names and
// suggests the closest match (threshold: distance <= 3). Deprecated
// commands stay dispatchable but never appear in help or suggestions.
//
// The reserved "complete" invocation (never shown to users) drives
// shell completion through the same command extraction as a real
// dispatch, with all logging and side effects suppressed; see
// [Registry.Complete].
package cli
