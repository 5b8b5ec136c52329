// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package oplog is the append-only operation log: one entry per
// install, update, or uninstall, recorded at transaction time and
// queried by the history command.
//
// The log is a single SQLite database shared by all installations.
// Entries carry the installation's log id, so readers filter by
// installation after the fact rather than opening one log per root.
// Readers iterate newest-first with equality matches on named fields,
// mirroring a journal cursor: there is no free-form query surface,
// only AddMatch and a reverse scan.
//
// Entries are never updated or deleted by this package. Retention is
// the operator's concern (delete the file).
package oplog
