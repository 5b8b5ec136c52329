// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// UsageError reports malformed user input: a bad flag, a missing
// argument, conflicting selectors. The hint tells the user where to
// find the full usage.
type UsageError struct {
	Message string
	Hint    string
}

func (e *UsageError) Error() string {
	if e.Hint == "" {
		return e.Message
	}
	return e.Message + "\n\n" + e.Hint
}

// NotFoundError reports a command token that matched nothing in the
// registry, optionally carrying a typo suggestion in the message.
type NotFoundError struct {
	Message string
	Hint    string
}

func (e *NotFoundError) Error() string {
	if e.Hint == "" {
		return e.Message
	}
	return e.Message + "\n\n" + e.Hint
}

// usagef builds a UsageError pointing at prog's help.
func usagef(prog, format string, args ...any) error {
	return &UsageError{
		Message: fmt.Sprintf(format, args...),
		Hint:    fmt.Sprintf("See '%s --help'", prog),
	}
}
