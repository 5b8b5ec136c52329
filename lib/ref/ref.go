// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref parses and formats refs: the four-part identifiers
// naming one application or runtime build, written
// "kind/id/arch/branch" (e.g. "app/org.gnome.Builder/x86_64/stable").
//
// A full ref always has all four parts. User-facing commands accept
// partial refs and complete them with the host defaults; the log
// store and deploy layout only ever see full refs.
package ref

import (
	"fmt"
	"strings"
)

// Kind distinguishes applications from runtimes.
type Kind string

const (
	// App is a ref for an application.
	App Kind = "app"
	// Runtime is a ref for a runtime (or runtime extension).
	Runtime Kind = "runtime"
)

// DefaultBranch is the branch used when a partial ref names none.
const DefaultBranch = "master"

// Ref is a decomposed ref. The zero value is not a valid ref; use
// Parse or Complete to construct one.
type Ref struct {
	Kind   Kind
	ID     string
	Arch   string
	Branch string
}

// Parse decomposes a full "kind/id/arch/branch" string. All four
// parts must be present and valid. Use Complete for user input that
// may omit parts.
func Parse(s string) (Ref, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return Ref{}, fmt.Errorf("invalid ref %q: expected kind/id/arch/branch", s)
	}

	kind, err := parseKind(parts[0])
	if err != nil {
		return Ref{}, fmt.Errorf("invalid ref %q: %w", s, err)
	}
	if err := validateID(parts[1]); err != nil {
		return Ref{}, fmt.Errorf("invalid ref %q: %w", s, err)
	}
	if parts[2] == "" {
		return Ref{}, fmt.Errorf("invalid ref %q: empty arch", s)
	}
	if err := validateBranch(parts[3]); err != nil {
		return Ref{}, fmt.Errorf("invalid ref %q: %w", s, err)
	}

	return Ref{Kind: kind, ID: parts[1], Arch: parts[2], Branch: parts[3]}, nil
}

// Complete parses a possibly-partial ref: "id", "id/arch",
// "id/arch/branch", optionally prefixed with "kind/". Missing kind
// defaults to app, missing arch to defaultArch, missing branch to
// DefaultBranch. Empty interior parts ("id//stable") take their
// defaults too.
func Complete(s, defaultArch string) (Ref, error) {
	kind := App
	rest := s
	switch {
	case strings.HasPrefix(s, string(App)+"/"):
		rest = s[len(App)+1:]
	case strings.HasPrefix(s, string(Runtime)+"/"):
		kind = Runtime
		rest = s[len(Runtime)+1:]
	}

	parts := strings.Split(rest, "/")
	if len(parts) > 3 {
		return Ref{}, fmt.Errorf("invalid ref %q: too many components", s)
	}

	r := Ref{Kind: kind, Arch: defaultArch, Branch: DefaultBranch}
	r.ID = parts[0]
	if len(parts) > 1 && parts[1] != "" {
		r.Arch = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		r.Branch = parts[2]
	}

	if err := validateID(r.ID); err != nil {
		return Ref{}, fmt.Errorf("invalid ref %q: %w", s, err)
	}
	if r.Arch == "" {
		return Ref{}, fmt.Errorf("invalid ref %q: empty arch", s)
	}
	if err := validateBranch(r.Branch); err != nil {
		return Ref{}, fmt.Errorf("invalid ref %q: %w", s, err)
	}
	return r, nil
}

// String formats the full four-part ref.
func (r Ref) String() string {
	return string(r.Kind) + "/" + r.ID + "/" + r.Arch + "/" + r.Branch
}

// IsZero reports whether r is the zero value.
func (r Ref) IsZero() bool {
	return r == Ref{}
}

func parseKind(s string) (Kind, error) {
	switch Kind(s) {
	case App, Runtime:
		return Kind(s), nil
	}
	return "", fmt.Errorf("kind %q is not app or runtime", s)
}

// validateID checks a reverse-DNS application id: at least three
// dot-separated segments, each starting with a letter or underscore
// and containing only letters, digits, underscore, and (except the
// first segment) dashes.
func validateID(id string) error {
	if len(id) == 0 {
		return fmt.Errorf("empty id")
	}
	if len(id) > 255 {
		return fmt.Errorf("id longer than 255 characters")
	}
	segments := strings.Split(id, ".")
	if len(segments) < 3 {
		return fmt.Errorf("id %q must have at least 3 dot-separated segments", id)
	}
	for i, segment := range segments {
		if err := validateIDSegment(segment, i > 0); err != nil {
			return fmt.Errorf("id %q: %w", id, err)
		}
	}
	return nil
}

func validateIDSegment(segment string, dashAllowed bool) error {
	if segment == "" {
		return fmt.Errorf("empty segment")
	}
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return fmt.Errorf("segment %q starts with a digit", segment)
			}
		case c == '-' && dashAllowed:
		default:
			return fmt.Errorf("segment %q contains invalid character %q", segment, c)
		}
	}
	return nil
}

// validateBranch checks a branch name: starts with an alphanumeric,
// continues with alphanumerics and . - _.
func validateBranch(branch string) error {
	if branch == "" {
		return fmt.Errorf("empty branch")
	}
	for i := 0; i < len(branch); i++ {
		c := branch[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case (c == '.' || c == '-' || c == '_') && i > 0:
		default:
			return fmt.Errorf("branch %q contains invalid character %q", branch, c)
		}
	}
	return nil
}
