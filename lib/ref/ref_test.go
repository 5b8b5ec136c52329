// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Ref
	}{
		{
			input: "app/org.gnome.Builder/x86_64/stable",
			want:  Ref{Kind: App, ID: "org.gnome.Builder", Arch: "x86_64", Branch: "stable"},
		},
		{
			input: "runtime/org.freedesktop.Platform/aarch64/23.08",
			want:  Ref{Kind: Runtime, ID: "org.freedesktop.Platform", Arch: "aarch64", Branch: "23.08"},
		},
		{
			input: "app/org.mozilla.firefox/x86_64/master",
			want:  Ref{Kind: App, ID: "org.mozilla.firefox", Arch: "x86_64", Branch: "master"},
		},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
		if got.String() != tt.input {
			t.Errorf("Parse(%q).String() = %q", tt.input, got.String())
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"org.gnome.Builder",
		"app/org.gnome.Builder/x86_64",
		"app/org.gnome.Builder/x86_64/stable/extra",
		"application/org.gnome.Builder/x86_64/stable",
		"app/gnome/x86_64/stable",
		"app/org..Builder/x86_64/stable",
		"app/org.1gnome.Builder/x86_64/stable",
		"app/org.gnome.Builder//stable",
		"app/org.gnome.Builder/x86_64/",
		"app/org.gnome.Builder/x86_64/-stable",
		"app/org.gnome.Builder/x86_64/sta ble",
	}

	for _, input := range inputs {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		input string
		want  Ref
	}{
		{
			input: "org.gnome.Builder",
			want:  Ref{Kind: App, ID: "org.gnome.Builder", Arch: "x86_64", Branch: "master"},
		},
		{
			input: "org.gnome.Builder/aarch64",
			want:  Ref{Kind: App, ID: "org.gnome.Builder", Arch: "aarch64", Branch: "master"},
		},
		{
			input: "org.gnome.Builder//stable",
			want:  Ref{Kind: App, ID: "org.gnome.Builder", Arch: "x86_64", Branch: "stable"},
		},
		{
			input: "runtime/org.freedesktop.Platform/aarch64/23.08",
			want:  Ref{Kind: Runtime, ID: "org.freedesktop.Platform", Arch: "aarch64", Branch: "23.08"},
		},
		{
			input: "app/org.gnome.Builder",
			want:  Ref{Kind: App, ID: "org.gnome.Builder", Arch: "x86_64", Branch: "master"},
		},
	}

	for _, tt := range tests {
		got, err := Complete(tt.input, "x86_64")
		if err != nil {
			t.Errorf("Complete(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Complete(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestComplete_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"gnome",
		"org.gnome.Builder/x86_64/stable/extra",
	}
	for _, input := range inputs {
		if _, err := Complete(input, "x86_64"); err == nil {
			t.Errorf("Complete(%q) succeeded, want error", input)
		}
	}
}
