// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/spf13/pflag"

	"github.com/matthiasclasen/flatpak/lib/sysinfo"
	"github.com/matthiasclasen/flatpak/lib/version"
)

// GlobalParams are the options every invocation accepts, with or
// without a command.
type GlobalParams struct {
	// Help is set by --help or its hidden -? shorthand.
	Help bool

	// Verbose counts -v occurrences. One enables debug logging,
	// two or more also enables debug output from libraries.
	Verbose int

	// OSTreeVerbose enables diagnostics from the repository layer.
	OSTreeVerbose bool
}

// AddFlags implements [FlagBinder].
func (p *GlobalParams) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&p.Help, "help", "?", false, "Show help options")
	flags.Lookup("help").Hidden = true
	flags.CountVarP(&p.Verbose, "verbose", "v", "Show debug information, -vv for more detail")
	flags.BoolVar(&p.OSTreeVerbose, "ostree-verbose", false, "Show OSTree debug information")
}

// InfoParams are the informational flags that answer and exit without
// dispatching a command. They are only registered on the no-command
// parse: "flatpak install --version" treats --version as an unknown
// flag of the install command.
type InfoParams struct {
	Version         bool
	DefaultArch     bool
	SupportedArches bool
	GLDrivers       bool
	Installations   bool
}

// AddFlags implements [FlagBinder].
func (p *InfoParams) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&p.Version, "version", false, "Print version information and exit")
	flags.BoolVar(&p.DefaultArch, "default-arch", false, "Print default arch and exit")
	flags.BoolVar(&p.SupportedArches, "supported-arches", false, "Print supported arches and exit")
	flags.BoolVar(&p.GLDrivers, "gl-drivers", false, "Print active gl drivers and exit")
	flags.BoolVar(&p.Installations, "installations", false, "Print paths for system installations and exit")
}

// TargetParams are the installation selectors, registered only for
// commands whose placement is not NoTargets.
type TargetParams struct {
	// User selects the per-user installation.
	User bool

	// System selects the default system installation.
	System bool

	// Installations names extra system installations by id. The flag
	// repeats; order of use is preserved.
	Installations []string
}

// AddFlags implements [FlagBinder].
func (p *TargetParams) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&p.User, "user", false, "Work on the user installation")
	flags.BoolVar(&p.System, "system", false, "Work on the system-wide installation (default)")
	flags.StringArrayVar(&p.Installations, "installation", nil, "Work on a non-default system-wide installation")
}

// selectorCount is the number of distinct installations the selectors
// name, for the OneTarget conflict check. --system combined with
// --installation=default names the default root twice and counts once.
func (p *TargetParams) selectorCount() int {
	count := len(p.Installations)
	if p.User {
		count++
	}
	if p.System && !p.namesDefault() {
		count++
	}
	return count
}

func (p *TargetParams) namesDefault() bool {
	for _, id := range p.Installations {
		if id == "default" {
			return true
		}
	}
	return false
}

// GlobalFlags returns a fresh flag set holding only the global
// options, for help output.
func GlobalFlags() *pflag.FlagSet {
	var params GlobalParams
	flags := newFlagSet("global")
	params.AddFlags(flags)
	return flags
}

// InfoFlags returns a fresh flag set holding only the informational
// options, for help output.
func InfoFlags() *pflag.FlagSet {
	var params InfoParams
	flags := newFlagSet("info")
	params.AddFlags(flags)
	return flags
}

// TargetFlags returns a fresh flag set holding only the installation
// selectors, for help output.
func TargetFlags() *pflag.FlagSet {
	var params TargetParams
	flags := newFlagSet("target")
	params.AddFlags(flags)
	return flags
}

func infoVersion() string {
	return version.Full()
}

func infoDefaultArch() string {
	return sysinfo.DefaultArch()
}

func infoSupportedArches() []string {
	return sysinfo.SupportedArches()
}

func infoGLDrivers() []string {
	return sysinfo.GLDrivers()
}
