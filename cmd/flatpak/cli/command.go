// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/matthiasclasen/flatpak/lib/dir"
)

// Placement declares how many installations a command operates on.
// Exactly one placement applies per command; the zero value is
// NoTargets for commands (like search) that never touch a root.
type Placement int

const (
	// NoTargets means the command takes no installation at all and
	// the target-selection flags are not registered for it.
	NoTargets Placement = iota

	// OneTarget means the command works on exactly one installation
	// and conflicting selectors are a usage error.
	OneTarget

	// StandardTargets means the command works on the installations
	// the selectors name, defaulting to the default system root.
	StandardTargets

	// AllTargets is StandardTargets plus: with no selectors at all,
	// every discoverable installation is included.
	AllTargets
)

// Command is one entry in the registry.
type Command struct {
	// Name is the command token as typed by the user.
	Name string

	// Summary is the one-line description in the top-level help.
	Summary string

	// Description is the longer text shown in the command's own help.
	Description string

	// Usage is the usage line (e.g. "flatpak install REMOTE REF…").
	// Synthesized from Name if empty.
	Usage string

	// Placement declares the command's installation arity.
	Placement Placement

	// OptionalRepo makes target resolution tolerate installations
	// whose repository was never initialized (read-only commands).
	OptionalRepo bool

	// Deprecated hides the command from help and typo suggestions.
	// It stays dispatchable: deprecated entries are aliases kept
	// for compatibility, like "remove" for "uninstall".
	Deprecated bool

	// Flags returns the command's own flag set. Called per dispatch;
	// nil means the command adds no flags of its own.
	Flags func() *pflag.FlagSet

	// Run executes the command. The invocation carries the parsed
	// positional arguments and the resolved installations.
	Run func(ctx context.Context, inv *Invocation) error

	// Complete emits completion candidates for this command. Nil
	// means only the option names are offered.
	Complete func(comp *Completion) error
}

// Section groups commands under a help heading. Headings are a
// presentation detail: lookup and suggestion iterate the commands of
// every section in registration order.
type Section struct {
	Title    string
	Commands []*Command
}

// Invocation is the per-dispatch state handed to a command. It
// replaces process-global option variables: everything a handler may
// consult is threaded through here.
type Invocation struct {
	// Prog is the program name including the command ("flatpak
	// history"), used in usage hints.
	Prog string

	// Args holds the positional arguments left after flag parsing,
	// with the command token already removed.
	Args []string

	// Installations are the resolved targets, in placement order
	// (default system installation first). Empty for NoTargets
	// commands.
	Installations []*dir.Installation

	// Locator resolves further installations on demand.
	Locator *dir.Locator

	// Logger is the invocation's diagnostic logger, configured from
	// the --verbose count.
	Logger *slog.Logger

	// RepoLogger is the logger for the repository subsystem, enabled
	// by --ostree-verbose independently of the main verbosity.
	RepoLogger *slog.Logger

	// Stdout is where command output goes.
	Stdout io.Writer
}

// Usagef builds a usage error whose hint references this invocation's
// program name.
func (inv *Invocation) Usagef(format string, args ...any) error {
	return usagef(inv.Prog, format, args...)
}

// Registry is the static command table plus the process-wide output
// streams. Immutable after construction.
type Registry struct {
	// Prog is the bare program name ("flatpak").
	Prog string

	// Sections is the sectioned command table.
	Sections []Section

	// Locator resolves installations for target selection.
	Locator *dir.Locator

	// Stdout and Stderr default to the process streams; tests
	// substitute buffers.
	Stdout io.Writer
	Stderr io.Writer
}

func (r *Registry) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Registry) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// Lookup returns the command with exactly the given name, deprecated
// entries included, or nil.
func (r *Registry) Lookup(name string) *Command {
	for _, section := range r.Sections {
		for _, command := range section.Commands {
			if command.Name == name {
				return command
			}
		}
	}
	return nil
}

// SplitCommand separates the first non-flag token (the command name)
// from args, preserving every other token in its original relative
// order. Flag-like tokens before the command therefore reach the
// same parse pass as flags after it.
func SplitCommand(args []string) (name string, rest []string) {
	rest = make([]string, 0, len(args))
	for _, arg := range args {
		if name == "" && !strings.HasPrefix(arg, "-") {
			name = arg
			continue
		}
		rest = append(rest, arg)
	}
	return name, rest
}

// Dispatch routes the raw argument vector (without the program name)
// to a command. Errors are returned, not printed; main owns
// presentation and the exit code.
func (r *Registry) Dispatch(ctx context.Context, args []string) error {
	name, rest := SplitCommand(args)

	if name == "" {
		return r.runEmpty(rest)
	}

	command := r.Lookup(name)
	if command == nil {
		message := fmt.Sprintf("%q is not a flatpak command", name)
		if suggestion := r.Suggest(name); suggestion != "" {
			message = fmt.Sprintf("%s. Did you mean %q?", message, suggestion)
		}
		return &NotFoundError{
			Message: message,
			Hint:    fmt.Sprintf("See '%s --help'", r.Prog),
		}
	}

	return r.runCommand(ctx, command, rest)
}

// runEmpty handles an invocation with no command: the informational
// flags (--version and friends) answer and exit successfully, a help
// flag prints the summary, anything else is "no command specified".
func (r *Registry) runEmpty(args []string) error {
	var global GlobalParams
	var info InfoParams

	flags := newFlagSet(r.Prog)
	global.AddFlags(flags)
	info.AddFlags(flags)
	if err := flags.Parse(args); err != nil {
		return usagef(r.Prog, "%s", err)
	}

	if global.Help {
		r.PrintUsage(r.stdout())
		return nil
	}
	if handled, err := r.printInfo(info); handled || err != nil {
		return err
	}
	return usagef(r.Prog, "No command specified")
}

// runCommand composes the option layers, parses, resolves targets,
// and invokes the handler.
func (r *Registry) runCommand(ctx context.Context, command *Command, args []string) error {
	prog := r.Prog + " " + command.Name

	var global GlobalParams
	var target TargetParams

	flags := newFlagSet(prog)
	if command.Placement != NoTargets {
		target.AddFlags(flags)
	}
	if command.Flags != nil {
		mergeFlags(flags, command.Flags())
	}
	global.AddFlags(flags)

	if err := flags.Parse(args); err != nil {
		return usagef(prog, "%s", err)
	}

	if global.Help {
		r.PrintCommandHelp(r.stdout(), command)
		return nil
	}

	inv := &Invocation{
		Prog:       prog,
		Args:       flags.Args(),
		Locator:    r.Locator,
		Logger:     NewLogger(global.Verbose),
		RepoLogger: NewRepoLogger(global.OSTreeVerbose),
		Stdout:     r.stdout(),
	}

	if command.Placement != NoTargets {
		installations, err := ResolveTargets(r.Locator, command.Placement, target, prog)
		if err != nil {
			return err
		}
		for _, installation := range installations {
			if command.OptionalRepo {
				err = installation.MaybeEnsureRepo()
			} else {
				err = installation.EnsureRepo()
			}
			if err != nil {
				return err
			}
			inv.Logger.Debug("resolved installation",
				"id", installation.LogID(),
				"path", installation.Path(),
			)
		}
		inv.Installations = installations
	}

	return command.Run(ctx, inv)
}

// printInfo answers whichever informational flag is set. Reports
// whether one was handled; the caller then stops without dispatching
// any command.
func (r *Registry) printInfo(info InfoParams) (bool, error) {
	out := r.stdout()
	switch {
	case info.Version:
		fmt.Fprintln(out, infoVersion())
	case info.DefaultArch:
		fmt.Fprintln(out, infoDefaultArch())
	case info.SupportedArches:
		for _, arch := range infoSupportedArches() {
			fmt.Fprintln(out, arch)
		}
	case info.GLDrivers:
		for _, driver := range infoGLDrivers() {
			fmt.Fprintln(out, driver)
		}
	case info.Installations:
		installations, err := r.Locator.SystemList()
		if err != nil {
			return false, err
		}
		for _, installation := range installations {
			fmt.Fprintln(out, installation.Path())
		}
	default:
		return false, nil
	}
	return true, nil
}

// PrintUsage writes the top-level help: usage line, the sectioned
// command summary with deprecated entries omitted, and the shared
// option layers.
func (r *Registry) PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage:\n  %s [OPTION…] COMMAND\n", r.Prog)

	fmt.Fprintf(w, "\nBuiltin Commands:\n")
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for _, section := range r.Sections {
		if section.Title != "" {
			fmt.Fprintf(tw, " %s\t\n", section.Title)
		}
		for _, command := range section.Commands {
			if command.Deprecated {
				continue
			}
			fmt.Fprintf(tw, "  %s\t%s\n", command.Name, command.Summary)
		}
	}
	tw.Flush()

	printFlagSection(w, "Global Options", GlobalFlags())
	printFlagSection(w, "Informational Options", InfoFlags())
	printFlagSection(w, "Installation Options", TargetFlags())

	fmt.Fprintf(w, "\nRun '%s COMMAND --help' for more information on a command.\n", r.Prog)
}

// PrintCommandHelp writes one command's help: description, usage, its
// own flags, and the shared option layers it accepts.
func (r *Registry) PrintCommandHelp(w io.Writer, command *Command) {
	if command.Description != "" {
		fmt.Fprintf(w, "%s\n\n", command.Description)
	} else if command.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", command.Summary)
	}

	if command.Usage != "" {
		fmt.Fprintf(w, "Usage:\n  %s\n", command.Usage)
	} else {
		fmt.Fprintf(w, "Usage:\n  %s %s [OPTION…]\n", r.Prog, command.Name)
	}

	if command.Flags != nil {
		printFlagSection(w, "Options", command.Flags())
	}
	if command.Placement != NoTargets {
		printFlagSection(w, "Installation Options", TargetFlags())
	}
	printFlagSection(w, "Global Options", GlobalFlags())
}

func printFlagSection(w io.Writer, title string, flags *pflag.FlagSet) {
	usages := flags.FlagUsages()
	if usages == "" {
		return
	}
	fmt.Fprintf(w, "\n%s:\n%s", title, usages)
}

// newFlagSet builds an empty flag set with the framework defaults:
// errors are returned rather than printed, and usage output is
// suppressed since the registry formats its own messages.
func newFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.Usage = func() {}
	flags.SortFlags = false
	return flags
}

// mergeFlags copies every flag of src into dst. A name collision
// between option layers is a bug in the command table, not user
// input, so it panics like duplicate registration on a single set
// would.
func mergeFlags(dst, src *pflag.FlagSet) {
	src.VisitAll(func(flag *pflag.Flag) {
		if dst.Lookup(flag.Name) != nil {
			panic(fmt.Sprintf("flag --%s registered by two option layers", flag.Name))
		}
		dst.AddFlag(flag)
	})
}
