// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/matthiasclasen/flatpak/lib/dir"
)

// CompleteArg is the reserved first token that switches an invocation
// into the completion protocol. The shell completion script calls
//
//	flatpak complete CUR PREV LINE
//
// and reads candidates one per line from stdout. The token is never
// listed in help; it is part of the wire protocol with the shell
// script, not the user-facing command set.
const CompleteArg = "complete"

// Completion is the context handed to completion handlers. Nothing
// in it logs: the only bytes allowed on stdout during completion are
// candidate words, and stderr noise breaks some shells' substitution.
type Completion struct {
	// Cur is the word being completed, possibly empty.
	Cur string

	// Prev is the word before the cursor, for handlers that complete
	// option values ("--installation <TAB>").
	Prev string

	// Argv is the shell-split command line with the program name
	// removed.
	Argv []string

	// Locator lets dynamic handlers enumerate installations, remotes,
	// and installed refs.
	Locator *dir.Locator

	out io.Writer
}

// NewCompletion builds a completion context from the three protocol
// arguments. The full line is split on shell rules (quotes respected,
// escapes honored) and the leading program token dropped.
func NewCompletion(cur, prev, line string) *Completion {
	words := splitShellWords(line)
	if len(words) > 0 {
		words = words[1:]
	}
	return &Completion{
		Cur:  cur,
		Prev: prev,
		Argv: words,
		out:  os.Stdout,
	}
}

// CompleteWord emits one candidate if it extends the word being
// completed. Candidates that do not start with Cur are dropped here
// so handlers can offer their full vocabulary unconditionally.
func (c *Completion) CompleteWord(word string) {
	if !strings.HasPrefix(word, c.Cur) {
		return
	}
	fmt.Fprintln(c.out, word)
}

// CompleteOptions emits every visible flag of the set as a candidate.
// Flags that take a value complete to "--name=" so the shell leaves
// the cursor ready for it; booleans and counts complete to "--name".
func (c *Completion) CompleteOptions(flags *pflag.FlagSet) {
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		switch flag.Value.Type() {
		case "bool", "count":
			c.CompleteWord("--" + flag.Name)
		default:
			c.CompleteWord("--" + flag.Name + "=")
		}
	})
}

// Complete runs the completion protocol for the three positional
// arguments following the reserved token. Errors from dynamic
// handlers are swallowed into an exit code: partially typed command
// lines routinely reference state that does not exist yet, and a
// stack trace in the middle of tab completion helps nobody.
func (r *Registry) Complete(cur, prev, line string) error {
	comp := NewCompletion(cur, prev, line)
	comp.Locator = r.Locator
	if r.Stdout != nil {
		comp.out = r.Stdout
	}

	name, _ := SplitCommand(comp.Argv)

	// The token being typed is not a committed command yet. Without
	// this, "flatpak hist<TAB>" would fail lookup on "hist" instead
	// of offering "history".
	if name == cur {
		name = ""
	}

	command := (*Command)(nil)
	if name != "" {
		command = r.Lookup(name)
	}

	if command == nil {
		for _, section := range r.Sections {
			for _, candidate := range section.Commands {
				if candidate.Deprecated {
					continue
				}
				comp.CompleteWord(candidate.Name)
			}
		}
		comp.CompleteOptions(GlobalFlags())
		comp.CompleteOptions(InfoFlags())
		comp.CompleteOptions(TargetFlags())
		return nil
	}

	if command.Complete != nil {
		if err := command.Complete(comp); err != nil {
			return &ExitError{Code: 1}
		}
		return nil
	}

	comp.CompleteOptions(GlobalFlags())
	return nil
}

// splitShellWords splits a command line the way a POSIX shell would
// tokenize it: whitespace separates words, single quotes preserve
// everything, double quotes preserve everything but allow backslash
// escapes, and an unquoted backslash escapes the next byte. An
// unterminated quote keeps the remainder as one word, matching what
// the shell hands us mid-edit.
func splitShellWords(line string) []string {
	var words []string
	var current strings.Builder
	inWord := false

	const (
		stateNone = iota
		stateSingle
		stateDouble
	)
	state := stateNone
	escaped := false

	for i := 0; i < len(line); i++ {
		ch := line[i]

		if escaped {
			current.WriteByte(ch)
			escaped = false
			continue
		}

		switch state {
		case stateSingle:
			if ch == '\'' {
				state = stateNone
			} else {
				current.WriteByte(ch)
			}
		case stateDouble:
			if ch == '"' {
				state = stateNone
			} else if ch == '\\' {
				escaped = true
			} else {
				current.WriteByte(ch)
			}
		default:
			switch ch {
			case '\'':
				state = stateSingle
				inWord = true
			case '"':
				state = stateDouble
				inWord = true
			case '\\':
				escaped = true
				inWord = true
			case ' ', '\t':
				if inWord {
					words = append(words, current.String())
					current.Reset()
					inWord = false
				}
			default:
				current.WriteByte(ch)
				inWord = true
			}
		}
	}

	if inWord {
		words = append(words, current.String())
	}
	return words
}
