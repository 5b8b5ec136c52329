// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/matthiasclasen/flatpak/lib/dir"
)

// ResolveTargets turns the installation selectors into an ordered
// list of installations for the given placement.
//
// With no selectors set, OneTarget yields the default system
// installation, StandardTargets yields the default system and user
// installations, and AllTargets yields every discoverable
// installation: default system first, then user, then the extra
// system roots by priority.
//
// With selectors, --system's default root comes first, then --user's
// root, then the --installation roots in the order given. Naming the
// default root again with --installation=default adds it only when
// --system (or an earlier --installation=default) has not already.
func ResolveTargets(locator *dir.Locator, placement Placement, params TargetParams, prog string) ([]*dir.Installation, error) {
	if placement == NoTargets {
		return nil, nil
	}

	if placement == OneTarget && params.selectorCount() > 1 {
		return nil, usagef(prog, "Multiple installations specified for a command that works on one installation")
	}

	selected := params.System || params.User || len(params.Installations) > 0
	if !selected {
		switch placement {
		case AllTargets:
			return resolveAll(locator)
		case StandardTargets:
			return []*dir.Installation{locator.SystemDefault(), locator.User()}, nil
		default:
			return []*dir.Installation{locator.SystemDefault()}, nil
		}
	}

	var installations []*dir.Installation
	haveDefault := params.System

	if params.System {
		installations = append(installations, locator.SystemDefault())
	}

	if params.User {
		installations = append(installations, locator.User())
	}

	for _, id := range params.Installations {
		if id == dir.SystemDefaultID {
			if haveDefault {
				continue
			}
			installations = append(installations, locator.SystemDefault())
			haveDefault = true
			continue
		}
		installation, err := locator.SystemByID(id)
		if err != nil {
			return nil, fmt.Errorf("installation %q: %w", id, err)
		}
		installations = append(installations, installation)
	}

	return installations, nil
}

// resolveAll lists every discoverable installation for AllTargets
// commands invoked without selectors.
func resolveAll(locator *dir.Locator) ([]*dir.Installation, error) {
	system, err := locator.SystemList()
	if err != nil {
		return nil, err
	}

	// SystemList returns the default root first. The user root slots
	// in right after it, ahead of the extra system roots.
	installations := make([]*dir.Installation, 0, len(system)+1)
	installations = append(installations, system[0], locator.User())
	installations = append(installations, system[1:]...)
	return installations, nil
}
