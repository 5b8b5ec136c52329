// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package dir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SystemDefaultID is the installation id of the default system-wide
// installation. Naming it explicitly with --installation is the same
// as passing --system.
const SystemDefaultID = "default"

// Installation is one root a command can operate against. Zero or
// more are resolved per invocation depending on the command's
// placement and the --user/--system/--installation selectors.
type Installation struct {
	id          string
	displayName string
	path        string
	user        bool
	priority    int

	repo *Repo
}

// ID returns the installation id: SystemDefaultID for the default
// system installation, "user" for the user installation, or the id
// declared in installations.d.
func (i *Installation) ID() string { return i.id }

// DisplayName returns the human-readable name shown in listings.
func (i *Installation) DisplayName() string { return i.displayName }

// Path returns the installation's root directory.
func (i *Installation) Path() string { return i.path }

// IsUser reports whether this is the per-user installation.
func (i *Installation) IsUser() bool { return i.user }

// LogID returns the identity recorded in (and matched against)
// operation log entries: "user", "system" for the default system
// installation, or the extra installation's id.
func (i *Installation) LogID() string {
	if i.user {
		return "user"
	}
	if i.id == SystemDefaultID {
		return "system"
	}
	return i.id
}

// Repo returns the installation's repository, or nil when the
// repository has not been opened (MaybeEnsureRepo on a root that has
// none yet).
func (i *Installation) Repo() *Repo { return i.repo }

// Locator resolves installations from the host configuration. The
// zero value is not usable; construct with NewLocator.
type Locator struct {
	systemPath string
	userPath   string
	configPath string
}

// NewLocator builds a Locator from the process environment.
// FLATPAK_SYSTEM_DIR, FLATPAK_USER_DIR, and FLATPAK_CONFIG_DIR
// override the conventional locations.
func NewLocator() *Locator {
	l := &Locator{
		systemPath: "/var/lib/flatpak",
		configPath: "/etc/flatpak",
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	l.userPath = filepath.Join(dataHome, "flatpak")

	if p := os.Getenv("FLATPAK_SYSTEM_DIR"); p != "" {
		l.systemPath = p
	}
	if p := os.Getenv("FLATPAK_USER_DIR"); p != "" {
		l.userPath = p
	}
	if p := os.Getenv("FLATPAK_CONFIG_DIR"); p != "" {
		l.configPath = p
	}
	return l
}

// SystemDefault returns the default system-wide installation.
func (l *Locator) SystemDefault() *Installation {
	return &Installation{
		id:          SystemDefaultID,
		displayName: "Default system installation",
		path:        l.systemPath,
	}
}

// User returns the per-user installation.
func (l *Locator) User() *Installation {
	return &Installation{
		id:          "user",
		displayName: "User installation",
		path:        l.userPath,
		user:        true,
	}
}

// SystemByID returns the system installation with the given id. The
// id SystemDefaultID resolves to the default installation; other ids
// are looked up in installations.d.
func (l *Locator) SystemByID(id string) (*Installation, error) {
	if id == SystemDefaultID {
		return l.SystemDefault(), nil
	}
	extras, err := l.listExtra()
	if err != nil {
		return nil, err
	}
	for _, installation := range extras {
		if installation.id == id {
			return installation, nil
		}
	}
	return nil, fmt.Errorf("no installation with id %q", id)
}

// SystemList returns every system-wide installation: the default
// first, then the extras from installations.d ordered by descending
// priority (ties broken by id).
func (l *Locator) SystemList() ([]*Installation, error) {
	extras, err := l.listExtra()
	if err != nil {
		return nil, err
	}
	return append([]*Installation{l.SystemDefault()}, extras...), nil
}

// installationFile is the on-disk schema of one installations.d entry.
type installationFile struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display-name"`
	Path        string `yaml:"path"`
	Priority    int    `yaml:"priority"`
}

// listExtra reads installations.d. A missing directory means no extra
// installations; a malformed file is an error rather than being
// silently skipped, so a typo does not make an installation vanish.
func (l *Locator) listExtra() ([]*Installation, error) {
	confDir := filepath.Join(l.configPath, "installations.d")
	entries, err := os.ReadDir(confDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", confDir, err)
	}

	var installations []*Installation
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(confDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var file installationFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if file.ID == "" || file.Path == "" {
			return nil, fmt.Errorf("%s: id and path are required", path)
		}
		if file.ID == SystemDefaultID || file.ID == "user" {
			return nil, fmt.Errorf("%s: id %q is reserved", path, file.ID)
		}
		displayName := file.DisplayName
		if displayName == "" {
			displayName = file.ID
		}
		installations = append(installations, &Installation{
			id:          file.ID,
			displayName: displayName,
			path:        file.Path,
			priority:    file.Priority,
		})
	}

	sort.SliceStable(installations, func(a, b int) bool {
		if installations[a].priority != installations[b].priority {
			return installations[a].priority > installations[b].priority
		}
		return installations[a].id < installations[b].id
	})
	return installations, nil
}
