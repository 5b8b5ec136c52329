// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package dir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Remote is one configured source of applications and runtimes.
type Remote struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Title string `yaml:"title,omitempty"`
}

// repoConfig is the on-disk schema of a repository's config file.
type repoConfig struct {
	Remotes []Remote `yaml:"remotes"`
}

// Repo is an installation's backing repository: the remote
// configuration plus the deploy tree. All mutating methods persist
// immediately; there is no separate flush step, so early process
// exits cannot lose accepted changes.
type Repo struct {
	path   string
	config repoConfig
}

// EnsureRepo opens the installation's repository, creating the
// directory structure and an empty config on first use. Must be
// called (or MaybeEnsureRepo) before Repo returns non-nil.
func (i *Installation) EnsureRepo() error {
	repoPath := filepath.Join(i.path, "repo")
	if err := os.MkdirAll(repoPath, 0o755); err != nil {
		return fmt.Errorf("creating repository for %s installation: %w", i.LogID(), err)
	}
	repo, err := openRepo(repoPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(repo.configPath()); os.IsNotExist(err) {
		if err := repo.save(); err != nil {
			return err
		}
	}
	i.repo = repo
	return nil
}

// MaybeEnsureRepo opens the repository if one exists, and leaves
// Repo nil otherwise. Commands that only read (history, list) use
// this so that querying a never-initialized installation is not an
// error.
func (i *Installation) MaybeEnsureRepo() error {
	repoPath := filepath.Join(i.path, "repo")
	if _, err := os.Stat(repoPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking repository for %s installation: %w", i.LogID(), err)
	}
	repo, err := openRepo(repoPath)
	if err != nil {
		return err
	}
	i.repo = repo
	return nil
}

func openRepo(path string) (*Repo, error) {
	repo := &Repo{path: path}
	data, err := os.ReadFile(repo.configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return repo, nil
		}
		return nil, fmt.Errorf("reading %s: %w", repo.configPath(), err)
	}
	if err := yaml.Unmarshal(data, &repo.config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", repo.configPath(), err)
	}
	return repo, nil
}

func (r *Repo) configPath() string {
	return filepath.Join(r.path, "config.yaml")
}

func (r *Repo) save() error {
	data, err := yaml.Marshal(&r.config)
	if err != nil {
		return fmt.Errorf("encoding repository config: %w", err)
	}
	if err := os.WriteFile(r.configPath(), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", r.configPath(), err)
	}
	return nil
}

// Remotes returns the configured remotes in name order.
func (r *Repo) Remotes() []Remote {
	remotes := make([]Remote, len(r.config.Remotes))
	copy(remotes, r.config.Remotes)
	sort.Slice(remotes, func(a, b int) bool { return remotes[a].Name < remotes[b].Name })
	return remotes
}

// Remote returns the named remote, or false if not configured.
func (r *Repo) Remote(name string) (Remote, bool) {
	for _, remote := range r.config.Remotes {
		if remote.Name == name {
			return remote, true
		}
	}
	return Remote{}, false
}

// AddRemote adds a remote and persists the config. Adding a name
// that already exists is an error; use RemoveRemote first to replace.
func (r *Repo) AddRemote(remote Remote) error {
	if remote.Name == "" || remote.URL == "" {
		return fmt.Errorf("remote name and url are required")
	}
	if _, exists := r.Remote(remote.Name); exists {
		return fmt.Errorf("remote %s already exists", remote.Name)
	}
	r.config.Remotes = append(r.config.Remotes, remote)
	return r.save()
}

// RemoveRemote removes a remote and persists the config.
func (r *Repo) RemoveRemote(name string) error {
	for i, remote := range r.config.Remotes {
		if remote.Name == name {
			r.config.Remotes = append(r.config.Remotes[:i], r.config.Remotes[i+1:]...)
			return r.save()
		}
	}
	return fmt.Errorf("remote %s not found", name)
}
