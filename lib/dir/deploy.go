// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package dir

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matthiasclasen/flatpak/lib/ref"
)

// Deploy is one installed ref: where it came from and which commit
// is active.
type Deploy struct {
	Ref      ref.Ref
	Origin   string    // remote name the ref was installed from
	Commit   string    // active commit id
	Deployed time.Time // when the active commit was deployed
}

// deployFile is the on-disk schema of a deploy marker.
type deployFile struct {
	Origin   string    `yaml:"origin"`
	Commit   string    `yaml:"commit"`
	Deployed time.Time `yaml:"deployed"`
}

// deployDir returns the directory holding one ref's deploy:
// <root>/<kind>/<id>/<arch>/<branch>.
func (i *Installation) deployDir(r ref.Ref) string {
	return filepath.Join(i.path, string(r.Kind), r.ID, r.Arch, r.Branch)
}

// Deploy records r as installed from origin at commit, replacing any
// previous deploy of the same ref.
func (i *Installation) Deploy(r ref.Ref, origin, commit string) error {
	path := i.deployDir(r)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("deploying %s: %w", r, err)
	}
	data, err := yaml.Marshal(&deployFile{Origin: origin, Commit: commit, Deployed: time.Now()})
	if err != nil {
		return fmt.Errorf("deploying %s: %w", r, err)
	}
	if err := os.WriteFile(filepath.Join(path, "deploy.yaml"), data, 0o644); err != nil {
		return fmt.Errorf("deploying %s: %w", r, err)
	}
	return nil
}

// Undeploy removes r's deploy. Removing a ref that is not deployed
// is an error.
func (i *Installation) Undeploy(r ref.Ref) error {
	path := i.deployDir(r)
	if _, err := os.Stat(filepath.Join(path, "deploy.yaml")); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s is not installed in the %s installation", r, i.LogID())
		}
		return fmt.Errorf("undeploying %s: %w", r, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("undeploying %s: %w", r, err)
	}
	// Prune now-empty parents up to the kind directory so a stale id
	// does not show up as an installed ref with no branches.
	for p := filepath.Dir(path); p != i.path; p = filepath.Dir(p) {
		if err := os.Remove(p); err != nil {
			break
		}
	}
	return nil
}

// Deployed returns the deploy of r, or false if r is not installed.
func (i *Installation) Deployed(r ref.Ref) (Deploy, bool) {
	data, err := os.ReadFile(filepath.Join(i.deployDir(r), "deploy.yaml"))
	if err != nil {
		return Deploy{}, false
	}
	var file deployFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Deploy{}, false
	}
	return Deploy{Ref: r, Origin: file.Origin, Commit: file.Commit, Deployed: file.Deployed}, true
}

// Deploys walks the deploy tree and returns every installed ref,
// apps before runtimes, each kind ordered by id/arch/branch (the
// walk order of the sorted directory listing).
func (i *Installation) Deploys() ([]Deploy, error) {
	var deploys []Deploy
	for _, kind := range []ref.Kind{ref.App, ref.Runtime} {
		kindDeploys, err := i.deploysForKind(kind)
		if err != nil {
			return nil, err
		}
		deploys = append(deploys, kindDeploys...)
	}
	return deploys, nil
}

func (i *Installation) deploysForKind(kind ref.Kind) ([]Deploy, error) {
	kindDir := filepath.Join(i.path, string(kind))
	ids, err := sortedSubdirs(kindDir)
	if err != nil {
		return nil, err
	}

	var deploys []Deploy
	for _, id := range ids {
		arches, err := sortedSubdirs(filepath.Join(kindDir, id))
		if err != nil {
			return nil, err
		}
		for _, arch := range arches {
			branches, err := sortedSubdirs(filepath.Join(kindDir, id, arch))
			if err != nil {
				return nil, err
			}
			for _, branch := range branches {
				r := ref.Ref{Kind: kind, ID: id, Arch: arch, Branch: branch}
				if deploy, ok := i.Deployed(r); ok {
					deploys = append(deploys, deploy)
				}
			}
		}
	}
	return deploys, nil
}

// sortedSubdirs lists the subdirectory names of path. A missing path
// yields an empty list: an installation with no deploys of some kind
// is normal.
func sortedSubdirs(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
