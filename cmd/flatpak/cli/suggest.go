// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

// Suggest returns the name of the registered command closest to the
// unknown input, or "" if nothing is close enough. "Close enough"
// means an edit distance of at most 3, which catches common typos
// (transpositions, dropped characters, extra characters). Deprecated
// commands are never suggested; resolving a typo to an alias kept
// only for compatibility would teach users the wrong name. Ties go
// to the earlier registration.
func (r *Registry) Suggest(unknown string) string {
	bestName := ""
	bestDistance := 4 // threshold: only suggest if distance <= 3

	for _, section := range r.Sections {
		for _, command := range section.Commands {
			if command.Deprecated {
				continue
			}
			distance := levenshtein(unknown, command.Name)
			if distance < bestDistance {
				bestDistance = distance
				bestName = command.Name
			}
		}
	}

	return bestName
}

// levenshtein computes the Levenshtein edit distance between two strings.
// This is the minimum number of single-character edits (insertions, deletions,
// or substitutions) required to change one string into the other.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Use a single row of the distance matrix, updated in place.
	// This is O(min(m,n)) space instead of O(m*n).
	if len(a) > len(b) {
		a, b = b, a
	}

	previous := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for j := 1; j <= len(b); j++ {
		current := make([]int, len(a)+1)
		current[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			deletion := previous[i] + 1
			insertion := current[i-1] + 1
			substitution := previous[i-1] + cost

			current[i] = min(deletion, min(insertion, substitution))
		}

		previous = current
	}

	return previous[len(a)]
}
