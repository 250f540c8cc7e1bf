// Package suggest finds the closest known names to a misspelled one.
package suggest

import (
	"slices"

	"github.com/agnivade/levenshtein"
)

// Closest returns the candidates at the smallest edit distance from name,
// sorted. Candidates farther than maxDistance are never returned.
func Closest(name string, candidates []string, maxDistance int) []string {
	closest := []string{}
	best := maxDistance + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		switch {
		case d < best:
			closest = []string{c}
			best = d
		case d == best:
			closest = append(closest, c)
		}
	}
	slices.Sort(closest)
	return closest
}
