// SPDX-License-Identifier: MPL-2.0

package plan

import "cookbook-cli/pkg/cookfile"

// closestName returns the defined recipe name nearest to the misspelled one,
// or empty when nothing is close enough to suggest.
func closestName(name cookfile.RecipeName, candidates []cookfile.RecipeName) cookfile.RecipeName {
	const maxDistance = 2

	var best cookfile.RecipeName
	bestDist := maxDistance + 1
	for _, c := range candidates {
		if d := editDistance(string(name), string(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
