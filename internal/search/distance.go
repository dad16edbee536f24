package search

// substringDistance returns the smallest optimal string alignment distance
// between pattern and any substring of text. The first DP row is all zeros
// so a match may start at any text position, and the minimum is taken over
// the last row so it may end anywhere. Adjacent transpositions cost one
// edit, which keeps typos like "mlik" one edit away from "milk".
func substringDistance(pattern, text []rune) int {
	m, n := len(pattern), len(text)
	if m == 0 {
		return 0
	}

	prev2 := make([]int, n+1)
	prev := make([]int, n+1)
	cur := make([]int, n+1)

	for i := 1; i <= m; i++ {
		cur[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			best := prev[j-1] + cost
			if v := prev[j] + 1; v < best {
				best = v
			}
			if v := cur[j-1] + 1; v < best {
				best = v
			}
			if i > 1 && j > 1 && pattern[i-1] == text[j-2] && pattern[i-2] == text[j-1] {
				if v := prev2[j-2] + 1; v < best {
					best = v
				}
			}
			cur[j] = best
		}
		prev2, prev, cur = prev, cur, prev2
	}

	best := prev[0]
	for _, v := range prev[1:] {
		if v < best {
			best = v
		}
	}
	return best
}
