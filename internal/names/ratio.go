// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package names

// Ratio computes the gestalt pattern-matching similarity of two strings:
// twice the total length of matching blocks divided by the combined
// length. The matching blocks are found by repeatedly locating the
// longest common contiguous subsequence and recursing on the pieces to
// its left and right. Two empty strings score 1.0.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchingSize(ra, rb)
	return 2.0 * float64(matched) / float64(total)
}

// matchingSize returns the total length of all matching blocks between
// a and b.
func matchingSize(a, b []rune) int {
	// Positions of each rune in b, for the inner loop of longestMatch.
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	var recurse func(alo, ahi, blo, bhi int) int
	recurse = func(alo, ahi, blo, bhi int) int {
		i, j, k := longestMatch(a, b2j, alo, ahi, blo, bhi)
		if k == 0 {
			return 0
		}
		return k + recurse(alo, i, blo, j) + recurse(i+k, ahi, j+k, bhi)
	}
	return recurse(0, len(a), 0, len(b))
}

// longestMatch finds the longest block a[besti:besti+size] equal to
// b[bestj:bestj+size] within the given bounds. Among equally long
// blocks the earliest in a, then earliest in b, wins.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, size int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > size {
				besti, bestj, size = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, size
}
