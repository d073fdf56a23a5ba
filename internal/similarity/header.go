package similarity

import "github.com/extest/tablesim/internal/normalize"

// sequenceRatio implements the classical "gestalt pattern matching" ratio
// (2*M/(len(a)+len(b))) popularized by Python's difflib.SequenceMatcher,
// where M is the total length of matching blocks found by recursively
// splitting around each side's longest common substring.
func sequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	m := matchingBlockTotal(ra, rb)
	return 2 * float64(m) / float64(len(ra)+len(rb))
}

type span struct{ alo, ahi, blo, bhi int }

// matchingBlockTotal sums the sizes of the matching blocks difflib would
// report for ra vs rb: repeatedly find the longest common substring within
// the current window, then recurse on the pieces to its left and right.
func matchingBlockTotal(ra, rb []rune) int {
	total := 0
	stack := []span{{0, len(ra), 0, len(rb)}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		i, j, k := findLongestMatch(ra, rb, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		total += k
		stack = append(stack, span{s.alo, i, s.blo, j})
		stack = append(stack, span{i + k, s.ahi, j + k, s.bhi})
	}
	return total
}

// findLongestMatch locates the longest common contiguous run between
// ra[alo:ahi] and rb[blo:bhi] using the standard O(n*m)-worst-case
// dynamic-programming-by-rolling-map approach (difflib's find_longest_match,
// without the autojunk popularity heuristic: header token strings compared
// here are short enough that autojunk never triggers in the reference
// implementation either).
func findLongestMatch(ra, rb []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	b2j := make(map[rune][]int)
	for j := blo; j < bhi; j++ {
		b2j[rb[j]] = append(b2j[rb[j]], j)
	}

	besti, bestj, bestsize = alo, blo, 0
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[ra[i]] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}
	return besti, bestj, bestsize
}

// Header computes header_similarity(a,b) = max(SequenceRatio, Jaccard) over
// the tokenized header names (spec §4.2).
func Header(a, b string) float64 {
	ta := normalize.HeaderTokens(a)
	tb := normalize.HeaderTokens(b)

	seq := sequenceRatio(joinTokens(ta), joinTokens(tb))
	jacc := jaccard(ta, tb)
	if seq > jacc {
		return seq
	}
	return jacc
}

func joinTokens(tokens []string) string {
	out := ""
	for _, t := range tokens {
		out += t
	}
	return out
}

func jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}
	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
