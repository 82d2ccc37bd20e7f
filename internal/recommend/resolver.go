package recommend

import (
	"strings"

	"github.com/talentsift/assessrec/internal/catalog"
)

// resolve maps a free-text candidate name to the closest catalog record by
// similarity against every index key, iterated in catalog order so that ties
// break on the first-encountered key. On a non-empty catalog it always
// returns a record: the upstream text is noisy, so resolution is best-effort
// by design. The caller decides whether to discard low-similarity matches.
func resolve(candidate string, store *catalog.Store) (*catalog.Assessment, float64) {
	target := strings.ToLower(strings.TrimSpace(candidate))

	bestScore := -1.0
	var bestKey string
	for _, key := range store.Names() {
		if score := similarity(key, target); score > bestScore {
			bestScore = score
			bestKey = key
		}
	}

	if bestKey == "" {
		return nil, 0
	}

	return store.NameIndex()[bestKey], bestScore
}

// similarity is the Ratcliff/Obershelp ratio: twice the number of characters
// in the longest matching blocks (found recursively) over the total length of
// both strings. 1 means identical, 0 means nothing in common.
func similarity(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)

	total := len(ar) + len(br)
	if total == 0 {
		return 1
	}

	return 2 * float64(matchingTotal(ar, br)) / float64(total)
}

func matchingTotal(a, b []rune) int {
	ai, bi, size := longestBlock(a, b)
	if size == 0 {
		return 0
	}

	return size +
		matchingTotal(a[:ai], b[:bi]) +
		matchingTotal(a[ai+size:], b[bi+size:])
}

// longestBlock finds the longest common contiguous block, preferring the
// earliest position in a on equal lengths.
func longestBlock(a, b []rune) (ai, bi, size int) {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				curr[j] = 0
				continue
			}
			curr[j] = prev[j-1] + 1
			if curr[j] > size {
				size = curr[j]
				ai = i - size
				bi = j - size
			}
		}
		prev, curr = curr, prev
	}

	return ai, bi, size
}
