package attempt

import "strings"

// DefaultSimilarityThreshold is the minimum similarity percentage for an
// open answer to count as correct.
const DefaultSimilarityThreshold = 80

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(ra)+1)
	cur := make([]int, len(ra)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(rb); i++ {
		cur[0] = i
		for j := 1; j <= len(ra); j++ {
			cost := 1
			if rb[i-1] == ra[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(ra)]
}

// Similarity returns (1 - distance/maxLen) * 100 over the trimmed,
// lower-cased strings. Two empty strings are identical.
func Similarity(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 100
	}
	return (1 - float64(Levenshtein(a, b))/float64(maxLen)) * 100
}

// CompareTextAnswers reports whether an open answer is close enough to the
// expected text. Both sides are trimmed and lower-cased. An empty expected
// answer never matches.
func CompareTextAnswers(user, correct string, threshold int) bool {
	u := normalize(user)
	c := normalize(correct)
	if c == "" {
		return false
	}
	maxLen := max(len([]rune(u)), len([]rune(c)))
	d := Levenshtein(u, c)
	// Integer form of Similarity >= threshold.
	return (maxLen-d)*100 >= threshold*maxLen
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
