package textmatch

// Levenshtein computes the classic edit distance between a and b using the
// two-row dynamic program.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	previous := make([]int, len(rb)+1)
	current := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		previous[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		current[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			current[j] = min3(
				previous[j]+1,      // deletion
				current[j-1]+1,     // insertion
				previous[j-1]+cost, // substitution
			)
		}
		previous, current = current, previous
	}

	return previous[len(rb)]
}

// Similarity converts edit distance to a [0,1] score. Two empty strings are
// fully similar.
func Similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	return clamp01(float64(maxLen-Levenshtein(a, b)) / float64(maxLen))
}

// Jaro computes the Jaro similarity between a and b with the standard match
// window of max(len)/2 - 1 and half-weighted transpositions.
func Jaro(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	window := maxInt(len(ra), len(rb))/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, len(ra))
	bMatched := make([]bool, len(rb))
	matches := 0

	for i := range ra {
		low := maxInt(0, i-window)
		high := minInt(len(rb)-1, i+window)
		for j := low; j <= high; j++ {
			if bMatched[j] || ra[i] != rb[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	j := 0
	for i := range ra {
		if !aMatched[i] {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if ra[i] != rb[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions) / 2.0
	return clamp01((m/float64(len(ra)) + m/float64(len(rb)) + (m-t)/m) / 3.0)
}

// JaroWinkler boosts Jaro similarity by the shared prefix (capped at 4 runes)
// using the standard 0.1 scaling factor.
func JaroWinkler(a, b string) float64 {
	jaro := Jaro(a, b)

	ra := []rune(a)
	rb := []rune(b)
	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && prefix < 4 && ra[prefix] == rb[prefix] {
		prefix++
	}

	return clamp01(jaro + 0.1*float64(prefix)*(1.0-jaro))
}

// Jaccard computes keyword-overlap similarity between two token sets.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}

	setA := make(map[string]struct{}, len(a))
	for _, token := range a {
		setA[token] = struct{}{}
	}

	union := make(map[string]struct{}, len(a)+len(b))
	for token := range setA {
		union[token] = struct{}{}
	}

	intersection := 0
	for _, token := range b {
		if _, dup := union[token]; dup {
			if _, inA := setA[token]; inA {
				intersection++
				// Count each shared token once.
				delete(setA, token)
			}
		}
		union[token] = struct{}{}
	}

	if len(union) == 0 {
		return 0.0
	}
	return clamp01(float64(intersection) / float64(len(union)))
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func min3(a, b, c int) int {
	return minInt(a, minInt(b, c))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
