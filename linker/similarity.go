package linker

// overlapScore counts shared stems between two stem sets and converts the
// overlap to a 0-100 confidence. The denominator is the smaller set, so a
// short quote fully contained in a longer one still scores high.
func overlapScore(a, b []string) (overlap, confidence int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0
	}

	set := make(map[string]bool, len(a))
	for _, stem := range a {
		set[stem] = true
	}
	for _, stem := range b {
		if set[stem] {
			overlap++
		}
	}

	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	return overlap, 100 * overlap / minLen
}
