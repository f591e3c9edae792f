package passtoken

import "strings"

// fuzzyThreshold is the reconstructed-fragment-length ratio above which
// a partial match still counts as containment. This value, the
// reverse-sweep, and the case folding are part of the security contract
// and must not be "simplified."
const fuzzyThreshold = 0.85

// reconstruct returns the longest left-anchored prefix of target (case
// folded) that can be rebuilt by scanning message (case folded) left to
// right: each character of message either extends the current match
// (if it equals the next needed character of target) or is skipped.
func reconstruct(target, message string) string {
	lowerTarget := strings.ToLower(target)
	lowerMessage := strings.ToLower(message)

	matched := 0
	for _, c := range lowerMessage {
		if matched >= len(lowerTarget) {
			break
		}
		if rune(lowerTarget[matched]) == c {
			matched++
		}
	}
	return lowerTarget[:matched]
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// FuzzyContains reports whether token appears embedded in message under
// the fuzzy containment rule: token is considered present if its left-anchored
// reconstruction fully matches, if the reversed token's reconstruction
// fully matches, or if any suffix of the token (or its reversal)
// reconstructs a fragment whose length exceeds 85% of the token's
// length and which the token itself contains.
func FuzzyContains(token, message string) bool {
	if token == "" {
		return false
	}

	lowerToken := strings.ToLower(token)
	reversedToken := reverseString(lowerToken)

	if reconstruct(lowerToken, message) == lowerToken {
		return true
	}
	if reconstruct(reversedToken, message) == reversedToken {
		return true
	}

	for _, base := range [2]string{lowerToken, reversedToken} {
		reversedBase := base == reversedToken
		for k := 0; k < len(base); k++ {
			fragment := reconstruct(base[k:], message)
			if len(fragment) == 0 {
				continue
			}
			ratio := float64(len(fragment)) / float64(len(lowerToken))
			if ratio <= fuzzyThreshold {
				continue
			}
			// A fragment reconstructed from the reversed base is itself
			// reversed; flip it back to the token's own orientation
			// before testing containment, or this branch can never fire.
			candidate := fragment
			if reversedBase {
				candidate = reverseString(fragment)
			}
			if strings.Contains(lowerToken, candidate) {
				return true
			}
		}
	}

	return false
}
