package passtoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleToken = "11111111-1111-1111-1111-111111111111"

func TestFuzzyContains_Reflexive(t *testing.T) {
	assert.True(t, FuzzyContains(sampleToken, sampleToken))
}

func TestFuzzyContains_ReverseInvariant(t *testing.T) {
	assert.True(t, FuzzyContains(sampleToken, reverseString(sampleToken)))
}

func TestFuzzyContains_EmbeddedInArbitraryMessage(t *testing.T) {
	msg := "hey the pass token is 11111111-1111-1111-1111-111111111111 please keep it secret"
	assert.True(t, FuzzyContains(sampleToken, msg))
}

func TestFuzzyContains_CaseInsensitive(t *testing.T) {
	upper := "ABCDEF12-ABCD-ABCD-ABCD-ABCDEF123456"
	assert.True(t, FuzzyContains(upper, "TOKEN: abcdef12-abcd-abcd-abcd-abcdef123456 END"))
}

func TestFuzzyContains_ObfuscatedByInsertion(t *testing.T) {
	// insert noise characters between every character of the token
	obfuscated := "1x1x1x1x1x1x1x1x1x-x1x1x1x1x-x1x1x1x1x-x1x1x1x1x-x1x1x1x1x1x1x1x1x1x1x1x1x"
	assert.True(t, FuzzyContains(sampleToken, obfuscated))
}

func TestFuzzyContains_UnrelatedMessageDoesNotMatch(t *testing.T) {
	assert.False(t, FuzzyContains(sampleToken, "completely unrelated text with no resemblance"))
}

func TestFuzzyContains_EmptyTokenNeverMatches(t *testing.T) {
	assert.False(t, FuzzyContains("", "anything"))
}

func TestFuzzyContains_PartialSuffixAboveThreshold(t *testing.T) {
	// a long suffix of the token embedded verbatim should trip the >0.85 rule
	suffix := sampleToken[4:]
	assert.True(t, FuzzyContains(sampleToken, "prefix noise "+suffix+" trailing noise"))
}
