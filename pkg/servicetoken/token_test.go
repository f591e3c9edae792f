package servicetoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() Payload {
	return Payload{Service: "billing", Expires: 1_000_000, Timestamp: 900_000}
}

func TestEncodeParse_RoundTrip_WithHash(t *testing.T) {
	token := ServiceToken{
		Sign:    []byte{0x01, 0x02, 0x03},
		Payload: samplePayload(),
		Hash:    []byte{0xAA, 0xBB},
	}

	raw, err := token.Encode()
	require.NoError(t, err)

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, token.Sign, parsed.Sign)
	assert.Equal(t, token.Payload, parsed.Payload)
	assert.Equal(t, token.Hash, parsed.Hash)
	assert.True(t, parsed.HasHash())
}

func TestEncodeParse_RoundTrip_WithoutHash(t *testing.T) {
	token := ServiceToken{Sign: []byte{0x09}, Payload: samplePayload()}

	raw, err := token.Encode()
	require.NoError(t, err)
	assert.Equal(t, 2, len(splitSemicolons(raw)))

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.False(t, parsed.HasHash())
	assert.Nil(t, parsed.Hash)
	assert.Equal(t, token.Payload, parsed.Payload)
}

func splitSemicolons(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == ';' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func TestParse_RejectsMalformed(t *testing.T) {
	cases := []string{"", "onlyonefragment", "a;b;c;d"}
	for _, c := range cases {
		_, err := Parse(c)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", c)
	}
}

func TestParse_RejectsBadBase64(t *testing.T) {
	_, err := Parse("not-base64!!;also-not-base64!!")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCanonicalJSON_IsDeterministic(t *testing.T) {
	p := samplePayload()
	a, err := p.CanonicalJSON()
	require.NoError(t, err)
	b, err := p.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, `{"service":"billing","expires":1000000,"timestamp":900000}`, string(a))
}

func TestAliveAt_Transitions(t *testing.T) {
	p := Payload{Service: "billing", Expires: 1_000_000, Timestamp: 900_000}

	assert.Equal(t, StatusAlive, p.AliveAt(999_999))
	assert.Equal(t, StatusAlive, p.AliveAt(1_000_000))
	assert.Equal(t, StatusNeedsRefresh, p.AliveAt(1_000_000+GraceWindowMS))
	assert.Equal(t, StatusExpired, p.AliveAt(1_000_000+GraceWindowMS+1))
}
