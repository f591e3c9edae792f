package passtoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateServiceToken_OwnedBySelf(t *testing.T) {
	reg := NewRegistry("ADMIN_CERBERUS")
	token, err := reg.CreateServiceToken()
	require.NoError(t, err)
	assert.Equal(t, "ADMIN_CERBERUS", token.Owner)
	assert.Equal(t, StatusActive, token.Status)
	assert.True(t, reg.SelfOwnerHasActiveToken())
}

func TestFindActive_UnknownIsNotFound(t *testing.T) {
	reg := NewRegistry("ADMIN_CERBERUS")
	assert.Equal(t, StatusNotFound, reg.FindActive("nope"))
}

func TestFindActive_PushedActiveToken(t *testing.T) {
	reg := NewRegistry("ADMIN_CERBERUS")
	reg.Push(Token{UUID: "11111111-1111-1111-1111-111111111111", Owner: "svcA", Status: StatusActive})
	assert.Equal(t, StatusActive, reg.FindActive("11111111-1111-1111-1111-111111111111"))
}

func TestDeprecate_Monotonic(t *testing.T) {
	reg := NewRegistry("ADMIN_CERBERUS")
	reg.Push(Token{UUID: "Q", Owner: "svcA", Status: StatusActive})

	token, ok, err := reg.Deprecate("Q")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusExposed, token.Status)
	assert.Equal(t, StatusExposed, reg.FindActive("Q"))

	// Further deprecation is a no-op on the status, still found.
	token2, ok, err := reg.Deprecate("Q")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusExposed, token2.Status)
	assert.Equal(t, StatusExposed, reg.FindActive("Q"))
}

func TestDeprecate_SelfOwnedMintsReplacement(t *testing.T) {
	reg := NewRegistry("ADMIN_CERBERUS")
	self, err := reg.CreateServiceToken()
	require.NoError(t, err)

	_, ok, err := reg.Deprecate(self.UUID)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, StatusExposed, reg.FindActive(self.UUID))
	assert.True(t, reg.SelfOwnerHasActiveToken())
}

func TestDeprecate_UnknownReturnsNotOK(t *testing.T) {
	reg := NewRegistry("ADMIN_CERBERUS")
	_, ok, err := reg.Deprecate("ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncludesActiveToken_FindsEmbeddedToken(t *testing.T) {
	reg := NewRegistry("ADMIN_CERBERUS")
	reg.Push(Token{UUID: "11111111-1111-1111-1111-111111111111", Owner: "svcA", Status: StatusActive})

	found, ok := reg.IncludesActiveToken("please use 11111111-1111-1111-1111-111111111111 to subscribe")
	assert.True(t, ok)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", found)
}

func TestIncludesActiveToken_IgnoresExposedTokens(t *testing.T) {
	reg := NewRegistry("ADMIN_CERBERUS")
	reg.Push(Token{UUID: "11111111-1111-1111-1111-111111111111", Owner: "svcA", Status: StatusExposed})

	_, ok := reg.IncludesActiveToken("11111111-1111-1111-1111-111111111111")
	assert.False(t, ok)
}
