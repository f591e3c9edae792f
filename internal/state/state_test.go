package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suleymanmyradov/cerberus-gateway/pkg/passtoken"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/symmetric"
)

func TestInitialize_IsIdempotent(t *testing.T) {
	cfg := New()
	tokens := passtoken.NewRegistry("ADMIN_CERBERUS")
	pool, err := symmetric.NewPool("256", 1_800_000)
	require.NoError(t, err)

	first := cfg.Initialize("ADMIN_CERBERUS", tokens, nil, pool)
	assert.True(t, first)
	assert.True(t, cfg.Initialized())

	second := cfg.Initialize("OTHER_OWNER", passtoken.NewRegistry("OTHER_OWNER"), nil, pool)
	assert.False(t, second)
	assert.Equal(t, "ADMIN_CERBERUS", cfg.SelfOwner, "second initialize must not replace state")
}
