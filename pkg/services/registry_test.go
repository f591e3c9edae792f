package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/symmetric"
)

func TestInsert_Uniqueness(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Insert(Service{Code: "svcA", URI: "http://a"}))

	err := reg.Insert(Service{Code: "svcA", URI: "http://other"})
	require.Error(t, err)

	apiErr, ok := err.(*errs.ApiError)
	require.True(t, ok)
	assert.Equal(t, errs.CodeAlreadyRegistered, apiErr.Code)

	svc, ok := reg.Find("svcA")
	require.True(t, ok)
	assert.Equal(t, "http://a", svc.URI, "no visible state change after a rejected insert")
}

func TestFind_UnknownService(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Find("ghost")
	assert.False(t, ok)
}

func TestCanServeResolve_RequiresActiveSymmetricKey(t *testing.T) {
	pool, err := symmetric.NewPool("256", 1_800_000)
	require.NoError(t, err)
	key, err := pool.GenerateNew()
	require.NoError(t, err)

	withKey := Service{Code: "svcA", Symmetric: &key}
	assert.True(t, withKey.CanServeResolve())

	withoutKey := Service{Code: "svcB"}
	assert.False(t, withoutKey.CanServeResolve())
}

func TestUpdate_ReplacesRecord(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Insert(Service{Code: "svcA", URI: "http://a"}))

	reg.Update(Service{Code: "svcA", URI: "http://a-v2"})

	svc, ok := reg.Find("svcA")
	require.True(t, ok)
	assert.Equal(t, "http://a-v2", svc.URI)
}
