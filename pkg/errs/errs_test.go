package errs

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownCode(t *testing.T) {
	desc, status, ok := Lookup(CodeTokenExpired)
	require.True(t, ok)
	assert.NotEmpty(t, desc)
	assert.Equal(t, 401, status)
}

func TestLookup_UnknownCode(t *testing.T) {
	_, _, ok := Lookup(Code("NOPE999"))
	assert.False(t, ok)
}

func TestNew_UsesRegisteredDescriptionByDefault(t *testing.T) {
	err := New(CodeAlreadyRegistered, "")
	assert.Equal(t, 409, err.HTTPStatus)
	assert.Equal(t, "Service is already registered.", err.Message)
}

func TestNew_CustomMessageOverridesDefault(t *testing.T) {
	err := New(CodePassExposed, "pass token Q was exposed")
	assert.Equal(t, CodePassExposed, err.Code)
	assert.Equal(t, "pass token Q was exposed", err.Message)
}

func TestNew_UnregisteredCodeFallsBackToInternal(t *testing.T) {
	err := New(Code("UNREGISTERED"), "")
	assert.Equal(t, CodeInternal, err.Code)
}

func TestBootstrapError_UnwrapsCause(t *testing.T) {
	cause := assert.AnError
	err := Bootstrap("failed to load key", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to load key")
}

func TestAsApiError_PassesThroughApiError(t *testing.T) {
	original := New(CodeTokenExpired, "")
	assert.Same(t, original, AsApiError(original))
}

func TestAsApiError_WrapsPlainErrorAsInternal(t *testing.T) {
	err := AsApiError(errors.New("boom"))
	assert.Equal(t, CodeInternal, err.Code)
	assert.Equal(t, "boom", err.Message)
}

func TestApiError_WriteResponse_SetsErrorCodeHeaderAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	New(CodeSessionKeyInactive, "").WriteResponse(rec)

	assert.Equal(t, 403, rec.Code)
	assert.Equal(t, "CLIFB002", rec.Header().Get("Error-Code"))
	assert.Equal(t, "Symmetric key is not active.", rec.Body.String())
}

func TestApiError_WriteResponse_OmitsHeaderWithoutCode(t *testing.T) {
	rec := httptest.NewRecorder()
	(&ApiError{HTTPStatus: 404, Message: "Not found"}).WriteResponse(rec)

	assert.Equal(t, 404, rec.Code)
	_, present := rec.Header()["Error-Code"]
	assert.False(t, present)
}
