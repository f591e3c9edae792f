package resolveenvelope

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suleymanmyradov/cerberus-gateway/internal/downstream"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/services"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/symmetric"
)

func newEnvelope(t *testing.T, origin *httptest.Server, key symmetric.Key) (*Envelope, *services.Registry) {
	t.Helper()
	reg := services.NewRegistry()
	require.NoError(t, reg.Insert(services.Service{Code: "svcA", URI: origin.URL, Symmetric: &key}))
	return &Envelope{Services: reg, Downstream: downstream.New()}, reg
}

func TestResolve_HappyPath_EchoesPongEncrypted(t *testing.T) {
	pool, err := symmetric.NewPool("256", 1_800_000)
	require.NoError(t, err)
	key, err := pool.GenerateNew()
	require.NoError(t, err)

	var engine symmetric.Engine

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		plain, err := engine.Decrypt(string(body), key)
		require.NoError(t, err)
		assert.Equal(t, "ping", string(plain))
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))

		cipher, err := engine.Encrypt([]byte("pong"), key)
		require.NoError(t, err)
		_, _ = w.Write([]byte(cipher))
	}))
	defer origin.Close()

	env, _ := newEnvelope(t, origin, key)

	requestCipher, err := engine.Encrypt([]byte("ping"), key)
	require.NoError(t, err)

	result, err := env.Resolve(context.Background(), "svcA", http.MethodPost, "echo", "", http.Header{}, []byte(requestCipher))
	require.NoError(t, err)

	plain, err := engine.Decrypt(string(result.Body), key)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(plain))

	sum := integrityHeaderValue([]byte("pong"))
	assert.Equal(t, sum, result.Headers.Get(IntegrityHeaderName))
}

func TestResolve_MissingServiceFails(t *testing.T) {
	env := &Envelope{Services: services.NewRegistry(), Downstream: downstream.New()}
	_, err := env.Resolve(context.Background(), "ghost", http.MethodPost, "echo", "", http.Header{}, nil)
	require.Error(t, err)
	apiErr := err.(*errs.ApiError)
	assert.Equal(t, errs.CodeServiceNotRegistered, apiErr.Code)
}

func TestResolve_MissingSymmetricKeyFails(t *testing.T) {
	reg := services.NewRegistry()
	require.NoError(t, reg.Insert(services.Service{Code: "svcA", URI: "http://origin"}))
	env := &Envelope{Services: reg, Downstream: downstream.New()}

	_, err := env.Resolve(context.Background(), "svcA", http.MethodPost, "echo", "", http.Header{}, nil)
	require.Error(t, err)
	apiErr := err.(*errs.ApiError)
	assert.Equal(t, errs.CodeSessionKeyMissing, apiErr.Code)
}

func TestResolve_OptionsIsMethodNotAllowed(t *testing.T) {
	pool, err := symmetric.NewPool("128", 1_800_000)
	require.NoError(t, err)
	key, err := pool.GenerateNew()
	require.NoError(t, err)

	reg := services.NewRegistry()
	require.NoError(t, reg.Insert(services.Service{Code: "svcA", URI: "http://origin", Symmetric: &key}))
	env := &Envelope{Services: reg, Downstream: downstream.New()}

	_, err = env.Resolve(context.Background(), "svcA", http.MethodOptions, "echo", "", http.Header{}, nil)
	require.Error(t, err)
	assert.Equal(t, errs.CodeInternal, err.(*errs.ApiError).Code)
}

func TestResolve_UnknownMethodFails(t *testing.T) {
	pool, err := symmetric.NewPool("128", 1_800_000)
	require.NoError(t, err)
	key, err := pool.GenerateNew()
	require.NoError(t, err)

	reg := services.NewRegistry()
	require.NoError(t, reg.Insert(services.Service{Code: "svcA", URI: "http://origin", Symmetric: &key}))
	env := &Envelope{Services: reg, Downstream: downstream.New()}

	_, err = env.Resolve(context.Background(), "svcA", "BREW", "echo", "", http.Header{}, nil)
	require.Error(t, err)
	assert.Equal(t, errs.CodeFuture, err.(*errs.ApiError).Code)
}

// A legitimate origin error status and body are copied through
// (re-encrypted), never rewritten to a gateway-side 502.
func TestResolve_OriginErrorStatusIsPreservedNotMaskedAs502(t *testing.T) {
	pool, err := symmetric.NewPool("128", 1_800_000)
	require.NoError(t, err)
	key, err := pool.GenerateNew()
	require.NoError(t, err)
	var engine symmetric.Engine

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cipher, encErr := engine.Encrypt([]byte("not found"), key)
		require.NoError(t, encErr)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(cipher))
	}))
	defer origin.Close()

	env, _ := newEnvelope(t, origin, key)

	cipher, err := engine.Encrypt([]byte("ping"), key)
	require.NoError(t, err)

	result, err := env.Resolve(context.Background(), "svcA", http.MethodPost, "echo", "", http.Header{}, []byte(cipher))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	plain, err := engine.Decrypt(string(result.Body), key)
	require.NoError(t, err)
	assert.Equal(t, "not found", string(plain))
}
