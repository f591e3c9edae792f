// Package bootstrap is the gateway's environment-variable loader: it
// reads the domain configuration from the process environment and
// assembles the core components (state.Configuration, the asymmetric
// and symmetric engines, the pass-token registry, the service
// registry) before the listener binds. Any failure here is an
// AppError: the process must not start half-configured.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/suleymanmyradov/cerberus-gateway/internal/state"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/asymmetric"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/keychain"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/passtoken"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/services"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/symmetric"
)

// KnownService is a statically-configured service directory entry read
// from SERVICE_CODES / <SVC>_URI / <SVC>_STATUS / <SVC>_KEY. It is kept
// separate from services.Registry: a Service is only ever inserted
// there via a successful subscribe, so a pre-provisioned entry here is
// reference information for operators (startup logs), not a live
// registration — otherwise every first subscribe for a pre-listed code
// would fail as already registered.
type KnownService struct {
	Code           string
	URI            string
	EndPointStatus string
	EndPointKey    string
}

// Result bundles everything bootstrap assembles for internal/svc to wire
// into a ServiceContext.
type Result struct {
	State          *state.Configuration
	Services       *services.Registry
	Keychain       keychain.Provider
	ExpiresRangeMS uint64
	KnownServices  []KnownService
}

func env(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func requireEnv(name string) (string, error) {
	v, ok := env(name)
	if !ok {
		return "", errs.Bootstrap(fmt.Sprintf("missing required environment variable %s", name), nil)
	}
	return v, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadKeyPair reads the gateway's own PEM halves. KEY_PUBKEY_NAME and
// KEY_PRIKEY_NAME are exact file paths to two individually named files
// (not a directory of many keys keyed by name), so this reads them
// directly with os.ReadFile rather than through pkg/keychain.Provider —
// keychain.Provider's Load(name) contract fits the origin-key cache's
// "many keys, looked up by service code" shape, not two fixed paths.
func loadKeyPair() (asymmetric.KeyPair, error) {
	pubPath, err := requireEnv("KEY_PUBKEY_NAME")
	if err != nil {
		return asymmetric.KeyPair{}, err
	}
	privPath, err := requireEnv("KEY_PRIKEY_NAME")
	if err != nil {
		return asymmetric.KeyPair{}, err
	}
	module, _ := env("KEY_TYPE")
	if module == "" {
		module = "RSA"
	}
	format, _ := env("KEY_FORMAT")
	if format == "" {
		format = "PKCS1"
	}
	passphrase, _ := env("KEY_PASSPHRASE")

	pubPEM, err := os.ReadFile(pubPath)
	if err != nil {
		return asymmetric.KeyPair{}, errs.Bootstrap("failed to read KEY_PUBKEY_NAME", err)
	}
	privPEM, err := os.ReadFile(privPath)
	if err != nil {
		return asymmetric.KeyPair{}, errs.Bootstrap("failed to read KEY_PRIKEY_NAME", err)
	}

	return asymmetric.KeyPair{
		Public:  asymmetric.Half{PEM: pubPEM, Module: module, Format: format},
		Private: asymmetric.Half{PEM: privPEM, Module: module, Format: format, Passphrase: passphrase},
	}, nil
}

// loadKnownServices parses SERVICE_CODES and its per-code <SVC>_URI /
// <SVC>_STATUS / <SVC>_KEY triples into the static service directory.
func loadKnownServices() []KnownService {
	codes := splitList(os.Getenv("SERVICE_CODES"))
	out := make([]KnownService, 0, len(codes))
	for _, code := range codes {
		upper := strings.ToUpper(code)
		uri, _ := env(upper + "_URI")
		statusPath, _ := env(upper + "_STATUS")
		keyPath, _ := env(upper + "_KEY")
		out = append(out, KnownService{
			Code:           code,
			URI:            uri,
			EndPointStatus: statusPath,
			EndPointKey:    keyPath,
		})
	}
	return out
}

// seedPassTokens pre-populates the registry from PASS_TOKEN_OWNERS and
// each owner's <OWNER>_UUID, then enforces the self-owner invariant:
// at least one ACTIVE token owned by selfOwner must exist once
// bootstrap completes.
func seedPassTokens(registry *passtoken.Registry, selfOwner string) error {
	owners := splitList(os.Getenv("PASS_TOKEN_OWNERS"))
	for _, owner := range owners {
		uuidVal, ok := env(strings.ToUpper(owner) + "_UUID")
		if !ok {
			continue
		}
		registry.Push(passtoken.Token{UUID: uuidVal, Owner: owner, Status: passtoken.StatusActive})
	}

	if !registry.SelfOwnerHasActiveToken() {
		if _, err := registry.CreateServiceToken(); err != nil {
			return errs.Bootstrap("failed to mint initial self-owner pass token", err)
		}
	}
	return nil
}

// newKeychain selects the file- or S3-backed origin-key cache provider
// per KEYCHAIN_BACKEND ("file", the default, or "s3"). This is the
// provider /:service/key checks before falling back to a live fetch
// from the origin.
func newKeychain() keychain.Provider {
	backend, _ := env("KEYCHAIN_BACKEND")
	switch strings.ToLower(backend) {
	case "s3":
		bucket, _ := env("KEYCHAIN_S3_BUCKET")
		prefix, _ := env("KEYCHAIN_S3_PREFIX")
		return &keychain.S3Provider{Bucket: bucket, Path: prefix}
	default:
		dir, ok := env("KEYCHAIN_DIR")
		if !ok {
			dir = "./keys/origins"
		}
		return &keychain.FileProvider{Path: dir}
	}
}

// Load reads the full domain configuration from the process environment
// and assembles the gateway's core components. It never mutates global
// state; callers hand the Result to svc.NewServiceContext.
func Load(ctx context.Context) (*Result, error) {
	selfOwner, err := requireEnv("SELF_OWNER")
	if err != nil {
		return nil, err
	}

	pair, err := loadKeyPair()
	if err != nil {
		return nil, err
	}

	expiresRange, _ := env("EXPIRES_RANGE")
	expiresRangeMS, err := symmetric.ParseExpires(defaultIfEmpty(expiresRange, "1800000"))
	if err != nil {
		return nil, errs.Bootstrap("invalid EXPIRES_RANGE", err)
	}

	symFormat, _ := env("SYMM_KEY_FORMAT")
	symFormat = defaultIfEmpty(symFormat, "256")
	symExpiresRaw, _ := env("SYMM_EXPIRES")
	symExpires, err := symmetric.ParseExpires(defaultIfEmpty(symExpiresRaw, "1800000"))
	if err != nil {
		return nil, errs.Bootstrap("invalid SYMM_EXPIRES", err)
	}

	pool, err := symmetric.NewPool(symFormat, symExpires)
	if err != nil {
		return nil, errs.Bootstrap("invalid SYMM_KEY_FORMAT", err)
	}
	probeKey, err := pool.GenerateNew()
	if err != nil {
		return nil, errs.Bootstrap("failed to generate initial symmetric key", err)
	}
	if err := (symmetric.Engine{}).SelfTest(probeKey); err != nil {
		return nil, errs.Bootstrap("symmetric self-test failed", err)
	}

	engine, err := asymmetric.NewEngine(pair, expiresRangeMS)
	if err != nil {
		return nil, err
	}

	tokens := passtoken.NewRegistry(selfOwner)
	if err := seedPassTokens(tokens, selfOwner); err != nil {
		return nil, err
	}

	cfg := state.New()
	cfg.Initialize(selfOwner, tokens, engine, pool)

	return &Result{
		State:          cfg,
		Services:       services.NewRegistry(),
		Keychain:       newKeychain(),
		ExpiresRangeMS: expiresRangeMS,
		KnownServices:  loadKnownServices(),
	}, nil
}

func defaultIfEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
