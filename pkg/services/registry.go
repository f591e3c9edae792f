// Package services implements the ServiceRegistry: a process-wide map
// from service code to Service record, with an atomic exists-then-insert
// critical section so concurrent subscribes can never double-register a
// code. Callers receive record copies, never references into the map.
package services

import (
	"sync"
	"time"

	"github.com/suleymanmyradov/cerberus-gateway/pkg/asymmetric"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/symmetric"
)

// OriginKeyTTLMS is how long a cached origin public key is served
// before /:service/key re-fetches it. The wire response carries no
// expiry of its own (unlike the gateway's own AsymmetricKeyPair, whose
// PublicExpires is internal-only), so the gateway applies its own fixed
// cache lifetime here.
const OriginKeyTTLMS uint64 = 600_000

// OriginKeyCache holds a fetched origin public key alongside the time it
// was fetched, so /:service/key can decide whether to re-fetch.
type OriginKeyCache struct {
	Public    asymmetric.Half
	FetchedAt uint64
}

// Expired reports whether the cache entry is older than OriginKeyTTLMS.
func (c OriginKeyCache) Expired(nowMS uint64) bool {
	return nowMS >= c.FetchedAt+OriginKeyTTLMS
}

// Service is one subscribed downstream's record.
type Service struct {
	Code             string
	URI              string
	SubscriptionUUID string
	EndPointStatus   string
	EndPointKey      string
	Origin           *OriginKeyCache
	Symmetric        *symmetric.Key
}

// CanServeResolve reports whether this service has an ACTIVE symmetric
// session key on file; only then may resolve calls be served.
func (s Service) CanServeResolve() bool {
	return s.Symmetric != nil && s.Symmetric.IsActive()
}

// Registry is the process-wide ServiceRegistry singleton, protected by a
// single exclusive lock.
type Registry struct {
	mu       sync.Mutex
	services map[string]Service
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[string]Service)}
}

// Exists reports whether code is already registered.
func (r *Registry) Exists(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.services[code]
	return ok
}

// Insert registers svc under svc.Code. The existence check and the
// insert happen in the same critical section: a concurrent Insert for
// the same code cannot slip in between the check and the write.
func (r *Registry) Insert(svc Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[svc.Code]; ok {
		return errs.New(errs.CodeAlreadyRegistered, "")
	}
	r.services[svc.Code] = svc
	return nil
}

// Update replaces the stored record for svc.Code unconditionally. Used
// by the resolve path to cache a freshly fetched origin public key.
func (r *Registry) Update(svc Service) {
	r.mu.Lock()
	r.services[svc.Code] = svc
	r.mu.Unlock()
}

// Find returns a copy of the record for code, if present.
func (r *Registry) Find(code string) (Service, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[code]
	return svc, ok
}

// NowMS is exported for callers stamping OriginKeyCache.FetchedAt.
func NowMS() uint64 { return uint64(time.Now().UnixMilli()) }
