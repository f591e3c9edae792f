// Package passtoken implements the one-time pass-token registry: an
// ordered set of authorization tokens with ACTIVE/EXPOSED/EXPIRED
// states, fuzzy-containment leak detection, and the self-owner
// invariant (at least one ACTIVE token owned by the gateway itself at
// all times). Callers receive record copies, never references into the
// registry's internal storage.
package passtoken

import (
	"sync"

	"github.com/google/uuid"
)

// Status is a PassToken's place in its state machine. NOTFOUND is a
// sentinel returned only by lookups; it is never stored.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusExpired  Status = "EXPIRED"
	StatusExposed  Status = "EXPOSED"
	StatusNotFound Status = "NOTFOUND"
)

// Token is a one-time authorization identifier. Records are treated as
// values: callers receive copies, never references into the registry's
// internal slice.
type Token struct {
	UUID    string
	Owner   string
	Status  Status
	Message string
}

// Registry is the process-wide ordered set of pass tokens, protected by
// a single exclusive lock.
type Registry struct {
	mu        sync.Mutex
	tokens    []Token
	selfOwner string
}

// NewRegistry creates an empty registry for the given self-owner
// identity (e.g. "ADMIN_CERBERUS").
func NewRegistry(selfOwner string) *Registry {
	return &Registry{selfOwner: selfOwner}
}

// Push appends token with no uniqueness enforcement beyond the caller's
// own check, and returns it unchanged.
func (r *Registry) Push(token Token) Token {
	r.mu.Lock()
	r.tokens = append(r.tokens, token)
	r.mu.Unlock()
	return token
}

// CreateServiceToken mints a fresh UUIDv4, retrying on the (practically
// impossible) event of a collision with an existing token, inserts it
// owned by the registry's self-owner, and returns it.
func (r *Registry) CreateServiceToken() (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id string
	for {
		generated, err := uuid.NewRandom()
		if err != nil {
			return Token{}, err
		}
		id = generated.String()
		if !r.existsLocked(id) {
			break
		}
	}

	token := Token{UUID: id, Owner: r.selfOwner, Status: StatusActive}
	r.tokens = append(r.tokens, token)
	return token, nil
}

func (r *Registry) existsLocked(id string) bool {
	for _, t := range r.tokens {
		if t.UUID == id {
			return true
		}
	}
	return false
}

// Deprecate marks the token identified by id as EXPOSED. If it was
// self-owned, a replacement self-owned ACTIVE token is minted right
// after the status change, through CreateServiceToken, which takes the
// lock again; the two steps are separate critical sections. Returns the
// deprecated token and whether one was found.
func (r *Registry) Deprecate(id string) (Token, bool, error) {
	r.mu.Lock()

	var (
		found    Token
		ok       bool
		selfLost bool
	)
	for i := range r.tokens {
		if r.tokens[i].UUID == id {
			r.tokens[i].Status = StatusExposed
			found = r.tokens[i]
			ok = true
			selfLost = found.Owner == r.selfOwner
			break
		}
	}
	r.mu.Unlock()

	if !ok {
		return Token{}, false, nil
	}
	if selfLost {
		if _, err := r.CreateServiceToken(); err != nil {
			return found, true, err
		}
	}
	return found, true, nil
}

// FindActive reports the status of the token identified by id: ACTIVE
// if present and active, its current status otherwise, or NOTFOUND if
// no such token is registered.
func (r *Registry) FindActive(id string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.UUID == id {
			return t.Status
		}
	}
	return StatusNotFound
}

// IncludesActiveToken scans every ACTIVE token and returns the uuid of
// the first one whose value appears embedded in message under the fuzzy
// containment rule (see fuzzy.go).
func (r *Registry) IncludesActiveToken(message string) (string, bool) {
	r.mu.Lock()
	active := make([]Token, 0, len(r.tokens))
	for _, t := range r.tokens {
		if t.Status == StatusActive {
			active = append(active, t)
		}
	}
	r.mu.Unlock()

	for _, t := range active {
		if FuzzyContains(t.UUID, message) {
			return t.UUID, true
		}
	}
	return "", false
}

// SelfOwnerHasActiveToken reports whether the self-owner invariant
// currently holds. Exposed for tests and startup logging.
func (r *Registry) SelfOwnerHasActiveToken() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Owner == r.selfOwner && t.Status == StatusActive {
			return true
		}
	}
	return false
}
