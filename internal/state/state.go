// Package state implements Configuration, the process-wide singleton
// holding the gateway's self-owner identity, asymmetric key pair,
// symmetric key pool, and pass-token registry. Guarded with a mutex
// rather than a bare package-level var, since parts of it (pass-token
// statuses, the key pool) are mutated at runtime.
package state

import (
	"sync"

	"github.com/suleymanmyradov/cerberus-gateway/pkg/asymmetric"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/passtoken"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/symmetric"
)

// Configuration is initialized exactly once; Initialize is idempotent
// and a second call is a no-op.
type Configuration struct {
	mu          sync.Mutex
	initialized bool

	SelfOwner  string
	PassTokens *passtoken.Registry
	Asymmetric *asymmetric.Engine
	Symmetric  *symmetric.Pool
}

// New returns an uninitialized Configuration.
func New() *Configuration {
	return &Configuration{}
}

// Initialize installs the given components exactly once. Subsequent
// calls are no-ops and return false.
func (c *Configuration) Initialize(selfOwner string, tokens *passtoken.Registry, asym *asymmetric.Engine, sym *symmetric.Pool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return false
	}

	c.SelfOwner = selfOwner
	c.PassTokens = tokens
	c.Asymmetric = asym
	c.Symmetric = sym
	c.initialized = true
	return true
}

// Initialized reports whether Initialize has already run.
func (c *Configuration) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}
