// Package svc wires the gateway's core components into the go-zero
// ServiceContext every handler/logic pair receives: the Config plus one
// field per collaborator, assembled once in NewServiceContext.
package svc

import (
	"github.com/suleymanmyradov/cerberus-gateway/internal/bootstrap"
	"github.com/suleymanmyradov/cerberus-gateway/internal/config"
	"github.com/suleymanmyradov/cerberus-gateway/internal/downstream"
	"github.com/suleymanmyradov/cerberus-gateway/internal/middleware"
	"github.com/suleymanmyradov/cerberus-gateway/internal/resolveenvelope"
	"github.com/suleymanmyradov/cerberus-gateway/internal/state"
	"github.com/suleymanmyradov/cerberus-gateway/internal/subscribeproto"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/keychain"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/services"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/symmetric"
)

// ServiceContext bundles the configuration and collaborators every
// handler needs, constructed once at startup and shared (read-only)
// across every request goroutine.
type ServiceContext struct {
	Config config.Config

	State    *state.Configuration
	Services *services.Registry
	Keychain keychain.Provider

	Auth       *middleware.Auth
	Subscribe  *subscribeproto.Protocol
	Resolve    *resolveenvelope.Envelope
	Downstream *downstream.Client

	KnownServices []bootstrap.KnownService
}

// NewServiceContext assembles a ServiceContext from the go-zero REST
// config and the domain state bootstrap.Load produced.
func NewServiceContext(c config.Config, boot *bootstrap.Result) *ServiceContext {
	client := downstream.New()

	return &ServiceContext{
		Config:   c,
		State:    boot.State,
		Services: boot.Services,
		Keychain: boot.Keychain,

		Auth: middleware.NewAuth(boot.State.Asymmetric),
		Subscribe: &subscribeproto.Protocol{
			Asymmetric:     boot.State.Asymmetric,
			PassTokens:     boot.State.PassTokens,
			Services:       boot.Services,
			ExpiresRangeMS: boot.ExpiresRangeMS,
		},
		Resolve: &resolveenvelope.Envelope{
			Services:   boot.Services,
			Symmetric:  symmetric.Engine{},
			Downstream: client,
		},
		Downstream:    client,
		KnownServices: boot.KnownServices,
	}
}
