// Package handler registers the gateway's routes onto the go-zero REST
// server: one RegisterHandlers(server, svcCtx) entry point that lists
// every rest.Route. Bearer routes are wrapped with
// middleware.Auth.Handle.
//
// The one exception is /:service/resolve/*path: go-zero's router
// has no catch-all segment, only literal segments and single ":name"
// placeholders, so a tail path of unknown depth can't be expressed as a
// rest.Route. ResolveNotFoundHandler mounts it instead as the server's
// not-found fallback via rest.WithNotFoundHandler, see cmd/gatewayapi.
package handler

import (
	"net/http"

	"github.com/suleymanmyradov/cerberus-gateway/internal/handler/exception"
	"github.com/suleymanmyradov/cerberus-gateway/internal/handler/health"
	"github.com/suleymanmyradov/cerberus-gateway/internal/handler/nodekey"
	"github.com/suleymanmyradov/cerberus-gateway/internal/handler/resolve"
	"github.com/suleymanmyradov/cerberus-gateway/internal/handler/subscribe"
	"github.com/suleymanmyradov/cerberus-gateway/internal/middleware"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

func RegisterHandlers(server *rest.Server, svcCtx *svc.ServiceContext) {
	routes := []rest.Route{
		{Method: http.MethodGet, Path: "/nodekey", Handler: middleware.ClientTracer(nodekey.NodeKeyHandler(svcCtx))},
		{Method: http.MethodPost, Path: "/subscribe", Handler: middleware.ClientTracer(subscribe.SubscribeHandler(svcCtx))},
		{Method: http.MethodPost, Path: "/renove", Handler: middleware.ClientTracer(subscribe.RenoveHandler(svcCtx))},
		{Method: http.MethodGet, Path: "/exception/:code", Handler: exception.ExceptionHandler(svcCtx)},
		{Method: http.MethodGet, Path: "/health", Handler: health.HealthHandler(svcCtx)},
		{Method: http.MethodGet, Path: "/:service/status", Handler: svcCtx.Auth.Handle(resolve.StatusHandler(svcCtx))},
		{Method: http.MethodGet, Path: "/:service/key", Handler: svcCtx.Auth.Handle(resolve.KeyHandler(svcCtx))},
	}

	server.AddRoutes(routes)
}

// ResolveNotFoundHandler returns the resolve catch-all, to be installed with
// rest.WithNotFoundHandler when the server is constructed (it must be
// built before the server so it can be passed in as a RunOption,
// instead of registered afterward through AddRoutes).
func ResolveNotFoundHandler(svcCtx *svc.ServiceContext) http.Handler {
	return resolve.ResolveHandler(svcCtx)
}
