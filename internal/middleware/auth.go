// Package middleware implements the gateway's auth middleware:
// verification of the bearer service token on every protected route,
// with a silent refresh attached once the inner handler has produced
// its response.
package middleware

import (
	"context"
	"net/http"

	"github.com/suleymanmyradov/cerberus-gateway/pkg/asymmetric"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/servicetoken"
)

// PassTokenHeader is the process-wide header carrying the bearer
// service token.
const PassTokenHeader = "pass-token"

type ctxKey string

// ServiceCtxKey is where the verified token's service id is stashed in
// the request context for downstream handlers. The resolve, status, and
// key routes take the service code from the URL path instead.
const ServiceCtxKey ctxKey = "service"

// Auth is the bearer-token middleware, bound to the gateway's
// asymmetric engine for verify/refresh.
type Auth struct {
	Engine *asymmetric.Engine
}

// NewAuth builds an Auth middleware around engine.
func NewAuth(engine *asymmetric.Engine) *Auth {
	return &Auth{Engine: engine}
}

// refreshWriter defers attaching the Set-Cookie refresh header until the
// instant the wrapped ResponseWriter actually commits its header, so the
// cookie is attached after the inner handler has produced its response
// even though net/http requires headers to be mutated before the status
// line is written.
type refreshWriter struct {
	http.ResponseWriter
	cookie string
}

func (w *refreshWriter) flushCookie() {
	if w.cookie != "" {
		w.Header().Set("Set-Cookie", w.cookie)
		w.cookie = ""
	}
}

func (w *refreshWriter) WriteHeader(status int) {
	w.flushCookie()
	w.ResponseWriter.WriteHeader(status)
}

func (w *refreshWriter) Write(b []byte) (int, error) {
	w.flushCookie()
	return w.ResponseWriter.Write(b)
}

// Handle verifies the pass-token header before invoking next, and
// attaches a refresh cookie if the token was within its grace window.
func (a *Auth) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(PassTokenHeader)
		if raw == "" {
			errs.New(errs.CodeTokenNotFound, "Token not found").WriteResponse(w)
			return
		}

		refresh, err := a.Engine.Verify(raw)
		if err != nil {
			errs.AsApiError(err).WriteResponse(w)
			return
		}

		ctx := r.Context()
		if token, parseErr := servicetoken.Parse(raw); parseErr == nil {
			ctx = context.WithValue(ctx, ServiceCtxKey, token.Payload.Service)
		}

		ww := &refreshWriter{ResponseWriter: w}
		if refresh != nil {
			if raw2, encErr := refresh.Encode(); encErr == nil {
				ww.cookie = PassTokenHeader + "=" + raw2
			}
		}

		next(ww, r.WithContext(ctx))
	}
}

// ServiceFromContext returns the service id stashed by Handle, if any.
func ServiceFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ServiceCtxKey).(string)
	return v, ok
}
