package resolve

import (
	"io"
	"net/http"
	"strings"

	resolvelogic "github.com/suleymanmyradov/cerberus-gateway/internal/logic/resolve"
	"github.com/suleymanmyradov/cerberus-gateway/internal/resolveenvelope"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
)

// ResolveHandler serves every method and every path depth under
// /:service/resolve/*path. go-zero's router trie only matches
// literal segments and single ":name" placeholders — it has no
// catch-all for a tail of unknown depth, so this route cannot be
// registered as an ordinary rest.Route the way /:service/status and
// /:service/key are. Instead it is mounted as the go-zero server's
// not-found fallback (see handler.ResolveNotFoundHandler /
// rest.WithNotFoundHandler in cmd/gatewayapi) and parses the service
// code and tail path itself out of the raw request URL. Anything that
// doesn't match the /{service}/resolve/{tail...} shape falls through to
// a plain 404, the same outcome the router gives any other unregistered
// path.
func ResolveHandler(svcCtx *svc.ServiceContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serviceCode, path, ok := splitResolvePath(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		svcCtx.Auth.Handle(resolveInner(svcCtx, serviceCode, path))(w, r)
	})
}

// splitResolvePath recognizes /{service}/resolve/{tail...}, where tail
// may itself contain further slashes. It returns ok=false for anything
// shorter (no tail segment at all) or whose second segment isn't
// "resolve".
func splitResolvePath(urlPath string) (service, path string, ok bool) {
	trimmed := strings.TrimPrefix(urlPath, "/")
	segments := strings.SplitN(trimmed, "/", 3)
	if len(segments) < 3 || segments[0] == "" || segments[1] != "resolve" {
		return "", "", false
	}
	return segments[0], segments[2], true
}

func resolveInner(svcCtx *svc.ServiceContext, serviceCode, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			errs.AsApiError(err).WriteResponse(w)
			return
		}

		l := resolvelogic.NewResolveLogic(r.Context(), svcCtx)
		result, err := l.Resolve(serviceCode, r.Method, path, r.URL.RawQuery, r.Header, body)
		if err != nil {
			errs.AsApiError(err).WriteResponse(w)
			return
		}
		writeResult(w, result)
	}
}

func writeResult(w http.ResponseWriter, result *resolveenvelope.Result) {
	for key, values := range result.Headers {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	status := result.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(result.Body)
}
