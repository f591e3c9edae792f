package resolve

import (
	"net/http"

	resolvelogic "github.com/suleymanmyradov/cerberus-gateway/internal/logic/resolve"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"

	"github.com/zeromicro/go-zero/rest/pathvar"
)

// StatusHandler acknowledges a healthy origin with 202 and a bare
// "Service up." body; the origin's own response body never reaches the
// caller on this route.
func StatusHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceCode := pathvar.Vars(r)["service"]

		l := resolvelogic.NewStatusLogic(r.Context(), svcCtx)
		if err := l.Status(serviceCode); err != nil {
			errs.AsApiError(err).WriteResponse(w)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("Service up."))
	}
}
