package subscribe

import (
	"net/http"

	subscribelogic "github.com/suleymanmyradov/cerberus-gateway/internal/logic/subscribe"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
)

// RenoveHandler serves POST /renove: same wire shape as SubscribeHandler,
// re-signing only. A renewal acknowledges with 202, not 200.
func RenoveHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := subscribelogic.NewRenoveLogic(r.Context(), svcCtx)
		token, err := l.Renove(r.Body)
		if err != nil {
			errs.AsApiError(err).WriteResponse(w)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(token))
	}
}
