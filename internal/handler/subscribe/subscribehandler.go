package subscribe

import (
	"net/http"

	subscribelogic "github.com/suleymanmyradov/cerberus-gateway/internal/logic/subscribe"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
)

// SubscribeHandler serves POST /subscribe: the response body is the
// signed service token as plain text, not JSON, unlike every other
// route on this gateway.
func SubscribeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := subscribelogic.NewSubscribeLogic(r.Context(), svcCtx)
		token, err := l.Subscribe(r.Body)
		if err != nil {
			errs.AsApiError(err).WriteResponse(w)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(token))
	}
}
