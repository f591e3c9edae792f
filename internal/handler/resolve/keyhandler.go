package resolve

import (
	"net/http"

	resolvelogic "github.com/suleymanmyradov/cerberus-gateway/internal/logic/resolve"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"

	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/go-zero/rest/pathvar"
)

func KeyHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceCode := pathvar.Vars(r)["service"]

		l := resolvelogic.NewKeyLogic(r.Context(), svcCtx)
		resp, err := l.Key(serviceCode)
		if err != nil {
			errs.AsApiError(err).WriteResponse(w)
			return
		}
		httpx.WriteJsonCtx(r.Context(), w, http.StatusAccepted, resp)
	}
}
