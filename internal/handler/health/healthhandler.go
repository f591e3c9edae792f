package health

import (
	"net/http"

	healthlogic "github.com/suleymanmyradov/cerberus-gateway/internal/logic/health"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := healthlogic.NewHealthLogic(r.Context(), svcCtx)
		resp, _ := l.Health()
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
