package nodekey

import (
	"net/http"

	nodekeylogic "github.com/suleymanmyradov/cerberus-gateway/internal/logic/nodekey"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func NodeKeyHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := nodekeylogic.NewNodeKeyLogic(r.Context(), svcCtx)
		resp, err := l.NodeKey()
		if err != nil {
			errs.AsApiError(err).WriteResponse(w)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
