package exception

import (
	"net/http"

	exceptionlogic "github.com/suleymanmyradov/cerberus-gateway/internal/logic/exception"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"

	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/go-zero/rest/pathvar"
)

func ExceptionHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := pathvar.Vars(r)["code"]

		l := exceptionlogic.NewExceptionLogic(r.Context(), svcCtx)
		resp, err := l.Exception(code)
		if err != nil {
			errs.AsApiError(err).WriteResponse(w)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
