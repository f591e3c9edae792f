package resolve

import (
	"context"
	"fmt"
	"net/http"

	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/symmetric"

	"github.com/zeromicro/go-zero/core/logx"
)

// StatusLogic serves GET /:service/status: a probe of the origin's
// end_point_status route carried end-to-end through the same session
// symmetric key as a resolve call. The origin's body is discarded; a
// healthy origin yields a bare "Service up." acknowledgement, an
// unhealthy one yields the origin's status wrapped as a bad-status
// error.
type StatusLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewStatusLogic(ctx context.Context, svcCtx *svc.ServiceContext) *StatusLogic {
	return &StatusLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *StatusLogic) Status(serviceCode string) error {
	rec, ok := l.svcCtx.Services.Find(serviceCode)
	if !ok {
		return errs.New(errs.CodeServiceNotRegistered, "Service is not defined.")
	}
	if rec.Symmetric == nil {
		return errs.New(errs.CodeSessionKeyMissing, "")
	}
	if !rec.Symmetric.IsActive() {
		return errs.New(errs.CodeSessionKeyInactive, "")
	}

	probe, err := (symmetric.Engine{}).Encrypt(nil, *rec.Symmetric)
	if err != nil {
		return err
	}

	result, err := l.svcCtx.Resolve.Resolve(l.ctx, serviceCode, http.MethodGet, rec.EndPointStatus, "", nil, []byte(probe))
	if err != nil {
		return err
	}
	if result.StatusCode >= 300 {
		return errs.New(errs.CodeOriginBadStatus, fmt.Sprintf("Service bad status. Origin responded %d.", result.StatusCode))
	}
	return nil
}
