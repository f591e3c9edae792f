package resolve

import (
	"context"
	"net/http"

	"github.com/suleymanmyradov/cerberus-gateway/internal/resolveenvelope"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"

	"github.com/zeromicro/go-zero/core/logx"
)

// ResolveLogic serves the catch-all ANY /:service/resolve/*path route:
// the full request/response crypto envelope.
type ResolveLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewResolveLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ResolveLogic {
	return &ResolveLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ResolveLogic) Resolve(serviceCode, method, path, rawQuery string, headers http.Header, body []byte) (*resolveenvelope.Result, error) {
	result, err := l.svcCtx.Resolve.Resolve(l.ctx, serviceCode, method, path, rawQuery, headers, body)
	if err != nil {
		l.Errorf("resolve %s %s/%s failed: %v", method, serviceCode, path, err)
		return nil, err
	}
	return result, nil
}
