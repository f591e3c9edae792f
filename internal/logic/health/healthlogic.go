package health

import (
	"context"

	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

// HealthLogic serves GET /health, a bare liveness probe.
type HealthLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHealthLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HealthLogic {
	return &HealthLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *HealthLogic) Health() (*types.HealthResponse, error) {
	return &types.HealthResponse{Status: "ok"}, nil
}
