package subscribe

import (
	"context"
	"io"

	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"

	"github.com/zeromicro/go-zero/core/logx"
)

// RenoveLogic runs the same state machine as SubscribeLogic, but through
// Protocol.Renove, which re-signs without touching the stored Service
// record.
type RenoveLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewRenoveLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RenoveLogic {
	return &RenoveLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *RenoveLogic) Renove(body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	token, err := l.svcCtx.Subscribe.Renove(string(raw))
	if err != nil {
		l.Errorf("renove failed: %v", err)
		return "", err
	}
	return token, nil
}
