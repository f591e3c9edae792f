package subscribe

import (
	"context"
	"io"

	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"

	"github.com/zeromicro/go-zero/core/logx"
)

// SubscribeLogic runs the subscribe state machine for a brand-new
// service: validate, decrypt, authorize, register, sign.
type SubscribeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewSubscribeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SubscribeLogic {
	return &SubscribeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *SubscribeLogic) Subscribe(body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	token, err := l.svcCtx.Subscribe.Subscribe(string(raw))
	if err != nil {
		l.Errorf("subscribe failed: %v", err)
		return "", err
	}
	return token, nil
}
