package nodekey

import (
	"context"

	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

// NodeKeyLogic serves GET /nodekey: the gateway's own public key
// material, so a prospective subscriber can asymmetrically encrypt its
// subscription envelope.
type NodeKeyLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewNodeKeyLogic(ctx context.Context, svcCtx *svc.ServiceContext) *NodeKeyLogic {
	return &NodeKeyLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *NodeKeyLogic) NodeKey() (*types.NodeKeyResponse, error) {
	half := l.svcCtx.State.Asymmetric.PublicHalf()
	return &types.NodeKeyResponse{
		Key:        string(half.PEM),
		Module:     half.Module,
		Format:     half.Format,
		PassPhrase: half.Passphrase,
	}, nil
}
