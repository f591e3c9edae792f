package exception

import (
	"context"
	"net/http"

	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/internal/types"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"

	"github.com/zeromicro/go-zero/core/logx"
)

// ExceptionLogic serves GET /exception/:code, the lookup into the
// closed error-code registry.
type ExceptionLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewExceptionLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ExceptionLogic {
	return &ExceptionLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ExceptionLogic) Exception(code string) (*types.ExceptionResponse, error) {
	description, _, ok := errs.Lookup(errs.Code(code))
	if !ok {
		// An unknown code is a plain 404 with no Error-Code header:
		// the code the caller probed is not part of the taxonomy, so
		// there is nothing meaningful to put there.
		return nil, &errs.ApiError{HTTPStatus: http.StatusNotFound, Message: "Not found"}
	}
	return &types.ExceptionResponse{Code: code, Description: description}, nil
}
