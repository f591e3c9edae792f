package resolve

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/suleymanmyradov/cerberus-gateway/internal/downstream"
	"github.com/suleymanmyradov/cerberus-gateway/internal/svc"
	"github.com/suleymanmyradov/cerberus-gateway/internal/types"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/asymmetric"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/services"

	"github.com/zeromicro/go-zero/core/logx"
)

// KeyLogic serves GET /:service/key: the cached origin public key,
// re-fetched when missing or expired. It first checks the keychain
// cache (a pre-provisioned trust store an operator can populate) before
// falling back to a live HTTP call to the origin's end_point_key route,
// which returns the same {key, module, format, pass_phrase} shape
// GET /nodekey does.
type KeyLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewKeyLogic(ctx context.Context, svcCtx *svc.ServiceContext) *KeyLogic {
	return &KeyLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *KeyLogic) Key(serviceCode string) (*types.NodeKeyResponse, error) {
	rec, ok := l.svcCtx.Services.Find(serviceCode)
	if !ok {
		return nil, errs.New(errs.CodeServiceNotRegistered, "Service not defined.")
	}

	now := services.NowMS()
	if rec.Origin != nil && !rec.Origin.Expired(now) {
		return toNodeKeyResponse(rec.Origin.Public), nil
	}

	if l.svcCtx.Keychain != nil {
		if pem, err := l.svcCtx.Keychain.Load(l.ctx, serviceCode); err == nil {
			half := asymmetric.Half{PEM: pem, Module: "RSA", Format: "PKCS8"}
			l.cache(rec, half, now)
			return toNodeKeyResponse(half), nil
		}
	}

	half, err := l.fetchLive(rec)
	if err != nil {
		return nil, err
	}
	l.cache(rec, half, now)
	return toNodeKeyResponse(half), nil
}

func (l *KeyLogic) fetchLive(rec services.Service) (asymmetric.Half, error) {
	resp, err := l.svcCtx.Downstream.Do(l.ctx, downstream.Request{
		Method:  http.MethodGet,
		URL:     rec.URI + "/" + rec.EndPointKey,
		Headers: http.Header{},
	})
	if err != nil {
		return asymmetric.Half{}, errs.New(errs.CodeOriginBadResponse, err.Error())
	}
	if resp.StatusCode >= 400 {
		return asymmetric.Half{}, errs.New(errs.CodeOriginBadStatus, "")
	}

	var wire types.NodeKeyResponse
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return asymmetric.Half{}, errs.New(errs.CodeOriginKeyInvalid, err.Error())
	}
	return asymmetric.Half{PEM: []byte(wire.Key), Module: wire.Module, Format: wire.Format, Passphrase: wire.PassPhrase}, nil
}

func (l *KeyLogic) cache(rec services.Service, half asymmetric.Half, now uint64) {
	rec.Origin = &services.OriginKeyCache{Public: half, FetchedAt: now}
	l.svcCtx.Services.Update(rec)
}

func toNodeKeyResponse(half asymmetric.Half) *types.NodeKeyResponse {
	return &types.NodeKeyResponse{
		Key:        string(half.PEM),
		Module:     half.Module,
		Format:     half.Format,
		PassPhrase: half.Passphrase,
	}
}
