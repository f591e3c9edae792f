// Package subscribeproto implements the subscription state machine:
// validate the raw wire message for an embedded, still-active pass
// token before anything else, then decrypt, authorize, register, and
// sign.
package subscribeproto

import (
	"encoding/base64"
	"encoding/json"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/suleymanmyradov/cerberus-gateway/internal/types"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/asymmetric"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/passtoken"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/services"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/symmetric"
)

// Protocol wires together the collaborators the subscribe/renove state
// machine needs: the gateway's own key pair, the pass-token registry,
// and the service registry.
type Protocol struct {
	Asymmetric     *asymmetric.Engine
	PassTokens     *passtoken.Registry
	Services       *services.Registry
	ExpiresRangeMS uint64
}

// Subscribe runs the full state machine: an unregistered service is
// expected, and a successful run inserts it.
func (p *Protocol) Subscribe(rawBody string) (string, error) {
	return p.run(rawBody, true)
}

// Renove re-signs a token for an already-registered service without
// touching its stored record or symmetric key.
func (p *Protocol) Renove(rawBody string) (string, error) {
	return p.run(rawBody, false)
}

func (p *Protocol) run(rawBody string, isSubscribe bool) (string, error) {
	// validate_message runs before decryption and before any Service
	// lookup: a raw payload that happens to embed a live pass token is
	// treated as exposure even if the envelope below turns out malformed.
	if uuid, found := p.PassTokens.IncludesActiveToken(rawBody); found {
		deprecated, ok, err := p.PassTokens.Deprecate(uuid)
		if err != nil {
			return "", err
		}
		if ok {
			logx.Infof("pass token %s exposed and deprecated, owner %s", deprecated.UUID, deprecated.Owner)
		}
		return "", errs.New(errs.CodePassExposed, "Key exposed. Key has been deprecated.")
	}

	var envelope types.SubscribeRequest
	if err := json.Unmarshal([]byte(rawBody), &envelope); err != nil {
		return "", errs.New(errs.CodeEnvelopeMalformed, "")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Payload)
	if err != nil {
		return "", errs.New(errs.CodeEnvelopeMalformed, "")
	}

	plaintext, err := p.Asymmetric.Decrypt(ciphertext)
	if err != nil {
		return "", errs.New(errs.CodeEnvelopeMalformed, "")
	}

	var dto types.DtoService
	if err := json.Unmarshal(plaintext, &dto); err != nil {
		return "", errs.New(errs.CodeEnvelopeMalformed, "")
	}

	if status := p.PassTokens.FindActive(dto.PassKey); status != passtoken.StatusActive {
		return "", errs.New(errs.CodePassUnauthorized, "Token is not authorized. Status: "+string(status))
	}

	if isSubscribe {
		if p.Services.Exists(dto.Service) {
			return "", errs.New(errs.CodeAlreadyRegistered, "")
		}

		symKey, err := buildSymmetricKey(dto.SymmetricKey)
		if err != nil {
			return "", err
		}

		if err := p.Services.Insert(services.Service{
			Code:             dto.Service,
			URI:              dto.Host,
			SubscriptionUUID: dto.PassKey,
			EndPointStatus:   dto.EndPointStatus,
			EndPointKey:      dto.EndPointKey,
			Symmetric:        &symKey,
		}); err != nil {
			return "", err
		}
	}

	token, err := p.Asymmetric.Sign(dto.Service, p.ExpiresRangeMS)
	if err != nil {
		return "", err
	}
	return token.Encode()
}

// buildSymmetricKey converts the wire DtoSymmetricKey into a pool Key.
// The key string carries raw key material, not text to be further
// decoded.
func buildSymmetricKey(dto types.DtoSymmetricKey) (symmetric.Key, error) {
	format, err := symmetric.ParseFormat(dto.Format)
	if err != nil {
		return symmetric.Key{}, errs.New(errs.CodeSymmetricFormat, err.Error())
	}
	return symmetric.Key{
		Module:    dto.Module,
		Format:    format,
		Raw:       []byte(dto.Key),
		Expires:   dto.Expires,
		Timestamp: services.NowMS(),
		Status:    symmetric.StatusActive,
	}, nil
}
