// Package resolveenvelope implements the reverse-proxy envelope: decrypt
// the inbound body with the service's session symmetric key, forward to
// the origin, re-encrypt the response, and recompute the integrity
// header on both legs.
package resolveenvelope

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/suleymanmyradov/cerberus-gateway/internal/downstream"
	"github.com/suleymanmyradov/cerberus-gateway/internal/types"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/services"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/symmetric"
)

// bearerHeader is stripped before forwarding to the origin: the origin
// has no use for the gateway's own auth token.
const bearerHeader = "pass-token"

// IntegrityHeaderName is the header carrying SHA256;<base64> over a
// plaintext body, attached to every request and response leg.
const IntegrityHeaderName = "crypto-integrity"

// Envelope wires together the collaborators the resolve path needs.
type Envelope struct {
	Services   *services.Registry
	Symmetric  symmetric.Engine
	Downstream *downstream.Client
}

// Result is the response the gateway hands back to the client: status,
// headers (including a recomputed integrity header), and the
// session-key-encrypted body.
type Result struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

func methodAllowed(method string) error {
	switch method {
	case http.MethodOptions, http.MethodTrace:
		return errs.New(errs.CodeInternal, "Method not allowed yet.")
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return nil
	default:
		return errs.New(errs.CodeFuture, "Method not found")
	}
}

// Resolve runs the full request/response envelope for one resolve call.
func (e *Envelope) Resolve(ctx context.Context, serviceCode, method, path, rawQuery string, headers http.Header, encryptedBody []byte) (*Result, error) {
	if err := methodAllowed(method); err != nil {
		return nil, err
	}

	svc, ok := e.Services.Find(serviceCode)
	if !ok {
		return nil, errs.New(errs.CodeServiceNotRegistered, "Service is not defined.")
	}
	if svc.Symmetric == nil {
		return nil, errs.New(errs.CodeSessionKeyMissing, "")
	}
	if !svc.Symmetric.IsActive() {
		return nil, errs.New(errs.CodeSessionKeyInactive, "")
	}
	sessionKey := *svc.Symmetric

	plaintext, err := e.Symmetric.Decrypt(string(encryptedBody), sessionKey)
	if err != nil {
		return nil, err
	}

	cryptoReq := types.CryptoRequest{
		Method:  method,
		Service: serviceCode,
		Path:    path,
		Query:   parseQuery(rawQuery),
		Headers: headers,
		Body:    plaintext,
	}

	forwardBody, err := e.Symmetric.Encrypt(cryptoReq.Body, sessionKey)
	if err != nil {
		return nil, err
	}

	downstreamHeaders := cloneNonBearerHeaders(cryptoReq.Headers)
	downstreamHeaders.Set("Content-Type", "text/plain")
	downstreamHeaders.Set(IntegrityHeaderName, integrityHeaderValue(cryptoReq.Body))

	upstreamURL := strings.TrimRight(svc.URI, "/") + "/" + strings.TrimLeft(cryptoReq.Path, "/")
	if rawQuery != "" {
		upstreamURL += "?" + rawQuery
	}

	resp, err := e.Downstream.Do(ctx, downstream.Request{
		Method:  cryptoReq.Method,
		URL:     upstreamURL,
		Headers: downstreamHeaders,
		Body:    []byte(forwardBody),
	})
	if err != nil {
		return nil, errs.New(errs.CodeOriginBadResponse, err.Error())
	}

	// The origin's status is passed through unchanged, success or
	// failure: the gateway copies status and headers and decrypts the
	// body regardless of status, it never substitutes its own status
	// for the origin's.
	originPlaintext, err := e.Symmetric.Decrypt(string(resp.Body), sessionKey)
	if err != nil {
		return nil, err
	}

	clientCiphertext, err := e.Symmetric.Encrypt(originPlaintext, sessionKey)
	if err != nil {
		return nil, err
	}

	respHeaders := resp.Headers.Clone()
	if respHeaders == nil {
		respHeaders = make(http.Header)
	}
	respHeaders.Set(IntegrityHeaderName, integrityHeaderValue(originPlaintext))

	return &Result{StatusCode: resp.StatusCode, Headers: respHeaders, Body: []byte(clientCiphertext)}, nil
}

func integrityHeaderValue(plaintext []byte) string {
	sum := sha256.Sum256(plaintext)
	return "SHA256;" + base64.StdEncoding.EncodeToString(sum[:])
}

func parseQuery(raw string) map[string][]string {
	result := make(map[string][]string)
	if raw == "" {
		return result
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		key := kv[0]
		value := ""
		if len(kv) == 2 {
			value = kv[1]
		}
		result[key] = append(result[key], value)
	}
	return result
}

func cloneNonBearerHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if strings.EqualFold(k, bearerHeader) {
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}
