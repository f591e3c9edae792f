// Package types holds the wire DTOs exchanged across the gateway's HTTP
// surface. Field names that look like typos (symetric_key) are preserved
// verbatim: they are part of the wire contract, not a spelling mistake
// to fix.
package types

// NodeKeyResponse is the GET /nodekey response body.
type NodeKeyResponse struct {
	Key        string `json:"key"`
	Module     string `json:"module"`
	Format     string `json:"format"`
	PassPhrase string `json:"pass_phrase"`
}

// DtoSymmetricKey is the symmetric key half of a subscription envelope.
// Key is raw key bytes the caller must treat as opaque, not UTF-8 text.
type DtoSymmetricKey struct {
	Module  string `json:"module"`
	Key     string `json:"key"`
	Format  string `json:"format"`
	Expires uint64 `json:"expires"`
}

// DtoService is the payload recovered after asymmetrically decrypting a
// /subscribe or /renove request body.
type DtoService struct {
	Service        string          `json:"service"`
	PassKey        string          `json:"pass_key"`
	SymmetricKey   DtoSymmetricKey `json:"symetric_key"`
	Host           string          `json:"host"`
	EndPointStatus string          `json:"end_point_status"`
	EndPointKey    string          `json:"end_point_key"`
}

// SubscribeRequest is the outer, unencrypted envelope posted to
// /subscribe and /renove: payload is base64(RSA_encrypt(DtoService JSON)).
type SubscribeRequest struct {
	Payload string `json:"payload"`
}

// ExceptionResponse is the GET /exception/:code response body.
type ExceptionResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// HealthResponse is the GET /health response body.
type HealthResponse struct {
	Status string `json:"status"`
}

// CryptoRequest is the gateway's internal representation of a resolve
// request after symmetric decryption.
type CryptoRequest struct {
	Method  string
	Service string
	Path    string
	Query   map[string][]string
	Headers map[string][]string
	Body    []byte
}
