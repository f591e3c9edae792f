// Package servicetoken implements the canonical signed service-token
// format: a payload (service id, timestamps, expiry), an asymmetric
// signature, and an optional integrity hash, serialized as
// "[hash64;]sign64;payload64". It owns only the wire codec and the
// payload's canonical JSON encoding; signing and verification live in
// pkg/asymmetric, which needs the private/public key material this
// package does not have.
package servicetoken

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// GraceWindowMS is the number of milliseconds past a token's expiry
// during which verification still succeeds but a refreshed token should
// be issued. Fixed at 240 seconds per the gateway's token lifecycle.
const GraceWindowMS uint64 = 240_000

// Payload is the signed body of a ServiceToken. Field order is pinned
// (service, expires, timestamp) and the struct carries no extra fields,
// so encoding/json's deterministic struct marshaling produces the same
// canonical bytes on the signing side and the verifying side.
type Payload struct {
	Service   string `json:"service"`
	Expires   uint64 `json:"expires"`
	Timestamp uint64 `json:"timestamp"`
}

// CanonicalJSON returns the exact bytes that must be signed, hashed, and
// re-derived at verification time. No insignificant whitespace, fixed
// field order.
func (p Payload) CanonicalJSON() ([]byte, error) {
	return json.Marshal(p)
}

// Status describes where a payload's expiry sits relative to now.
type Status int

const (
	// StatusAlive means now <= expires.
	StatusAlive Status = iota
	// StatusNeedsRefresh means now is past expires but within GraceWindowMS.
	StatusNeedsRefresh
	// StatusExpired means now is past expires by more than GraceWindowMS.
	StatusExpired
)

// AliveAt evaluates the payload's lifetime against nowMs, applying the
// grace window past expiry.
func (p Payload) AliveAt(nowMs uint64) Status {
	if nowMs <= p.Expires {
		return StatusAlive
	}
	if nowMs-p.Expires <= GraceWindowMS {
		return StatusNeedsRefresh
	}
	return StatusExpired
}

// ErrMalformed is returned when a token string does not parse into the
// "[hash64;]sign64;payload64" shape.
var ErrMalformed = fmt.Errorf("servicetoken: malformed token string")

// ServiceToken is the canonical signed bearer: a signature over
// Payload's canonical JSON, the payload itself, and an optional
// integrity hash (the encrypted SHA-256 of that same JSON).
type ServiceToken struct {
	Sign    []byte
	Payload Payload
	Hash    []byte // nil when absent
}

// HasHash reports whether this token carries an integrity hash.
func (t ServiceToken) HasHash() bool { return t.Hash != nil }

// String serializes the token to its canonical wire form. Returns an
// empty string if the payload cannot be marshaled, which cannot happen
// for a well-formed Payload — callers that need the error should call
// Encode instead.
func (t ServiceToken) String() string {
	s, err := t.Encode()
	if err != nil {
		return ""
	}
	return s
}

// Encode serializes the token to "[hash64;]sign64;payload64".
func (t ServiceToken) Encode() (string, error) {
	payloadJSON, err := t.Payload.CanonicalJSON()
	if err != nil {
		return "", fmt.Errorf("servicetoken: encode payload: %w", err)
	}

	sign64 := base64.StdEncoding.EncodeToString(t.Sign)
	payload64 := base64.StdEncoding.EncodeToString(payloadJSON)

	if t.Hash != nil {
		hash64 := base64.StdEncoding.EncodeToString(t.Hash)
		return strings.Join([]string{hash64, sign64, payload64}, ";"), nil
	}
	return strings.Join([]string{sign64, payload64}, ";"), nil
}

// Parse decodes a wire-form token string. Any structural failure maps to
// ErrMalformed so callers can translate it to errs.CodeTokenMalformed.
//
// Parsing splits on ";" and conceptually pops fragments from the right:
// the rightmost fragment is always the payload, the next is always the
// signature, and a third (leftmost) fragment, if present, is the
// integrity hash.
func Parse(raw string) (ServiceToken, error) {
	fragments := strings.Split(raw, ";")
	if len(fragments) < 2 || len(fragments) > 3 {
		return ServiceToken{}, ErrMalformed
	}

	reversed := make([]string, len(fragments))
	for i, f := range fragments {
		reversed[len(fragments)-1-i] = f
	}

	payload64, sign64 := reversed[0], reversed[1]
	var hash64 string
	hasHash := len(reversed) == 3
	if hasHash {
		hash64 = reversed[2]
	}

	payloadJSON, err := base64.StdEncoding.DecodeString(payload64)
	if err != nil {
		return ServiceToken{}, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}
	sign, err := base64.StdEncoding.DecodeString(sign64)
	if err != nil {
		return ServiceToken{}, fmt.Errorf("%w: signature: %v", ErrMalformed, err)
	}

	var payload Payload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return ServiceToken{}, fmt.Errorf("%w: payload json: %v", ErrMalformed, err)
	}

	token := ServiceToken{Sign: sign, Payload: payload}
	if hasHash {
		hash, err := base64.StdEncoding.DecodeString(hash64)
		if err != nil {
			return ServiceToken{}, fmt.Errorf("%w: hash: %v", ErrMalformed, err)
		}
		token.Hash = hash
	}

	return token, nil
}
