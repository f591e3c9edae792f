// Package asymmetric implements the gateway's RSA keypair wrapper:
// PKCS#1 v1.5 encrypt/decrypt for the subscription envelope, and
// sign/verify of canonical service-token payloads with an attached
// integrity hash. Key loading supports PKCS#1 and PKCS#8 PEM, with an
// optional passphrase on the private half.
package asymmetric

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/subtle"
	"time"

	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
	"github.com/suleymanmyradov/cerberus-gateway/pkg/servicetoken"
)

// ProbeMessage is encrypted with the public half and decrypted with the
// private half before a key pair is installed; a pair that fails this
// round trip is never used.
const ProbeMessage = "message"

// Engine is an installed, self-tested RSA key pair together with the
// default expires_range used when signing and refreshing tokens.
type Engine struct {
	pair         KeyPair
	public       *rsa.PublicKey
	private      *rsa.PrivateKey
	expiresRange uint64
}

// NewEngine parses pair's PEM halves, runs the round-trip self-test, and
// returns a ready Engine. It fails closed: any parse or self-test error
// is wrapped as an AppError, since key loading only ever happens at
// bootstrap.
func NewEngine(pair KeyPair, expiresRangeMS uint64) (*Engine, error) {
	pub, err := parseRSAPublicKey(pair.Public.PEM)
	if err != nil {
		return nil, errs.Bootstrap("failed to parse asymmetric public key", err)
	}
	priv, err := parseRSAPrivateKey(pair.Private.PEM, pair.Private.Passphrase)
	if err != nil {
		return nil, errs.Bootstrap("failed to parse asymmetric private key", err)
	}

	e := &Engine{pair: pair, public: pub, private: priv, expiresRange: expiresRangeMS}

	probeCipher, err := e.Encrypt([]byte(ProbeMessage))
	if err != nil {
		return nil, errs.Bootstrap("asymmetric self-test encrypt failed", err)
	}
	probePlain, err := e.Decrypt(probeCipher)
	if err != nil {
		return nil, errs.Bootstrap("asymmetric self-test decrypt failed", err)
	}
	if subtle.ConstantTimeCompare(probePlain, []byte(ProbeMessage)) != 1 {
		return nil, errs.Bootstrap("asymmetric self-test round-trip mismatch", nil)
	}

	return e, nil
}

// PublicHalf returns the public key material and tags, for the
// GET /nodekey route.
func (e *Engine) PublicHalf() Half { return e.pair.Public }

// Encrypt applies PKCS#1 v1.5 padding with the public key.
func (e *Engine) Encrypt(message []byte) ([]byte, error) {
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, e.public, message)
	if err != nil {
		return nil, errs.New(errs.CodeInternal, "asymmetric encrypt failed")
	}
	return ciphertext, nil
}

// Decrypt reverses Encrypt with the private key.
func (e *Engine) Decrypt(ciphertext []byte) ([]byte, error) {
	plaintext, err := rsa.DecryptPKCS1v15(rand.Reader, e.private, ciphertext)
	if err != nil {
		return nil, errs.New(errs.CodeInternal, "asymmetric decrypt failed")
	}
	return plaintext, nil
}

func nowMS() uint64 {
	return uint64(time.Now().UnixMilli())
}

// Sign builds and signs a fresh ServiceToken for serviceID with the
// given lifetime, attaching an integrity hash:
// hash = Encrypt_public(SHA256(payload_json)).
func (e *Engine) Sign(serviceID string, expiresRangeMS uint64) (servicetoken.ServiceToken, error) {
	now := nowMS()
	payload := servicetoken.Payload{
		Service:   serviceID,
		Expires:   now + expiresRangeMS,
		Timestamp: now,
	}

	payloadJSON, err := payload.CanonicalJSON()
	if err != nil {
		return servicetoken.ServiceToken{}, errs.New(errs.CodeInternal, "failed to canonicalize payload")
	}
	digest := sha256.Sum256(payloadJSON)

	sign, err := rsa.SignPKCS1v15(rand.Reader, e.private, crypto.SHA256, digest[:])
	if err != nil {
		return servicetoken.ServiceToken{}, errs.New(errs.CodeInternal, "failed to sign payload")
	}

	hash, err := e.Encrypt(digest[:])
	if err != nil {
		return servicetoken.ServiceToken{}, err
	}

	return servicetoken.ServiceToken{Sign: sign, Payload: payload, Hash: hash}, nil
}

// Refresh re-signs a fresh token for serviceID using the engine's
// configured expires_range.
func (e *Engine) Refresh(serviceID string) (servicetoken.ServiceToken, error) {
	return e.Sign(serviceID, e.expiresRange)
}

// Verify parses and validates a wire-form service token. A nil refresh
// with a nil error means the token is alive and needs no action. A
// non-nil refresh means the token was within the grace window and a
// freshly signed replacement is returned alongside the nil error.
func (e *Engine) Verify(tokenString string) (refresh *servicetoken.ServiceToken, err error) {
	token, parseErr := servicetoken.Parse(tokenString)
	if parseErr != nil {
		return nil, errs.New(errs.CodeTokenMalformed, "Malformed token.")
	}

	now := nowMS()
	status := token.Payload.AliveAt(now)
	if status == servicetoken.StatusExpired {
		return nil, errs.New(errs.CodeTokenExpired, "Token has expired.")
	}

	payloadJSON, canonErr := token.Payload.CanonicalJSON()
	if canonErr != nil {
		return nil, errs.New(errs.CodeInternal, "failed to canonicalize payload")
	}
	digest := sha256.Sum256(payloadJSON)

	if token.HasHash() {
		decryptedHash, decErr := e.Decrypt(token.Hash)
		if decErr != nil || subtle.ConstantTimeCompare(decryptedHash, digest[:]) != 1 {
			return nil, errs.New(errs.CodeTokenIntegrity, "Payload modified.")
		}
	}

	if verifyErr := rsa.VerifyPKCS1v15(e.public, crypto.SHA256, digest[:], token.Sign); verifyErr != nil {
		return nil, errs.New(errs.CodeTokenIntegrity, "")
	}

	if status == servicetoken.StatusNeedsRefresh {
		refreshed, signErr := e.Refresh(token.Payload.Service)
		if signErr != nil {
			return nil, signErr
		}
		return &refreshed, nil
	}

	return nil, nil
}
