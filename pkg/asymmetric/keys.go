package asymmetric

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// Half is one side of an AsymmetricKeyPair: the raw PEM text plus the
// tags that describe how to parse it. Passphrase is only meaningful on
// the private half.
type Half struct {
	PEM        []byte
	Module     string // "RSA" is the only supported module
	Format     string // "PKCS1" or "PKCS8"
	Passphrase string
}

// KeyPair is the gateway's own RSA key pair. PublicExpires is the
// lifetime/expiry timestamp (ms epoch) carried on the public half only;
// the private half has no expiry of its own.
type KeyPair struct {
	Public        Half
	PublicExpires uint64
	Private       Half
}

// parseRSAPrivateKey decodes pemBytes, optionally decrypting a
// passphrase-protected PEM block, and tries PKCS#1 then PKCS#8 so the
// KEY_FORMAT tag never has to be trusted blindly.
func parseRSAPrivateKey(pemBytes []byte, passphrase string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("asymmetric: no PEM block found in private key")
	}

	body := block.Bytes
	//nolint:staticcheck // minimal encrypted-PEM support; no replacement exists in the stdlib for PKCS#1 Proc-Type PEM.
	if x509.IsEncryptedPEMBlock(block) {
		if passphrase == "" {
			return nil, fmt.Errorf("asymmetric: private key is passphrase-protected but no passphrase was supplied")
		}
		decrypted, err := x509.DecryptPEMBlock(block, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("asymmetric: decrypt passphrase-protected private key: %w", err)
		}
		body = decrypted
	}

	if key, err := x509.ParsePKCS1PrivateKey(body); err == nil {
		return key, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(body)
	if err != nil {
		return nil, fmt.Errorf("asymmetric: private key is neither valid PKCS1 nor PKCS8: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("asymmetric: expected RSA private key, got %T", key)
	}
	return rsaKey, nil
}

// parseRSAPublicKey decodes pemBytes and tries PKIX (SubjectPublicKeyInfo)
// then PKCS#1.
func parseRSAPublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("asymmetric: no PEM block found in public key")
	}

	if pub, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("asymmetric: expected RSA public key, got %T", pub)
		}
		return rsaPub, nil
	}

	pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("asymmetric: public key is neither valid PKIX nor PKCS1: %w", err)
	}
	return pub, nil
}
