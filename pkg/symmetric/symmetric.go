// Package symmetric implements the gateway's AEAD session cipher:
// AES-GCM with a generated key, nonce-per-message wire framing, and a
// key pool that auto-regenerates on exhaustion instead of mutating
// existing entries.
package symmetric

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/suleymanmyradov/cerberus-gateway/pkg/errs"
)

// ModuleAESGCM is the only supported cipher module tag.
const ModuleAESGCM = "AES_GCM"

// nonceSize is the standard GCM nonce length in bytes.
const nonceSize = 12

// Status is a symmetric key's lifecycle state.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusExpired Status = "EXPIRED"
)

// Key is one entry in the pool. Format stores the bit width as decimal
// ASCII ("128" or "256"); Expires is a relative lifetime in ms from
// Timestamp.
type Key struct {
	Module    string
	Format    string
	Raw       []byte
	Expires   uint64
	Timestamp uint64
	Status    Status
}

func keyBytesLen(format string) (int, error) {
	switch format {
	case "128":
		return 16, nil
	case "256":
		return 32, nil
	default:
		return 0, fmt.Errorf("symmetric: unsupported key format %q (192-bit GCM is rejected)", format)
	}
}

func nowMS() uint64 { return uint64(time.Now().UnixMilli()) }

// IsActive reports whether the key is still within its lifetime.
func (k Key) IsActive() bool {
	return k.Status == StatusActive && nowMS() < k.Timestamp+k.Expires
}

// generate builds a fresh, ACTIVE key with the given format and expiry.
func generate(format string, expiresMS uint64) (Key, error) {
	n, err := keyBytesLen(format)
	if err != nil {
		return Key{}, err
	}
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return Key{}, fmt.Errorf("symmetric: failed to generate key material: %w", err)
	}
	return Key{
		Module:    ModuleAESGCM,
		Format:    format,
		Raw:       raw,
		Expires:   expiresMS,
		Timestamp: nowMS(),
		Status:    StatusActive,
	}, nil
}

// Pool is an append-only collection of symmetric keys: superseded
// entries are retained so in-flight messages encrypted under an older
// key can still be decrypted.
type Pool struct {
	entries []Key
	format  string
	expires uint64
}

// NewPool creates an empty pool configured to mint keys of the given
// format ("128" or "256") and default lifetime.
func NewPool(format string, expiresMS uint64) (*Pool, error) {
	if _, err := keyBytesLen(format); err != nil {
		return nil, err
	}
	return &Pool{format: format, expires: expiresMS}, nil
}

// GenerateNew creates a random key using the pool's configured format
// and lifetime, appends it, and returns it.
func (p *Pool) GenerateNew() (Key, error) {
	k, err := generate(p.format, p.expires)
	if err != nil {
		return Key{}, err
	}
	p.entries = append(p.entries, k)
	return k, nil
}

// Find returns the first ACTIVE key in the pool. If none is active, it
// copies the parameters of the first pool entry (or the pool defaults,
// if empty) and generates a replacement.
func (p *Pool) Find() (Key, error) {
	for _, k := range p.entries {
		if k.IsActive() {
			return k, nil
		}
	}

	format, expires := p.format, p.expires
	if len(p.entries) > 0 {
		format, expires = p.entries[0].Format, p.entries[0].Expires
	}
	k, err := generate(format, expires)
	if err != nil {
		return Key{}, err
	}
	p.entries = append(p.entries, k)
	return k, nil
}

// Engine performs AES-GCM encrypt/decrypt with nonce-per-message
// framing: base64(nonce) ";" base64(ciphertext).
type Engine struct{}

func aead(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("symmetric: invalid key: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("symmetric: failed to build GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt seals message under key.Raw with a fresh random nonce and
// returns the framed wire form.
func (Engine) Encrypt(message []byte, key Key) (string, error) {
	gcm, err := aead(key.Raw)
	if err != nil {
		return "", errs.New(errs.CodeSymmetricKeyData, err.Error())
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", errs.New(errs.CodeEncryptFailed, err.Error())
	}

	ciphertext := gcm.Seal(nil, nonce, message, nil)
	return base64.StdEncoding.EncodeToString(nonce) + ";" + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. A framed message missing the ";" separator
// is treated as ciphertext with an empty nonce; a nonce of the wrong
// length is rejected as undecryptable (CodeDecryptFailed) before GCM is
// asked to open it, so the call returns an error rather than panicking.
// This soft-fail is preserved deliberately: see the gateway's open
// design questions.
func (Engine) Decrypt(framed string, key Key) ([]byte, error) {
	fragments := strings.SplitN(framed, ";", 2)

	var nonceB64, ciphertextB64 string
	if len(fragments) == 1 {
		nonceB64, ciphertextB64 = "", fragments[0]
	} else {
		nonceB64, ciphertextB64 = fragments[0], fragments[1]
	}

	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil {
		return nil, errs.New(errs.CodeMessageFormat, err.Error())
	}
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, errs.New(errs.CodeMessageFormat, err.Error())
	}

	gcm, err := aead(key.Raw)
	if err != nil {
		return nil, errs.New(errs.CodeSymmetricKeyData, err.Error())
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errs.New(errs.CodeDecryptFailed, "")
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errs.New(errs.CodeDecryptFailed, "")
	}
	return plaintext, nil
}

// SelfTest runs a round-trip on a fixed probe string. It must pass
// before a key is installed in configuration.
func (e Engine) SelfTest(key Key) error {
	const probe = "message"
	framed, err := e.Encrypt([]byte(probe), key)
	if err != nil {
		return err
	}
	plain, err := e.Decrypt(framed, key)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(plain, []byte(probe)) != 1 {
		return fmt.Errorf("symmetric: self-test round-trip mismatch")
	}
	return nil
}

// ParseFormat validates that s is a supported bit-width tag and returns
// it unchanged; it exists so callers reading SYMM_KEY_FORMAT from the
// environment get a well-typed error instead of a silent 192 acceptance.
func ParseFormat(s string) (string, error) {
	if _, err := keyBytesLen(s); err != nil {
		return "", err
	}
	return s, nil
}

// ParseExpires converts a decimal-millisecond string into its uint64 form.
func ParseExpires(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("symmetric: invalid expires value %q: %w", s, err)
	}
	return v, nil
}
