// Package keychain loads PEM-encoded key material — subscribed
// services' origin public keys for the resolve path's key cache — from
// a pluggable backend: a local directory or an S3 prefix, both behind
// the same Provider interface.
package keychain

import "context"

// Provider loads PEM bytes for a named key. The name is the file's or
// object's basename with its key-material suffix stripped, e.g. "billing"
// for a file named "billing_rsa_public.pem".
type Provider interface {
	Load(ctx context.Context, name string) ([]byte, error)
}
