package keychain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProvider_Load_ReadsMatchingSuffix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "billing_rsa_public.pem"), []byte("PEMDATA"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("nope"), 0o600))

	p := &FileProvider{Path: dir}

	val, err := p.Load(context.Background(), "billing")
	require.NoError(t, err)
	assert.Equal(t, "PEMDATA", string(val))
}

func TestFileProvider_Load_UnknownNameErrors(t *testing.T) {
	dir := t.TempDir()
	p := &FileProvider{Path: dir}

	_, err := p.Load(context.Background(), "missing")
	assert.Error(t, err)
}

func TestFileProvider_Load_CustomSuffix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "self_self.key"), []byte("SELFKEY"), 0o600))

	p := &FileProvider{Path: dir, Suffix: "_self.key"}

	val, err := p.Load(context.Background(), "self")
	require.NoError(t, err)
	assert.Equal(t, "SELFKEY", string(val))
}
