package keychain

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Provider mirrors FileProvider but serves key material out of an S3
// prefix. Useful when a subscribed service's origin public key is
// distributed rather than mounted on the local filesystem.
type S3Provider struct {
	Bucket      string
	Path        string
	Suffix      string
	RefreshRate time.Duration

	mu     sync.RWMutex
	client *s3.Client
	data   map[string][]byte
}

func (p *S3Provider) suffix() string {
	if p.Suffix == "" {
		return "_rsa_public.pem"
	}
	return p.Suffix
}

func (p *S3Provider) ensureClient(ctx context.Context) error {
	p.mu.RLock()
	ready := p.client != nil
	p.mu.RUnlock()
	if ready {
		return nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("keychain: load aws config: %w", err)
	}

	p.mu.Lock()
	if p.client == nil {
		p.client = s3.NewFromConfig(cfg)
	}
	p.mu.Unlock()
	return nil
}

// Load returns the PEM bytes registered under name, refreshing the
// snapshot once from S3 if name is not yet known.
func (p *S3Provider) Load(ctx context.Context, name string) ([]byte, error) {
	p.mu.RLock()
	val, ok := p.data[name]
	p.mu.RUnlock()
	if ok {
		return val, nil
	}

	if err := p.update(ctx); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok = p.data[name]
	if !ok {
		return nil, fmt.Errorf("keychain: no key material for %q under s3://%s/%s", name, p.Bucket, p.Path)
	}
	return val, nil
}

// Run periodically refreshes the snapshot from S3 until ctx is cancelled.
func (p *S3Provider) Run(ctx context.Context) error {
	rate := p.RefreshRate
	if rate == 0 {
		rate = 10 * time.Second
	}
	ticker := time.NewTicker(rate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.update(ctx); err != nil {
				return err
			}
		}
	}
}

func (p *S3Provider) update(ctx context.Context) error {
	if err := p.ensureClient(ctx); err != nil {
		return err
	}

	prefix := p.Path + "/"
	out, err := p.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: &p.Bucket,
		Prefix: &prefix,
	})
	if err != nil {
		return fmt.Errorf("keychain: list s3 bucket: %w", err)
	}

	suffix := p.suffix()
	newData := make(map[string][]byte, len(out.Contents))
	for _, obj := range out.Contents {
		if obj.Key == nil || !strings.HasSuffix(*obj.Key, suffix) {
			continue
		}
		result, err := p.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &p.Bucket, Key: obj.Key})
		if err != nil {
			return fmt.Errorf("keychain: get object s3://%s/%s: %w", p.Bucket, *obj.Key, err)
		}
		body, err := io.ReadAll(result.Body)
		result.Body.Close()
		if err != nil {
			return fmt.Errorf("keychain: read object s3://%s/%s: %w", p.Bucket, *obj.Key, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(*obj.Key, prefix), suffix)
		newData[name] = body
	}

	p.mu.Lock()
	p.data = newData
	p.mu.Unlock()
	return nil
}
