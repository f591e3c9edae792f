package keychain

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"time"
)

// FileProvider serves PEM material out of a directory, matching files by
// Suffix (default "_rsa_public.pem"). It refreshes its in-memory snapshot
// on a ticker when run via Run, and also refreshes lazily on a cache miss
// so a caller that never starts the background loop (the /:service/key
// lookup, as wired by bootstrap) still sees the directory's contents.
type FileProvider struct {
	Path        string
	Suffix      string
	RefreshRate time.Duration

	mu   sync.RWMutex
	data map[string][]byte
}

func (p *FileProvider) suffix() string {
	if p.Suffix == "" {
		return "_rsa_public.pem"
	}
	return p.Suffix
}

// Load returns the PEM bytes registered under name, refreshing the
// snapshot once if name is not yet known.
func (p *FileProvider) Load(ctx context.Context, name string) ([]byte, error) {
	p.mu.RLock()
	val, ok := p.data[name]
	p.mu.RUnlock()
	if ok {
		return val, nil
	}

	if err := p.update(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok = p.data[name]
	if !ok {
		return nil, fmt.Errorf("keychain: no key material for %q under %s", name, p.Path)
	}
	return val, nil
}

// Run periodically refreshes the snapshot until ctx is cancelled.
func (p *FileProvider) Run(ctx context.Context) error {
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
			if err := p.update(); err != nil {
				return err
			}
		}
	}
}

func (p *FileProvider) update() error {
	entries, err := os.ReadDir(p.Path)
	if err != nil {
		return fmt.Errorf("keychain: can't read directory %s: %w", p.Path, err)
	}

	suffix := p.suffix()
	newData := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), suffix)
		body, err := os.ReadFile(path.Join(p.Path, entry.Name()))
		if err != nil {
			return fmt.Errorf("keychain: can't read file %s: %w", entry.Name(), err)
		}
		newData[name] = body
	}

	p.mu.Lock()
	p.data = newData
	p.mu.Unlock()
	return nil
}
