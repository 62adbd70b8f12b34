package fingerprint

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stayware/sessionkit/pkg/deviceinfo"
	"github.com/stayware/sessionkit/pkg/keyvalue"
)

// StorageKey is the key the provider persists the fingerprint under.
const StorageKey = "device_fingerprint"

// Provider generates the device fingerprint once per install and serves the
// same value from then on. The first call computes it from the source and
// persists it; later calls (and later process runs) return the stored value
// even if the device attributes have since changed.
type Provider struct {
	source deviceinfo.Source
	store  keyvalue.Store

	mu     sync.Mutex
	cached *Fingerprint
}

// NewProvider creates a fingerprint provider. The store should be the plain
// tier: the fingerprint is device identity, not a secret.
func NewProvider(source deviceinfo.Source, store keyvalue.Store) *Provider {
	if source == nil {
		panic("fingerprint: provider requires a device info source")
	}
	if store == nil {
		panic("fingerprint: provider requires a store")
	}
	return &Provider{source: source, store: store}
}

// Fingerprint returns the device fingerprint, generating and persisting it
// on first use.
func (p *Provider) Fingerprint(ctx context.Context) (Fingerprint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return *p.cached, nil
	}

	if fp, ok := p.load(ctx); ok {
		p.cached = &fp
		return fp, nil
	}

	info, err := p.source.Info(ctx)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: failed to collect device info: %w", err)
	}
	fp := Compute(info)

	data, err := json.Marshal(fp)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: failed to encode: %w", err)
	}
	if err := p.store.Set(ctx, StorageKey, data); err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: failed to persist: %w", err)
	}

	p.cached = &fp
	return fp, nil
}

// Hash returns just the fingerprint hash. This is the form the session layer
// binds to and sends over the wire.
func (p *Provider) Hash(ctx context.Context) (string, error) {
	fp, err := p.Fingerprint(ctx)
	if err != nil {
		return "", err
	}
	return fp.Hash, nil
}

// Reset discards the cached and persisted fingerprint so the next call
// generates a fresh one. Intended for reinstall-equivalent events.
func (p *Provider) Reset(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cached = nil
	if err := p.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("fingerprint: failed to reset: %w", err)
	}
	return nil
}

// load reads a previously persisted fingerprint. Corrupt or legacy payloads
// are treated as absent so the provider regenerates instead of failing.
func (p *Provider) load(ctx context.Context) (Fingerprint, bool) {
	data, err := p.store.Get(ctx, StorageKey)
	if err != nil {
		// Missing or unreadable storage falls through to regeneration; the
		// fresh value overwrites whatever is there on the next Set.
		return Fingerprint{}, false
	}

	var fp Fingerprint
	if err := json.Unmarshal(data, &fp); err != nil || fp.Hash == "" {
		return Fingerprint{}, false
	}
	return fp, true
}
