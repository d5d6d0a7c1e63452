package rate_limit

import (
	"sync"
)

// Registry hands out one shared Limiter per provider so every caller
// targeting the same account draws from the same buckets. It is an explicit
// object passed by reference; its lifetime belongs to whoever owns the
// calling workflow, not to the process.
type Registry struct {
	mu        sync.Mutex
	limiters  map[Provider]*Limiter
	overrides map[Provider]Config
}

// NewRegistry creates a registry that builds limiters lazily from the
// provider presets.
func NewRegistry() *Registry {
	return &Registry{
		limiters:  make(map[Provider]*Limiter),
		overrides: make(map[Provider]Config),
	}
}

// NewRegistryFromFile creates a registry whose presets are overridden by a
// YAML quota file (see LoadPresetFile).
func NewRegistryFromFile(path string) (*Registry, error) {
	overrides, err := LoadPresetFile(path)
	if err != nil {
		return nil, err
	}

	r := NewRegistry()
	r.overrides = overrides
	return r, nil
}

// ForProvider returns the shared limiter for a provider name (matched
// case-insensitively), creating it on first use.
func (r *Registry) ForProvider(name string) (*Limiter, error) {
	provider, err := ParseProvider(name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if limiter, ok := r.limiters[provider]; ok {
		return limiter, nil
	}

	cfg, ok := r.overrides[provider]
	if !ok {
		cfg = DefaultConfig(provider)
	}

	limiter, err := NewLimiter(cfg)
	if err != nil {
		return nil, err
	}
	r.limiters[provider] = limiter
	return limiter, nil
}

// ClientForProvider returns a fresh Client bound to the provider's shared
// limiter.
func (r *Registry) ClientForProvider(name string) (*Client, error) {
	limiter, err := r.ForProvider(name)
	if err != nil {
		return nil, err
	}
	return NewClient(limiter), nil
}

// Register installs a pre-built limiter for a provider, replacing any
// existing one. Later ForProvider calls return it.
func (r *Registry) Register(provider Provider, limiter *Limiter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limiters[provider] = limiter
}
