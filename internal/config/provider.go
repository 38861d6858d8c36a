package config

import "sync/atomic"

// Provider hands out the current configuration snapshot.
type Provider struct {
	current atomic.Pointer[Config]
}

func NewProvider(c *Config) *Provider {
	p := &Provider{}
	p.current.Store(c)
	return p
}

func (p *Provider) Current() *Config { return p.current.Load() }

func (p *Provider) Store(c *Config) { p.current.Store(c) }
