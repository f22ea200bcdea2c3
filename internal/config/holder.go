package config

import "sync/atomic"

// Holder publishes the active configuration snapshot. Reload swaps the
// snapshot atomically; readers always see a complete Config.
type Holder struct {
	p atomic.Pointer[Config]
}

func NewHolder(cfg *Config) *Holder {
	h := &Holder{}
	h.p.Store(cfg)
	return h
}

func (h *Holder) Current() *Config {
	return h.p.Load()
}

func (h *Holder) Swap(cfg *Config) {
	h.p.Store(cfg)
}
