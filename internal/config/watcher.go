package config

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/pitchside/internal/core/observability/log"
)

// Listener is told about every configuration that replaced the previous one.
type Listener interface {
	OnConfig(c *Config)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(c *Config)

func (f ListenerFunc) OnConfig(c *Config) { f(c) }

// Watcher polls the configuration file. A changed file is parsed and
// validated; a valid result replaces the provider's snapshot and is handed
// to the listeners, an invalid one is logged and ignored.
type Watcher struct {
	path     string
	interval time.Duration
	provider *Provider
	logger   log.Log

	mu        sync.Mutex
	listeners map[uint64]Listener
	nextID    uint64
	sum       uint64
}

func NewWatcher(path string, interval time.Duration, provider *Provider, logger log.Log) *Watcher {
	w := &Watcher{
		path:      path,
		interval:  interval,
		provider:  provider,
		logger:    logger.Named("config"),
		listeners: make(map[uint64]Listener),
	}
	if data, err := os.ReadFile(path); err == nil {
		w.sum = xxhash.Sum64(data)
	}
	return w
}

// Subscribe registers a listener and returns a function removing it.
func (w *Watcher) Subscribe(l Listener) (cancel func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.listeners[id] = l
	return func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	}
}

// Run polls until ctx ends. A zero interval or an empty path disables it.
func (w *Watcher) Run(ctx context.Context) error {
	if w.interval <= 0 || w.path == "" {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll checks the file once and reports whether a new configuration was
// applied.
func (w *Watcher) Poll() bool {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("Config file unreadable", log.String("path", w.path), log.Error(err))
		return false
	}

	sum := xxhash.Sum64(data)
	w.mu.Lock()
	if sum == w.sum {
		w.mu.Unlock()
		return false
	}
	w.sum = sum
	w.mu.Unlock()

	c, err := Parse(data)
	if err != nil {
		w.logger.Error("Config change rejected", log.String("path", w.path), log.Error(err))
		return false
	}
	w.provider.Store(c)
	w.logger.Info("Config reloaded", log.String("path", w.path), log.Uint64("fingerprint", sum))

	w.mu.Lock()
	listeners := make([]Listener, 0, len(w.listeners))
	for _, l := range w.listeners {
		listeners = append(listeners, l)
	}
	w.mu.Unlock()

	for _, l := range listeners {
		l.OnConfig(c)
	}
	return true
}
