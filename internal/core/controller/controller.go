// Package controller switches the running strategies between play styles.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zeusync/pitchside/internal/config"
	"github.com/zeusync/pitchside/internal/core/hardware"
	"github.com/zeusync/pitchside/internal/core/observability/log"
	"github.com/zeusync/pitchside/internal/core/perception"
	"github.com/zeusync/pitchside/internal/core/strategy"
	"github.com/zeusync/pitchside/pkg/concurrent"
)

var (
	ErrUnknownPlayStyle = errors.New("unknown play style")
	ErrStopTimeout      = errors.New("strategy did not stop in time")
	ErrShutdown         = errors.New("controller is shut down")
)

// Robots are the command channels of our two robots.
type Robots struct {
	Attacker hardware.Channel
	Defender hardware.Channel
}

type running struct {
	strategy strategy.Strategy
	sub      perception.Subscription
}

// Controller owns the active strategies. At most one set runs at a time:
// a switch stops and waits for the old control loops before the new
// strategies are started.
type Controller struct {
	feed     *perception.Feed
	robots   Robots
	provider *config.Provider
	logger   log.Log
	opts     []strategy.Option

	mu     sync.Mutex
	style  PlayStyle
	active []running
	closed bool
}

func New(feed *perception.Feed, robots Robots, provider *config.Provider, logger log.Log, opts ...strategy.Option) *Controller {
	logger = logger.Named("controller")
	return &Controller{
		feed:     feed,
		robots:   robots,
		provider: provider,
		logger:   logger,
		opts:     append([]strategy.Option{strategy.WithLogger(logger)}, opts...),
		style:    -1,
	}
}

// SwitchTo stops the running strategies and starts those of style, built
// from the current configuration. The new control loops outlive ctx; they
// end with the next switch or Shutdown.
func (c *Controller) SwitchTo(ctx context.Context, style PlayStyle) error {
	if !style.valid() {
		return fmt.Errorf("%w: %s", ErrUnknownPlayStyle, style)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrShutdown
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := c.provider.Current()
	if err := c.stopAll(ctx, cfg.Controller.StopTimeout); err != nil {
		return fmt.Errorf("switch to %s: %w", style, err)
	}

	strategies := c.build(cfg, style)
	runCtx := context.WithoutCancel(ctx)
	for _, s := range strategies {
		sub := c.feed.Register(s)
		if err := s.Start(runCtx); err != nil {
			c.feed.Unregister(sub)
			_ = c.stopAll(ctx, cfg.Controller.StopTimeout)
			return fmt.Errorf("start %s: %w", s.Name(), err)
		}
		c.active = append(c.active, running{strategy: s, sub: sub})
	}
	c.style = style

	c.logger.Info("Play style switched", log.String("style", style.String()), log.Int("strategies", len(c.active)))
	return nil
}

func (c *Controller) build(cfg *config.Config, style PlayStyle) []strategy.Strategy {
	attacker := func() strategy.Strategy {
		return strategy.NewAttacker(c.robots.Attacker, cfg.Control, cfg.Attacker, c.opts...)
	}
	interceptor := func() strategy.Strategy {
		return strategy.NewInterceptor(c.robots.Defender, cfg.Control, cfg.Interceptor, c.opts...)
	}

	switch style {
	case Passing:
		return []strategy.Strategy{
			strategy.NewPasser(c.robots.Defender, cfg.Control, cfg.Passing, c.opts...),
			strategy.NewReceiver(c.robots.Attacker, cfg.Control, cfg.Passing, c.opts...),
		}
	case Attacking:
		return []strategy.Strategy{attacker()}
	case Defending:
		return []strategy.Strategy{interceptor()}
	case Penalty:
		return []strategy.Strategy{strategy.NewPenalty(c.robots.Attacker, cfg.Control, cfg.Penalty, c.opts...)}
	case Match:
		return []strategy.Strategy{attacker(), interceptor()}
	default:
		return nil
	}
}

// stopAll unregisters and stops every active strategy, then waits for their
// control loops. The active set is cleared even when a loop overruns.
func (c *Controller) stopAll(ctx context.Context, timeout time.Duration) error {
	active := c.active
	c.active = nil
	if len(active) == 0 {
		return nil
	}

	// One overrun fails the switch, so the other waits are cut short.
	return concurrent.ForEachContext(ctx, active, func(ctx context.Context, r running) error {
		c.feed.Unregister(r.sub)
		r.strategy.Stop()

		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-r.strategy.Done():
			stats := r.strategy.Stats()
			c.logger.Info("Strategy stopped",
				log.String("strategy", r.strategy.Name()),
				log.Uint64("dispatched", stats.Dispatched),
				log.Uint64("failed", stats.Failed),
			)
			return nil
		case <-timer.C:
			return fmt.Errorf("%w: %s after %s", ErrStopTimeout, r.strategy.Name(), timeout)
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", r.strategy.Name(), ctx.Err())
		}
	})
}

// Active returns the names of the running strategies.
func (c *Controller) Active() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.active))
	for _, r := range c.active {
		names = append(names, r.strategy.Name())
	}
	return names
}

// Style returns the current play style and whether one is running.
func (c *Controller) Style() (PlayStyle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style, c.style.valid() && len(c.active) > 0
}

// Shutdown stops every strategy. Later switches fail with ErrShutdown.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.style = -1
	return c.stopAll(ctx, c.provider.Current().Controller.StopTimeout)
}
