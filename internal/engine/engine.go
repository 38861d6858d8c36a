// Package engine runs the strategy controller behind the perception ingest
// endpoint and keeps it in step with the configuration file.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/pitchside/internal/config"
	"github.com/zeusync/pitchside/internal/core/controller"
	"github.com/zeusync/pitchside/internal/core/observability/log"
	"github.com/zeusync/pitchside/internal/core/perception"
)

const shutdownTimeout = 5 * time.Second

// Options are the command line overrides applied on top of the config file.
type Options struct {
	ConfigPath string
	Style      string
	DryRun     bool
}

type Engine struct {
	provider *config.Provider
	watcher  *config.Watcher
	logger   log.Log
	feed     *perception.Feed
	ingest   *perception.Ingest
	ctrl     *controller.Controller
	monitor  *frameMonitor

	mux  *http.ServeMux
	addr atomic.Value
}

func New(
	provider *config.Provider,
	watcher *config.Watcher,
	logger log.Log,
	feed *perception.Feed,
	ingest *perception.Ingest,
	ctrl *controller.Controller,
) *Engine {
	e := &Engine{
		provider: provider,
		watcher:  watcher,
		logger:   logger.Named("engine"),
		feed:     feed,
		ingest:   ingest,
		ctrl:     ctrl,
		mux:      http.NewServeMux(),
	}

	cfg := provider.Current()
	e.monitor = newFrameMonitor(e.logger, cfg.Control.Tick)
	feed.SetPitch(cfg.Pitch)
	watcher.Subscribe(config.ListenerFunc(e.onConfig))

	e.mux.Handle(cfg.Perception.Path, ingest)
	e.mux.HandleFunc("/healthz", e.handleHealth)
	e.mux.HandleFunc("/style", e.handleStyle)
	return e
}

// Handler serves the ingest endpoint and the operator endpoints.
func (e *Engine) Handler() http.Handler { return e.mux }

// Addr is the bound ingest address once Run is listening.
func (e *Engine) Addr() string {
	if v, ok := e.addr.Load().(string); ok {
		return v
	}
	return ""
}

// Controller exposes the strategy controller.
func (e *Engine) Controller() *controller.Controller { return e.ctrl }

// Run serves until ctx ends or a component fails, then stops the strategies
// and the server.
func (e *Engine) Run(ctx context.Context) error {
	cfg := e.provider.Current()
	style, err := controller.ParsePlayStyle(cfg.Controller.Style)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Perception.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Perception.ListenAddr, err)
	}
	e.addr.Store(ln.Addr().String())
	e.feed.AddObserver(e.monitor)
	defer e.feed.RemoveObserver(e.monitor)
	server := &http.Server{Handler: e.mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		e.logger.Info("Serving perception ingest", log.String("addr", ln.Addr().String()), log.String("path", cfg.Perception.Path))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ingest server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := e.watcher.Run(gctx); err != nil {
			return fmt.Errorf("config watcher: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := e.ctrl.SwitchTo(gctx, style)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, controller.ErrShutdown) {
			return fmt.Errorf("initial play style: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		// The server goes first so no style request lands mid shutdown.
		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("stop ingest server: %w", err))
		}
		if err := e.ctrl.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("stop strategies: %w", err))
		}
		e.logger.Info("Engine stopped")
		return errors.Join(errs...)
	})

	return g.Wait()
}

func (e *Engine) onConfig(c *config.Config) {
	e.feed.SetPitch(c.Pitch)
	e.logger.SetLevel(log.ParseLevel(c.Log.Level))
	e.logger.Info("Configuration applied; strategy tuning takes effect on the next switch")
}

type health struct {
	Style       string             `json:"style"`
	Active      []string           `json:"active"`
	Subscribers int                `json:"subscribers"`
	Vision      int64              `json:"vision_connections"`
	Feed        perception.Metrics `json:"feed"`
	// LastFrameMS is the age of the newest delivered frame, -1 before any.
	LastFrameMS int64              `json:"last_frame_ms"`
}

func (e *Engine) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h := health{
		Active:      e.ctrl.Active(),
		Subscribers: e.feed.Subscribers(),
		Vision:      e.ingest.Connections(),
		Feed:        e.feed.Metrics(),
		LastFrameMS: -1,
	}
	if age := e.monitor.age(); age >= 0 {
		h.LastFrameMS = age.Milliseconds()
	}
	if style, ok := e.ctrl.Style(); ok {
		h.Style = style.String()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h)
}

// handleStyle switches the play style: POST /style?name=defending.
func (e *Engine) handleStyle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	style, err := controller.ParsePlayStyle(r.URL.Query().Get("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := e.ctrl.SwitchTo(r.Context(), style); err != nil {
		if errors.Is(err, controller.ErrShutdown) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		e.logger.Error("Play style switch failed", log.String("style", style.String()), log.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	e.handleHealth(w, r)
}
