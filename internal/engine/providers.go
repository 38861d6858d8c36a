package engine

import (
	"github.com/google/wire"

	"github.com/zeusync/pitchside/internal/config"
	"github.com/zeusync/pitchside/internal/core/controller"
	"github.com/zeusync/pitchside/internal/core/hardware"
	"github.com/zeusync/pitchside/internal/core/hardware/quiclink"
	"github.com/zeusync/pitchside/internal/core/observability/log"
	"github.com/zeusync/pitchside/internal/core/perception"
	"github.com/zeusync/pitchside/pkg/concurrent"
)

// ProviderSet assembles an Engine.
var ProviderSet = wire.NewSet(
	ProvideConfig,
	config.NewProvider,
	ProvideLogger,
	ProvideWatcher,
	perception.NewFeed,
	perception.NewIngest,
	ProvideRobots,
	ProvideController,
	New,
)

// ProvideConfig loads the file and applies the command line overrides.
func ProvideConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Style != "" {
		if _, err := controller.ParsePlayStyle(opts.Style); err != nil {
			return nil, err
		}
		cfg.Controller.Style = opts.Style
	}
	if opts.DryRun {
		cfg.Robots.DryRun = true
	}
	return cfg, nil
}

func ProvideLogger(cfg *config.Config) (log.Log, func()) {
	logger := log.New(cfg.LogOptions())
	return logger, func() { _ = logger.Sync() }
}

func ProvideWatcher(opts Options, provider *config.Provider, logger log.Log) *config.Watcher {
	return config.NewWatcher(opts.ConfigPath, provider.Current().Perception.WatchInterval, provider, logger)
}

// ProvideRobots opens the robot links, or logging stand-ins in dry-run mode.
func ProvideRobots(cfg *config.Config, logger log.Log) (controller.Robots, func()) {
	if cfg.Robots.DryRun {
		logger.Warn("Dry run: robot commands are only logged")
		return controller.Robots{
			Attacker: hardware.NewDryRun(hardware.RobotAttacker, logger),
			Defender: hardware.NewDryRun(hardware.RobotDefender, logger),
		}, func() {}
	}

	link := func(robot hardware.Robot, rl config.RobotLink) *quiclink.Link {
		return quiclink.NewLink(robot, quiclink.Config{
			Addr:               rl.Addr,
			CommandTimeout:     rl.CommandTimeout,
			InsecureSkipVerify: cfg.Robots.InsecureSkipVerify,
		}, logger)
	}
	attacker := link(hardware.RobotAttacker, cfg.Robots.Attacker)
	defender := link(hardware.RobotDefender, cfg.Robots.Defender)

	return controller.Robots{Attacker: attacker, Defender: defender}, func() {
		err := concurrent.ForEach([]*quiclink.Link{attacker, defender}, func(l *quiclink.Link) error {
			return l.Close()
		})
		if err != nil {
			logger.Warn("Closing robot link failed", log.Error(err))
		}
	}
}

func ProvideController(feed *perception.Feed, robots controller.Robots, provider *config.Provider, logger log.Log) *controller.Controller {
	return controller.New(feed, robots, provider, logger)
}
