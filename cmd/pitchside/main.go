package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/pitchside/internal/engine"
	"github.com/zeusync/pitchside/internal/injector"
)

func main() {
	var opts engine.Options
	flag.StringVar(&opts.ConfigPath, "config", "", "path to the YAML configuration file")
	flag.StringVar(&opts.Style, "style", "", "initial play style: passing, attacking, defending, penalty or match")
	flag.BoolVar(&opts.DryRun, "nobluetooth", false, "do not connect to the robots, only log their commands")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, "pitchside:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts engine.Options) error {
	eng, cleanup, err := injector.InitializeEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	return eng.Run(ctx)
}
