// Command robotbridge accepts robot commands over QUIC and replays them on a
// logging channel. It stands in for the radio bridge when testing without
// robots.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/pitchside/internal/core/hardware"
	"github.com/zeusync/pitchside/internal/core/hardware/quiclink"
	"github.com/zeusync/pitchside/internal/core/observability/log"
)

func main() {
	addr := flag.String("listen", "127.0.0.1:7401", "UDP address to accept commands on")
	robot := flag.String("robot", string(hardware.RobotAttacker), "robot name used in logs")
	level := flag.String("log", "info", "log level")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(log.Options{Level: log.ParseLevel(*level), Encoding: "console"})
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, *addr, hardware.Robot(*robot), logger); err != nil {
		fmt.Fprintln(os.Stderr, "robotbridge:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, addr string, robot hardware.Robot, logger log.Log) error {
	tlsConf, err := quiclink.SelfSignedTLS("localhost", "127.0.0.1")
	if err != nil {
		return err
	}
	ln, err := quiclink.Listen(addr, tlsConf)
	if err != nil {
		return err
	}
	defer ln.Close()
	logger.Info("Bridge listening", log.String("addr", ln.Addr().String()), log.String("robot", string(robot)))

	bridge := quiclink.NewBridge(hardware.NewDryRun(robot, logger), logger)
	return bridge.Serve(ctx, ln)
}
