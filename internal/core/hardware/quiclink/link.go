// Package quiclink carries hardware commands to a robot bridge over QUIC.
// Each command travels on its own bidirectional stream and waits for the
// bridge's acknowledgement, which arrives once the action has finished.
package quiclink

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"

	"github.com/zeusync/pitchside/internal/core/hardware"
	"github.com/zeusync/pitchside/internal/core/observability/log"
)

const alpn = "pitchside-robot"

// Config describes how to reach one robot bridge.
type Config struct {
	Addr string
	// CommandTimeout bounds a single command including the physical action.
	CommandTimeout time.Duration
	// InsecureSkipVerify accepts the bridge's self-signed certificate.
	InsecureSkipVerify bool
	KeepAlive          time.Duration
	IdleTimeout        time.Duration
}

// Link is a hardware.Channel backed by a QUIC connection. Commands are
// serialized: one outstanding command per robot.
type Link struct {
	cfg    Config
	tls    *tls.Config
	quic   *quic.Config
	logger log.Log

	mu   sync.Mutex
	conn *quic.Conn
}

var _ hardware.Channel = (*Link)(nil)

// NewLink prepares a link; the connection is dialled on first use and
// re-dialled after a failure.
func NewLink(robot hardware.Robot, cfg Config, logger log.Log) *Link {
	if logger == nil {
		logger = log.Provide()
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 5 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Second
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 5 * time.Second
	}

	serverName := cfg.Addr
	if host, _, err := net.SplitHostPort(cfg.Addr); err == nil {
		serverName = host
	}

	return &Link{
		cfg: cfg,
		tls: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			ServerName:         serverName,
			NextProtos:         []string{alpn},
			MinVersion:         tls.VersionTLS13,
		},
		quic: &quic.Config{
			MaxIdleTimeout:  cfg.IdleTimeout,
			KeepAlivePeriod: cfg.KeepAlive,
		},
		logger: logger.With(log.String("robot", string(robot)), log.String("addr", cfg.Addr)),
	}
}

func (l *Link) Travel(ctx context.Context, distance, speed int) error {
	return l.send(ctx, command{Op: opTravel, Args: []int{distance, speed}})
}

func (l *Link) Rotate(ctx context.Context, degrees, speed int) error {
	return l.send(ctx, command{Op: opRotate, Args: []int{degrees, speed}})
}

func (l *Link) TravelArc(ctx context.Context, radius, distance, speed int) error {
	return l.send(ctx, command{Op: opTravelArc, Args: []int{radius, distance, speed}})
}

func (l *Link) Catch(ctx context.Context) error {
	return l.send(ctx, command{Op: opCatch})
}

func (l *Link) Kick(ctx context.Context, power int) error {
	return l.send(ctx, command{Op: opKick, Args: []int{power}})
}

// Close drops the connection, if any.
func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	err := l.conn.CloseWithError(0, "closing")
	l.conn = nil
	return err
}

func (l *Link) send(ctx context.Context, cmd command) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.cfg.CommandTimeout)
	defer cancel()

	conn, err := l.connLocked(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", cmd.Op, hardware.ErrLinkDown, err)
	}

	res, err := roundTrip(ctx, conn, cmd)
	if err != nil {
		l.logger.Warn("command failed, dropping connection", log.String("op", cmd.Op), log.Error(err))
		_ = conn.CloseWithError(1, "command failed")
		l.conn = nil
		return fmt.Errorf("%s: %w: %v", cmd.Op, hardware.ErrLinkDown, err)
	}
	if !res.OK {
		return fmt.Errorf("%s: %w: %s", cmd.Op, hardware.ErrRejected, res.Error)
	}
	return nil
}

func (l *Link) connLocked(ctx context.Context) (*quic.Conn, error) {
	if l.conn != nil {
		select {
		case <-l.conn.Context().Done():
			l.conn = nil
		default:
			return l.conn, nil
		}
	}
	conn, err := quic.DialAddr(ctx, l.cfg.Addr, l.tls, l.quic)
	if err != nil {
		return nil, err
	}
	l.logger.Info("robot link established", log.String("remote_addr", conn.RemoteAddr().String()))
	l.conn = conn
	return conn, nil
}

func roundTrip(ctx context.Context, conn *quic.Conn, cmd command) (ack, error) {
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return ack{}, errors.Wrap(err, "open stream")
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetDeadline(deadline)
	}

	if err := writeFrame(stream, cmd); err != nil {
		stream.CancelRead(0)
		return ack{}, err
	}
	// half-close our side, the bridge answers on its side
	if err := stream.Close(); err != nil {
		return ack{}, errors.Wrap(err, "close stream")
	}

	var res ack
	if err := readFrame(stream, &res); err != nil {
		return ack{}, err
	}
	return res, nil
}
