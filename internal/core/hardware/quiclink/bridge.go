package quiclink

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"

	"github.com/zeusync/pitchside/internal/core/hardware"
	"github.com/zeusync/pitchside/internal/core/observability/log"
)

const (
	opTravel    = "travel"
	opRotate    = "rotate"
	opTravelArc = "travel_arc"
	opCatch     = "catch"
	opKick      = "kick"
)

var errBadArgs = errors.New("wrong number of arguments")

// Bridge is the robot side of a link: it accepts commands over QUIC and
// applies them to a local channel, one at a time.
type Bridge struct {
	target hardware.Channel
	logger log.Log
	mu     sync.Mutex
}

func NewBridge(target hardware.Channel, logger log.Log) *Bridge {
	if logger == nil {
		logger = log.Provide()
	}
	return &Bridge{target: target, logger: logger}
}

// Listen opens a QUIC listener with the given certificate.
func Listen(addr string, tlsConf *tls.Config) (*quic.Listener, error) {
	conf := tlsConf.Clone()
	conf.NextProtos = []string{alpn}
	conf.MinVersion = tls.VersionTLS13
	ln, err := quic.ListenAddr(addr, conf, &quic.Config{MaxIdleTimeout: 30 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s", addr)
	}
	return ln, nil
}

// Serve accepts connections until ctx ends or the listener is closed.
func (b *Bridge) Serve(ctx context.Context, ln *quic.Listener) error {
	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "accept")
		}
		go b.serveConn(ctx, conn)
	}
}

func (b *Bridge) serveConn(ctx context.Context, conn *quic.Conn) {
	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			return
		}
		go b.serveStream(ctx, stream)
	}
}

func (b *Bridge) serveStream(ctx context.Context, stream *quic.Stream) {
	defer stream.Close()

	var cmd command
	if err := readFrame(stream, &cmd); err != nil {
		b.logger.Warn("bad command frame", log.Error(err))
		return
	}

	res := ack{OK: true}
	if err := b.apply(ctx, cmd); err != nil {
		res = ack{OK: false, Error: err.Error()}
	}
	if err := writeFrame(stream, res); err != nil {
		b.logger.Warn("failed to acknowledge command", log.String("op", cmd.Op), log.Error(err))
	}
}

func (b *Bridge) apply(ctx context.Context, cmd command) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	want := map[string]int{opTravel: 2, opRotate: 2, opTravelArc: 3, opCatch: 0, opKick: 1}
	n, ok := want[cmd.Op]
	if !ok {
		return errors.Errorf("unknown op %q", cmd.Op)
	}
	if len(cmd.Args) != n {
		return errors.Wrap(errBadArgs, cmd.Op)
	}

	a := cmd.Args
	switch cmd.Op {
	case opTravel:
		return b.target.Travel(ctx, a[0], a[1])
	case opRotate:
		return b.target.Rotate(ctx, a[0], a[1])
	case opTravelArc:
		return b.target.TravelArc(ctx, a[0], a[1], a[2])
	case opCatch:
		return b.target.Catch(ctx)
	default:
		return b.target.Kick(ctx, a[0])
	}
}

// SelfSignedTLS builds a throwaway certificate for a bridge on the local
// network.
func SelfSignedTLS(hosts ...string) (*tls.Config, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	tmpl := x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: "pitchside robot bridge"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     hosts,
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, errors.Wrap(err, "create certificate")
	}
	return &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}},
		NextProtos:   []string{alpn},
		MinVersion:   tls.VersionTLS13,
	}, nil
}
