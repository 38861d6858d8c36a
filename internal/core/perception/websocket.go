package perception

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/zeusync/pitchside/internal/core/observability/log"
	"github.com/zeusync/pitchside/internal/core/world"
)

const maxFrameBytes = 64 << 10

// Ingest accepts world snapshots from the vision process over a websocket,
// one JSON encoded world.State per text message, and publishes them.
type Ingest struct {
	feed     *Feed
	logger   log.Log
	upgrader websocket.Upgrader
	conns    atomic.Int64
}

func NewIngest(feed *Feed, logger log.Log) *Ingest {
	return &Ingest{
		feed:   feed,
		logger: logger.Named("ingest"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
		},
	}
}

// Connections returns the number of open vision connections.
func (i *Ingest) Connections() int64 { return i.conns.Load() }

func (i *Ingest) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		i.logger.Warn("Upgrade failed", log.String("remote", r.RemoteAddr), log.Error(err))
		return
	}
	defer func() {
		_ = conn.Close()
		i.conns.Add(-1)
	}()
	i.conns.Add(1)
	conn.SetReadLimit(maxFrameBytes)

	remote := conn.RemoteAddr().String()
	i.logger.Info("Vision connected", log.String("remote", remote))
	// A new vision process starts its sequence again.
	i.feed.ResetSequence()

	for {
		var ws world.State
		if err := conn.ReadJSON(&ws); err != nil {
			if isDecodeError(err) {
				i.logger.Warn("Dropped malformed snapshot", log.String("remote", remote), log.Error(err))
				continue
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				i.logger.Info("Vision disconnected", log.String("remote", remote))
			} else {
				i.logger.Warn("Vision connection lost", log.String("remote", remote), log.Error(err))
			}
			return
		}
		i.feed.Publish(ws)
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
