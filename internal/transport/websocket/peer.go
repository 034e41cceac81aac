package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// SessionHeader carries the session id of the side that opens or accepts the link.
const SessionHeader = "X-Session-Id"

// Peer is one established websocket link to the other session. Send is safe for concurrent use.
type Peer struct {
	logger *slog.Logger
	conn   *websocket.Conn

	pingInterval time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
	onClose   func()
}

func newPeer(logger *slog.Logger, conn *websocket.Conn, pingInterval time.Duration, onClose func()) *Peer {
	return &Peer{
		logger:       logger.With("remote", conn.RemoteAddr().String()),
		conn:         conn,
		pingInterval: pingInterval,
		done:         make(chan struct{}),
		onClose:      onClose,
	}
}

// Dial connects to a hosting session at address (host:port).
func Dial(
	ctx context.Context,
	logger *slog.Logger,
	address, sessionID string,
	handshakeTimeout, pingInterval time.Duration,
) (*Peer, error) {
	target := url.URL{Scheme: "ws", Host: address, Path: "/ws"}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	header := http.Header{SessionHeader: []string{sessionID}}

	conn, resp, err := dialer.DialContext(ctx, target.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to dial %s (status %d): %w", target.String(), resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to dial %s: %w", target.String(), err)
	}

	logger.Info("connected to peer", "url", target.String(), "peerSessionID", resp.Header.Get(SessionHeader))

	return newPeer(logger.With("component", "peer"), conn, pingInterval, nil), nil
}

func (that *Peer) Send(text string) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// Listen passes every inbound text frame to handle, in arrival order, until the link closes or ctx is done.
// A clean close by either side returns nil.
func (that *Peer) Listen(ctx context.Context, handle func(text string)) error {
	log := that.logger.With("method", "Listen")

	defer that.Close()

	go func() {
		select {
		case <-ctx.Done():
			that.Close()
		case <-that.done:
		}
	}()

	if that.pingInterval > 0 {
		that.keepAlive()
		go that.heartbeat()
	}

	for {
		messageType, data, err := that.conn.ReadMessage()
		if err != nil {
			if that.isClosed() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("peer disconnected")
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		if messageType != websocket.TextMessage {
			log.Debug("skipping non-text frame", "type", messageType)
			continue
		}

		handle(string(data))
	}
}

func (that *Peer) Close() error {
	var err error

	that.closeOnce.Do(func() {
		close(that.done)

		that.writeMu.Lock()
		closeMessage := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		writeErr := that.conn.WriteControl(websocket.CloseMessage, closeMessage, time.Now().Add(time.Second))
		that.writeMu.Unlock()

		if writeErr != nil && !errors.Is(writeErr, websocket.ErrCloseSent) && !errors.Is(writeErr, net.ErrClosed) {
			that.logger.Debug("failed to send close frame", "error", writeErr)
		}

		err = that.conn.Close()

		if that.onClose != nil {
			that.onClose()
		}
	})

	return err
}

func (that *Peer) isClosed() bool {
	select {
	case <-that.done:
		return true
	default:
		return false
	}
}

// keepAlive expects a pong within two ping intervals.
func (that *Peer) keepAlive() {
	deadline := func() time.Time {
		return time.Now().Add(2 * that.pingInterval)
	}

	if err := that.conn.SetReadDeadline(deadline()); err != nil {
		that.logger.Warn("failed to set read deadline", "error", err)
	}

	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(deadline())
	})
}

func (that *Peer) heartbeat() {
	ticker := time.NewTicker(that.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-that.done:
			return
		case <-ticker.C:
			that.writeMu.Lock()
			err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			that.writeMu.Unlock()

			if err != nil {
				that.logger.Warn("failed to ping peer", "error", err)
				return
			}
		}
	}
}
