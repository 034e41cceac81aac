package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
)

// Server hosts a session: it accepts exactly one peer at a time on /ws.
type Server struct {
	logger *slog.Logger

	upgrader     websocket.Upgrader
	sessionID    string
	pingInterval time.Duration

	mu        sync.Mutex
	connected bool
	peers     chan *Peer
}

func NewServer(logger *slog.Logger, sessionID string, pingInterval time.Duration) *Server {
	return &Server{
		logger: logger.With("component", "peer_server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessionID:    sessionID,
		pingInterval: pingInterval,
		peers:        make(chan *Peer, 1),
	}
}

func (that *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/ping", that.handlePing)
	router.Get("/ws", that.handlePeer)

	return router
}

// Start - serves the router on port until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	that.logger.Info("waiting for peer", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Accept blocks until a peer connects or ctx is done.
func (that *Server) Accept(ctx context.Context) (*Peer, error) {
	select {
	case peer := <-that.peers:
		return peer, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

func (that *Server) handlePeer(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handlePeer", "remote", r.RemoteAddr, "peerSessionID", r.Header.Get(SessionHeader))

	if !that.claim() {
		log.Warn("rejecting second peer")
		http.Error(w, apperror.ErrPeerAlreadyConnected.Error(), http.StatusConflict)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, http.Header{SessionHeader: []string{that.sessionID}})
	if err != nil {
		that.release()
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	log.Info("peer connected")

	that.peers <- newPeer(that.logger, conn, that.pingInterval, that.release)
}

func (that *Server) claim() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.connected {
		return false
	}

	that.connected = true
	return true
}

func (that *Server) release() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.connected = false
}
