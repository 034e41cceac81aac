package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	server := NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)), "host-session", 0)
	httpServer := httptest.NewServer(server.Router())
	t.Cleanup(httpServer.Close)

	return server, httpServer
}

func acceptPeer(t *testing.T, server *Server) *Peer {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	peer, err := server.Accept(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = peer.Close() })

	return peer
}

func wsURL(httpServer *httptest.Server) string {
	return "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
}

func TestServer_Ping(t *testing.T) {
	_, httpServer := newTestServer(t)

	resp, err := http.Get(httpServer.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestServer_Peer(t *testing.T) {
	t.Run("Exchanges text frames both ways", func(t *testing.T) {
		// Given: a client connected to the host
		server, httpServer := newTestServer(t)
		client, _, err := websocket.DefaultDialer.Dial(wsURL(httpServer), nil)
		require.NoError(t, err)
		defer client.Close()

		peer := acceptPeer(t, server)

		received := make(chan string, 1)
		go func() {
			_ = peer.Listen(context.Background(), func(text string) {
				received <- text
			})
		}()

		// When: each side sends one message
		require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"reset"}`)))
		require.NoError(t, peer.Send(`{"type":"move","index":4}`))

		// Then: both arrive unchanged
		select {
		case text := <-received:
			assert.Equal(t, `{"type":"reset"}`, text)
		case <-time.After(time.Second):
			t.Fatal("host did not receive the message")
		}

		_, data, err := client.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, `{"type":"move","index":4}`, string(data))
	})

	t.Run("Answers with the host session id", func(t *testing.T) {
		server, httpServer := newTestServer(t)
		header := http.Header{SessionHeader: []string{"join-session"}}

		client, resp, err := websocket.DefaultDialer.Dial(wsURL(httpServer), header)
		require.NoError(t, err)
		defer client.Close()
		acceptPeer(t, server)

		assert.Equal(t, "host-session", resp.Header.Get(SessionHeader))
	})

	t.Run("Rejects a second peer", func(t *testing.T) {
		server, httpServer := newTestServer(t)
		first, _, err := websocket.DefaultDialer.Dial(wsURL(httpServer), nil)
		require.NoError(t, err)
		defer first.Close()
		acceptPeer(t, server)

		_, resp, err := websocket.DefaultDialer.Dial(wsURL(httpServer), nil)

		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Frees the slot when the peer closes", func(t *testing.T) {
		server, httpServer := newTestServer(t)
		first, _, err := websocket.DefaultDialer.Dial(wsURL(httpServer), nil)
		require.NoError(t, err)
		defer first.Close()

		peer := acceptPeer(t, server)
		require.NoError(t, peer.Close())

		second, _, err := websocket.DefaultDialer.Dial(wsURL(httpServer), nil)
		require.NoError(t, err)
		defer second.Close()
	})

	t.Run("Listen ends cleanly when the client closes", func(t *testing.T) {
		server, httpServer := newTestServer(t)
		client, _, err := websocket.DefaultDialer.Dial(wsURL(httpServer), nil)
		require.NoError(t, err)

		peer := acceptPeer(t, server)

		done := make(chan error, 1)
		go func() {
			done <- peer.Listen(context.Background(), func(string) {})
		}()

		closeMessage := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		require.NoError(t, client.WriteMessage(websocket.CloseMessage, closeMessage))

		select {
		case err = <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("listen did not return")
		}
	})
}

func TestDial(t *testing.T) {
	server, httpServer := newTestServer(t)
	address := strings.TrimPrefix(httpServer.URL, "http://")

	peer, err := Dial(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), address, "join-session", time.Second, 0)
	require.NoError(t, err)
	defer peer.Close()

	host := acceptPeer(t, server)

	received := make(chan string, 1)
	go func() {
		_ = host.Listen(context.Background(), func(text string) {
			received <- text
		})
	}()

	require.NoError(t, peer.Send(`{"type":"move","index":0}`))

	select {
	case text := <-received:
		assert.Equal(t, `{"type":"move","index":0}`, text)
	case <-time.After(time.Second):
		t.Fatal("host did not receive the message")
	}
}
