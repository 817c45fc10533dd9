package connectionhub

import (
	"testing"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/require"
)

func newHub() *impl {
	return &impl{
		clients: map[string]clientSession{},
	}
}

func sessionConn(h *impl, userID string) (*websocket.Conn, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sess, ok := h.clients[userID]
	return sess.conn, ok
}

func TestHub(t *testing.T) {
	t.Run("reconnect keeps live session after stale cleanup", func(t *testing.T) {
		h := newHub()
		first := &websocket.Conn{}
		second := &websocket.Conn{}
		h.AddClient("u1", first)
		h.AddClient("u1", second)
		// обработчик первого соединения завершается после замены сессии
		h.DeleteClient("u1", first)

		conn, ok := sessionConn(h, "u1")
		require.True(t, ok)
		require.Same(t, second, conn)
	})
	t.Run("delete own session", func(t *testing.T) {
		h := newHub()
		conn := &websocket.Conn{}
		h.AddClient("u1", conn)
		h.DeleteClient("u1", conn)

		_, ok := sessionConn(h, "u1")
		require.False(t, ok)
	})
	t.Run("delete unknown user", func(t *testing.T) {
		h := newHub()
		require.NotPanics(t, func() { h.DeleteClient("nobody", &websocket.Conn{}) })
	})
}
