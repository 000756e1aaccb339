package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"campus-rental-client/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// echoServer answers every send frame with a message frame and counts
// pings it receives.
type echoServer struct {
	*httptest.Server
	token  atomic.Value
	joined atomic.Value
	pings  atomic.Int32
}

func newEchoServer(t *testing.T) *echoServer {
	t.Helper()
	s := &echoServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.token.Store(r.URL.Query().Get("token"))
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		ws.SetPingHandler(func(data string) error {
			s.pings.Add(1)
			return ws.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
		})

		for {
			var f Frame
			if err := ws.ReadJSON(&f); err != nil {
				return
			}
			switch f.Type {
			case TypeJoin:
				s.joined.Store(f.ConversationID)
			case TypeSend:
				reply := Frame{Type: TypeMessage, Message: &domain.ChatMessage{
					ID:             "m1",
					ConversationID: f.ConversationID,
					SenderID:       "u1",
					Content:        f.Content,
				}}
				if err := ws.WriteJSON(reply); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *echoServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/ws/chat"
}

func TestDial_RequiresToken(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1/ws/chat", "")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestDial_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Dial(ctx, "ws://127.0.0.1:1/ws/chat", "tok")
	assert.Error(t, err)
}

func TestConn_SendAndReceive(t *testing.T) {
	srv := newEchoServer(t)

	conn, err := Dial(context.Background(), srv.wsURL(), "tok-123")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Join("c1"))
	require.NoError(t, conn.Send("c1", "  is the cycle free on Friday?  "))

	select {
	case msg := <-conn.Messages():
		assert.Equal(t, "c1", msg.ConversationID)
		assert.Equal(t, "is the cycle free on Friday?", msg.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
	assert.Equal(t, "tok-123", srv.token.Load())
	assert.Equal(t, "c1", srv.joined.Load())
}

func TestConn_SendEmpty(t *testing.T) {
	srv := newEchoServer(t)
	conn, err := Dial(context.Background(), srv.wsURL(), "tok")
	require.NoError(t, err)
	defer conn.Close()

	assert.ErrorIs(t, conn.Send("c1", "   "), ErrEmptyMessage)
}

func TestConn_Close(t *testing.T) {
	srv := newEchoServer(t)
	conn, err := Dial(context.Background(), srv.wsURL(), "tok")
	require.NoError(t, err)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())

	select {
	case <-conn.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed")
	}
	assert.ErrorIs(t, conn.Send("c1", "hello"), ErrClosed)

	select {
	case _, ok := <-conn.Messages():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("messages not closed")
	}
	assert.NoError(t, conn.Err())
}

func TestConn_Keepalive(t *testing.T) {
	srv := newEchoServer(t)
	ws, _, err := websocket.DefaultDialer.Dial(srv.wsURL()+"?token=tok", nil)
	require.NoError(t, err)

	conn := newConn(ws, 20*time.Millisecond, time.Second)
	conn.start()
	defer conn.Close()

	assert.Eventually(t, func() bool { return srv.pings.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestConn_ServerDrop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws.Close()
	}))
	defer srv.Close()

	conn, err := Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"), "tok")
	require.NoError(t, err)

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("connection drop not noticed")
	}
	assert.Error(t, conn.Err())
}
