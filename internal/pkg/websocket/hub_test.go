package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
	"go.uber.org/goleak"
)

func fakeClient(hub *Hub, userID int64, buffer int) *Client {
	return &Client{hub: hub, send: make(chan []byte, buffer), userID: userID, logger: zerolog.Nop()}
}

func receive(t *testing.T, c *Client) LiveMessage {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var msg LiveMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for live message")
		return LiveMessage{}
	}
}

func TestHub_BroadcastAndStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(zerolog.Nop())
	go hub.Run()

	a, b := fakeClient(hub, 1, 4), fakeClient(hub, 2, 4)
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	entityID := "12"
	hub.Broadcast(NewAuditMessage(&models.AuditLog{Action: "company.review", EntityType: "company", EntityID: &entityID, ActorEmail: "admin@x.io"}))

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		assert.Equal(t, TypeAudit, msg.Type)
		assert.Equal(t, "company.review", msg.Action)
		assert.Equal(t, "12", msg.EntityID)
		assert.Equal(t, "admin@x.io", msg.ActorEmail)
		assert.False(t, msg.Timestamp.IsZero())
	}

	hub.Unregister(a)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-a.send
	assert.False(t, open)

	hub.Stop()
	_, open = <-b.send
	assert.False(t, open)

	// no-ops after stop
	hub.Stop()
	hub.Broadcast(LiveMessage{Type: TypeAudit})
	hub.Unregister(b)
	assert.False(t, hub.Register(fakeClient(hub, 3, 1)))
}

func TestHub_DropsSlowClient(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer hub.Stop()

	slow := fakeClient(hub, 1, 1)
	require.True(t, hub.Register(slow))

	hub.Broadcast(LiveMessage{Type: TypeModeration, Action: "APPROVE"})
	hub.Broadcast(LiveMessage{Type: TypeModeration, Action: "REJECT"})

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	msg := receive(t, slow)
	assert.Equal(t, "APPROVE", msg.Action)
	_, open := <-slow.send
	assert.False(t, open)
}

func TestNewModerationMessage(t *testing.T) {
	msg := NewModerationMessage(&models.ModerationLog{EventID: 9, Action: models.ModerationApprove}, "mod@x.io")
	assert.Equal(t, TypeModeration, msg.Type)
	assert.Equal(t, "event", msg.EntityType)
	assert.Equal(t, "9", msg.EntityID)
	assert.Equal(t, "APPROVE", msg.Action)
}

func TestHandler_ServeLive(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	go hub.Run()

	router := gin.New()
	router.GET("/live", func(c *gin.Context) {
		c.Set("userID", int64(42))
		NewHandler(hub, nil, zerolog.Nop()).ServeLive(c)
	})
	srv := httptest.NewServer(router)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(LiveMessage{Type: TypeAudit, Action: "user.status", EntityType: "user", EntityID: "5", Timestamp: time.Now()})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg LiveMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "user.status", msg.Action)

	hub.Stop()
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)

	conn.Close()
	srv.Close()
}

func TestHandler_RejectsForeignOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer hub.Stop()

	router := gin.New()
	router.GET("/live", NewHandler(hub, []string{"https://admin.eventhub.app"}, zerolog.Nop()).ServeLive)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://admin.eventhub.app"}})
	require.NoError(t, err)
	resp.Body.Close()
	conn.Close()
}
