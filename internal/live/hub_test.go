package live

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tech-hub-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestHub(t *testing.T, origins ...string) (*Hub, *httptest.Server, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	hub := NewHub(zap.New(core), origins)
	srv := httptest.NewServer(hub)
	return hub, srv, logs
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	resp.Body.Close()
	return conn
}

func waitForViewers(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Count() == n }, 2*time.Second, 5*time.Millisecond)
}

func sampleFeedback() models.Feedback {
	return models.Feedback{
		ID:           bson.NewObjectID(),
		AttendeeID:   bson.NewObjectID(),
		Expectations: "meet other gophers",
		Experience:   models.ExperienceExcellent,
		KeyTakeaways: "profiling is underrated",
		Improvements: "bigger venue next time",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event Event
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestHub_PublishReachesConnectedViewersOnly(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub, srv, _ := newTestHub(t)
	defer srv.Close()
	defer hub.Close()

	early := dial(t, srv, nil)
	defer early.Close()
	waitForViewers(t, hub, 1)

	feedback := sampleFeedback()
	require.NoError(t, hub.Publish(context.Background(), feedback))

	late := dial(t, srv, nil)
	defer late.Close()
	waitForViewers(t, hub, 2)

	event := readEvent(t, early)
	assert.Equal(t, EventNewFeedback, event.Type)
	assert.Equal(t, feedback.ID, event.Data.ID)
	assert.Equal(t, feedback.Experience, event.Data.Experience)
	expectSilence(t, early)

	expectSilence(t, late)
}

func TestHub_FanOutToEveryViewer(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub, srv, _ := newTestHub(t)
	defer srv.Close()
	defer hub.Close()

	conns := make([]*websocket.Conn, 3)
	for i := range conns {
		conns[i] = dial(t, srv, nil)
		defer conns[i].Close()
	}
	waitForViewers(t, hub, len(conns))

	feedback := sampleFeedback()
	require.NoError(t, hub.Publish(context.Background(), feedback))
	for _, conn := range conns {
		assert.Equal(t, feedback.ID, readEvent(t, conn).Data.ID)
	}
}

func TestHub_LogsConnectionLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub, srv, logs := newTestHub(t)
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv, nil)
	waitForViewers(t, hub, 1)
	require.NoError(t, conn.Close())
	waitForViewers(t, hub, 0)

	require.Eventually(t, func() bool {
		return logs.FilterMessage("viewer disconnected").Len() == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, logs.FilterMessage("viewer connected").Len())
}

func TestHub_Close(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub, srv, _ := newTestHub(t)
	defer srv.Close()

	conn := dial(t, srv, nil)
	defer conn.Close()
	waitForViewers(t, hub, 1)

	hub.Close()
	hub.Close()
	assert.Equal(t, 0, hub.Count())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	assert.ErrorIs(t, hub.Publish(context.Background(), sampleFeedback()), ErrHubClosed)

	after := dial(t, srv, nil)
	defer after.Close()
	require.NoError(t, after.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = after.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestHub_RejectsUnknownOrigin(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub, srv, _ := newTestHub(t, "https://feedback.example")
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ok := dial(t, srv, http.Header{"Origin": {"https://feedback.example"}})
	defer ok.Close()
	waitForViewers(t, hub, 1)
}

func TestHub_DropsForFullViewers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	hub := NewHub(zap.New(core), nil)

	slow := &viewer{id: "slow", send: make(chan []byte, 1)}
	require.True(t, hub.add(slow))

	require.NoError(t, hub.Publish(context.Background(), sampleFeedback()))
	require.NoError(t, hub.Publish(context.Background(), sampleFeedback()))

	assert.Len(t, slow.send, 1)
	assert.Equal(t, 1, logs.FilterMessage("live update dropped for slow viewers").Len())
}

func TestHub_PublishWithoutViewers(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil)
	assert.NoError(t, hub.Publish(context.Background(), sampleFeedback()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, hub.Publish(ctx, sampleFeedback()), context.Canceled)
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	feedback := sampleFeedback()

	require.NoError(t, NewLogPublisher(zap.New(core)).Publish(context.Background(), feedback))
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, feedback.ID.Hex(), entries[0].ContextMap()["feedback_id"])
}
