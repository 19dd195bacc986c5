package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/logging"
)

func TestMemoryBroker_FanOut(t *testing.T) {
	b := NewMemoryBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s1, err := b.Subscribe(ctx)
	require.NoError(t, err)
	s2, err := b.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, Event{Type: "activity", ProjectID: 4}))

	for _, ch := range []<-chan Event{s1, s2} {
		select {
		case ev := <-ch:
			assert.Equal(t, int64(4), ev.ProjectID)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}

	require.NoError(t, b.Close())
	_, open := <-s1
	assert.False(t, open)
}

func TestNewBroker_FallsBackToMemory(t *testing.T) {
	log := logging.Discard()

	_, ok := NewBroker("", log).(*MemoryBroker)
	assert.True(t, ok)

	_, ok = NewBroker("not a url", log).(*MemoryBroker)
	assert.True(t, ok)

	_, ok = NewBroker("redis://127.0.0.1:1/0", log).(*MemoryBroker)
	assert.True(t, ok)
}

func TestRedisBroker_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	b := NewRedisBroker(redis.NewClient(opts), "crmdesk:test:"+t.Name(), logging.Discard())
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := b.Subscribe(ctx)
	require.NoError(t, err)
	require.NoError(t, b.Publish(ctx, Event{Type: "activity", ProjectID: 9, Payload: json.RawMessage(`{"action":"x"}`)}))

	select {
	case ev := <-events:
		assert.Equal(t, int64(9), ev.ProjectID)
		assert.JSONEq(t, `{"action":"x"}`, string(ev.Payload))
	case <-ctx.Done():
		t.Fatal("event not delivered")
	}
}

func TestHub_DeliversOnlyToWatchedProject(t *testing.T) {
	hub := NewHub(nil, logging.Discard())
	broker := NewMemoryBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.Run(ctx, broker))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectID := int64(1)
		if strings.HasSuffix(r.URL.Path, "/2") {
			projectID = 2
		}
		_ = hub.Serve(w, r, 10, projectID)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	c1, _, err := websocket.DefaultDialer.Dial(wsURL+"/1", nil)
	require.NoError(t, err)
	defer c1.Close()
	c2, _, err := websocket.DefaultDialer.Dial(wsURL+"/2", nil)
	require.NoError(t, err)
	defer c2.Close()

	require.Eventually(t, func() bool { return hub.Watchers(1) == 1 && hub.Watchers(2) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, broker.Publish(ctx, Event{Type: "activity", ProjectID: 1, Payload: json.RawMessage(`{"action":"Milestone created"}`)}))

	c1.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := c1.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, int64(1), ev.ProjectID)
	assert.Contains(t, string(ev.Payload), "Milestone created")

	c2.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = c2.ReadMessage()
	assert.Error(t, err)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	hub := NewHub([]string{"http://app.example"}, logging.Discard())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, 1, 1)
	}))
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
