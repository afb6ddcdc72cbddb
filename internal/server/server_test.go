package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	ws "github.com/coder/websocket"

	"github.com/rowanvale/chirp/internal/database"
	"github.com/rowanvale/chirp/internal/realtime"
)

func setupTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := New(db, nil, slog.Default())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

// Dials /ws through the full middleware chain and checks a broadcast event
// reaches the connected client. The handshake hijacks the connection, so
// this covers the whole wrapped-writer path, not just the hub.
func TestLiveFeedDeliversEvents(t *testing.T) {
	srv, ts := setupTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, ts.URL+"/ws", nil)
	if err != nil {
		t.Fatalf("dial /ws: %v", err)
	}
	defer conn.Close(ws.StatusNormalClosure, "")

	// Registration happens in the handler goroutine after the handshake.
	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	srv.hub.Broadcast(realtime.NewEvent("post", "created", 7, nil))

	typ, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	if typ != ws.MessageText {
		t.Errorf("message type = %v, want text", typ)
	}

	var ev realtime.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if ev.Type != "post_created" {
		t.Errorf("type = %q, want post_created", ev.Type)
	}
	if ev.ID != 7 {
		t.Errorf("id = %d, want 7", ev.ID)
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := setupTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
