package bus

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
)

func dialTestBus(t *testing.T) (*Server, *ws.Conn) {
	t.Helper()
	s := NewServer("unused")

	srv := httptest.NewServer(http.HandlerFunc(s.handleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Wait for the server to register the connection.
	deadline := time.Now().Add(time.Second)
	for {
		s.mu.Lock()
		n := len(s.conns)
		s.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return s, conn
}

func TestPublish_ReachesClient(t *testing.T) {
	s, conn := dialTestBus(t)

	s.Publish(KindReply, "hello from zen")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if m.Kind != KindReply || m.Content != "hello from zen" || m.From != "zen" {
		t.Errorf("got %+v", m)
	}
}

func TestClientUtterance_ReachesPipeline(t *testing.T) {
	s, conn := dialTestBus(t)

	out, _ := json.Marshal(Message{Kind: KindUtterance, Content: "what time is it"})
	if err := conn.WriteMessage(ws.TextMessage, out); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case text := <-s.Utterances():
		if text != "what time is it" {
			t.Errorf("utterance = %q", text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for utterance")
	}
}

func TestSetState_BroadcastsStateKind(t *testing.T) {
	s, conn := dialTestBus(t)

	s.SetState(StateThinking)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var m Message
	json.Unmarshal(data, &m)
	if m.Kind != KindState || m.Content != StateThinking {
		t.Errorf("got %+v", m)
	}
}
