// Package bus exposes the daemon to companion front-ends over a
// websocket endpoint. The daemon broadcasts state changes, transcripts
// and replies; clients may push text utterances into the pipeline.
package bus

import (
	"encoding/json"
	"net/http"
	"sync"

	log "log/slog"

	ws "github.com/gorilla/websocket"
)

// Message kinds broadcast by the daemon.
const (
	KindState      = "state"
	KindTranscript = "transcript"
	KindReply      = "reply"
	KindUtterance  = "utterance" // client -> daemon
)

// Assistant states published on KindState.
const (
	StateIdle      = "idle"
	StateWake      = "wake"
	StateListening = "listening"
	StateThinking  = "thinking"
	StateSpeaking  = "speaking"
)

type Message struct {
	From    string `json:"from"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// Server accepts websocket clients on /ws and fans broadcasts out to all
// of them.
type Server struct {
	addr     string
	upgrader ws.Upgrader

	mu    sync.Mutex
	conns map[*ws.Conn]bool

	utterances chan string
}

func NewServer(addr string) *Server {
	return &Server{
		addr: addr,
		upgrader: ws.Upgrader{
			// Local desktop clients only; no origin policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns:      make(map[*ws.Conn]bool),
		utterances: make(chan string, 8),
	}
}

// Utterances delivers text pushed by connected front-ends.
func (s *Server) Utterances() <-chan string { return s.utterances }

// Start serves the websocket endpoint in the background.
func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	go func() {
		log.Info("Bus listening", "addr", s.addr)
		if err := http.ListenAndServe(s.addr, mux); err != nil {
			log.Error("Bus server stopped", "err", err)
		}
	}()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Bus upgrade failed", "err", err)
		return
	}

	s.mu.Lock()
	s.conns[conn] = true
	s.mu.Unlock()
	log.Info("Bus client connected", "remote", conn.RemoteAddr())

	go s.readLoop(conn)
}

func (s *Server) readLoop(conn *ws.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Debug("Bus client gone", "err", err)
			return
		}

		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			log.Warn("Bus message unparsable", "err", err)
			continue
		}
		if m.Kind == KindUtterance && m.Content != "" {
			select {
			case s.utterances <- m.Content:
			default:
				log.Warn("Utterance dropped, pipeline busy")
			}
		}
	}
}

// Publish broadcasts a message to every connected client.
func (s *Server) Publish(kind, content string) {
	m := Message{From: "zen", Kind: kind, Content: content}
	data, err := json.Marshal(m)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteMessage(ws.TextMessage, data); err != nil {
			delete(s.conns, conn)
			conn.Close()
		}
	}
}

// SetState publishes an assistant state change.
func (s *Server) SetState(state string) { s.Publish(KindState, state) }
