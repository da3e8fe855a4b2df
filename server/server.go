package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/pkg/app"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

type Message struct {
	Type     string      `json:"type"`
	Content  string      `json:"content"`
	Language string      `json:"language,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// SourceInfo is the per-result payload attached to a response message.
type SourceInfo struct {
	Title string  `json:"title"`
	Area  string  `json:"area"`
	Score float32 `json:"score"`
}

type WSServer struct {
	app *app.App
}

func NewWSServer(a *app.App) *WSServer {
	return &WSServer{app: a}
}

func (s *WSServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Error reading message: %v", err)
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		s.handleMessage(conn, msg)
	}
}

func (s *WSServer) handleMessage(conn *websocket.Conn, msg Message) {
	query := msg.Content
	if query == "" {
		s.sendMessage(conn, Message{Type: "error", Content: "empty query"})
		return
	}

	resp := s.app.Answer(context.Background(), query)

	sources := make([]SourceInfo, 0, len(resp.Sources))
	for _, src := range resp.Sources {
		sources = append(sources, SourceInfo{
			Title: src.Chunk.Record.Title,
			Area:  src.Chunk.Record.DisplayArea(),
			Score: src.Score,
		})
	}

	s.sendMessage(conn, Message{
		Type:     "response",
		Content:  resp.Text,
		Language: resp.Language,
		Data:     sources,
	})
}

func (s *WSServer) sendMessage(conn *websocket.Conn, msg Message) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// Serve registers the WebSocket and health endpoints and blocks on the
// listener.
func Serve(a *app.App, addr string) error {
	server := NewWSServer(a)

	http.HandleFunc("/ws", server.handleWebSocket)
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	log.Printf("Starting WebSocket server on %s", addr)
	return http.ListenAndServe(addr, nil)
}
