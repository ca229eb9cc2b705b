package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/recipe-assistant/types"
)

type WebSocketService struct {
	rag      *RAGService
	upgrader websocket.Upgrader
}

func NewWebSocketService(rag *RAGService) *WebSocketService {
	return &WebSocketService{
		rag: rag,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

// HandleAsk serves an interactive question session over one websocket
// connection. Each "ask" message runs the full pipeline; a "processing"
// notice goes out first since generation can take tens of seconds.
func (s *WebSocketService) HandleAsk(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	// Set connection properties
	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			s.writeError(conn, "Error processing message")
			log.Println("Unmarshal error:", err)
			continue
		}

		switch req.Type {
		case types.TypeWebsocketAsk:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, "Error processing message")
				log.Println("Marshal error:", err)
				continue
			}
			var ask types.AskRequest
			if err := json.Unmarshal(payloadBytes, &ask); err != nil {
				s.writeError(conn, "Error processing message")
				log.Println("Unmarshal error:", err)
				continue
			}
			if ask.Question == "" {
				s.writeError(conn, "Question must not be empty")
				continue
			}

			processing := types.WebSocketResponse{
				Type:    types.TypeWebsocketProcessing,
				Payload: types.WebSocketProcessingResponse{Message: "Looking for recipes..."},
			}
			if err := conn.WriteJSON(processing); err != nil {
				log.Println("Write error:", err)
				continue
			}

			res, err := s.rag.Ask(ctx, ask.Query())
			if err != nil {
				log.Println("Pipeline error:", err)
				s.writeError(conn, "Failed to answer question")
				continue
			}
			answer := types.WebSocketResponse{
				Type:    types.TypeWebsocketAnswer,
				Payload: res,
			}
			if err := conn.WriteJSON(answer); err != nil {
				log.Println("Write error:", err)
			}

		case types.TypeWebsocketPing:
			pongRes := types.WebSocketResponse{
				Type:    types.TypeWebsocketPong,
				Payload: nil,
			}
			if err := conn.WriteJSON(pongRes); err != nil {
				log.Println("Write error:", err)
			}

		default:
			log.Println("Invalid message type")
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	res := types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebSocketErrorResponse{Message: message},
	}
	if err := conn.WriteJSON(res); err != nil {
		log.Println("Write error:", err)
	}
}
