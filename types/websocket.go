package types

const (
	TypeWebsocketPing       = "ping"
	TypeWebsocketPong       = "pong"
	TypeWebsocketAsk        = "ask"
	TypeWebsocketAnswer     = "answer"
	TypeWebsocketProcessing = "processing"
	TypeWebsocketError      = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketProcessingResponse struct {
	Message string `json:"message"`
}

type WebSocketErrorResponse struct {
	Message string `json:"message"`
}
