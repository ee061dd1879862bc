package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jeremiep/portfolio-be/types"
)

// WebSocketService serves the embedded chat widget over a websocket
// connection.
type WebSocketService struct {
	ai       AIService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWebSocketService(ai AIService, logger *zap.Logger) *WebSocketService {
	return &WebSocketService{
		ai: ai,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
		logger: logger,
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			s.writeError(conn, messageType, "Error processing message")
			continue
		}
		payloadBytes, err := json.Marshal(req.Payload)
		if err != nil {
			s.writeError(conn, messageType, "Error processing message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketChat:
			var payload types.WebSocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				s.writeError(conn, messageType, "Error processing message")
				continue
			}
			res, err := s.ai.Chat(ctx, payload.Messages)
			if err != nil {
				s.logger.Error("chat failed", zap.Error(err))
				s.writeError(conn, messageType, "Error processing message")
				continue
			}
			botMessage := types.WebSocketResponse{
				Type:    types.TypeWebsocketChat,
				Payload: types.WebSocketChatResponse{Message: res.Content},
			}
			if err := conn.WriteJSON(botMessage); err != nil {
				s.logger.Warn("websocket write error", zap.Error(err))
			}
		case types.TypeWebsocketPing:
			pongRes := types.WebSocketResponse{
				Type:    types.TypeWebsocketPong,
				Payload: nil,
			}
			if err := conn.WriteJSON(pongRes); err != nil {
				s.logger.Warn("websocket write error", zap.Error(err))
			}
		default:
			s.logger.Warn("invalid websocket message type", zap.String("type", req.Type))
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, messageType int, message string) {
	res := types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebSocketChatResponse{Message: message},
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := conn.WriteMessage(messageType, data); err != nil {
		s.logger.Warn("websocket write error", zap.Error(err))
	}
}
