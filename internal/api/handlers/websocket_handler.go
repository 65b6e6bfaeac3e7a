package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/refineryiq/server/internal/insight"
	"github.com/refineryiq/server/pkg/logger"
)

// WebSocketHandler runs the chat-style insight conversation over a single
// connection: one inbound query message, one outbound answer.
type WebSocketHandler struct {
	router *insight.Router
}

func NewWebSocketHandler(router *insight.Router) *WebSocketHandler {
	return &WebSocketHandler{router: router}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("insight websocket connected")
	defer func() {
		c.Close()
		logger.Info("insight websocket closed")
	}()

	for {
		var msg struct {
			Type  string `json:"type"`
			Query string `json:"query"`
		}
		if err := c.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		if msg.Type != "query" || msg.Query == "" || len(msg.Query) > maxQueryLength {
			h.send(c, "error", insight.Response{Response: "expected {\"type\":\"query\",\"query\":\"...\"}"})
			continue
		}

		resp := h.router.Query(context.Background(), msg.Query)
		h.send(c, "answer", resp)
	}
}

func (h *WebSocketHandler) send(c *websocket.Conn, msgType string, resp insight.Response) {
	payload := struct {
		Type string `json:"type"`
		insight.Response
	}{Type: msgType, Response: resp}

	if err := c.WriteJSON(payload); err != nil {
		logger.Warn("websocket write failed", zap.Error(err))
	}
}
