package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/despacho-chat/internal/agent"
	"github.com/ashureev/despacho-chat/internal/domain"
	"github.com/ashureev/despacho-chat/internal/identity"
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

const (
	readLimit    = 64 << 10
	writeTimeout = 10 * time.Second
)

// WebSocketHandler handles WebSocket chat sessions.
type WebSocketHandler struct {
	agent         *agent.Service
	sm            *Manager
	log           agent.ConversationLogger
	allowedOrigin string
	isDev         bool
	now           func() time.Time
}

// NewWebSocketHandler creates a new WebSocket handler. A nil conversationLogger discards events.
func NewWebSocketHandler(agentService *agent.Service, sm *Manager, conversationLogger agent.ConversationLogger, allowedOrigin string, isDev bool) *WebSocketHandler {
	if conversationLogger == nil {
		conversationLogger, _ = agent.NewConversationLogger(agent.ConversationLogConfig{}, nil)
	}
	return &WebSocketHandler{
		agent:         agentService,
		sm:            sm,
		log:           conversationLogger,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
		now:           time.Now,
	}
}

// wsMessage represents an inbound WebSocket frame.
type wsMessage struct {
	Type     string `json:"type,omitempty"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	connID := uuid.NewString()
	slog.Info("WebSocket connection request", "user_id", userID, "session_id", sessionID, "conn_id", connID, "ip", identity.IPFromRequest(r))

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "conn_id", connID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "conn_id", connID)
		}
	}()
	ws.SetReadLimit(readLimit)

	h.sm.Register(connID, ws)
	defer h.sm.Unregister(connID, ws)

	h.chatLoop(r.Context(), ws, userID, sessionID, connID)
	slog.Info("Chat session ended", "conn_id", connID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

// chatLoop handles one message at a time until the client goes away.
// The transcript lives only as long as this loop.
func (h *WebSocketHandler) chatLoop(ctx context.Context, ws *websocket.Conn, userID, sessionID, connID string) {
	history := domain.NewHistory()
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "conn_id", connID)
			} else {
				slog.Warn("WebSocket read error", "error", err, "conn_id", connID)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if err := h.writeJSON(ctx, ws, map[string]string{"error": "invalid message"}); err != nil {
				slog.Debug("Failed to send invalid message error", "error", err)
				return
			}
			continue
		}

		if msg.Type == "ping" {
			if err := h.writeJSON(ctx, ws, map[string]string{"type": "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
				return
			}
			continue
		}

		if strings.TrimSpace(msg.Text) == "" {
			if err := h.writeJSON(ctx, ws, map[string]string{"error": "text is required"}); err != nil {
				slog.Debug("Failed to send text required error", "error", err)
				return
			}
			continue
		}

		in := domain.IncomingMessage{Text: msg.Text, Language: msg.Language}
		prior := history.Turns()
		history.AppendUser(in.Text, h.now())
		h.logTurn(userID, sessionID, connID, "outbound", agent.EventUserMessage, in.Text, map[string]any{
			"language":        in.Lang(),
			"history_entries": len(prior),
		})

		reply := h.agent.Respond(ctx, in.Text, in.Lang(), prior)

		history.AppendAssistant(reply.Text, h.now())
		h.logTurn(userID, sessionID, connID, "inbound", agent.EventAssistantMessage, reply.Text, map[string]any{
			"source": reply.Source,
			"intent": reply.Intent,
		})

		if err := h.writeJSON(ctx, ws, domain.OutgoingMessage{
			Response:  reply.Text,
			Timestamp: h.now().Format(domain.TimestampLayout),
		}); err != nil {
			slog.Warn("Failed to send reply", "error", err, "conn_id", connID)
			return
		}
	}
}

func (h *WebSocketHandler) logTurn(userID, sessionID, connID, direction, eventType, content string, meta map[string]any) {
	meta["conn_id"] = connID
	h.log.Log(agent.ConversationLogEvent{
		Timestamp:  h.now().UTC().Format(domain.TimestampLayout),
		UserID:     userID,
		SessionID:  sessionID,
		Channel:    agent.ChannelWebSocket,
		Direction:  direction,
		EventType:  eventType,
		ContentRaw: content,
		Meta:       meta,
	})
}

func (h *WebSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, data)
}
