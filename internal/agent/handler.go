package agent

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/despacho-chat/internal/api"
	"github.com/ashureev/despacho-chat/internal/identity"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// defaultMaxRequestBodySize is the default maximum allowed request body size (1MB).
const defaultMaxRequestBodySize = 1 << 20 // 1MB

// Handler serves the stateless HTTP chat endpoint.
type Handler struct {
	agent       *Service
	log         ConversationLogger
	maxBodySize int64
	now         func() time.Time
}

// NewHandler creates a chat handler. A nil conversationLogger discards events.
func NewHandler(agentService *Service, conversationLogger ConversationLogger) *Handler {
	if conversationLogger == nil {
		conversationLogger = noopConversationLogger{}
	}
	return &Handler{
		agent:       agentService,
		log:         conversationLogger,
		maxBodySize: defaultMaxRequestBodySize,
		now:         time.Now,
	}
}

// HandleChat handles POST /chat requests. Each request is answered with an empty history.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	reqID := chiMiddleware.GetReqID(r.Context())

	slog.Info("Chat request",
		"user_id", userID,
		"session_id", sessionID,
		"language", req.Lang(),
		"message_length", len(req.Text),
	)
	h.log.Log(ConversationLogEvent{
		Timestamp:  api.Timestamp(h.now().UTC()),
		UserID:     userID,
		SessionID:  sessionID,
		Channel:    ChannelHTTP,
		Direction:  "outbound",
		EventType:  EventUserMessage,
		ContentRaw: req.Text,
		Meta: map[string]any{
			"request_id":      reqID,
			"language":        req.Lang(),
			"client_user_id":  req.UserID,
			"history_entries": 0,
		},
	})

	reply := h.agent.Respond(r.Context(), req.Text, req.Lang(), nil)

	h.log.Log(ConversationLogEvent{
		Timestamp:  api.Timestamp(h.now().UTC()),
		UserID:     userID,
		SessionID:  sessionID,
		Channel:    ChannelHTTP,
		Direction:  "inbound",
		EventType:  EventAssistantMessage,
		ContentRaw: reply.Text,
		Meta: map[string]any{
			"request_id": reqID,
			"source":     reply.Source,
			"intent":     reply.Intent,
		},
	})

	api.JSON(w, http.StatusOK, ChatResponse{
		Response:  reply.Text,
		Timestamp: api.Timestamp(h.now()),
	})
}

// RegisterRoutes registers the chat route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.HandleChat)
}
