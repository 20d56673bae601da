// Package agent implements the reply dispatcher and the HTTP chat endpoint.
package agent

import "github.com/ashureev/despacho-chat/internal/domain"

// Channel names used in conversation log events.
const (
	ChannelHTTP      = "chat_http"
	ChannelWebSocket = "chat_ws"
)

// Event types used in conversation log events.
const (
	EventUserMessage      = "chat_user_message"
	EventAssistantMessage = "chat_assistant_message"
)

// ChatRequest is the body of POST /chat.
type ChatRequest = domain.IncomingMessage

// ChatResponse is the body returned by POST /chat.
type ChatResponse = domain.OutgoingMessage
