package agent

import (
	"context"

	"github.com/ashureev/despacho-chat/internal/domain"
	"github.com/ashureev/despacho-chat/internal/inference"
	"github.com/ashureev/despacho-chat/internal/knowledge"
)

// Remote produces model-generated replies.
// This interface is implemented by the inference client.
type Remote interface {
	// TryRemote returns a validated reply, or an absent Result on any failure.
	TryRemote(ctx context.Context, message string, history []domain.Turn) inference.Result
}

// Local produces replies from the knowledge base.
// This interface is implemented by the knowledge matcher.
type Local interface {
	// Reply always returns a reply for message.
	Reply(message, language string) domain.Reply
}

// Ensure the concrete collaborators implement the interfaces.
var (
	_ Remote = (*inference.Client)(nil)
	_ Local  = (*knowledge.Matcher)(nil)
)
