package agent

import (
	"context"
	"log/slog"

	"github.com/ashureev/despacho-chat/internal/domain"
)

// Service picks a reply for each message: the remote model when it yields a
// usable answer, otherwise the knowledge base.
type Service struct {
	remote Remote
	local  Local
	logger *slog.Logger
}

// NewService creates a dispatcher. remote may be nil for local-only mode.
func NewService(remote Remote, local Local, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		remote: remote,
		local:  local,
		logger: logger,
	}
}

// Respond answers message given the prior history of the conversation.
// It always returns a reply; remote failures fall through to the knowledge base.
func (s *Service) Respond(ctx context.Context, message, language string, history []domain.Turn) domain.Reply {
	if language == "" {
		language = domain.DefaultLanguage
	}

	if s.remote != nil {
		res := s.remote.TryRemote(ctx, message, history)
		if res.OK {
			return domain.Reply{Text: res.Text, Source: domain.SourceRemote}
		}
		s.logger.Info("Falling back to local knowledge base", "reason", res.Reason)
	}

	reply := s.local.Reply(message, language)
	s.logger.Debug("Local reply selected", "source", reply.Source, "intent", reply.Intent, "language", language)
	return reply
}
