package domain

// DefaultLanguage is used when a message carries no language flag.
const DefaultLanguage = "es"

// IncomingMessage is the payload accepted by the chat endpoints.
type IncomingMessage struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

// Lang returns the message language, falling back to DefaultLanguage.
func (m IncomingMessage) Lang() string {
	if m.Language == "" {
		return DefaultLanguage
	}
	return m.Language
}

// ReplySource records which path produced a reply.
type ReplySource string

const (
	// SourceRemote indicates a validated model-generated reply.
	SourceRemote ReplySource = "remote"
	// SourceKnowledge indicates a reply from a matched knowledge-base intent.
	SourceKnowledge ReplySource = "knowledge"
	// SourceDefault indicates a generic fallback reply.
	SourceDefault ReplySource = "default"
)

// Reply is the outcome of dispatching one message.
type Reply struct {
	Text   string
	Source ReplySource
	Intent string
}

// OutgoingMessage is the payload returned to chat clients.
type OutgoingMessage struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}
