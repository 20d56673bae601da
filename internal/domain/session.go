package domain

import (
	"time"
)

// TimestampLayout is the ISO-8601 layout used for every turn and reply timestamp.
const TimestampLayout = time.RFC3339Nano

// Turn represents a single message in a conversation transcript.
type Turn struct {
	Text      string `json:"text"`
	IsUser    bool   `json:"isUser"`
	Timestamp string `json:"timestamp"`
}

// History is the ordered transcript of one WebSocket session.
// It is owned by the goroutine serving the connection and is never shared.
type History struct {
	turns []Turn
}

// NewHistory returns a history seeded with the given turns.
func NewHistory(turns ...Turn) *History {
	h := &History{}
	h.turns = append(h.turns, turns...)
	return h
}

// AppendUser records a user turn stamped with now.
func (h *History) AppendUser(text string, now time.Time) {
	h.turns = append(h.turns, Turn{Text: text, IsUser: true, Timestamp: now.Format(TimestampLayout)})
}

// AppendAssistant records an assistant turn stamped with now.
func (h *History) AppendAssistant(text string, now time.Time) {
	h.turns = append(h.turns, Turn{Text: text, IsUser: false, Timestamp: now.Format(TimestampLayout)})
}

// Len returns the number of recorded turns.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.turns)
}

// Turns returns a copy of the transcript.
func (h *History) Turns() []Turn {
	if h == nil {
		return nil
	}
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// RecentTurns returns the last n turns from history.
func RecentTurns(turns []Turn, n int) []Turn {
	if n <= 0 {
		return nil
	}
	if n >= len(turns) {
		return turns
	}
	return turns[len(turns)-n:]
}
