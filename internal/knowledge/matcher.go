package knowledge

import (
	"math/rand/v2"
	"strings"

	"github.com/ashureev/despacho-chat/internal/domain"
)

// MatchResult is the outcome of scoring a message against the knowledge base.
// Intent is set only when Matched is true.
type MatchResult struct {
	Matched  bool
	Intent   domain.Intent
	Score    int
	Keywords []string
}

// Matcher selects canned replies by keyword overlap with intent patterns.
type Matcher struct {
	kb   *Base
	pick func(n int) int
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithPicker overrides the random index source used to choose among replies.
// pick must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(m *Matcher) {
		if pick != nil {
			m.pick = pick
		}
	}
}

// NewMatcher creates a matcher over kb.
func NewMatcher(kb *Base, opts ...Option) *Matcher {
	m := &Matcher{
		kb:   kb,
		pick: rand.IntN,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Base returns the knowledge base the matcher reads from.
func (m *Matcher) Base() *Base {
	return m.kb
}

// Match scores every intent and returns the best one.
//
// An intent scores one point per pattern that contains any keyword as a
// substring. The first intent with the strictly greatest score wins; a best
// score of zero is no match.
func (m *Matcher) Match(text, lang string) MatchResult {
	keywords := ParseLanguage(lang).Keywords(text)
	res := MatchResult{Keywords: keywords}
	if len(keywords) == 0 {
		return res
	}

	best := -1
	for i, in := range m.kb.intents {
		score := 0
		for _, p := range in.Patterns {
			if containsAny(p, keywords) {
				score++
			}
		}
		if score > res.Score {
			res.Score = score
			best = i
		}
	}
	if best < 0 {
		return res
	}
	res.Matched = true
	res.Intent = m.kb.intents[best]
	return res
}

// Reply returns a random reply of the best intent, or a generic fallback when nothing matches.
func (m *Matcher) Reply(text, lang string) domain.Reply {
	res := m.Match(text, lang)
	if !res.Matched {
		return domain.Reply{
			Text:   m.choose(m.kb.defaults),
			Source: domain.SourceDefault,
		}
	}
	return domain.Reply{
		Text:   m.choose(res.Intent.Responses),
		Source: domain.SourceKnowledge,
		Intent: res.Intent.Name,
	}
}

func (m *Matcher) choose(options []string) string {
	return options[m.pick(len(options))]
}

func containsAny(pattern string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(pattern, k) {
			return true
		}
	}
	return false
}
