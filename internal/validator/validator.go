// Package validator rejects model-generated replies that are empty, too short
// or phrased as a refusal.
package validator

import (
	"strings"
	"unicode/utf8"
)

const (
	// MinLength is the minimum trimmed length of any acceptable reply.
	MinLength = 10
	// MinLegalLength is the length a reply must exceed when the user asked about a legal topic.
	MinLegalLength = 20
)

// DefaultRefusals are phrasings that mark a reply as unhelpful.
var DefaultRefusals = []string{
	"no puedo ayudarte",
	"no tengo información",
	"no sé",
	"no entiendo",
	"no puedo responder",
	"no tengo acceso",
	"no puedo proporcionar",
	"lo siento, no puedo",
}

// DefaultLegalTerms mark a user message as being about the office's legal services.
var DefaultLegalTerms = []string{
	"despacho", "abogado", "legal", "consulta", "cita", "horario",
	"servicio", "derecho", "asesoría", "contacto", "teléfono", "email",
}

// Reason explains why a reply was rejected.
type Reason string

const (
	// ReasonNone marks an accepted reply.
	ReasonNone Reason = ""
	// ReasonTooShort marks an empty reply or one under MinLength.
	ReasonTooShort Reason = "too_short"
	// ReasonRefusal marks a reply containing a refusal phrase.
	ReasonRefusal Reason = "refusal"
	// ReasonLegalTooShort marks a reply too thin for a legal question.
	ReasonLegalTooShort Reason = "insufficient_for_legal_context"
)

// Verdict is the outcome of Check.
type Verdict struct {
	Reason Reason
	Phrase string
}

// OK reports whether the reply was accepted.
func (v Verdict) OK() bool {
	return v.Reason == ReasonNone
}

// Validator holds the immutable phrase lists used to judge replies.
type Validator struct {
	refusals   []string
	legalTerms []string
}

// New creates a validator. Nil lists select the defaults.
func New(refusals, legalTerms []string) *Validator {
	if refusals == nil {
		refusals = DefaultRefusals
	}
	if legalTerms == nil {
		legalTerms = DefaultLegalTerms
	}
	v := &Validator{
		refusals:   make([]string, 0, len(refusals)),
		legalTerms: make([]string, 0, len(legalTerms)),
	}
	for _, p := range refusals {
		v.refusals = append(v.refusals, strings.ToLower(p))
	}
	for _, t := range legalTerms {
		v.legalTerms = append(v.legalTerms, strings.ToLower(t))
	}
	return v
}

// IsValid reports whether candidate is an acceptable answer to userMessage.
func (v *Validator) IsValid(candidate, userMessage string) bool {
	return v.Check(candidate, userMessage).OK()
}

// Check applies the rules in order and returns the first rejection.
func (v *Validator) Check(candidate, userMessage string) Verdict {
	trimmed := strings.TrimSpace(candidate)
	length := utf8.RuneCountInString(trimmed)
	if length < MinLength {
		return Verdict{Reason: ReasonTooShort}
	}

	lower := strings.ToLower(candidate)
	for _, p := range v.refusals {
		if strings.Contains(lower, p) {
			return Verdict{Reason: ReasonRefusal, Phrase: p}
		}
	}

	if v.HasLegalContext(userMessage) && length <= MinLegalLength {
		return Verdict{Reason: ReasonLegalTooShort}
	}
	return Verdict{}
}

// HasLegalContext reports whether the message mentions any legal term.
func (v *Validator) HasLegalContext(userMessage string) bool {
	lower := strings.ToLower(userMessage)
	for _, t := range v.legalTerms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
