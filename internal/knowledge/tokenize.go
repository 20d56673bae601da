package knowledge

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Language selects segmentation and stop-words.
type Language int

const (
	// Spanish is selected by the "es" flag.
	Spanish Language = iota
	// English is selected by any other flag.
	English
)

// ParseLanguage maps a client language flag to a Language.
func ParseLanguage(flag string) Language {
	if flag == "es" {
		return Spanish
	}
	return English
}

func (l Language) tag() language.Tag {
	if l == Spanish {
		return language.Spanish
	}
	return language.English
}

func (l Language) stopWords() map[string]struct{} {
	if l == Spanish {
		return spanishStopWords
	}
	return englishStopWords
}

// Lower lower-cases text with the casing rules of the language.
// A Caser is stateful, so one is built per call.
func (l Language) Lower(text string) string {
	return cases.Lower(l.tag()).String(text)
}

// Tokens splits lower-cased text into word tokens.
// English clitics ("n't", "'s", "'re") are split off the stem and dropped;
// Spanish keeps apostrophe tokens whole.
func (l Language) Tokens(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
	if l != English {
		return raw
	}
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if i := strings.IndexAny(tok, "'’"); i >= 0 {
			stem := strings.TrimSuffix(tok[:i], "n")
			if strings.HasPrefix(tok[i:], "'t") || strings.HasPrefix(tok[i:], "’t") {
				out = append(out, stem)
				continue
			}
			out = append(out, tok[:i])
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Keywords lower-cases the text and returns its alphabetic, non-stop-word tokens in order.
func (l Language) Keywords(text string) []string {
	stop := l.stopWords()
	var keywords []string
	for _, tok := range l.Tokens(l.Lower(text)) {
		if tok == "" || !isAlpha(tok) {
			continue
		}
		if _, ok := stop[tok]; ok {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
