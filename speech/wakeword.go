// Package speech turns raw transcripts into commands and commands into
// intents. Classification is rule-based on purpose: an explicit ordered
// phrase table, no scoring.
package speech

import "strings"

// DefaultWakeWord is the phrase that addresses the assistant.
const DefaultWakeWord = "hey daniel"

// WakeWord detects and strips the wake phrase from a transcript.
//
// Matching is plain case-insensitive substring containment, not
// token-boundary aware: a phrase embedded inside a longer word still
// matches. Inherited behavior, kept as-is.
type WakeWord struct {
	Phrase string
}

func NewWakeWord(phrase string) WakeWord {
	if phrase == "" {
		phrase = DefaultWakeWord
	}
	return WakeWord{Phrase: strings.ToLower(phrase)}
}

// Detect reports whether the transcript contains the wake phrase.
func (w WakeWord) Detect(text string) bool {
	if text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(strings.TrimSpace(text)), w.Phrase)
}

// Strip returns the command portion of the transcript: lower-cased, with
// only the first occurrence of the wake phrase removed, trimmed. A repeated
// wake phrase stays part of the command. Without the wake phrase the whole
// normalized transcript is returned.
func (w WakeWord) Strip(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	if strings.Contains(lower, w.Phrase) {
		return strings.TrimSpace(strings.Replace(lower, w.Phrase, "", 1))
	}
	return lower
}
