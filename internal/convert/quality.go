package convert

import "strings"

// QualityGate decides whether extracted text is good enough to persist.
// It runs after extraction and before the artifact is written. A nil gate
// accepts everything.
type QualityGate func(text string) bool

// NonBlank rejects text that is empty or whitespace-only.
func NonBlank() QualityGate {
	return func(text string) bool {
		return strings.TrimSpace(text) != ""
	}
}

// MinLength rejects text shorter than n runes after trimming.
func MinLength(n int) QualityGate {
	return func(text string) bool {
		return len([]rune(strings.TrimSpace(text))) >= n
	}
}
