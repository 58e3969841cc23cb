package topic

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinSentenceLength is the length a sentence must exceed to be clustered.
const MinSentenceLength = 15

// closers may follow terminal punctuation before the boundary.
const closers = `"')]’”`

// SplitSentences is a punctuation-based splitter used when no segmenter is configured.
// A boundary is one or more of .!? (plus closing quotes or brackets) followed by
// whitespace, or a blank line.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0

	emit := func(end int) {
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' && i+1 < len(runes) && runes[i+1] == '\n' {
			emit(i)
			continue
		}
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && strings.ContainsRune(".!?", runes[j]) {
			j++
		}
		for j < len(runes) && strings.ContainsRune(closers, runes[j]) {
			j++
		}
		if j == len(runes) || unicode.IsSpace(runes[j]) {
			emit(j)
			i = j - 1
		}
	}
	emit(len(runes))
	return out
}

// qualifying keeps sentences longer than MinSentenceLength characters.
func qualifying(sentences []string) []string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if utf8.RuneCountInString(s) > MinSentenceLength {
			out = append(out, s)
		}
	}
	return out
}
