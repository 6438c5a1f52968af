package chunker

import (
	"regexp"
	"strings"
)

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// SplitText splits a long string into chunks of approximately 'chunkSize'
// characters, with 'overlap' characters repeated at boundaries to preserve
// context. Character-based; good enough for website prose.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}

// SplitSentences splits text on sentence-ending punctuation, keeping the
// terminator with its sentence. Text without any terminator comes back as
// a single trimmed unit.
func SplitSentences(text string) []string {
	locs := sentenceRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var sentences []string
	for _, loc := range locs {
		sentences = append(sentences, strings.TrimSpace(text[loc[0]:loc[1]]))
	}
	// Keep any trailing fragment without a terminator.
	if rest := strings.TrimSpace(text[locs[len(locs)-1][1]:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
