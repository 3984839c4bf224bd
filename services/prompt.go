package services

import (
	"regexp"
	"strings"

	"github.com/anissawilliams/ai-crew-tutor/catalog"
)

const defaultReaction = "No reaction available."

// Heuristics for "this looks like code". Deliberately loose: assignments
// and calls in prose also match.
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bdef\b`),
	regexp.MustCompile(`\bclass\b`),
	regexp.MustCompile(`\bimport\b`),
	regexp.MustCompile(`\breturn\b`),
	regexp.MustCompile(`\bif\b\s*\(?.*?\)?\s*:`),
	regexp.MustCompile(`\bfor\b\s*\(?.*?\)?\s*:`),
	regexp.MustCompile(`\bwhile\b\s*\(?.*?\)?\s*:`),
	regexp.MustCompile(`\btry\b\s*:`),
	regexp.MustCompile(`\bexcept\b\s*:`),
	regexp.MustCompile(`\w+\s*=\s*.+`),
	regexp.MustCompile(`\w+\(.*?\)`),
	regexp.MustCompile(`\{.*?\}`),
	regexp.MustCompile(`<.*?>`),
}

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>\n?`)

func IsCodeInput(text string) bool {
	for _, p := range codePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// StripThinking removes the generator's <think> blocks.
func StripThinking(text string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(text, ""))
}

func reactionOf(persona catalog.Persona) string {
	if persona.Reaction == "" {
		return defaultReaction
	}
	return persona.Reaction
}

// BuildPrompt prefixes code with the persona's reaction line.
func BuildPrompt(persona catalog.Persona, text string, forceCode bool) (string, bool) {
	isCode := forceCode || IsCodeInput(text)
	if !isCode {
		return text, false
	}
	return reactionOf(persona) + "\n\n" + text, true
}
