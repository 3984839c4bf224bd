package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anissawilliams/ai-crew-tutor/catalog"
)

func TestIsCodeInput(t *testing.T) {
	cases := []struct {
		text string
		code bool
	}{
		{"def add(a, b): return a + b", true},
		{"import java.util.List;", true},
		{"if (x > 3):", true},
		{"for item in items:", true},
		{"try:\n    risky()", true},
		{"count = 0", true},
		{"System.out.println(x)", true},
		{"public void run() { }", true},
		{"List<String> names", true},
		{"What is the difference between an interface and an abstract type?", false},
		{"Explain recursion like I'm five", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, IsCodeInput(tc.text), tc.text)
	}
}

func TestStripThinking(t *testing.T) {
	raw := "<think>\nplan the answer\nstep two\n</think>\nA stream is a pipeline.<think>again</think> Done."
	assert.Equal(t, "A stream is a pipeline. Done.", StripThinking(raw))
	assert.Equal(t, "no tags", StripThinking("  no tags \n"))
}

func TestBuildPrompt(t *testing.T) {
	yoda := catalog.Persona{Name: "Yoda", Reaction: "Code, you have pasted. Analyze it, we must."}
	plain := catalog.Persona{Name: "Nobody"}

	prompt, isCode := BuildPrompt(yoda, "What is recursion?", false)
	assert.False(t, isCode)
	assert.Equal(t, "What is recursion?", prompt)

	prompt, isCode = BuildPrompt(yoda, "x = fib(n - 1)", false)
	assert.True(t, isCode)
	assert.Equal(t, "Code, you have pasted. Analyze it, we must.\n\nx = fib(n - 1)", prompt)

	prompt, isCode = BuildPrompt(plain, "SELECT 1", true)
	assert.True(t, isCode)
	assert.Equal(t, "No reaction available.\n\nSELECT 1", prompt)
}
