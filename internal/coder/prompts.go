package coder

import (
	_ "embed"
	"fmt"

	"github.com/youruser/anycoder/internal/llm"
)

//go:embed system_prompt.txt
var systemPrompt string

//go:embed reminder_prompt.txt
var reminderPrompt string

// buildMessages assembles the chat request for one completion attempt:
// system prompt, large window, small window, and a closing reminder.
func buildMessages(big, small Window, langHint string) []llm.Message {
	smallMsg := fmt.Sprintf("small context:\n%s", small.Text)
	if langHint != "" {
		smallMsg = fmt.Sprintf("language: %s\n%s", langHint, smallMsg)
	}

	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("big context:\n%s", big.Text)},
		{Role: "user", Content: smallMsg},
		{Role: "user", Content: reminderPrompt},
	}
}
