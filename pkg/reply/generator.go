package reply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"research-chat-be/internal/entity"
	"research-chat-be/pkg/llm"
)

const (
	// EmptyResponseText is returned when the upstream model answers with an
	// empty body.
	EmptyResponseText = "The language model returned an empty response."

	fallbackTextFormat = "I tried to call the language model but the request failed.\nTechnical details: %v"

	topicPromptFormat = "You are an AI assistant helping a technical user understand an AI research topic.\n\n" +
		"Topic title: %s\n" +
		"Topic summary: %s\n\n" +
		"Answer the user's question clearly and technically, grounded in this topic.\n\n" +
		"User question: %s"
)

// Generator wraps an LLMProvider into a total function: Generate never
// returns an error. Transport failures, timeouts and empty upstream results
// are converted into a readable assistant reply, so turn orchestration above
// it needs no failure branch for generation.
type Generator struct {
	provider llm.LLMProvider
	timeout  time.Duration
}

func NewGenerator(provider llm.LLMProvider, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Generator{
		provider: provider,
		timeout:  timeout,
	}
}

// BuildPrompt returns the prompt sent to the model. Global chats pass the
// user message through untouched; topic chats prepend the topic's title and
// summary as grounding context.
func BuildPrompt(userMessage string, mode entity.ChatSessionMode, topic *entity.Topic) string {
	if mode == entity.ChatSessionModeTopic && topic != nil {
		return fmt.Sprintf(topicPromptFormat, topic.Title, topic.Summary(), userMessage)
	}
	return userMessage
}

// Generate produces the assistant reply for one turn. A nil topic on a topic
// session falls back to an uncontextualized prompt rather than failing.
func (g *Generator) Generate(ctx context.Context, userMessage string, mode entity.ChatSessionMode, topic *entity.Topic) string {
	prompt := BuildPrompt(userMessage, mode, topic)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		return fmt.Sprintf(fallbackTextFormat, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyResponseText
	}

	return text
}
