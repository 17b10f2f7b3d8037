package brain

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OllamaProvider talks to a local Ollama server through its
// OpenAI-compatible chat endpoint. No API key needed.
type OllamaProvider struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

func NewOllamaProvider(baseURL, model, systemPrompt string) *OllamaProvider {
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = baseURL
	return &OllamaProvider{
		client:       openai.NewClientWithConfig(cfg),
		model:        model,
		systemPrompt: systemPrompt,
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

func (p *OllamaProvider) Ask(ctx context.Context, prompt string, history []Turn) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, 2*len(history)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: p.systemPrompt,
	})
	for _, t := range history {
		msgs = append(msgs,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: t.Prompt},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: t.Response},
		)
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: msgs,
	})
	if err != nil {
		return "", provErr(p.Name(), "chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", provErr(p.Name(), "chat completion", fmt.Errorf("no choices in response"))
	}
	return resp.Choices[0].Message.Content, nil
}
